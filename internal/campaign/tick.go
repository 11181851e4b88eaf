package campaign

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/starshatter/campaign/internal/planner"
	"github.com/starshatter/campaign/pkg/core"
)

// Start opens the campaign in the journal and records the opening force
// snapshot.
func (c *Campaign) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.record = &core.Campaign{
		Name:        c.name,
		Seed:        c.seed,
		TickSeconds: c.tickSeconds,
		StartedAt:   c.deps.Now(),
	}
	for _, cmb := range c.combatants {
		c.record.Combatants = append(c.record.Combatants, cmb.Name)
	}
	if c.deps.Storage != nil {
		if err := c.deps.Storage.StartCampaign(c.record); err != nil {
			return fmt.Errorf("start campaign journal: %w", err)
		}
	}
	c.log.Info("campaign started",
		"combatants", len(c.combatants),
		"actions", len(c.actionList),
		"tickSeconds", c.tickSeconds)
	return c.recordForces()
}

// Tick advances the clock by seconds and runs one frame of every planner:
// Strategic, Assignment, then Mission beside Movement, then Event. A
// planner that panics is logged and skipped; the tick always completes.
// The returned error only reports journaling problems or cancellation.
func (c *Campaign) Tick(ctx context.Context, seconds int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if seconds < 0 {
		seconds = 0
	}
	now := c.clock.Add(seconds)

	c.runStage(ctx, c.pipeline.Strategic)
	c.runStage(ctx, c.pipeline.Assignment)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range []planner.Planner{c.pipeline.Mission, c.pipeline.Movement} {
		g.Go(func() error { return c.runStage(gctx, p) })
	}
	_ = g.Wait()

	c.runStage(ctx, c.pipeline.Event)

	c.log.Debug("tick complete", "time", now, "assignments", len(c.Assignments()))
	return c.journal()
}

// Run ticks the campaign n times with the configured step, stopping early
// when ctx is done.
func (c *Campaign) Run(ctx context.Context, n int) error {
	var errs []error
	for i := 0; i < n; i++ {
		if err := c.Tick(ctx, c.tickSeconds); err != nil {
			if ctx.Err() != nil {
				return errors.Join(append(errs, err)...)
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close ends the campaign journal and removes the forces from the roster.
func (c *Campaign) Close() error {
	var err error
	if c.deps.Storage != nil && c.record != nil {
		err = c.deps.Storage.EndCampaign()
		c.record = nil
	}
	if c.deps.Roster != nil {
		for _, cmb := range c.combatants {
			c.deps.Roster.UnregisterForce(cmb.Name)
		}
	}
	c.log.Info("campaign closed", "time", c.Time(), "events", len(c.Events()))
	return err
}

func (c *Campaign) runStage(ctx context.Context, p planner.Planner) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s planner: %v", p.Name(), r)
			c.log.Error("planner frame aborted", "planner", p.Name(), "error", err)
		}
	}()
	p.ExecFrame(ctx)
	return nil
}
