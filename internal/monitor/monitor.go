// Package monitor reports the health of a running campaign: its clock, the
// size of its event log and the backlog of the journal write queues.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/starshatter/campaign/internal/combat"
	"github.com/starshatter/campaign/internal/logging"
	"github.com/starshatter/campaign/internal/planner"
)

// DefaultInterval is used when Dependencies.Interval is not set.
const DefaultInterval = time.Minute

const instrumentationName = "github.com/starshatter/campaign/internal/monitor"

// ErrRunning is returned by Start when the monitor is already running.
var ErrRunning = errors.New("monitor already running")

// Source is the campaign being watched.
type Source interface {
	Name() string
	Time() int64
	Events() []*combat.Event
	MissionRequests() []*planner.MissionRequest
}

// QueueReporter is implemented by storage backends that buffer writes.
type QueueReporter interface {
	QueueLengths() map[string]int
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Campaign   Source
	Queues     QueueReporter // optional
	LogManager *logging.SlogManager
	Meter      metric.Meter // global meter when nil
	Interval   time.Duration
	Now        func() time.Time
}

// Status is one health sample.
type Status struct {
	Time            time.Time      `json:"time"`
	Campaign        string         `json:"campaign"`
	CampaignTime    int64          `json:"campaignTime"`
	Events          int            `json:"events"`
	MissionRequests int            `json:"missionRequests"`
	WriteQueues     map[string]int `json:"writeQueues,omitempty"`
}

// Service samples the campaign on an interval, logs each sample and
// exposes the latest one as OTel gauges.
type Service struct {
	deps Dependencies
	log  *slog.Logger

	mu           sync.RWMutex
	running      bool
	stop         chan struct{}
	done         chan struct{}
	registration metric.Registration
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Meter == nil {
		deps.Meter = otel.Meter(instrumentationName)
	}
	log := slog.Default()
	if deps.LogManager != nil {
		log = deps.LogManager.Component("monitor")
	}
	return &Service{deps: deps, log: log}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// GetStatus samples the campaign now.
func (s *Service) GetStatus() Status {
	c := s.deps.Campaign
	st := Status{
		Time:            s.deps.Now(),
		Campaign:        c.Name(),
		CampaignTime:    c.Time(),
		Events:          len(c.Events()),
		MissionRequests: len(c.MissionRequests()),
	}
	if s.deps.Queues != nil {
		st.WriteQueues = s.deps.Queues.QueueLengths()
	}
	return st
}

// Report logs one status sample.
func (s *Service) Report() Status {
	st := s.GetStatus()
	attrs := []any{
		"campaign", st.Campaign,
		"campaignTime", st.CampaignTime,
		"events", st.Events,
		"missionRequests", st.MissionRequests,
	}
	for _, name := range slices.Sorted(maps.Keys(st.WriteQueues)) {
		attrs = append(attrs, "queue."+name, st.WriteQueues[name])
	}
	s.log.Info("Campaign status", attrs...)
	return st
}

// Start registers the gauges and begins periodic reporting until ctx is
// done or Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRunning
	}

	reg, err := s.registerGauges()
	if err != nil {
		return err
	}
	s.registration = reg
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx, s.stop, s.done)
	s.log.Debug("Status monitor started", "interval", s.deps.Interval)
	return nil
}

// Stop ends reporting and unregisters the gauges. It is safe to call when
// the monitor is not running.
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	close(s.stop)
	done, reg := s.done, s.registration
	s.running = false
	s.registration = nil
	s.mu.Unlock()

	<-done
	return reg.Unregister()
}

func (s *Service) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.Report()
		}
	}
}

func (s *Service) registerGauges() (metric.Registration, error) {
	m := s.deps.Meter
	clock, err := m.Int64ObservableGauge("campaign.time",
		metric.WithDescription("Campaign clock in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	events, err := m.Int64ObservableGauge("campaign.events",
		metric.WithDescription("Combat events in the campaign log"))
	if err != nil {
		return nil, err
	}
	queues, err := m.Int64ObservableGauge("storage.queue.length",
		metric.WithDescription("Journal rows waiting to be written"))
	if err != nil {
		return nil, err
	}

	return m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		st := s.GetStatus()
		campaign := metric.WithAttributes(attribute.String("campaign", st.Campaign))
		o.ObserveInt64(clock, st.CampaignTime, campaign)
		o.ObserveInt64(events, int64(st.Events), campaign)
		for name, n := range st.WriteQueues {
			o.ObserveInt64(queues, int64(n), metric.WithAttributes(attribute.String("queue", name)))
		}
		return nil
	}, clock, events, queues)
}
