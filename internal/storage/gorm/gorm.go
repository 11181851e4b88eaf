// Package gormstorage implements the storage.Backend interface on GORM
// with internal queues and a background DB writer goroutine. The postgres
// and sqlite backends build on it.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/starshatter/campaign/internal/database"
	"github.com/starshatter/campaign/internal/logging"
	"github.com/starshatter/campaign/internal/model"
	"github.com/starshatter/campaign/internal/model/convert"
	"github.com/starshatter/campaign/internal/queue"
	"github.com/starshatter/campaign/pkg/core"

	"gorm.io/gorm"
)

// DefaultFlushInterval is how often the writer drains the queues.
const DefaultFlushInterval = 2 * time.Second

// DefaultQueueLimit bounds each write queue while the DB is unreachable.
const DefaultQueueLimit = 100000

var (
	// ErrNoCampaign is returned when ending before StartCampaign.
	ErrNoCampaign = errors.New("no campaign started")
	// ErrNotInitialized is returned when recording before Init.
	ErrNotInitialized = errors.New("storage backend not initialized")
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB            *gorm.DB
	LogManager    *logging.SlogManager
	FlushInterval time.Duration
	QueueLimit    int
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Events    *queue.Queue[model.CampaignEvent]
	Actions   *queue.Queue[model.ActionChange]
	Snapshots *queue.Queue[model.ForceSnapshot]
	Positions *queue.Queue[model.GroupPosition]
}

func newQueues(limit int) *queues {
	return &queues{
		Events:    queue.NewBounded[model.CampaignEvent](limit),
		Actions:   queue.NewBounded[model.ActionChange](limit),
		Snapshots: queue.NewBounded[model.ForceSnapshot](limit),
		Positions: queue.NewBounded[model.GroupPosition](limit),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
// Without a DB it runs in queue-only mode.
type Backend struct {
	deps       Dependencies
	queues     *queues
	campaignID atomic.Uint64
	flushMu    sync.Mutex
	stopChan   chan struct{}
	done       chan struct{}
	log        *slog.Logger
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = DefaultFlushInterval
	}
	if deps.QueueLimit <= 0 {
		deps.QueueLimit = DefaultQueueLimit
	}
	log := slog.Default()
	if deps.LogManager != nil {
		log = deps.LogManager.Component("storage")
	}
	return &Backend{
		deps: deps,
		log:  log,
	}
}

// DB returns the injected database, or nil in queue-only mode.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// SetDB injects the database before Init.
func (b *Backend) SetDB(db *gorm.DB) {
	b.deps.DB = db
}

// Init creates internal queues, runs schema migration, and starts the DB writer goroutine.
func (b *Backend) Init() error {
	b.queues = newQueues(b.deps.QueueLimit)
	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})

	if b.deps.DB == nil {
		close(b.done)
		return nil
	}

	b.log.Info("Migrating schema")
	if err := database.Migrate(b.deps.DB); err != nil {
		close(b.done)
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	go b.writerLoop()
	return nil
}

// Close stops the DB writer goroutine and writes whatever is still queued.
func (b *Backend) Close() error {
	if b.stopChan == nil {
		return nil
	}
	select {
	case <-b.stopChan:
		return nil
	default:
		close(b.stopChan)
	}
	<-b.done
	return b.Flush()
}

// StartCampaign inserts the campaign row and assigns its ID.
func (b *Backend) StartCampaign(c *core.Campaign) error {
	if b.deps.DB == nil {
		return nil
	}

	row := convert.CoreToCampaign(*c)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert new campaign: %w", err)
	}
	c.ID = row.ID
	b.campaignID.Store(uint64(row.ID))
	return nil
}

// SetCampaignID sets the current campaign ID for the DB writer.
func (b *Backend) SetCampaignID(id uint) {
	b.campaignID.Store(uint64(id))
}

// CampaignID returns the campaign rows are currently stamped with.
func (b *Backend) CampaignID() uint {
	return uint(b.campaignID.Load())
}

// EndCampaign flushes the queues and stamps the campaign end time.
func (b *Backend) EndCampaign() error {
	if b.deps.DB == nil {
		return nil
	}
	id := b.CampaignID()
	if id == 0 {
		return ErrNoCampaign
	}
	if err := b.Flush(); err != nil {
		return err
	}
	err := b.deps.DB.Model(&model.Campaign{}).Where("id = ?", id).Update("ended_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("failed to end campaign: %w", err)
	}
	return nil
}

// RecordEvent converts and queues a published event.
func (b *Backend) RecordEvent(e *core.Event) error {
	if b.queues == nil {
		return ErrNotInitialized
	}
	b.push("events", b.queues.Events.Push(convert.CoreToEvent(*e, 0)))
	return nil
}

// RecordAction converts and queues an action status change.
func (b *Backend) RecordAction(a *core.ActionChange) error {
	if b.queues == nil {
		return ErrNotInitialized
	}
	b.push("actions", b.queues.Actions.Push(convert.CoreToActionChange(*a, 0)))
	return nil
}

// RecordForce converts and queues a force snapshot and its group positions.
func (b *Backend) RecordForce(s *core.ForceSnapshot) error {
	if b.queues == nil {
		return ErrNotInitialized
	}
	b.push("snapshots", b.queues.Snapshots.Push(convert.CoreToForceSnapshot(*s, 0)))
	b.push("positions", b.queues.Positions.Push(convert.CoreToGroupPositions(*s, 0)...))
	return nil
}

func (b *Backend) push(name string, dropped int) {
	if dropped > 0 {
		b.log.Warn("Write queue full, dropped oldest rows", "queue", name, "dropped", dropped)
	}
}

// QueueLengths reports the pending rows per queue.
func (b *Backend) QueueLengths() map[string]int {
	if b.queues == nil {
		return nil
	}
	return map[string]int{
		"events":    b.queues.Events.Len(),
		"actions":   b.queues.Actions.Len(),
		"snapshots": b.queues.Snapshots.Len(),
		"positions": b.queues.Positions.Len(),
	}
}

// Flush writes every queue to the database. Rows wait in their queue until
// a campaign has been started, and failed batches stay queued.
func (b *Backend) Flush() error {
	id := b.CampaignID()
	if b.deps.DB == nil || b.queues == nil || id == 0 {
		return nil
	}
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	return errors.Join(
		writeQueue(b.deps.DB, b.queues.Events, "events", b.log, func(items []model.CampaignEvent) {
			for i := range items {
				items[i].CampaignID = id
			}
		}),
		writeQueue(b.deps.DB, b.queues.Actions, "action changes", b.log, func(items []model.ActionChange) {
			for i := range items {
				items[i].CampaignID = id
			}
		}),
		writeQueue(b.deps.DB, b.queues.Snapshots, "force snapshots", b.log, func(items []model.ForceSnapshot) {
			for i := range items {
				items[i].CampaignID = id
			}
		}),
		writeQueue(b.deps.DB, b.queues.Positions, "group positions", b.log, func(items []model.GroupPosition) {
			for i := range items {
				items[i].CampaignID = id
			}
		}),
	)
}

// writeQueue writes all items from a queue to the database in a transaction.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log *slog.Logger, prepare func([]T)) error {
	if q.Empty() {
		return nil
	}
	items := q.Drain()
	if prepare != nil {
		prepare(items)
	}
	tx := db.Begin()
	if err := tx.Create(&items).Error; err != nil {
		log.Error("Error creating rows", "table", name, "error", err)
		tx.Rollback()
		q.Requeue(items...)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tx.Commit().Error; err != nil {
		q.Requeue(items...)
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}

func (b *Backend) writerLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			if err := b.Flush(); err != nil {
				b.log.Error("DB write failed", "error", err)
				continue
			}
			b.log.Debug("Flushed write queues", "duration", time.Since(start))
		}
	}
}
