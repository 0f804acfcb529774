// internal/historian/historian.go is an asynchronous service that pops game
// actions from the Redis queue and persists them to PostgreSQL in batches.
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/cache"
	"github.com/jason-s-yu/crazygrid/internal/models"
	"github.com/sirupsen/logrus"
)

// PopFunc blocks up to timeout for the next queued action. It returns
// (nil, nil) when nothing arrived.
type PopFunc func(ctx context.Context, timeout time.Duration) (*models.GameActionRecord, error)

// Sink stores flushed batches and abandons idle games.
type Sink interface {
	InsertGameActions(ctx context.Context, records []models.GameActionRecord) error
	MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) error
}

// Options configures a Service. Zero values fall back to the defaults below.
type Options struct {
	BatchSize    int
	FlushEvery   time.Duration
	AbandonAfter time.Duration // inactivity until an in-progress game is abandoned
	CheckEvery   time.Duration // how often idle games are looked for
	PopTimeout   time.Duration

	Pop    PopFunc // defaults to cache.PopGameAction
	Sink   Sink
	Logger logrus.FieldLogger
	Now    func() time.Time
}

// Service batches action records and tracks per-game activity.
type Service struct {
	opts Options
	log  logrus.FieldLogger

	batchMu sync.Mutex
	batch   []models.GameActionRecord

	activityMu   sync.Mutex
	lastActivity map[uuid.UUID]time.Time
}

// New builds a Service around sink.
func New(opts Options) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = 500 * time.Millisecond
	}
	if opts.AbandonAfter <= 0 {
		opts.AbandonAfter = 30 * time.Minute
	}
	if opts.CheckEvery <= 0 {
		opts.CheckEvery = time.Minute
	}
	if opts.PopTimeout <= 0 {
		opts.PopTimeout = time.Second
	}
	if opts.Pop == nil {
		opts.Pop = cache.PopGameAction
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		opts:         opts,
		log:          opts.Logger.WithField("component", "historian"),
		batch:        make([]models.GameActionRecord, 0, opts.BatchSize),
		lastActivity: make(map[uuid.UUID]time.Time),
	}
}

// Run consumes the queue until ctx is cancelled, then flushes what is left.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.inactivityLoop(ctx)
	}()

	s.log.Info("historian started")
	s.readLoop(ctx)
	wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Flush(flushCtx)
	s.log.Info("historian stopped")
}

func (s *Service) readLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.FlushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			s.Flush(ctx)

		default:
			rec, err := s.opts.Pop(ctx, s.opts.PopTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.WithError(err).Warn("failed to pop game action")
				continue
			}
			if rec == nil {
				continue
			}
			s.Add(ctx, *rec)
		}
	}
}

// Add tracks the record's game and queues it, flushing once the batch is full.
func (s *Service) Add(ctx context.Context, rec models.GameActionRecord) {
	s.activityMu.Lock()
	if rec.ActionType == models.ActionGameEnd {
		delete(s.lastActivity, rec.GameID)
	} else {
		s.lastActivity[rec.GameID] = s.opts.Now()
	}
	s.activityMu.Unlock()

	s.batchMu.Lock()
	s.batch = append(s.batch, rec)
	full := len(s.batch) >= s.opts.BatchSize
	s.batchMu.Unlock()

	if full {
		s.Flush(ctx)
	}
}

// Flush writes the pending batch in one transaction. A failed batch is dropped.
func (s *Service) Flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	batch := make([]models.GameActionRecord, len(s.batch))
	copy(batch, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.opts.Sink.InsertGameActions(ctx, batch); err != nil {
		s.log.WithError(err).WithField("count", len(batch)).Error("failed to flush game actions")
		return
	}
	s.log.WithField("count", len(batch)).Debug("flushed game actions")
}

// Pending returns the number of queued, unflushed records.
func (s *Service) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch)
}

func (s *Service) inactivityLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.CheckEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.AbandonIdle(ctx)
		}
	}
}

// AbandonIdle marks every game without activity for AbandonAfter as abandoned
// and stops tracking it.
func (s *Service) AbandonIdle(ctx context.Context) []uuid.UUID {
	now := s.opts.Now()
	var idle []uuid.UUID

	s.activityMu.Lock()
	for id, last := range s.lastActivity {
		if now.Sub(last) > s.opts.AbandonAfter {
			idle = append(idle, id)
			delete(s.lastActivity, id)
		}
	}
	s.activityMu.Unlock()

	for _, id := range idle {
		if err := s.opts.Sink.MarkGameAbandoned(ctx, id); err != nil {
			s.log.WithError(err).WithField("game", id).Error("failed to mark game abandoned")
			continue
		}
		s.log.WithField("game", id).Info("marked game abandoned due to inactivity")
	}
	return idle
}
