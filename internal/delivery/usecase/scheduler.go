package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	deliveryService "github.com/allisson/coursehook/internal/delivery/service"
	apperrors "github.com/allisson/coursehook/internal/errors"
	eventDomain "github.com/allisson/coursehook/internal/event/domain"
	eventUseCase "github.com/allisson/coursehook/internal/event/usecase"
	"github.com/allisson/coursehook/internal/metrics"
)

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	Interval    time.Duration
	BatchSize   int
	Concurrency int
}

// coursePartition is one course's share of a tick, in creation order.
type coursePartition struct {
	courseID string
	events   []*eventDomain.Event
}

// scheduler implements Scheduler.
type scheduler struct {
	config       SchedulerConfig
	eventUseCase eventUseCase.EventUseCase
	dispatcher   Dispatcher
	guard        deliveryService.InflightGuard
	sem          *semaphore.Weighted
	wg           sync.WaitGroup
	metrics      metrics.BusinessMetrics
	logger       *slog.Logger
}

// Start runs Tick every Interval until ctx is cancelled.
func (s *scheduler) Start(ctx context.Context) error {
	s.logger.Info("starting delivery scheduler",
		slog.Duration("interval", s.config.Interval),
		slog.Int("batch_size", s.config.BatchSize),
		slog.Int("concurrency", s.config.Concurrency),
	)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping delivery scheduler, waiting for in-flight dispatches")
			s.Wait()
			return ctx.Err()
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error("delivery tick failed", slog.Any("error", err))
			}
		}
	}
}

// Tick fetches one batch of pending events and launches a dispatch per course.
// Courses already in flight, or over the concurrency cap, wait for a later tick.
func (s *scheduler) Tick(ctx context.Context) error {
	start := time.Now()
	err := s.tick(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "delivery", "tick", status)
	s.metrics.RecordDuration(ctx, "delivery", "tick", time.Since(start), status)

	return err
}

func (s *scheduler) tick(ctx context.Context) error {
	events, err := s.eventUseCase.PendingEvents(ctx, s.config.BatchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	launched := 0
	for _, partition := range partitionByCourse(events) {
		if !s.sem.TryAcquire(1) {
			s.logger.Debug("concurrency limit reached, deferring course",
				slog.String("course_id", partition.courseID),
			)
			continue
		}

		acquired, err := s.guard.TryAcquire(ctx, partition.courseID)
		if err != nil {
			s.sem.Release(1)
			s.logger.Warn("failed to acquire in-flight lock",
				slog.String("course_id", partition.courseID),
				slog.Any("error", err),
			)
			continue
		}
		if !acquired {
			s.sem.Release(1)
			s.logger.Debug("course already in flight, deferring",
				slog.String("course_id", partition.courseID),
			)
			continue
		}

		s.wg.Add(1)
		go s.run(ctx, partition)
		launched++
	}

	s.logger.Debug("delivery tick",
		slog.Int("events", len(events)),
		slog.Int("dispatches", launched),
	)
	return nil
}

func (s *scheduler) run(ctx context.Context, partition coursePartition) {
	defer s.wg.Done()
	defer s.sem.Release(1)
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), partition.courseID); err != nil {
			s.logger.Warn("failed to release in-flight lock",
				slog.String("course_id", partition.courseID),
				slog.Any("error", err),
			)
		}
	}()

	events, err := s.current(ctx, partition.events)
	if err != nil {
		s.logger.Error("failed to reload events before dispatch",
			slog.String("course_id", partition.courseID),
			slog.Any("error", err),
		)
		return
	}
	if len(events) == 0 {
		s.logger.Debug("events settled by an earlier dispatch, skipping course",
			slog.String("course_id", partition.courseID),
		)
		return
	}

	if err := s.dispatcher.Dispatch(ctx, partition.courseID, events); err != nil {
		s.logger.Error("dispatch failed",
			slog.String("course_id", partition.courseID),
			slog.Any("error", err),
		)
	}
}

// current re-reads events once the course guard is held. The tick read them before
// the guard was taken, so a dispatch finishing in between may already have delivered
// or abandoned some; only events still eligible are kept, in their original order.
func (s *scheduler) current(ctx context.Context, events []*eventDomain.Event) ([]*eventDomain.Event, error) {
	eligible := make([]*eventDomain.Event, 0, len(events))
	for _, event := range events {
		latest, err := s.eventUseCase.Get(ctx, event.ID)
		if apperrors.Is(err, eventDomain.ErrEventNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if latest.IsEligible() {
			eligible = append(eligible, latest)
		}
	}
	return eligible, nil
}

// Wait blocks until every dispatch launched by earlier ticks has finished.
func (s *scheduler) Wait() {
	s.wg.Wait()
}

// partitionByCourse groups events by course. Courses keep their first-seen order and
// events keep their order within a course.
func partitionByCourse(events []*eventDomain.Event) []coursePartition {
	index := make(map[string]int)
	partitions := make([]coursePartition, 0)

	for _, event := range events {
		i, ok := index[event.CourseID]
		if !ok {
			i = len(partitions)
			index[event.CourseID] = i
			partitions = append(partitions, coursePartition{courseID: event.CourseID})
		}
		partitions[i].events = append(partitions[i].events, event)
	}
	return partitions
}

// NewScheduler creates a Scheduler.
func NewScheduler(
	config SchedulerConfig,
	eventUseCase eventUseCase.EventUseCase,
	dispatcher Dispatcher,
	guard deliveryService.InflightGuard,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) Scheduler {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &scheduler{
		config:       config,
		eventUseCase: eventUseCase,
		dispatcher:   dispatcher,
		guard:        guard,
		sem:          semaphore.NewWeighted(int64(config.Concurrency)),
		metrics:      businessMetrics,
		logger:       logger,
	}
}
