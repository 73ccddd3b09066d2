package refresher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	jobTracer          = otel.Tracer("finbridge/refresher")
	jobMeter           = otel.Meter("finbridge/refresher")
	jobDuration, _     = jobMeter.Float64Histogram("refresher.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("refresher.job.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("refresher.job.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

const jobTimeout = 60 * time.Second

// Config holds the knobs for the periodic refresher.
type Config struct {
	Interval     time.Duration
	WorkerCount  int
	QueueSize    int
	RunOnStartup bool
}

// Refresher runs a fixed set of jobs on a worker pool at a configured
// interval. Jobs are queued on a buffered channel and picked up by
// workerCount goroutines; a full queue drops the job rather than blocking
// the tick loop.
type Refresher struct {
	cfg    Config
	jobSet []Job
	logger *zap.Logger

	jobs   chan Job
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func New(cfg Config, jobSet []Job, logger *zap.Logger) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresher{
		cfg:    cfg,
		jobSet: jobSet,
		logger: logger,
		jobs:   make(chan Job, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the worker goroutines and the tick loop.
func (r *Refresher) Start() {
	r.logger.Info("starting refresher",
		zap.Int("workers", r.cfg.WorkerCount),
		zap.Duration("interval", r.cfg.Interval))

	for i := 1; i <= r.cfg.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.loop()
}

func (r *Refresher) loop() {
	defer r.wg.Done()

	if r.cfg.RunOnStartup {
		r.submitAll()
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.submitAll()
		}
	}
}

func (r *Refresher) submitAll() {
	submitted := 0
	for _, job := range r.jobSet {
		if err := r.Submit(job); err != nil {
			r.logger.Warn("failed to submit job",
				zap.String("job", job.Description()), zap.Error(err))
			continue
		}
		submitted++
	}
	r.logger.Debug("submitted jobs", zap.Int("count", submitted))
}

// Submit queues a single job. Non-blocking: a full queue returns an error
// and the job is dropped.
func (r *Refresher) Submit(job Job) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	select {
	case r.jobs <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1)
		return fmt.Errorf("job queue full, dropping %s", job.Description())
	}
}

func (r *Refresher) worker(id int) {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case job, ok := <-r.jobs:
			if !ok {
				return
			}
			r.processJob(id, job)
		}
	}
}

func (r *Refresher) processJob(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(r.ctx, jobTimeout)
	defer cancel()

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
		),
	)
	defer span.End()

	start := time.Now()

	if err := job.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		jobDuration.Record(ctx, time.Since(start).Seconds())
		r.logger.Error("job failed",
			zap.Int("worker", workerID),
			zap.String("job", job.Description()),
			zap.Error(err))
		return
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	jobDuration.Record(ctx, time.Since(start).Seconds())
	r.logger.Debug("job completed",
		zap.Int("worker", workerID),
		zap.String("job", job.Description()),
		zap.Duration("took", time.Since(start)))
}

// Shutdown stops the tick loop and the workers. In-flight jobs observe the
// cancelled context through their execution timeout; queued jobs that no
// worker picked up are discarded.
func (r *Refresher) Shutdown() {
	r.logger.Info("refresher: initiating shutdown")
	r.cancel()
	r.wg.Wait()
	r.logger.Info("refresher: shutdown complete")
}
