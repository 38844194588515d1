package ingest

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 64
)

// Job is one file for the worker pool to ingest.
type Job struct {
	Path string
}

// PoolConfig is the configuration options for the worker pool.
type PoolConfig struct {
	// Ingestor processes the queued files.
	Ingestor *Ingestor

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel.
	QueueSize uint

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Pool ingests files asynchronously so watch-mode file events never block
// on storage.
type Pool struct {
	ingestor *Ingestor
	queue    chan Job
	wg       sync.WaitGroup
	logger   *zap.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c PoolConfig) *Pool {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}
	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		ingestor: c.Ingestor,
		queue:    make(chan Job, c.QueueSize),
		logger:   logger,
	}

	p.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go p.worker(i)
	}

	return p
}

// Enqueue submits a file for ingestion. Returns true if enqueued, false if
// the queue is full, resulting in the job being dropped.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("ingest job queued", zap.String("path", job.Path))
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			zap.String("path", job.Path),
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker continuously pulls jobs off the queue.
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("ingest worker started", zap.Uint("worker_id", id))

	for job := range p.queue {
		if err := p.ingestor.IngestFile(context.Background(), job.Path); err != nil {
			p.logger.Warn("async ingest failed",
				zap.String("path", job.Path),
				zap.Error(err),
			)
		}
	}

	p.logger.Debug("ingest worker stopped", zap.Uint("worker_id", id))
}
