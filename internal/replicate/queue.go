package replicate

import (
	"context"
	"sync"
	"time"

	"warescan-service/internal/model"
	"warescan-service/internal/scope"
	"warescan-service/prometheus"

	"go.uber.org/zap"
)

type jobKind string

const (
	jobOne       jobKind = "one"
	jobBatch     jobKind = "batch"
	jobDelete    jobKind = "delete"
	jobDeleteAll jobKind = "delete_all"
)

type job struct {
	kind     jobKind
	scope    scope.ID
	packages []model.Package
	id       string
}

// Options tunes queue capacity and retry behavior.
type Options struct {
	QueueSize    int
	MaxRetries   int
	RetryBackoff time.Duration
}

// Queue is a bounded fire-and-forget replication queue with a single worker.
// Enqueues never block: when the queue is full the job is dropped and
// counted, keeping the local write path unaffected by a slow or dead remote.
type Queue struct {
	target  Target
	log     *zap.Logger
	jobs    chan job
	opts    Options
	wg      sync.WaitGroup
	started bool
}

// NewQueue builds a queue for the given target. Start must be called before
// jobs are delivered.
func NewQueue(target Target, log *zap.Logger, opts Options) *Queue {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = time.Second
	}
	return &Queue{
		target: target,
		log:    log,
		jobs:   make(chan job, opts.QueueSize),
		opts:   opts,
	}
}

// Start launches the worker goroutine.
func (q *Queue) Start() {
	if q.started {
		return
	}
	q.started = true
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for j := range q.jobs {
			q.process(j)
		}
	}()
}

// Stop drains outstanding jobs and stops the worker. No enqueue may happen
// after Stop.
func (q *Queue) Stop() {
	if !q.started {
		return
	}
	close(q.jobs)
	q.wg.Wait()
	q.started = false
}

// EnqueueOne implements Replicator.
func (q *Queue) EnqueueOne(sc scope.ID, pkg model.Package) {
	q.enqueue(job{kind: jobOne, scope: sc, packages: []model.Package{pkg}})
}

// EnqueueBatch implements Replicator.
func (q *Queue) EnqueueBatch(sc scope.ID, pkgs []model.Package) {
	if len(pkgs) == 0 {
		return
	}
	q.enqueue(job{kind: jobBatch, scope: sc, packages: pkgs})
}

// EnqueueDelete implements Replicator.
func (q *Queue) EnqueueDelete(sc scope.ID, id string) {
	q.enqueue(job{kind: jobDelete, scope: sc, id: id})
}

// EnqueueDeleteAll implements Replicator.
func (q *Queue) EnqueueDeleteAll(sc scope.ID) {
	q.enqueue(job{kind: jobDeleteAll, scope: sc})
}

func (q *Queue) enqueue(j job) {
	select {
	case q.jobs <- j:
	default:
		prometheus.RecordReplicationDrop()
		q.log.Warn("replication queue full, dropping job",
			zap.String("kind", string(j.kind)),
			zap.Uint("scope", uint(j.scope)))
	}
}

func (q *Queue) process(j job) {
	var err error
	for attempt := 0; attempt <= q.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(q.opts.RetryBackoff)
			prometheus.RecordReplicationJob(string(j.kind), "retry")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = q.deliver(ctx, j)
		cancel()
		if err == nil {
			prometheus.RecordReplicationJob(string(j.kind), "success")
			return
		}
	}

	// Local-first policy: the failure stops here, the caller already moved on.
	prometheus.RecordReplicationJob(string(j.kind), "failure")
	q.log.Error("replication failed, local state remains authoritative",
		zap.String("kind", string(j.kind)),
		zap.Uint("scope", uint(j.scope)),
		zap.Int("attempts", q.opts.MaxRetries+1),
		zap.Error(err))
}

func (q *Queue) deliver(ctx context.Context, j job) error {
	switch j.kind {
	case jobOne:
		return q.target.ReplicateOne(ctx, j.scope, j.packages[0])
	case jobBatch:
		return q.target.ReplicateBatch(ctx, j.scope, j.packages)
	case jobDelete:
		return q.target.ReplicateDelete(ctx, j.scope, j.id)
	case jobDeleteAll:
		return q.target.ReplicateDeleteAll(ctx, j.scope)
	}
	return nil
}
