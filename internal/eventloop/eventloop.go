// Package eventloop implements the microtask queue: a FIFO of deferred
// jobs (promise reactions, async-function continuations) drained to a
// fixed point before any synchronous caller observes a return, with
// jobs enqueued mid-drain running in the same pass.
package eventloop

import (
	"github.com/sirupsen/logrus"
)

// Job is one deferred unit of work.
type Job func()

// Queue is a single interpreter instance's microtask queue. It is not
// safe for concurrent use from multiple goroutines without external
// synchronization — the interpreter is single-threaded and cooperative,
// so a Queue belongs to exactly one logical thread of execution (though
// generator/async coroutines internally use goroutines, they hand
// control back to the queue's owner goroutine at every suspension
// point; see internal/vm).
type Queue struct {
	jobs []Job
	logger logrus.FieldLogger
}

// New creates an empty queue. A nil logger falls back to a discarding
// logger, matching how go.k6.io/k6's lib.State always carries a non-nil
// logrus.FieldLogger.
func New(logger logrus.FieldLogger) *Queue {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(discard{})
		logger = l
	}
	return &Queue{logger: logger}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Enqueue appends a job to the end of the FIFO. Calling Enqueue from
// within a job currently being run by Drain is supported: the new job
// runs in the same drain pass.
func (q *Queue) Enqueue(job Job) {
	q.jobs = append(q.jobs, job)
}

// Len reports the number of jobs currently queued.
func (q *Queue) Len() int { return len(q.jobs) }

// Drain runs every queued job in FIFO order, including jobs newly
// enqueued by jobs already running, until the queue is empty: drained
// to completion before any synchronous caller sees a return. A job
// that panics is logged and the panic is allowed to propagate no
// further than this call, since a microtask's failure must not crash
// the evaluator thread; the panic value is recovered and logged at
// error level.
func (q *Queue) Drain() {
	for len(q.jobs) > 0 {
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.runJob(job)
	}
}

func (q *Queue) runJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.WithField("panic", r).Error("microtask panicked")
		}
	}()
	job()
}

// Empty reports whether the queue currently holds no jobs; a synchronous
// eval return requires this to be true.
func (q *Queue) Empty() bool { return len(q.jobs) == 0 }
