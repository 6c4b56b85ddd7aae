package eventloop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kodjodevf/js-interpreter-sub006/internal/eventloop"
)

func TestDrainRunsJobsInFIFOOrder(t *testing.T) {
	q := eventloop.New(nil)
	var order []int

	q.Enqueue(func() { order = append(order, 1) })
	q.Enqueue(func() { order = append(order, 2) })
	q.Enqueue(func() { order = append(order, 3) })

	q.Drain()
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.True(t, q.Empty())
}

func TestDrainRunsJobsEnqueuedMidDrain(t *testing.T) {
	q := eventloop.New(nil)
	var order []string

	q.Enqueue(func() {
		order = append(order, "first")
		q.Enqueue(func() { order = append(order, "nested") })
	})

	q.Drain()
	assert.Equal(t, []string{"first", "nested"}, order)
}

func TestDrainRecoversPanickingJob(t *testing.T) {
	q := eventloop.New(nil)
	var ran bool

	q.Enqueue(func() { panic("boom") })
	q.Enqueue(func() { ran = true })

	assert.NotPanics(t, func() { q.Drain() })
	assert.True(t, ran, "a later job must still run after an earlier one panics")
}

func TestLenReflectsQueueDepth(t *testing.T) {
	q := eventloop.New(nil)
	assert.Equal(t, 0, q.Len())
	q.Enqueue(func() {})
	q.Enqueue(func() {})
	assert.Equal(t, 2, q.Len())
}
