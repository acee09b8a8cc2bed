// Package ring provides a fixed-capacity circular queue usable from both
// interrupt and task context.
package ring

import (
	"errors"

	"github.com/robotalks/canclock/pkg/irq"
)

// ErrInvalidParam indicates the queue storage is missing.
var ErrInvalidParam = errors.New("invalid queue parameter")

// Queue is a FIFO of T over caller-owned storage. The storage is never
// reallocated. Head and tail are equal both when empty and when full, so the
// explicit flags are authoritative.
//
// Plain operations are for single-context use. The ISR variants mask the given
// interrupt source around the operation.
type Queue[T any] struct {
	// IRQ masks interrupts for the ISR variants, irq.CPU when nil.
	IRQ irq.Masker

	buf   []T
	head  int
	tail  int
	empty bool
	full  bool
}

// New creates a Queue over storage.
func New[T any](storage []T) (*Queue[T], error) {
	q := &Queue[T]{}
	if err := q.Init(storage); err != nil {
		return nil, err
	}
	return q, nil
}

// Init resets the queue to use storage, its length is the capacity.
func (q *Queue[T]) Init(storage []T) error {
	if len(storage) == 0 {
		return ErrInvalidParam
	}
	q.buf = storage
	q.Flush()
	return nil
}

// Cap returns the capacity.
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	switch {
	case q.full:
		return len(q.buf)
	case q.empty:
		return 0
	case q.head > q.tail:
		return q.head - q.tail
	default:
		return len(q.buf) - q.tail + q.head
	}
}

// Write appends v, false if the queue is full or not initialized.
func (q *Queue[T]) Write(v T) bool {
	if q.full || len(q.buf) == 0 {
		return false
	}
	q.buf[q.head] = v
	q.head = (q.head + 1) % len(q.buf)
	q.empty = false
	q.full = q.head == q.tail
	return true
}

// Read removes the oldest element, false if the queue is empty.
func (q *Queue[T]) Read() (v T, ok bool) {
	if q.empty || len(q.buf) == 0 {
		return
	}
	v = q.buf[q.tail]
	var zero T
	q.buf[q.tail] = zero
	q.tail = (q.tail + 1) % len(q.buf)
	q.full = false
	q.empty = q.tail == q.head
	return v, true
}

// IsEmpty reports whether nothing is queued.
func (q *Queue[T]) IsEmpty() bool {
	if !q.full && q.head == q.tail {
		q.empty = true
	}
	return q.empty
}

// Flush drops all elements.
func (q *Queue[T]) Flush() {
	q.head, q.tail = 0, 0
	q.empty, q.full = true, false
}

// WriteISR is Write with src masked.
func (q *Queue[T]) WriteISR(v T, src irq.Source) (ok bool) {
	irq.Guard(q.IRQ, src, func() { ok = q.Write(v) })
	return
}

// ReadISR is Read with src masked.
func (q *Queue[T]) ReadISR(src irq.Source) (v T, ok bool) {
	irq.Guard(q.IRQ, src, func() { v, ok = q.Read() })
	return
}

// IsEmptyISR is IsEmpty with src masked.
func (q *Queue[T]) IsEmptyISR(src irq.Source) (empty bool) {
	irq.Guard(q.IRQ, src, func() { empty = q.IsEmpty() })
	return
}

// FlushISR is Flush with src masked.
func (q *Queue[T]) FlushISR(src irq.Source) {
	irq.Guard(q.IRQ, src, q.Flush)
}
