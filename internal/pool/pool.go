// Package pool provides the bounded worker pool the Controller dispatches
// frontier items onto. It is a thin wrapper over errgroup.SetLimit, scoped
// to one dispatch round: the Controller builds a fresh Pool per round
// rather than reusing one across Wait calls, since errgroup.Group.Wait
// cancels the context bundled with the group (created by WithContext)
// unconditionally, even on success — a Pool built around a single
// long-lived errgroup context would abort every round after the first.
package pool

import "golang.org/x/sync/errgroup"

// Pool runs tasks with at most Limit running concurrently.
type Pool struct {
	group *errgroup.Group
	limit int
}

// New builds a Pool bounded to limit concurrent tasks.
func New(limit int) *Pool {
	g := &errgroup.Group{}
	g.SetLimit(limit)
	return &Pool{group: g, limit: limit}
}

// Go schedules fn. It blocks if the pool is already at its concurrency
// limit, the same backpressure errgroup.SetLimit gives BatchProcessor.
func (p *Pool) Go(fn func() error) {
	p.group.Go(fn)
}

// Wait blocks until every task submitted so far has returned, and
// reports the first non-nil error any of them returned.
func (p *Pool) Wait() error {
	return p.group.Wait()
}

// Limit returns the pool's configured concurrency bound.
func (p *Pool) Limit() int {
	return p.limit
}
