package app

import "context"

// Pending is the eventual result of an asynchronous store operation.
// It resolves exactly once, after the outcome has been applied to the collection.
type Pending[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan struct{})}
}

// failedPending returns a Pending that is already resolved with err.
func failedPending[T any](err error) *Pending[T] {
	p := newPending[T]()
	p.resolve(*new(T), err)

	return p
}

func (p *Pending[T]) resolve(value T, err error) {
	p.value, p.err = value, err
	close(p.done)
}

// Done is closed once the operation has resolved.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the operation resolves or ctx is done.
// Giving up on ctx does not cancel the operation; it still resolves later.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
