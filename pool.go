package qnet

import (
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Pool holds a fixed set of Inferers so that several goroutines can run
// inference at once. A gorgonia VM is single threaded; the pool hands each
// caller a VM of its own for the duration of the call.
type Pool struct {
	free chan Inferer
	all  []Inferer
	done chan struct{}

	closeOnce sync.Once
}

// NewPool builds size Inferers with the given factory. On failure the
// Inferers built so far are closed.
func NewPool(size int, factory func() (Inferer, error)) (*Pool, error) {
	p := &Pool{
		free: make(chan Inferer, size),
		done: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		inf, err := factory()
		if err != nil {
			p.Close()
			return nil, err
		}
		p.all = append(p.all, inf)
		p.free <- inf
	}
	return p, nil
}

// Infer borrows an Inferer, runs it, and returns it to the pool. A closed
// pool returns an error.
func (p *Pool) Infer(obs []float32) ([]float32, error) {
	select {
	case <-p.done:
		return nil, errors.New("pool is closed")
	default:
	}
	select {
	case <-p.done:
		return nil, errors.New("pool is closed")
	case inf := <-p.free:
		qvals, err := inf.Infer(obs)
		p.free <- inf
		return qvals, err
	}
}

// Size returns the number of Inferers held.
func (p *Pool) Size() int { return len(p.all) }

// Close closes every Inferer in the pool. It is safe to call more than once.
func (p *Pool) Close() error {
	var errs error
	p.closeOnce.Do(func() {
		close(p.done)
		for _, inf := range p.all {
			if err := inf.Close(); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	})
	return errs
}
