package qnet

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type dummyInferer struct {
	outputSize int
}

func (d dummyInferer) Infer(a []float32) ([]float32, error) {
	qvals := make([]float32, d.outputSize)
	for i := range qvals {
		qvals[i] = 1 / float32(d.outputSize)
	}
	return qvals, nil
}

func (d dummyInferer) Close() error { return nil }

func TestPool(t *testing.T) {
	p, err := NewPool(4, func() (Inferer, error) {
		return dummyInferer{outputSize: 3}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 4, p.Size())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			qvals, err := p.Infer([]float32{1, 2, 3})
			if err != nil {
				t.Error(err)
				return
			}
			if len(qvals) != 3 {
				t.Errorf("expected 3 action values, got %d", len(qvals))
			}
		}()
	}
	wg.Wait()

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal("closing twice should be fine:", err)
	}
}

func TestPoolInferAfterClose(t *testing.T) {
	p, err := NewPool(1, func() (Inferer, error) {
		return dummyInferer{outputSize: 2}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := p.Infer([]float32{1, 2}); err == nil {
		t.Error("inference on a closed pool should fail")
	}
}
