package deepq

import (
	"bytes"
	"log"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Inferencer holds a batch-1 clone of a network and a VM to run it with, so
// a VM does not have to be created for every forward pass.
type Inferencer struct {
	n QNet
	m G.VM

	in     *tensor.Dense
	hidden *tensor.Dense // recurrent networks only
	buf    *bytes.Buffer
}

// Infer takes a network and builds an inference data structure around a
// batch-1 clone of it. The clone's weights are copies; later updates to n do
// not show through.
func Infer(n QNet, toLog bool) (*Inferencer, error) {
	conf := n.Conf()
	conf.BatchSize = 1
	retVal := &Inferencer{
		n: newOf(n, conf),
	}
	if err := retVal.n.Init(); err != nil {
		return nil, err
	}

	infModel := retVal.n.Model()
	for i, node := range n.Model() {
		original := node.Value().Data().([]float32)
		cloned := infModel[i].Value().Data().([]float32)
		copy(cloned, original)
	}

	retVal.in = tensor.New(tensor.WithShape(retVal.n.obsNode().Shape().Clone()...), tensor.Of(Float))
	if r, ok := retVal.n.(*Recurrent); ok {
		retVal.hidden = tensor.New(tensor.WithShape(1, r.GRUSize), tensor.Of(Float))
	}

	retVal.buf = new(bytes.Buffer)
	if toLog {
		logger := log.New(retVal.buf, "", 0)
		retVal.m = G.NewTapeMachine(retVal.n.Graph(),
			G.WithLogger(logger),
			G.WithWatchlist(),
			G.TraceExec(),
			G.WithValueFmt("%+1.1v"),
			G.WithNaNWatch(),
		)
	} else {
		retVal.m = G.NewTapeMachine(retVal.n.Graph())
	}
	return retVal, nil
}

// Net returns the inference clone.
func (m *Inferencer) Net() QNet { return m.n }

// Infer runs a forward pass over one observation and returns the
// action-values. For the distributional network these are the expected
// values under each action's distribution. Recurrent networks carry a hidden
// state and must be driven through Step instead.
func (m *Inferencer) Infer(obs []float32) ([]float32, error) {
	var src G.Value
	switch n := m.n.(type) {
	case *Vanilla:
		src = n.qvals
	case *Dueling:
		src = n.qvals
	case *Distributional:
		src = n.qvals
	case *Recurrent:
		return nil, errors.New("recurrent networks are stateful; use Step")
	}
	if err := m.run(obs); err != nil {
		return nil, err
	}
	return finite(clone(src.(*tensor.Dense).Data().([]float32)))
}

// Distribution runs a forward pass over one observation and returns, per
// action, the probabilities over the atom support, along with the expected
// action-values. It only works on distributional networks.
func (m *Inferencer) Distribution(obs []float32) (dist [][]float32, qvals []float32, err error) {
	n, ok := m.n.(*Distributional)
	if !ok {
		return nil, nil, errors.Errorf("%T has no distribution output", m.n)
	}
	if err = m.run(obs); err != nil {
		return nil, nil, err
	}

	flat := n.dist.Data().([]float32)
	dist = make([][]float32, n.ActionSpace)
	for i := range dist {
		dist[i] = clone(flat[i*n.NAtoms : (i+1)*n.NAtoms])
		if _, err = finite(dist[i]); err != nil {
			return nil, nil, err
		}
	}
	if qvals, err = finite(clone(n.qvals.Data().([]float32))); err != nil {
		return nil, nil, err
	}
	return dist, qvals, nil
}

// Step runs one time step of a recurrent network. It returns the
// action-values and the updated hidden state; the caller owns the hidden
// state and passes it back in on the next step.
func (m *Inferencer) Step(obs, hidden []float32) (qvals, next []float32, err error) {
	n, ok := m.n.(*Recurrent)
	if !ok {
		return nil, nil, errors.Errorf("%T has no hidden state; use Infer", m.n)
	}
	m.hidden.Zero()
	copy(m.hidden.Data().([]float32), hidden)

	if err = m.run(obs); err != nil {
		return nil, nil, err
	}
	if qvals, err = finite(clone(n.qvals.Data().([]float32))); err != nil {
		return nil, nil, err
	}
	if next, err = finite(clone(n.hvals.Data().([]float32))); err != nil {
		return nil, nil, err
	}
	return qvals, next, nil
}

func (m *Inferencer) run(obs []float32) error {
	m.m.Reset()
	m.buf.Reset()

	m.in.Zero()
	data := m.in.Data().([]float32)
	copy(data, obs)

	if err := G.Let(m.n.obsNode(), m.in); err != nil {
		return err
	}
	if r, ok := m.n.(*Recurrent); ok {
		if err := G.Let(r.hidden, m.hidden); err != nil {
			return err
		}
	}
	return m.m.RunAll()
}

// ExecLog returns the execution log. If Infer was called with toLog = false, then it will return an empty string
func (m *Inferencer) ExecLog() string { return m.buf.String() }

// Close implements a closer, because well, a gorgonia VM is a resource.
func (m *Inferencer) Close() error { return m.m.Close() }

func clone(a []float32) []float32 {
	retVal := make([]float32, len(a))
	copy(retVal, a)
	return retVal
}

// finite passes a through unless it contains NaN or Inf values.
func finite(a []float32) ([]float32, error) {
	for i, v := range a {
		if math32.IsNaN(v) {
			return nil, errors.Errorf("NaN at output %d", i)
		}
		if math32.IsInf(v, 0) {
			return nil, errors.Errorf("Inf at output %d", i)
		}
	}
	return a, nil
}
