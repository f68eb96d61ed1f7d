package deepq

import (
	"fmt"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/gorgonia/ops/nn"
	"gorgonia.org/tensor"
)

var Float = G.Float32

// trunkSpec describes one convolution of the feature trunk.
type trunkSpec struct {
	filters, kernel, stride int
}

// the standard Atari trunk
var trunk = []trunkSpec{
	{32, 8, 4},
	{64, 4, 2},
	{64, 3, 1},
}

type maebe struct {
	err error
}

// generic monad... may be useful
func (m *maebe) do(f func() (*G.Node, error)) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = f(); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

// conv applies a 2D convolution with valid padding.
func (m *maebe) conv(input *G.Node, filterCount, size, stride int, name string) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	featureCount := input.Shape()[1]
	filter := G.NewTensor(input.Graph(), Float, 4, G.WithShape(filterCount, featureCount, size, size), G.WithName("Filter"+name), G.WithInit(G.GlorotU(1.0)))

	if retVal, m.err = nnops.Conv2d(input, filter, []int{size, size}, []int{0, 0}, []int{stride, stride}, []int{1, 1}); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

// features builds the conv trunk and flattens its output to
// (batch, featSize). featSize is read off the graph; Gorgonia infers shapes
// at construction so there is no need to probe with a zero tensor.
func (m *maebe) features(input *G.Node) (retVal *G.Node) {
	out := input
	for i, spec := range trunk {
		out = m.conv(out, spec.filters, spec.kernel, spec.stride, fmt.Sprintf("Trunk%d", i))
		out = m.rectify(out)
	}
	if m.err != nil {
		return nil
	}
	batches := out.Shape()[0]
	flat := out.Shape().TotalSize() / batches
	return m.reshape(out, tensor.Shape{batches, flat})
}

func (m *maebe) linear(input *G.Node, units int, name string) *G.Node {
	if m.err != nil {
		return nil
	}
	w := G.NewTensor(input.Graph(), Float, 2, G.WithShape(input.Shape()[1], units), G.WithInit(G.GlorotN(1.0)), G.WithName(name+"_w"))
	xw := m.do(func() (*G.Node, error) { return G.Mul(input, w) })
	if m.err != nil {
		return nil
	}
	b := G.NewTensor(xw.Graph(), Float, xw.Shape().Dims(), G.WithShape(xw.Shape().Clone()...), G.WithName(name+"_b"), G.WithInit(G.Zeroes()))
	return m.do(func() (*G.Node, error) { return G.Add(xw, b) })
}

func (m *maebe) rectify(input *G.Node) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = nnops.Rectify(input); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

func (m *maebe) sigmoid(input *G.Node) *G.Node {
	return m.do(func() (*G.Node, error) { return G.Sigmoid(input) })
}

func (m *maebe) tanh(input *G.Node) *G.Node {
	return m.do(func() (*G.Node, error) { return G.Tanh(input) })
}

func (m *maebe) reshape(input *G.Node, to tensor.Shape) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = G.Reshape(input, to); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

func (m *maebe) softmax(input *G.Node) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = G.SoftMax(input); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

func (m *maebe) mean(input *G.Node, along ...int) *G.Node {
	return m.do(func() (*G.Node, error) { return G.Mean(input, along...) })
}

func (m *maebe) sum(input *G.Node, along ...int) *G.Node {
	return m.do(func() (*G.Node, error) { return G.Sum(input, along...) })
}

func (m *maebe) add(a, b *G.Node) *G.Node {
	return m.do(func() (*G.Node, error) { return G.Add(a, b) })
}

func (m *maebe) sub(a, b *G.Node) *G.Node {
	return m.do(func() (*G.Node, error) { return G.Sub(a, b) })
}

func (m *maebe) hadamard(a, b *G.Node) *G.Node {
	return m.do(func() (*G.Node, error) { return G.HadamardProd(a, b) })
}

// broadcastAdd adds b to a, repeating b along the given axes of a.
func (m *maebe) broadcastAdd(a, b *G.Node, along ...byte) *G.Node {
	return m.do(func() (*G.Node, error) { return G.BroadcastAdd(a, b, nil, along) })
}

// broadcastSub subtracts b from a, repeating b along the given axes of a.
func (m *maebe) broadcastSub(a, b *G.Node, along ...byte) *G.Node {
	return m.do(func() (*G.Node, error) { return G.BroadcastSub(a, b, nil, along) })
}

// broadcastHadamard multiplies a by b elementwise, repeating b along the
// given axes of a.
func (m *maebe) broadcastHadamard(a, b *G.Node, along ...byte) *G.Node {
	return m.do(func() (*G.Node, error) { return G.BroadcastHadamardProd(a, b, nil, along) })
}

// gru applies a single GRU cell step. x and h must both be (batch, units).
// The nine parameter tensors are created on x's graph, prefixed with name.
func (m *maebe) gru(x, h *G.Node, units int, name string) *G.Node {
	if m.err != nil {
		return nil
	}
	gate := func(suffix string) (w, u, b *G.Node) {
		g := x.Graph()
		w = G.NewTensor(g, Float, 2, G.WithShape(units, units), G.WithInit(G.GlorotN(1.0)), G.WithName(name+"_w"+suffix))
		u = G.NewTensor(g, Float, 2, G.WithShape(units, units), G.WithInit(G.GlorotN(1.0)), G.WithName(name+"_u"+suffix))
		b = G.NewTensor(g, Float, 2, G.WithShape(x.Shape()[0], units), G.WithInit(G.Zeroes()), G.WithName(name+"_b"+suffix))
		return w, u, b
	}
	mul := func(a, w *G.Node) *G.Node {
		return m.do(func() (*G.Node, error) { return G.Mul(a, w) })
	}

	wr, ur, br := gate("r")
	wz, uz, bz := gate("z")
	wn, un, bn := gate("n")

	r := m.sigmoid(m.add(m.add(mul(x, wr), mul(h, ur)), br))
	z := m.sigmoid(m.add(m.add(mul(x, wz), mul(h, uz)), bz))
	n := m.tanh(m.add(m.add(mul(x, wn), m.hadamard(r, mul(h, un))), bn))

	one := G.NewConstant(float32(1))
	keep := m.do(func() (*G.Node, error) { return G.Sub(one, z) })
	return m.add(m.hadamard(keep, n), m.hadamard(z, h))
}

func convOut(n, kernel, stride int) int {
	return (n-kernel)/stride + 1
}

// trunkOutDims returns the spatial dims of the trunk output for an input of
// height x width.
func trunkOutDims(height, width int) (h, w int) {
	h, w = height, width
	for _, spec := range trunk {
		h = convOut(h, spec.kernel, spec.stride)
		w = convOut(w, spec.kernel, spec.stride)
	}
	return h, w
}
