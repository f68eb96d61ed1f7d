// Package deepq provides a family of Q-value neural network architectures
// for reinforcement learning agents: the vanilla deep Q-network, the dueling
// variant, the distributional (C51) variant and a recurrent variant.
//
// The package only declares architectures and their forward computation.
// Training is up to the caller: every network exposes its learnable tensors
// through Model(), which can be handed to any gorgonia solver.
package deepq

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
)

// A QNet is one of the Q-value network architectures of this package.
type QNet interface {
	// Init builds the expression graph. It must be called before the network
	// is used, and discards any previous graph and weights.
	Init() error

	// Model returns the learnable tensors of the network.
	Model() G.Nodes

	// Conf returns the configuration the network was built with.
	Conf() Config

	// Graph returns the expression graph, or nil before Init.
	Graph() *G.ExprGraph

	obsNode() *G.Node
}

// newOf makes an uninitialized network of the same architecture as n, with
// the given configuration.
func newOf(n QNet, conf Config) QNet {
	switch n.(type) {
	case *Vanilla:
		return NewVanilla(conf)
	case *Dueling:
		return NewDueling(conf)
	case *Distributional:
		return NewDistributional(conf)
	case *Recurrent:
		return NewRecurrent(conf)
	}
	panic("unreachable")
}

// obsInput creates the observation input node according to conf.
func obsInput(g *G.ExprGraph, conf Config) *G.Node {
	if conf.UseConv {
		// BCHW, because gorgonia only supports convolutions on BCHW data
		return G.NewTensor(g, Float, 4, G.WithShape(conf.BatchSize, conf.Features, conf.Height, conf.Width), G.WithName("Obs"))
	}
	return G.NewTensor(g, Float, 2, G.WithShape(conf.BatchSize, conf.InputSize), G.WithName("Obs"))
}

// modelOf collects the learnable nodes of g, skipping the excluded input
// nodes.
func modelOf(g *G.ExprGraph, exclude ...*G.Node) G.Nodes {
	retVal := make(G.Nodes, 0, g.Nodes().Len())
loop:
	for _, n := range g.AllNodes() {
		if !n.IsVar() {
			continue
		}
		for _, e := range exclude {
			if n == e {
				continue loop
			}
		}
		retVal = append(retVal, n)
	}
	return retVal
}

func encodeModel(n QNet) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	for _, node := range n.Model() {
		v := node.Value()
		if err := enc.Encode(&v); err != nil {
			return nil, errors.Wrapf(err, "encoding %v", node)
		}
	}
	return buf.Bytes(), nil
}

func decodeModel(n QNet, p []byte) error {
	buf := bytes.NewBuffer(p)
	dec := gob.NewDecoder(buf)
	for _, node := range n.Model() {
		var v G.Value
		if err := dec.Decode(&v); err != nil {
			return errors.Wrapf(err, "decoding %v", node)
		}
		if err := G.Let(node, v); err != nil {
			return err
		}
	}
	return nil
}

// cloneInto copies every learnable of src into dst. Both must be initialized
// and share an architecture and configuration shape.
func cloneInto(dst, src QNet) error {
	model := src.Model()
	model2 := dst.Model()
	if len(model) != len(model2) {
		return errors.Errorf("model mismatch: %d learnables vs %d", len(model), len(model2))
	}
	for i, n := range model {
		if err := G.Let(model2[i], n.Value()); err != nil {
			return err
		}
	}
	return nil
}
