package deepq

import (
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Set sets the weights of dst to be equal to the weights of src. Both
// networks must be initialized and of the same architecture. Typical use is
// the hard update of a target network.
func Set(dst, src QNet) error {
	sourceNodes := src.Model()
	nodes := dst.Model()
	if len(sourceNodes) != len(nodes) {
		return errors.Errorf("model mismatch: %d learnables vs %d", len(sourceNodes), len(nodes))
	}
	for i, n := range nodes {
		cloned := sourceNodes[i].Clone()
		if err := G.Let(n, cloned.(*G.Node).Value()); err != nil {
			return err
		}
	}
	return nil
}

// Polyak computes the polyak average of the weights of dst with the weights
// of src and stores the averaged weights as the new weights of dst:
//
//	θ_dst = (1-τ)·θ_dst + τ·θ_src
//
// Typical use is the soft update of a target network.
func Polyak(dst, src QNet, tau float64) error {
	sourceNodes := src.Model()
	nodes := dst.Model()
	if len(sourceNodes) != len(nodes) {
		return errors.Errorf("model mismatch: %d learnables vs %d", len(sourceNodes), len(nodes))
	}
	for i := range nodes {
		weights := nodes[i].Value().(*tensor.Dense)
		sourceWeights := sourceNodes[i].Value().(*tensor.Dense)

		weights, err := weights.MulScalar(float32(1-tau), true)
		if err != nil {
			return err
		}

		sourceWeights, err = sourceWeights.MulScalar(float32(tau), true)
		if err != nil {
			return err
		}

		newWeights, err := weights.Add(sourceWeights)
		if err != nil {
			return err
		}

		if err := G.Let(nodes[i], newWeights); err != nil {
			return err
		}
	}
	return nil
}
