// Package qnet provides deep Q-value networks for reinforcement learning
// agents, along with the plumbing around them: inference pooling,
// observation encoding, and visualization of what the networks learn.
//
// The architectures themselves live in the deepq subpackage.
package qnet

import (
	"io"

	"github.com/gorgonia/qnet/deepq"
	"github.com/pkg/errors"
)

// Inferer is anything that can infer action values given an observation.
type Inferer interface {
	Infer(obs []float32) (qvals []float32, err error)
	io.Closer
}

// Stepper is anything that infers action values while carrying a caller-owned
// hidden state across time steps.
type Stepper interface {
	Step(obs, hidden []float32) (qvals, next []float32, err error)
	io.Closer
}

// ExecLogger is anything that can return the execution log.
type ExecLogger interface {
	ExecLog() string
}

// ObsEncoder encodes a raw environment observation as a slice of floats.
type ObsEncoder func(pix []uint8, prealloc []float32) []float32

// OutputEncoder encodes filter snapshots as whatever.
//
// An example OutputEncoder is the gif Encoder. Another example would be a logger.
type OutputEncoder interface {
	Encode(fs FilterSet) error
	Flush() error
}

// FilterSet is a snapshot of the first convolution layer of a network: one
// H x W grid per filter, taken from the filter's first input channel.
type FilterSet struct {
	Name  string
	Epoch int

	H, W  int
	Grids [][]float32
}

// Filters extracts the first-layer convolution filters of n. The network
// must be convolutional and initialized.
func Filters(n deepq.QNet, name string, epoch int) (FilterSet, error) {
	for _, node := range n.Model() {
		if node.Name() != "FilterTrunk0" {
			continue
		}
		shp := node.Shape()
		k, c, h, w := shp[0], shp[1], shp[2], shp[3]
		data := node.Value().Data().([]float32)

		fs := FilterSet{
			Name:  name,
			Epoch: epoch,
			H:     h,
			W:     w,
			Grids: make([][]float32, k),
		}
		for i := 0; i < k; i++ {
			grid := make([]float32, h*w)
			copy(grid, data[i*c*h*w:i*c*h*w+h*w])
			fs.Grids[i] = grid
		}
		return fs, nil
	}
	return FilterSet{}, errors.Errorf("%T has no convolution trunk", n)
}
