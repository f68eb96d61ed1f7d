package qnet

import (
	"github.com/pkg/errors"
	"gorgonia.org/vecf32"
)

// EncodeFrame encodes 8-bit pixel data as floats in [0, 1].
func EncodeFrame(pix []uint8, prealloc []float32) []float32 {
	if len(prealloc) != len(pix) {
		prealloc = make([]float32, len(pix))
	}
	for i := range pix {
		prealloc[i] = float32(pix[i])
	}
	vecf32.Scale(prealloc, 1.0/255.0)
	return prealloc
}

// StackFrames concatenates the given frames into one observation, most
// recent frame last. All frames must be the same length.
func StackFrames(frames ...[]float32) ([]float32, error) {
	if len(frames) == 0 {
		return nil, errors.New("no frames to stack")
	}
	size := len(frames[0])
	retVal := make([]float32, 0, len(frames)*size)
	for i, f := range frames {
		if len(f) != size {
			return nil, errors.Errorf("frame %d has %d elements, expected %d", i, len(f), size)
		}
		retVal = append(retVal, f...)
	}
	return retVal, nil
}

// RotateFrame rotates a square m x n frame a quarter turn, returning a copy.
// Useful for augmenting observations of rotation-invariant environments.
func RotateFrame(frame []float32, m, n int) ([]float32, error) {
	if m != n {
		return nil, errors.Errorf("Cannot handle m %d, n %d. This function only takes square frames", m, n)
	}
	copied := make([]float32, len(frame))
	copy(copied, frame)
	it := MakeIterator(copied, m, n)
	for i := 0; i < m/2; i++ {
		mi1 := m - i - 1
		for j := i; j < mi1; j++ {
			mj1 := m - j - 1
			tmp := it[i][j]
			// right to top
			it[i][j] = it[j][mi1]

			// bottom to right
			it[j][mi1] = it[mi1][mj1]

			// left to bottom
			it[mi1][mj1] = it[mj1][i]

			// tmp is left
			it[mj1][i] = tmp
		}
	}
	ReturnIterator(m, n, it)
	return copied, nil
}
