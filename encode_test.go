package qnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeFrame(t *testing.T) {
	assert := assert.New(t)
	pix := []uint8{0, 51, 102, 255}
	enc := EncodeFrame(pix, nil)
	assert.Equal(len(pix), len(enc))
	assert.Equal(float32(0), enc[0])
	assert.Equal(float32(1), enc[3])
	assert.InDelta(0.2, enc[1], 1e-6)

	// preallocated output is reused
	prealloc := make([]float32, len(pix))
	enc2 := EncodeFrame(pix, prealloc)
	if &prealloc[0] != &enc2[0] {
		t.Error("a correctly sized prealloc should be reused")
	}
}

func TestStackFrames(t *testing.T) {
	a := []float32{1, 2}
	b := []float32{3, 4}
	stacked, err := StackFrames(a, b)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []float32{1, 2, 3, 4}, stacked)

	if _, err := StackFrames(a, []float32{1}); err == nil {
		t.Error("mismatched frame lengths should fail")
	}
	if _, err := StackFrames(); err == nil {
		t.Error("stacking nothing should fail")
	}
}

func TestRotateFrame(t *testing.T) {
	//
	// ⎢ 1 0 0 0 2 ⎥
	// ⎢ 0 1 0 2 0 ⎥ // this line is to break rotational symmetry
	// ⎢ 0 0 0 0 0 ⎥
	// ⎢ 0 0 0 0 0 ⎥
	// ⎢ 2 0 0 0 1 ⎥

	m, n := 5, 5
	frame := []float32{
		1, 0, 0, 0, 2,
		0, 1, 0, 2, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
		2, 0, 0, 0, 1,
	}
	t.Logf("0:\n%v", frame)

	rot1, err := RotateFrame(frame, m, n)
	if err != nil {
		t.Fatal(err)
	}
	rot2, err := RotateFrame(rot1, m, n)
	if err != nil {
		t.Fatal(err)
	}
	rot3, err := RotateFrame(rot2, m, n)
	if err != nil {
		t.Fatal(err)
	}
	rot4, err := RotateFrame(rot3, m, n)
	if err != nil {
		t.Fatal(err)
	}

	assert := assert.New(t)
	assert.NotEqual(frame, rot1)
	assert.NotEqual(rot1, rot2)
	assert.Equal(frame, rot4, "four quarter turns should be the identity")

	if _, err := RotateFrame(frame, 5, 4); err == nil {
		t.Error("non-square frames should fail")
	}
}
