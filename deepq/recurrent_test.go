package deepq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecurrentSanity(t *testing.T) {
	assert := assert.New(t)
	conf := DefaultFlatConf(6, 4)
	conf.BatchSize = 8
	conf.GRUSize = 32

	d := NewRecurrent(conf)
	if err := d.Init(); err != nil {
		t.Fatalf("%+v", err)
	}

	inferer, err := Infer(d, false)
	if err != nil {
		t.Fatal(err)
	}
	defer inferer.Close()

	if _, err := inferer.Infer([]float32{1, 0, 0, 0, 0, 0}); err == nil {
		t.Error("Infer on a recurrent network should fail; it has a hidden state")
	}

	h := d.InitHidden()
	assert.Equal(conf.GRUSize, len(h))
	for _, v := range h {
		assert.Equal(float32(0), v)
	}

	obs := []float32{1, -0.5, 0.25, 0, 0.75, -1}
	q, h1, err := inferer.Step(obs, h)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(conf.ActionSpace, len(q))
	assert.Equal(conf.GRUSize, len(h1))
	assert.NotEqual(h, h1, "a non-zero observation should move the hidden state")

	// the hidden state is carried by the caller, not the model
	q2, h2, err := inferer.Step(obs, h1)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(conf.ActionSpace, len(q2))
	assert.Equal(conf.GRUSize, len(h2))
}

func TestRecurrentStateless(t *testing.T) {
	// Feeding the same hidden state and observation twice must produce the
	// same outputs: the model stores nothing between steps.
	conf := DefaultFlatConf(4, 3)
	conf.BatchSize = 2
	conf.GRUSize = 16

	d := NewRecurrent(conf)
	if err := d.Init(); err != nil {
		t.Fatalf("%+v", err)
	}

	inferer, err := Infer(d, false)
	if err != nil {
		t.Fatal(err)
	}
	defer inferer.Close()

	obs := []float32{0.5, 0.5, -0.5, 1}
	h := d.InitHidden()

	q1, h1, err := inferer.Step(obs, h)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	q2, h2, err := inferer.Step(obs, d.InitHidden())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, q1, q2)
	assert.Equal(t, h1, h2)
}

func TestRecurrentConv(t *testing.T) {
	conf := DefaultConf(2, 40, 40, 5)
	conf.BatchSize = 2
	conf.GRUSize = 32

	d := NewRecurrent(conf)
	if err := d.Init(); err != nil {
		t.Fatalf("%+v", err)
	}

	inferer, err := Infer(d, false)
	if err != nil {
		t.Fatal(err)
	}
	defer inferer.Close()

	obs := make([]float32, 2*40*40)
	for i := range obs {
		obs[i] = float32(i%5) / 5
	}
	q, h, err := inferer.Step(obs, d.InitHidden())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, conf.ActionSpace, len(q))
	assert.Equal(t, conf.GRUSize, len(h))
}
