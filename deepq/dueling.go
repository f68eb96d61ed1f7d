package deepq

import (
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Dueling is the dueling deep Q-network. Shared features feed two separate
// streams, a scalar state value v and per-action advantages a, which are
// combined as
//
//	q = v + (a - mean(a))
//
// with the mean taken over the action axis of each row. Centering the
// advantages keeps the decomposition identifiable.
type Dueling struct {
	Config

	g    *G.ExprGraph
	obs  *G.Node
	qout *G.Node

	qvals G.Value
}

// NewDueling returns a new, uninitialized *Dueling.
func NewDueling(conf Config) *Dueling {
	return &Dueling{Config: conf}
}

func (d *Dueling) Init() error {
	d.reset()
	d.g = G.NewGraph()

	var m maebe
	d.obs = obsInput(d.g, d.Config)

	var feats *G.Node
	if d.UseConv {
		feats = m.features(d.obs)
	} else {
		feats = m.rectify(m.linear(d.obs, d.FC, "Features"))
	}

	value := m.rectify(m.linear(feats, d.FC, "Value1"))
	value = m.linear(value, 1, "Value2") // (batch, 1)

	adv := m.rectify(m.linear(feats, d.FC, "Advantage1"))
	adv = m.linear(adv, d.ActionSpace, "Advantage2") // (batch, actions)

	advMean := m.mean(adv, 1)                                      // (batch,)
	advMean = m.reshape(advMean, tensor.Shape{d.BatchSize, 1})     // (batch, 1)
	centered := m.broadcastSub(adv, advMean, 1)                    // (batch, actions)
	d.qout = m.broadcastAdd(centered, value, 1)                    // (batch, actions)
	if m.err != nil {
		return m.err
	}

	G.Read(d.qout, &d.qvals)
	return nil
}

func (d *Dueling) Model() G.Nodes {
	return modelOf(d.g, d.obs)
}

func (d *Dueling) Conf() Config { return d.Config }

func (d *Dueling) Graph() *G.ExprGraph { return d.g }
func (d *Dueling) obsNode() *G.Node    { return d.obs }

func (d *Dueling) Clone() (*Dueling, error) {
	d2 := NewDueling(d.Config)
	if err := d2.Init(); err != nil {
		return nil, err
	}
	if err := cloneInto(d2, d); err != nil {
		return nil, err
	}
	return d2, nil
}

func (d *Dueling) reset() {
	d.g = nil
	d.obs = nil
	d.qout = nil
	d.qvals = nil
}

func (d *Dueling) GobEncode() ([]byte, error) { return encodeModel(d) }

func (d *Dueling) GobDecode(p []byte) error {
	d.reset()
	if err := d.Init(); err != nil {
		return err
	}
	return decodeModel(d, p)
}
