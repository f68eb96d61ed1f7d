package deepq

import (
	G "gorgonia.org/gorgonia"
)

// Recurrent is the recurrent deep Q-network. Features are projected into a
// GRU cell whose output feeds a linear action-value head. The hidden state
// is owned by the caller: it is fed in alongside the observation and the
// updated state is read back out after each step. The network itself stores
// no memory between calls.
type Recurrent struct {
	Config

	g      *G.ExprGraph
	obs    *G.Node
	hidden *G.Node
	qout   *G.Node
	hout   *G.Node

	qvals G.Value
	hvals G.Value
}

// NewRecurrent returns a new, uninitialized *Recurrent.
func NewRecurrent(conf Config) *Recurrent {
	return &Recurrent{Config: conf}
}

func (d *Recurrent) Init() error {
	d.reset()
	d.g = G.NewGraph()

	var m maebe
	d.obs = obsInput(d.g, d.Config)
	d.hidden = G.NewTensor(d.g, Float, 2, G.WithShape(d.BatchSize, d.GRUSize), G.WithName("Hidden"))

	feats := d.obs
	if d.UseConv {
		feats = m.features(d.obs)
	}

	x := m.rectify(m.linear(feats, d.GRUSize, "Proj"))
	d.hout = m.gru(x, d.hidden, d.GRUSize, "GRU")
	d.qout = m.linear(d.hout, d.ActionSpace, "Q")
	if m.err != nil {
		return m.err
	}

	G.Read(d.hout, &d.hvals)
	G.Read(d.qout, &d.qvals)
	return nil
}

// InitHidden returns a zeroed hidden state for the start of an episode.
func (d *Recurrent) InitHidden() []float32 {
	return make([]float32, d.GRUSize)
}

func (d *Recurrent) Model() G.Nodes {
	return modelOf(d.g, d.obs, d.hidden)
}

func (d *Recurrent) Conf() Config { return d.Config }

func (d *Recurrent) Graph() *G.ExprGraph { return d.g }
func (d *Recurrent) obsNode() *G.Node    { return d.obs }

func (d *Recurrent) Clone() (*Recurrent, error) {
	d2 := NewRecurrent(d.Config)
	if err := d2.Init(); err != nil {
		return nil, err
	}
	if err := cloneInto(d2, d); err != nil {
		return nil, err
	}
	return d2, nil
}

func (d *Recurrent) reset() {
	d.g = nil
	d.obs = nil
	d.hidden = nil
	d.qout = nil
	d.hout = nil
	d.qvals = nil
	d.hvals = nil
}

func (d *Recurrent) GobEncode() ([]byte, error) { return encodeModel(d) }

func (d *Recurrent) GobDecode(p []byte) error {
	d.reset()
	if err := d.Init(); err != nil {
		return err
	}
	return decodeModel(d, p)
}
