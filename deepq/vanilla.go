package deepq

import (
	G "gorgonia.org/gorgonia"
)

// Vanilla is the plain deep Q-network: an optional convolutional trunk
// followed by a three layer fully-connected head that maps features to one
// action-value per action.
type Vanilla struct {
	Config

	g    *G.ExprGraph
	obs  *G.Node
	qout *G.Node

	qvals G.Value
}

// NewVanilla returns a new, uninitialized *Vanilla.
func NewVanilla(conf Config) *Vanilla {
	return &Vanilla{Config: conf}
}

func (d *Vanilla) Init() error {
	d.reset()
	d.g = G.NewGraph()

	var m maebe
	d.obs = obsInput(d.g, d.Config)

	feats := d.obs
	if d.UseConv {
		feats = m.features(d.obs)
	}

	fc := m.rectify(m.linear(feats, d.FC, "FC1"))
	fc = m.rectify(m.linear(fc, 2*d.FC, "FC2"))
	d.qout = m.linear(fc, d.ActionSpace, "Q")
	if m.err != nil {
		return m.err
	}

	G.Read(d.qout, &d.qvals)
	return nil
}

func (d *Vanilla) Model() G.Nodes {
	return modelOf(d.g, d.obs)
}

func (d *Vanilla) Conf() Config { return d.Config }

func (d *Vanilla) Graph() *G.ExprGraph { return d.g }
func (d *Vanilla) obsNode() *G.Node    { return d.obs }

func (d *Vanilla) Clone() (*Vanilla, error) {
	d2 := NewVanilla(d.Config)
	if err := d2.Init(); err != nil {
		return nil, err
	}
	if err := cloneInto(d2, d); err != nil {
		return nil, err
	}
	return d2, nil
}

func (d *Vanilla) reset() {
	d.g = nil
	d.obs = nil
	d.qout = nil
	d.qvals = nil
}

func (d *Vanilla) GobEncode() ([]byte, error) { return encodeModel(d) }

func (d *Vanilla) GobDecode(p []byte) error {
	d.reset()
	if err := d.Init(); err != nil {
		return err
	}
	return decodeModel(d, p)
}
