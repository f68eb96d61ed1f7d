package deepq

import (
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Distributional is the categorical (C51) deep Q-network. Instead of a
// single expected value per action, the head produces a probability
// distribution over NAtoms fixed return values ("atoms") spanning
// [Vmin, Vmax]. The expected action-value is recovered by taking the
// expectation of the support under each distribution.
type Distributional struct {
	Config

	support []float32 // the atom values, fixed at construction
	deltaZ  float64

	g    *G.ExprGraph
	obs  *G.Node
	supN *G.Node
	dout *G.Node
	qout *G.Node

	dist  G.Value
	qvals G.Value
}

// NewDistributional returns a new, uninitialized *Distributional. The
// support is computed here, once; it never changes afterwards.
func NewDistributional(conf Config) *Distributional {
	d := &Distributional{Config: conf}
	if !conf.validDistribution() {
		return d // Init will reject the config
	}
	d.deltaZ = (conf.Vmax - conf.Vmin) / float64(conf.NAtoms-1)
	d.support = make([]float32, conf.NAtoms)
	for i := range d.support {
		d.support[i] = float32(conf.Vmin + float64(i)*d.deltaZ)
	}
	return d
}

// Support returns a copy of the atom values.
func (d *Distributional) Support() []float32 {
	retVal := make([]float32, len(d.support))
	copy(retVal, d.support)
	return retVal
}

// DeltaZ returns the spacing between consecutive atoms.
func (d *Distributional) DeltaZ() float64 { return d.deltaZ }

func (d *Distributional) Init() error {
	if !d.validDistribution() {
		return errors.Errorf("invalid distribution: %d atoms over [%v, %v]", d.NAtoms, d.Vmin, d.Vmax)
	}
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
	logits := m.linear(fc, d.ActionSpace*d.NAtoms, "Logits")

	// softmax over the atom axis. Folding the action axis into the batch
	// axis lets the stock 2D softmax do the work.
	logits = m.reshape(logits, tensor.Shape{d.BatchSize * d.ActionSpace, d.NAtoms})
	probs := m.softmax(logits)

	supT := tensor.New(tensor.WithShape(1, d.NAtoms), tensor.WithBacking(d.Support()))
	d.supN = G.NodeFromAny(d.g, supT, G.WithName("Support"))

	weighted := m.broadcastHadamard(probs, d.supN, 0)   // (batch*actions, atoms)
	q := m.sum(weighted, 1)                             // (batch*actions,)
	d.qout = m.reshape(q, tensor.Shape{d.BatchSize, d.ActionSpace})
	d.dout = m.reshape(probs, tensor.Shape{d.BatchSize, d.ActionSpace, d.NAtoms})
	if m.err != nil {
		return m.err
	}

	G.Read(d.dout, &d.dist)
	G.Read(d.qout, &d.qvals)
	return nil
}

func (d *Distributional) Model() G.Nodes {
	return modelOf(d.g, d.obs, d.supN)
}

func (d *Distributional) Conf() Config { return d.Config }

func (d *Distributional) Graph() *G.ExprGraph { return d.g }
func (d *Distributional) obsNode() *G.Node    { return d.obs }

func (d *Distributional) Clone() (*Distributional, error) {
	d2 := NewDistributional(d.Config)
	if err := d2.Init(); err != nil {
		return nil, err
	}
	if err := cloneInto(d2, d); err != nil {
		return nil, err
	}
	return d2, nil
}

func (d *Distributional) reset() {
	d.g = nil
	d.obs = nil
	d.supN = nil
	d.dout = nil
	d.qout = nil
	d.dist = nil
	d.qvals = nil
}

func (d *Distributional) GobEncode() ([]byte, error) { return encodeModel(d) }

func (d *Distributional) GobDecode(p []byte) error {
	d.reset()
	if err := d.Init(); err != nil {
		return err
	}
	return decodeModel(d, p)
}
