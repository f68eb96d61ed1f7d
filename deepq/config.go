package deepq

// Config configures a Q-value network.
//
// The same Config type drives all four architectures; fields that a given
// architecture does not use (e.g. NAtoms for a Vanilla net) are simply
// ignored by it.
type Config struct {
	Features      int // number of observation planes (conv mode)
	Height, Width int // plane size (conv mode)
	InputSize     int // flat observation width (non-conv mode)

	ActionSpace int
	BatchSize   int
	UseConv     bool

	FC int // width of the first hidden layer. The second hidden layer is 2*FC wide.

	// distributional head
	NAtoms     int
	Vmin, Vmax float64

	// recurrent cell
	GRUSize int
}

// DefaultConf returns a configuration for convolutional observations of
// features planes, each height x width.
func DefaultConf(features, height, width, actionSpace int) Config {
	return Config{
		Features:    features,
		Height:      height,
		Width:       width,
		ActionSpace: actionSpace,
		BatchSize:   32,
		UseConv:     true,

		FC: 128,

		NAtoms: 51,
		Vmin:   -10,
		Vmax:   10,

		GRUSize: 256,
	}
}

// DefaultFlatConf returns a configuration for flat observation vectors of
// inputSize elements.
func DefaultFlatConf(inputSize, actionSpace int) Config {
	fc := round(inputSize)
	if fc < 128 {
		fc = 128
	}
	if fc > 512 {
		fc = 512
	}
	return Config{
		InputSize:   inputSize,
		ActionSpace: actionSpace,
		BatchSize:   32,

		FC: fc,

		NAtoms: 51,
		Vmin:   -10,
		Vmax:   10,

		GRUSize: 256,
	}
}

func (conf Config) IsValid() bool {
	ok := conf.ActionSpace >= 2 &&
		conf.BatchSize >= 1 &&
		conf.FC > 1
	if !ok {
		return false
	}
	if conf.UseConv {
		// the trunk uses valid padding, so each conv must leave at least a
		// 1x1 output
		h, w := trunkOutDims(conf.Height, conf.Width)
		return conf.Features > 0 && h > 0 && w > 0
	}
	return conf.InputSize > 0
}

// validDistribution reports whether the distributional fields describe a
// usable support.
func (conf Config) validDistribution() bool {
	return conf.NAtoms >= 2 && conf.Vmax > conf.Vmin
}

// round rounds up to the nearest power of 2, or down, whichever is closer.
func round(a int) int {
	n := a - 1
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++

	lt := n / 2
	if (a - lt) < (n - a) {
		return lt
	}
	return n
}
