// qviz builds one of the deepq architectures and renders it: the expression
// graph as graphviz dot, and optionally the first conv layer as a gif.
//
//	qviz -net dueling -features 4 -height 84 -width 84 -actions 18 -o dueling.dot
//	qviz -net vanilla -flat 8 -actions 4
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gorgonia/qnet"
	"github.com/gorgonia/qnet/deepq"
	gifenc "github.com/gorgonia/qnet/encoding/gif"
)

var (
	netFlag  = flag.String("net", "vanilla", "architecture: vanilla, dueling, distributional or recurrent")
	actions  = flag.Int("actions", 4, "action space size")
	flat     = flag.Int("flat", 0, "flat observation width; 0 means convolutional observations")
	features = flag.Int("features", 4, "observation planes (conv)")
	height   = flag.Int("height", 84, "plane height (conv)")
	width    = flag.Int("width", 84, "plane width (conv)")
	atoms    = flag.Int("atoms", 51, "atom count (distributional)")
	vmin     = flag.Float64("vmin", -10, "support lower bound (distributional)")
	vmax     = flag.Float64("vmax", 10, "support upper bound (distributional)")
	gruSize  = flag.Int("gru", 256, "hidden state size (recurrent)")
	out      = flag.String("o", "", "dot output file; default stdout")
	filters  = flag.String("filters", "", "also render the first conv layer into this gif file")
)

func buildNet(conf deepq.Config) deepq.QNet {
	switch *netFlag {
	case "vanilla":
		return deepq.NewVanilla(conf)
	case "dueling":
		return deepq.NewDueling(conf)
	case "distributional":
		return deepq.NewDistributional(conf)
	case "recurrent":
		return deepq.NewRecurrent(conf)
	}
	log.Fatalf("unknown architecture %q", *netFlag)
	return nil
}

func main() {
	flag.Parse()

	var conf deepq.Config
	if *flat > 0 {
		conf = deepq.DefaultFlatConf(*flat, *actions)
	} else {
		conf = deepq.DefaultConf(*features, *height, *width, *actions)
	}
	conf.BatchSize = 1
	conf.NAtoms = *atoms
	conf.Vmin = *vmin
	conf.Vmax = *vmax
	conf.GRUSize = *gruSize
	if !conf.IsValid() {
		log.Fatalf("invalid configuration %+v", conf)
	}

	n := buildNet(conf)
	if err := n.Init(); err != nil {
		log.Fatalf("%+v", err)
	}

	dot, err := qnet.ToDot(n)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if *out == "" {
		fmt.Println(dot)
	} else {
		if err := os.WriteFile(*out, []byte(dot), 0644); err != nil {
			log.Fatal(err)
		}
	}

	if *filters != "" {
		fs, err := qnet.Filters(n, *netFlag, 0)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		f, err := os.Create(*filters)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		enc := gifenc.NewEncoder(f)
		if err := enc.Encode(fs); err != nil {
			log.Fatal(err)
		}
		if err := enc.Flush(); err != nil {
			log.Fatal(err)
		}
	}
}
