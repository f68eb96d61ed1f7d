package qnet

import (
	"strings"
	"testing"

	"github.com/awalterschulze/gographviz"
	"github.com/gorgonia/qnet/deepq"
	"github.com/stretchr/testify/assert"
)

func TestFilters(t *testing.T) {
	assert := assert.New(t)
	conf := deepq.DefaultConf(2, 40, 40, 4)
	conf.BatchSize = 2

	d := deepq.NewVanilla(conf)
	if err := d.Init(); err != nil {
		t.Fatalf("%+v", err)
	}

	fs, err := Filters(d, "test", 7)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal("test", fs.Name)
	assert.Equal(7, fs.Epoch)
	assert.Equal(8, fs.H)
	assert.Equal(8, fs.W)
	assert.Equal(32, len(fs.Grids), "the trunk starts with 32 filters")
	for i, grid := range fs.Grids {
		assert.Equal(64, len(grid), "grid %d", i)
	}
}

func TestFiltersFlat(t *testing.T) {
	conf := deepq.DefaultFlatConf(4, 2)
	conf.BatchSize = 1
	d := deepq.NewVanilla(conf)
	if err := d.Init(); err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := Filters(d, "flat", 0); err == nil {
		t.Error("a flat network has no conv filters to extract")
	}
}

func TestToDot(t *testing.T) {
	conf := deepq.DefaultFlatConf(4, 2)
	conf.BatchSize = 1
	d := deepq.NewVanilla(conf)
	if err := d.Init(); err != nil {
		t.Fatalf("%+v", err)
	}

	dot, err := ToDot(d)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !strings.Contains(dot, "digraph") {
		t.Errorf("expected a digraph, got:\n%s", dot)
	}
	if !strings.Contains(dot, "Obs") {
		t.Error("the observation input should appear in the graph")
	}
	if _, err := gographviz.ParseString(dot); err != nil {
		t.Errorf("output should be parseable dot: %v", err)
	}
}
