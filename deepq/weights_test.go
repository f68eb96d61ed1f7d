package deepq

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func modelData(n QNet) [][]float32 {
	var retVal [][]float32
	for _, node := range n.Model() {
		data := node.Value().Data().([]float32)
		retVal = append(retVal, clone(data))
	}
	return retVal
}

func TestSet(t *testing.T) {
	conf := DefaultFlatConf(5, 3)
	conf.BatchSize = 4

	src := NewVanilla(conf)
	if err := src.Init(); err != nil {
		t.Fatalf("%+v", err)
	}
	dst := NewVanilla(conf)
	if err := dst.Init(); err != nil {
		t.Fatalf("%+v", err)
	}

	if diff := cmp.Diff(modelData(src), modelData(dst)); diff == "" {
		t.Fatal("two fresh networks should not share weights")
	}
	if err := Set(dst, src); err != nil {
		t.Fatalf("%+v", err)
	}
	if diff := cmp.Diff(modelData(src), modelData(dst)); diff != "" {
		t.Errorf("Set should make the weights equal (-src +dst):\n%s", diff)
	}
}

func TestPolyak(t *testing.T) {
	conf := DefaultFlatConf(5, 3)
	conf.BatchSize = 4

	src := NewDueling(conf)
	if err := src.Init(); err != nil {
		t.Fatalf("%+v", err)
	}
	dst := NewDueling(conf)
	if err := dst.Init(); err != nil {
		t.Fatalf("%+v", err)
	}

	before := modelData(dst)

	// tau = 0 leaves dst untouched
	if err := Polyak(dst, src, 0); err != nil {
		t.Fatalf("%+v", err)
	}
	if diff := cmp.Diff(before, modelData(dst)); diff != "" {
		t.Errorf("Polyak with tau 0 should be a no-op:\n%s", diff)
	}

	// tau = 1 is a hard update
	if err := Polyak(dst, src, 1); err != nil {
		t.Fatalf("%+v", err)
	}
	if diff := cmp.Diff(modelData(src), modelData(dst)); diff != "" {
		t.Errorf("Polyak with tau 1 should equal a Set (-src +dst):\n%s", diff)
	}
}

func TestSetMismatch(t *testing.T) {
	conf := DefaultFlatConf(5, 3)
	conf.BatchSize = 4

	src := NewVanilla(conf)
	if err := src.Init(); err != nil {
		t.Fatalf("%+v", err)
	}
	dst := NewRecurrent(conf)
	if err := dst.Init(); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := Set(dst, src); err == nil {
		t.Error("Set across architectures should fail")
	}
}
