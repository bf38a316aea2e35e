package rnet

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// fixedNet builds a 2-unit network with known weights so the update can
// be checked against hand computation.
func fixedNet(fn Nonlin) *Network {
	nt := &Network{}
	nt.Params.Defaults()
	nt.Params.N = 2
	nt.Params.NIn = 2
	nt.Params.Fn = fn
	nt.Params.FnIn = Identity
	nt.Rec = &denseWts{m: mat.NewDense(2, 2, []float64{0, 0.5, -0.5, 0}), nnz: 2}
	nt.In = &denseWts{m: mat.NewDense(2, 2, []float64{1, 0, 0, 1}), nnz: 2}
	nt.Act = []float64{0.2, -0.1}
	nt.recIn = make([]float64, 2)
	nt.inIn = make([]float64, 2)
	nt.drv = make([]float64, 2)
	return nt
}

func TestStepNoUpdateLimit(t *testing.T) {
	// decay -> 1 (dt -> 0): with an identity nonlinearity the state is
	// exactly unchanged
	nt := fixedNet(Identity)
	nt.Params.Decay = 1
	nt.Step([]float64{1, 0})
	if nt.Act[0] != 0.2 || nt.Act[1] != -0.1 {
		t.Errorf("decay=1 step changed state: %v", nt.Act)
	}
}

func TestStepInstantLimit(t *testing.T) {
	// decay -> 0 (tau -> 0): the state relaxes to fn(total) exactly
	nt := fixedNet(Tanh)
	nt.Params.Decay = 0
	drive := []float64{1, 0}
	tot0 := 0.5*-0.1 + 1.0 // rec row 0 + input row 0
	tot1 := -0.5 * 0.2     // rec row 1
	nt.Step(drive)
	if math.Abs(nt.Act[0]-math.Tanh(tot0)) > 1e-15 || math.Abs(nt.Act[1]-math.Tanh(tot1)) > 1e-15 {
		t.Errorf("decay=0 step got %v, want [%g %g]", nt.Act, math.Tanh(tot0), math.Tanh(tot1))
	}
}

func TestStepDecayedPreactivation(t *testing.T) {
	// the nonlinearity applies to total + (act-total)*decay, not to
	// total alone
	nt := fixedNet(Tanh)
	d := 0.7
	nt.Params.Decay = d
	a0, a1 := nt.Act[0], nt.Act[1]
	drive := []float64{0, 1}
	tot0 := 0.5 * a1
	tot1 := -0.5*a0 + 1.0
	nt.Step(drive)
	w0 := math.Tanh(tot0 + (a0-tot0)*d)
	w1 := math.Tanh(tot1 + (a1-tot1)*d)
	if math.Abs(nt.Act[0]-w0) > 1e-15 || math.Abs(nt.Act[1]-w1) > 1e-15 {
		t.Errorf("step got %v, want [%g %g]", nt.Act, w0, w1)
	}
}

func TestStepNonFinitePropagates(t *testing.T) {
	nt := fixedNet(Identity)
	nt.Params.Decay = 0.5
	nt.Act[0] = math.NaN()
	nt.Step([]float64{0, 0})
	if !math.IsNaN(nt.Act[0]) {
		t.Errorf("NaN state should propagate, got %v", nt.Act)
	}
}

func TestBuildInitStep(t *testing.T) {
	pr := &Params{}
	pr.Defaults()
	pr.N = 40
	pr.NIn = 4
	nt := &Network{}
	nt.Build(pr, rand.New(rand.NewSource(9)))
	drive := make([]float64, pr.NIn)
	drive[2] = 1
	for i := 0; i < 10; i++ {
		nt.Step(drive)
	}
	nonzero := 0
	for _, v := range nt.Act {
		if v != 0 {
			nonzero++
		}
		if v < -1 || v > 1 {
			t.Fatalf("tanh activation out of range: %g", v)
		}
	}
	if nonzero == 0 {
		t.Errorf("driven network stayed silent")
	}
	nt.Init()
	for _, v := range nt.Act {
		if v != 0 {
			t.Fatalf("Init left nonzero activation: %g", v)
		}
	}
}
