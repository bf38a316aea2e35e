// Package rnet implements a sparse random recurrent network with
// leaky-integrator rate dynamics, used as the memory substrate for the
// working-memory retention experiments.
package rnet

import (
	"fmt"
	"math"
)

// Nonlin selects a pointwise nonlinearity for the rate update.
type Nonlin int

const (
	// Identity passes values through unchanged.
	Identity Nonlin = iota

	// Tanh is the saturating hyperbolic tangent.
	Tanh

	// Rectified clips negative values to zero.
	Rectified
)

func (nl Nonlin) String() string {
	switch nl {
	case Tanh:
		return "Tanh"
	case Rectified:
		return "Rectified"
	}
	return "Identity"
}

// Apply applies the nonlinearity to x.
func (nl Nonlin) Apply(x float64) float64 {
	switch nl {
	case Tanh:
		return math.Tanh(x)
	case Rectified:
		if x < 0 {
			return 0
		}
	}
	return x
}

// Params are the construction parameters for one network instance.
// Set fields, call Update, then Validate once -- the dynamics themselves
// do no runtime checking, and non-finite values propagate freely.
type Params struct {
	N    int     `def:"500" desc:"number of recurrent units"`
	G    float64 `def:"1.5" desc:"recurrent gain -- >1 puts the autonomous dynamics in the chaotic regime"`
	Sp   float64 `def:"0.1" min:"0" max:"1" desc:"recurrent connection probability"`
	Tau  float64 `def:"0.1" desc:"leak time constant, same units as Dt"`
	Dt   float64 `def:"0.01" desc:"integration step"`
	Fn   Nonlin  `desc:"nonlinearity applied to the decayed pre-activation"`
	NIn  int     `def:"10" desc:"number of input channels"`
	GIn  float64 `def:"5" desc:"input gain"`
	SpIn float64 `def:"1" min:"0" max:"1" desc:"input connection probability"`
	FnIn Nonlin  `desc:"nonlinearity applied to the drive channels before the input weights"`

	Decay float64 `view:"-" json:"-" desc:"exp(-Dt/Tau) -- derived, set by Update"`
}

func (pr *Params) Defaults() {
	pr.N = 500
	pr.G = 1.5
	pr.Sp = 0.1
	pr.Tau = 0.1
	pr.Dt = 0.01
	pr.Fn = Tanh
	pr.NIn = 10
	pr.GIn = 5
	pr.SpIn = 1
	pr.FnIn = Identity
	pr.Update()
}

// Update must be called after any change to Dt or Tau.
func (pr *Params) Update() {
	pr.Decay = math.Exp(-pr.Dt / pr.Tau)
}

// Validate returns an error for any parameter outside its valid range.
func (pr *Params) Validate() error {
	if pr.N <= 0 {
		return fmt.Errorf("rnet.Params: N must be positive, is %d", pr.N)
	}
	if pr.NIn <= 0 {
		return fmt.Errorf("rnet.Params: NIn must be positive, is %d", pr.NIn)
	}
	if pr.Dt <= 0 {
		return fmt.Errorf("rnet.Params: Dt must be positive, is %g", pr.Dt)
	}
	if pr.Tau <= 0 {
		return fmt.Errorf("rnet.Params: Tau must be positive, is %g", pr.Tau)
	}
	if pr.Sp < 0 || pr.Sp > 1 {
		return fmt.Errorf("rnet.Params: Sp must be in [0,1], is %g", pr.Sp)
	}
	if pr.SpIn < 0 || pr.SpIn > 1 {
		return fmt.Errorf("rnet.Params: SpIn must be in [0,1], is %g", pr.SpIn)
	}
	return nil
}
