package rnet

import "golang.org/x/exp/rand"

// Network is one recurrent network instance: fixed weights plus the
// current activation vector. Step mutates Act in place; weights and
// params are immutable after Build. A Network is owned by a single run
// and is not safe for concurrent stepping.
type Network struct {
	Params Params    `view:"inline" desc:"construction parameters, copied at Build"`
	Rec    Weights   `view:"-" desc:"N x N recurrent weights"`
	In     Weights   `view:"-" desc:"N x NIn input weights"`
	Act    []float64 `view:"-" desc:"current activation vector, length N"`

	recIn []float64
	inIn  []float64
	drv   []float64
}

// Build draws both weight matrices from rng and allocates state.
// The rng must be owned by this run; see sim for seed handling.
func (nt *Network) Build(pr *Params, rng *rand.Rand) {
	nt.Params = *pr
	nt.Params.Update()
	nt.Rec = nt.Params.BuildRecurrent(rng)
	nt.In = nt.Params.BuildInput(rng)
	nt.Act = make([]float64, nt.Params.N)
	nt.recIn = make([]float64, nt.Params.N)
	nt.inIn = make([]float64, nt.Params.N)
	nt.drv = make([]float64, nt.Params.NIn)
}

// Init zeros the activation for a new trial, keeping the weights.
func (nt *Network) Init() {
	for i := range nt.Act {
		nt.Act[i] = 0
	}
}

// Step advances the network one Dt given the drive channels for this
// step (length NIn). With decay = exp(-Dt/Tau) the update is
//
//	total = Rec*act + In*fin(drive)
//	act <- fn(total + (act-total)*decay)
//
// the exact discretization of tau*dv/dt = -v + total. The nonlinearity
// is applied to the decayed pre-activation, not to total alone -- the
// retention results depend on keeping it that way. No clipping: NaN or
// Inf from bad inputs propagate.
func (nt *Network) Step(drive []float64) {
	pr := &nt.Params
	for i, d := range drive {
		nt.drv[i] = pr.FnIn.Apply(d)
	}
	nt.Rec.MulVec(nt.recIn, nt.Act)
	nt.In.MulVec(nt.inIn, nt.drv)
	for i, v := range nt.Act {
		tot := nt.recIn[i] + nt.inIn[i]
		nt.Act[i] = pr.Fn.Apply(tot + (v-tot)*pr.Decay)
	}
}
