// Package sim ties the pieces of the working-memory retention experiment
// together: it builds a network from a seed, drives it with a generated
// stimulus stream, records the activity trajectory, and decodes the
// stimulus back at increasing lags.
package sim

import (
	"fmt"

	"github.com/Fatemeh-Amidizadeh/noisy-working-memory/library/decode"
	"github.com/Fatemeh-Amidizadeh/noisy-working-memory/library/rnet"
	"github.com/Fatemeh-Amidizadeh/noisy-working-memory/library/stim"
	"github.com/emer/emergent/env"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"golang.org/x/exp/rand"
)

// Sim holds one retention experiment: network and stimulus parameters,
// the sweep config, and the per-run seed table. Every run owns its own
// generators drawn from the seed table, so runs are fully independent --
// nothing is shared, and cross-run or cross-noise-level execution can be
// parallel without coordination. The time-stepping loop within a run is
// strictly sequential.
type Sim struct {
	Net   rnet.Params      `view:"inline" desc:"network parameters"`
	Stim  stim.Params      `view:"inline" desc:"stimulus timing parameters -- NIn and Dt must match Net"`
	Quant stim.QuantMethod `desc:"rounding rule for extracting labels from the scalar streams"`
	Sweep decode.Config    `view:"inline" desc:"lag sweep settings"`
	NStim int              `def:"20" desc:"stimuli per trial"`

	RndSeeds []uint64 `view:"-" desc:"per-run seeds; run i uses RndSeeds[i mod len]"`
	Run      env.Ctr  `view:"inline" desc:"current run"`
}

// New initializes defaults and fills the seed table with enough seeds
// for plenty of runs.
func (ss *Sim) New() {
	ss.Net.Defaults()
	ss.Stim.Defaults()
	ss.Stim.NIn = ss.Net.NIn
	ss.Stim.Dt = ss.Net.Dt
	ss.Quant = stim.Round
	ss.Sweep.Defaults()
	ss.NStim = 20
	ss.RndSeeds = make([]uint64, 100)
	for i := range ss.RndSeeds {
		ss.RndSeeds[i] = uint64(i) + 1 // exclude 0
	}
	ss.Run.Scale = env.Run
	ss.Run.Init()
}

// Validate checks the full configuration up front. Nothing is checked
// mid-run: a config that passes here runs to completion.
func (ss *Sim) Validate() error {
	ss.Net.Update()
	if err := ss.Net.Validate(); err != nil {
		return err
	}
	if err := ss.Stim.Validate(); err != nil {
		return err
	}
	if ss.Stim.NIn != ss.Net.NIn {
		return fmt.Errorf("sim: Stim.NIn %d does not match Net.NIn %d", ss.Stim.NIn, ss.Net.NIn)
	}
	if ss.Stim.Dt != ss.Net.Dt {
		return fmt.Errorf("sim: Stim.Dt %g does not match Net.Dt %g", ss.Stim.Dt, ss.Net.Dt)
	}
	if ss.NStim <= 0 {
		return fmt.Errorf("sim: NStim must be positive, is %d", ss.NStim)
	}
	return nil
}

// Trial is everything one simulated trial produces. The burn-in window
// is already dropped from all views: row 0 is the first post-burn-in
// step. All fields are read-only after RunTrial returns.
type Trial struct {
	NoiseStd    float64          `desc:"injected input noise sd for this trial"`
	Acts        *etensor.Float64 `view:"-" desc:"T x N activity trajectory"`
	Noisy       []float64        `view:"-" desc:"noisy scalar stream"`
	Pure        []float64        `view:"-" desc:"pure scalar stream, same timing envelope"`
	PureLabels  []int            `view:"-" desc:"classes quantized from the pure stream"`
	NoisyLabels []int            `view:"-" desc:"classes quantized from the noisy stream"`
	Curve       *etable.Table    `view:"no-inline" desc:"accuracy vs lag: Lag, PureAcc, NoisyAcc"`
}

// RunTrial builds a fresh network and stimulus stream from the given
// run's seed, steps the dynamics over the whole drive, and runs the lag
// sweep on the post-burn-in window. Weights and stimulus draws use
// separate sources derived from the run seed, so the network is
// identical across noise levels of the same run.
func (ss *Sim) RunTrial(run int, noiseStd float64) (*Trial, error) {
	if err := ss.Validate(); err != nil {
		return nil, err
	}
	seed := ss.RndSeeds[run%len(ss.RndSeeds)]

	net := &rnet.Network{}
	net.Build(&ss.Net, rand.New(rand.NewSource(seed)))

	ev := &stim.WMEnv{Nm: "WM", Dsc: "working memory drive stream",
		Gen: stim.NewGen(&ss.Stim, seed+1), NStim: ss.NStim, NoiseStd: noiseStd}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	ev.Init(run)

	T := ev.Drive.Dim(0)
	burn := ss.Stim.BurnSteps()
	keep := T - burn
	n := ss.Net.N
	acts := etensor.NewFloat64([]int{keep, n}, nil, []string{"Time", "Unit"})
	net.Init()
	for t := 0; t < T; t++ {
		ev.Step()
		net.Step(ev.CurDrive())
		if t >= burn {
			copy(acts.Values[(t-burn)*n:(t-burn+1)*n], net.Act)
		}
	}

	trl := &Trial{
		NoiseStd: noiseStd,
		Acts:     acts,
		Noisy:    ev.NoisyVal[burn:],
		Pure:     ev.PureVal[burn:],
	}
	trl.PureLabels = stim.Quantize(trl.Pure, ss.Stim.NIn, ss.Quant)
	trl.NoisyLabels = stim.Quantize(trl.Noisy, ss.Stim.NIn, ss.Quant)
	cf := ss.Sweep
	trl.Curve = decode.Sweep(acts, trl.PureLabels, trl.NoisyLabels, ss.Stim.NIn, ss.Net.Dt, &cf)
	ss.Run.Cur = run
	return trl, nil
}
