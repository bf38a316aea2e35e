// Package stim generates the discretized, channel-encoded, optionally
// noise-perturbed stimulus streams that drive the working-memory network,
// and quantizes continuous streams back into class labels.
package stim

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Params sets the channel layout and timing of the stimulus stream.
// Durations are in the same time units as Dt and are converted to step
// counts by rounding.
type Params struct {
	NIn    int     `def:"10" desc:"number of input channels / stimulus classes"`
	Dt     float64 `def:"0.01" desc:"integration step -- must match the network"`
	BurnIn float64 `def:"1" desc:"initial silent period, excluded from analysis"`
	Dur    float64 `def:"0.2" desc:"duration each stimulus value is held"`
	ISI    float64 `def:"0.05" desc:"silent gap before each stimulus"`
}

func (pr *Params) Defaults() {
	pr.NIn = 10
	pr.Dt = 0.01
	pr.BurnIn = 1
	pr.Dur = 0.2
	pr.ISI = 0.05
}

// Validate returns an error for any parameter outside its valid range.
func (pr *Params) Validate() error {
	if pr.NIn <= 0 {
		return fmt.Errorf("stim.Params: NIn must be positive, is %d", pr.NIn)
	}
	if pr.Dt <= 0 {
		return fmt.Errorf("stim.Params: Dt must be positive, is %g", pr.Dt)
	}
	if pr.Dur <= 0 {
		return fmt.Errorf("stim.Params: Dur must be positive, is %g", pr.Dur)
	}
	if pr.BurnIn < 0 || pr.ISI < 0 {
		return fmt.Errorf("stim.Params: BurnIn and ISI must be non-negative, are %g, %g", pr.BurnIn, pr.ISI)
	}
	return nil
}

// BurnSteps is the number of burn-in steps prepended to every stream.
func (pr *Params) BurnSteps() int { return int(math.Round(pr.BurnIn / pr.Dt)) }

// DurSteps is the number of steps each stimulus value is held.
func (pr *Params) DurSteps() int { return int(math.Round(pr.Dur / pr.Dt)) }

// ISISteps is the number of silent steps preceding each stimulus.
func (pr *Params) ISISteps() int { return int(math.Round(pr.ISI / pr.Dt)) }

// Len is the total number of steps a stream of nStim stimuli occupies.
func (pr *Params) Len(nStim int) int {
	return pr.BurnSteps() + nStim*(pr.ISISteps()+pr.DurSteps())
}

// Gen draws stimulus streams. Each Gen owns its random source: two Gens
// with equal params and seeds produce byte-identical output, and
// independent runs must use independent Gens.
type Gen struct {
	Params Params     `view:"inline" desc:"channel and timing parameters"`
	Rnd    *rand.Rand `view:"-" desc:"owned source for all draws"`
}

// NewGen returns a generator with its own seeded source.
func NewGen(pr *Params, seed uint64) *Gen {
	return &Gen{Params: *pr, Rnd: rand.New(rand.NewSource(seed))}
}

// Generate draws nStim stimulus values and expands them in time.
// The stream starts with BurnIn/Dt zero steps; each stimulus contributes
// ISI/Dt zeros followed by Dur/Dt steps holding one value drawn from
// N((NIn+1)/2, NIn/6) clipped to [1, NIn]. Up to this point the noisy
// and pure streams are identical. Noise with sd noiseStd is then added
// wherever the noisy stream is nonzero -- never to silence -- and the
// stream re-clipped to [1, NIn]; noise-then-clip ordering is part of the
// contract. The drive one-hot encodes the rounded noisy stream on NIn
// channels, zero steps staying all-zero. noiseStd = 0 is a valid pure
// run: the two streams come back equal.
func (sg *Gen) Generate(nStim int, noiseStd float64) (drive *etensor.Float64, noisy, pure []float64) {
	pr := &sg.Params
	hi := float64(pr.NIn)
	val := distuv.Normal{Mu: (hi + 1) / 2, Sigma: hi / 6, Src: sg.Rnd}
	T := pr.Len(nStim)
	noisy = make([]float64, T)
	t := pr.BurnSteps()
	for s := 0; s < nStim; s++ {
		v := clip(val.Rand(), 1, hi)
		t += pr.ISISteps()
		for d := 0; d < pr.DurSteps(); d++ {
			noisy[t] = v
			t++
		}
	}
	pure = make([]float64, T)
	copy(pure, noisy)
	if noiseStd > 0 {
		nz := distuv.Normal{Mu: 0, Sigma: noiseStd, Src: sg.Rnd}
		for i, v := range noisy {
			if v != 0 {
				noisy[i] = clip(v+nz.Rand(), 1, hi)
			}
		}
	}
	drive = etensor.NewFloat64([]int{T, pr.NIn}, nil, []string{"Time", "Chan"})
	for i, v := range noisy {
		if v == 0 {
			continue
		}
		ch := int(clip(math.Round(v), 1, hi)) - 1
		drive.Set([]int{i, ch}, 1)
	}
	return drive, noisy, pure
}
