// Package decode measures how long a stimulus stays linearly decodable
// from network activity: it sweeps a reconstruction lag and trains a
// fresh multiclass decoder at each lag, pairing activity at step t with
// the label presented lag steps earlier.
package decode

import (
	"math"

	"github.com/emer/emergent/decoder"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"golang.org/x/exp/rand"
)

// Config sets the lag sweep. Call Defaults first.
type Config struct {
	MaxLag   float64 `def:"1" desc:"largest reconstruction lag to evaluate, in time units"`
	LagStep  float64 `def:"0.1" desc:"lag increment"`
	TestFrac float64 `def:"0.3" desc:"fraction of samples held out for scoring"`
	Lrate    float32 `def:"0.1" desc:"decoder learning rate"`
	Epochs   int     `def:"100" desc:"fixed pass cap for decoder training"`
	Seed     uint64  `desc:"seed for the train/test permutation, reset at each lag"`
}

func (cf *Config) Defaults() {
	cf.MaxLag = 1
	cf.LagStep = 0.1
	cf.TestFrac = 0.3
	cf.Lrate = 0.1
	cf.Epochs = 100
	cf.Seed = 1
}

// Sweep evaluates decoding accuracy at lags 0, LagStep, 2*LagStep, ...
// up to MaxLag, for both label sources over the same activity. acts is
// the T x N trajectory; labels hold the per-step class in [0, nCats-1].
// It returns a table with columns Lag, PureAcc, NoisyAcc, one row per
// evaluated lag; accuracy is NaN where a train or test partition had
// fewer than two classes. The sweep stops outright at the first lag
// whose step count reaches T -- later lags have no usable samples.
//
// At each lag the train/test permutation is drawn once from Seed and
// shared by the two label sources, so membership is identical across
// the pure and noisy evaluation.
func Sweep(acts *etensor.Float64, pureLabels, noisyLabels []int, nCats int, dt float64, cf *Config) *etable.Table {
	T := acts.Dim(0)
	curve := &etable.Table{}
	curve.SetFromSchema(etable.Schema{
		{Name: "Lag", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "PureAcc", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "NoisyAcc", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}, 0)
	for li := 0; ; li++ {
		lag := float64(li) * cf.LagStep
		if lag > cf.MaxLag+1e-9 {
			break
		}
		steps := int(math.Round(lag / dt))
		if steps >= T {
			break
		}
		pa, na := evalLag(acts, pureLabels, noisyLabels, nCats, steps, cf)
		row := curve.Rows
		curve.AddRows(1)
		curve.SetCellFloat("Lag", row, lag)
		curve.SetCellFloat("PureAcc", row, pa)
		curve.SetCellFloat("NoisyAcc", row, na)
		if cf.LagStep <= 0 {
			break
		}
	}
	return curve
}

// evalLag pairs activity rows lag..T-1 with labels 0..T-1-lag, so each
// feature row looks back at the label presented lag steps earlier.
func evalLag(acts *etensor.Float64, pure, noisy []int, nCats, lag int, cf *Config) (pureAcc, noisyAcc float64) {
	T := acts.Dim(0)
	n := acts.Dim(1)
	nSamp := T - lag
	feats := make([][]float32, nSamp)
	for i := 0; i < nSamp; i++ {
		row := acts.Values[(i+lag)*n : (i+lag+1)*n]
		f := make([]float32, n)
		for j, v := range row {
			f[j] = float32(v)
		}
		feats[i] = f
	}
	rng := rand.New(rand.NewSource(cf.Seed))
	perm := rng.Perm(nSamp)
	nTest := int(math.Round(cf.TestFrac * float64(nSamp)))
	test, train := perm[:nTest], perm[nTest:]
	pureAcc = fitScore(feats, pure[:nSamp], train, test, nCats, cf)
	noisyAcc = fitScore(feats, noisy[:nSamp], train, test, nCats, cf)
	return
}

// fitScore trains a fresh softmax decoder on the train partition and
// returns exact-match accuracy on the test partition, or NaN if either
// partition has fewer than two distinct classes -- there is nothing
// meaningful to fit or score in that case, and NaN (not zero) keeps
// degenerate lags out of downstream aggregation.
func fitScore(feats [][]float32, labels []int, train, test []int, nCats int, cf *Config) float64 {
	if nClasses(labels, train) < 2 || nClasses(labels, test) < 2 {
		return math.NaN()
	}
	sm := decoder.SoftMax{}
	sm.Init(nCats, len(feats[0]))
	sm.Lrate = cf.Lrate
	for e := 0; e < cf.Epochs; e++ {
		for _, i := range train {
			copy(sm.Inputs, feats[i])
			sm.Forward()
			sm.Train(labels[i])
		}
	}
	hit := 0
	for _, i := range test {
		copy(sm.Inputs, feats[i])
		sm.Forward()
		sm.Sort()
		if sm.Sorted[0] == labels[i] {
			hit++
		}
	}
	return float64(hit) / float64(len(test))
}

func nClasses(labels []int, idxs []int) int {
	seen := map[int]bool{}
	for _, i := range idxs {
		seen[labels[i]] = true
	}
	return len(seen)
}
