package decode

import (
	"math"
	"testing"

	"github.com/emer/etable/etensor"
	"golang.org/x/exp/rand"
)

// oneHotActs builds a T x n trajectory where row t is the one-hot code
// of src[t] (or all zero for src[t] < 0).
func oneHotActs(src []int, n int) *etensor.Float64 {
	acts := etensor.NewFloat64([]int{len(src), n}, nil, []string{"Time", "Unit"})
	for t, c := range src {
		if c >= 0 {
			acts.Set([]int{t, c}, 1)
		}
	}
	return acts
}

func randLabels(T, nCats int, seed uint64) []int {
	rng := rand.New(rand.NewSource(seed))
	labels := make([]int, T)
	for i := range labels {
		labels[i] = rng.Intn(nCats)
	}
	return labels
}

func testConfig() *Config {
	cf := &Config{}
	cf.Defaults()
	cf.Epochs = 50
	cf.Seed = 13
	return cf
}

func TestSweepTruncation(t *testing.T) {
	T := 60
	labels := randLabels(T, 3, 1)
	acts := oneHotActs(labels, 3)
	cf := testConfig()
	cf.MaxLag = 1e9 // stop must come from the trajectory length
	curve := Sweep(acts, labels, labels, 3, 0.1, cf)
	// lag steps are round(li*0.1/0.1) = li, so exactly T lags fit
	if curve.Rows != T {
		t.Errorf("sweep evaluated %d lags, want %d", curve.Rows, T)
	}
	if lag := curve.CellFloat("Lag", curve.Rows-1); math.Abs(lag-float64(T-1)*0.1) > 1e-9 {
		t.Errorf("last lag %g, want %g", lag, float64(T-1)*0.1)
	}
}

func TestSweepLagZeroPerfect(t *testing.T) {
	T := 90
	labels := randLabels(T, 3, 2)
	acts := oneHotActs(labels, 3)
	cf := testConfig()
	cf.MaxLag = 0
	curve := Sweep(acts, labels, labels, 3, 0.1, cf)
	if curve.Rows != 1 {
		t.Fatalf("MaxLag=0 evaluated %d lags", curve.Rows)
	}
	if pa := curve.CellFloat("PureAcc", 0); pa < 0.999 {
		t.Errorf("one-hot features at lag 0 decoded at %.3f, want 1.0", pa)
	}
}

func TestSweepCausalAlignment(t *testing.T) {
	// activity encodes the label from 3 steps earlier; accuracy must be
	// perfect at lag 0.3 (dt 0.1)
	T := 90
	shift := 3
	labels := randLabels(T, 3, 4)
	src := make([]int, T)
	for t := range src {
		if t < shift {
			src[t] = -1
		} else {
			src[t] = labels[t-shift]
		}
	}
	acts := oneHotActs(src, 3)
	cf := testConfig()
	cf.MaxLag = 0.5
	curve := Sweep(acts, labels, labels, 3, 0.1, cf)
	if pa := curve.CellFloat("PureAcc", shift); pa < 0.999 {
		t.Errorf("lag-%d accuracy %.3f, want 1.0", shift, pa)
	}
}

func TestSweepDegenerateLabels(t *testing.T) {
	T := 60
	labels := make([]int, T) // single class everywhere
	acts := oneHotActs(randLabels(T, 3, 6), 3)
	cf := testConfig()
	cf.MaxLag = 0
	curve := Sweep(acts, labels, labels, 3, 0.1, cf)
	if pa := curve.CellFloat("PureAcc", 0); !math.IsNaN(pa) {
		t.Errorf("single-class labels gave accuracy %g, want NaN", pa)
	}
}

func TestSweepSharedPartition(t *testing.T) {
	// identical label sources must come out with identical accuracy,
	// which only holds if they share the train/test membership
	T := 80
	labels := randLabels(T, 4, 8)
	acts := oneHotActs(labels, 4)
	cf := testConfig()
	cf.MaxLag = 0.2
	curve := Sweep(acts, labels, labels, 4, 0.1, cf)
	for r := 0; r < curve.Rows; r++ {
		pa, na := curve.CellFloat("PureAcc", r), curve.CellFloat("NoisyAcc", r)
		if pa != na && !(math.IsNaN(pa) && math.IsNaN(na)) {
			t.Errorf("row %d: pure %.3f != noisy %.3f for identical labels", r, pa, na)
		}
	}
}
