package sim

import (
	"sync"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// RunNoiseLevels runs one trial per noise level, all from the same run
// number, so every level sees the same network and the same underlying
// stimulus sequence and differs only in the injected noise. Levels share
// no mutable state; with parallel set they run in their own goroutines.
// Results come back in level order either way.
func (ss *Sim) RunNoiseLevels(run int, levels []float64, parallel bool) ([]*Trial, error) {
	trials := make([]*Trial, len(levels))
	errs := make([]error, len(levels))
	if !parallel {
		for i, lev := range levels {
			trials[i], errs[i] = ss.RunTrial(run, lev)
		}
	} else {
		var wg sync.WaitGroup
		for i, lev := range levels {
			wg.Add(1)
			go func(i int, lev float64) {
				defer wg.Done()
				// each goroutine gets its own Sim value: RunTrial touches
				// the Run counter, and nothing else is mutated
				sc := *ss
				trials[i], errs[i] = sc.RunTrial(run, lev)
			}(i, lev)
		}
		wg.Wait()
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return trials, nil
}

// SummaryTable collapses a set of trials into one row per noise level,
// reporting the lag-0 accuracy for both label sources.
func SummaryTable(trials []*Trial) *etable.Table {
	dt := &etable.Table{}
	dt.SetFromSchema(etable.Schema{
		{Name: "NoiseStd", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "PureAcc", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "NoisyAcc", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}, len(trials))
	for i, trl := range trials {
		dt.SetCellFloat("NoiseStd", i, trl.NoiseStd)
		dt.SetCellFloat("PureAcc", i, trl.Curve.CellFloat("PureAcc", 0))
		dt.SetCellFloat("NoisyAcc", i, trl.Curve.CellFloat("NoisyAcc", 0))
	}
	return dt
}
