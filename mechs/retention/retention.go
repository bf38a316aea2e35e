// retention runs the working-memory retention experiment: a sparse
// random recurrent network maintains a stream of discretized stimuli
// under increasing input noise, and a lag sweep measures how far back
// the original stimulus can still be decoded from the activity. One
// accuracy-vs-lag table is written per noise level, plus a lag-0
// summary across levels.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Fatemeh-Amidizadeh/noisy-working-memory/library/sim"
	"github.com/emer/etable/etable"
)

func main() {
	ss := &sim.Sim{}
	ss.New()

	var noise, outDir string
	var run int
	var par bool
	flag.IntVar(&ss.Net.N, "n", 500, "number of recurrent units")
	flag.Float64Var(&ss.Net.G, "g", 1.5, "recurrent gain")
	flag.Float64Var(&ss.Net.Tau, "tau", 0.1, "network time constant")
	flag.IntVar(&ss.Net.NIn, "nin", 10, "number of input channels")
	flag.IntVar(&ss.NStim, "nstim", 20, "stimuli per trial")
	flag.Float64Var(&ss.Sweep.MaxLag, "maxlag", 1, "largest decoding lag, in time units")
	flag.IntVar(&run, "run", 0, "run number -- determines the random seed")
	flag.BoolVar(&par, "par", false, "run noise levels in parallel")
	flag.StringVar(&noise, "noise", "0,0.5,1,1.5", "comma-separated noise sd levels")
	flag.StringVar(&outDir, "outdir", ".", "directory for output tsv files")
	flag.Parse()
	ss.Stim.NIn = ss.Net.NIn
	ss.Net.Update()

	levels, err := parseLevels(noise)
	if err != nil {
		log.Fatal(err)
	}

	trials, err := ss.RunNoiseLevels(run, levels, par)
	if err != nil {
		log.Fatal(err)
	}
	for _, trl := range trials {
		fmt.Printf("noise %.2f:  lag0 pure %.3f  noisy %.3f\n", trl.NoiseStd,
			trl.Curve.CellFloat("PureAcc", 0), trl.Curve.CellFloat("NoisyAcc", 0))
		fnm := filepath.Join(outDir, fmt.Sprintf("retention_run%d_noise%.2f.tsv", run, trl.NoiseStd))
		if err := saveTable(trl.Curve, fnm); err != nil {
			log.Fatal(err)
		}
	}
	fnm := filepath.Join(outDir, fmt.Sprintf("retention_run%d_summary.tsv", run))
	if err := saveTable(sim.SummaryTable(trials), fnm); err != nil {
		log.Fatal(err)
	}
}

func parseLevels(s string) ([]float64, error) {
	var levels []float64
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("bad noise level %q: %v", f, err)
		}
		levels = append(levels, v)
	}
	return levels, nil
}

func saveTable(dt *etable.Table, fnm string) error {
	f, err := os.Create(fnm)
	if err != nil {
		return err
	}
	defer f.Close()
	return dt.WriteCSV(f, etable.Tab, etable.Headers)
}
