package stim

import (
	"fmt"

	"github.com/emer/emergent/env"
	"github.com/emer/etable/etensor"
)

// WMEnv presents a generated drive stream one step at a time through the
// standard env.Env interface, so the working-memory input plugs into an
// emer-style trial loop. Init draws a fresh sequence; each Step copies
// the current drive row into Input. When the sequence is exhausted the
// Event counter wraps, Epoch increments, and the same sequence replays.
type WMEnv struct {
	Nm       string  `desc:"name of this environment"`
	Dsc      string  `desc:"description of this environment"`
	Gen      *Gen    `desc:"stimulus generator -- owns the random source"`
	NStim    int     `desc:"number of stimuli per sequence"`
	NoiseStd float64 `desc:"sd of the additive input noise, 0 for a pure run"`

	Drive    *etensor.Float64 `view:"-" desc:"one-hot drive for the whole sequence, T x NIn"`
	NoisyVal []float64        `view:"-" desc:"noisy scalar stream, time-aligned with Drive"`
	PureVal  []float64        `view:"-" desc:"pure scalar stream, same timing envelope"`
	Input    etensor.Float64  `desc:"drive channels for the current step"`

	Run   env.Ctr `view:"inline" desc:"run number, set by Init"`
	Epoch env.Ctr `view:"inline" desc:"number of complete passes over the sequence"`
	Event env.Ctr `view:"inline" desc:"step within the sequence"`
}

func (ev *WMEnv) Name() string { return ev.Nm }
func (ev *WMEnv) Desc() string { return ev.Dsc }

func (ev *WMEnv) Validate() error {
	if ev.Gen == nil {
		return fmt.Errorf("WMEnv: %v has no Gen", ev.Nm)
	}
	if ev.NStim <= 0 {
		return fmt.Errorf("WMEnv: %v NStim must be positive, is %d", ev.Nm, ev.NStim)
	}
	return ev.Gen.Params.Validate()
}

func (ev *WMEnv) State(element string) etensor.Tensor {
	switch element {
	case "Input":
		return &ev.Input
	case "Drive":
		return ev.Drive
	}
	return nil
}

// String returns the current step as a string.
func (ev *WMEnv) String() string {
	return fmt.Sprintf("t_%d", ev.Event.Cur)
}

// Init draws a new stimulus sequence for the given run and resets the
// counters. Key: Event.Cur = -1 so the first Step lands on step 0.
func (ev *WMEnv) Init(run int) {
	ev.Run.Scale = env.Run
	ev.Epoch.Scale = env.Epoch
	ev.Event.Scale = env.Event
	ev.Run.Init()
	ev.Epoch.Init()
	ev.Event.Init()
	ev.Run.Cur = run
	ev.Drive, ev.NoisyVal, ev.PureVal = ev.Gen.Generate(ev.NStim, ev.NoiseStd)
	ev.Event.Max = ev.Drive.Dim(0)
	ev.Input.SetShape([]int{ev.Gen.Params.NIn}, nil, []string{"Chan"})
	ev.Event.Cur = -1
}

// Step advances to the next drive step.
func (ev *WMEnv) Step() bool {
	ev.Epoch.Same()
	if ev.Event.Incr() {
		ev.Epoch.Incr()
	}
	nin := ev.Gen.Params.NIn
	t := ev.Event.Cur
	copy(ev.Input.Values, ev.Drive.Values[t*nin:(t+1)*nin])
	return true
}

// CurDrive is the drive channel vector for the current step.
func (ev *WMEnv) CurDrive() []float64 {
	return ev.Input.Values
}

func (ev *WMEnv) Action(element string, input etensor.Tensor) {
	// nop
}

func (ev *WMEnv) Counter(scale env.TimeScales) (cur, prv int, chg bool) {
	switch scale {
	case env.Run:
		return ev.Run.Query()
	case env.Epoch:
		return ev.Epoch.Query()
	case env.Event:
		return ev.Event.Query()
	}
	return -1, -1, false
}

// Compile-time check that implements Env interface
var _ env.Env = (*WMEnv)(nil)
