package stim

import "testing"

func TestWMEnvStepping(t *testing.T) {
	pr := testParams()
	ev := &WMEnv{Nm: "WM", Gen: NewGen(pr, 5), NStim: 4, NoiseStd: 0}
	if err := ev.Validate(); err != nil {
		t.Fatal(err)
	}
	ev.Init(2)
	if ev.Run.Cur != 2 {
		t.Errorf("Init did not set run: %d", ev.Run.Cur)
	}
	T := ev.Drive.Dim(0)
	if ev.Event.Max != T {
		t.Errorf("Event.Max %d != T %d", ev.Event.Max, T)
	}
	for step := 0; step < T; step++ {
		ev.Step()
		if ev.Event.Cur != step {
			t.Fatalf("after step %d, Event.Cur = %d", step, ev.Event.Cur)
		}
		for c := 0; c < pr.NIn; c++ {
			if ev.Input.Values[c] != ev.Drive.Value([]int{step, c}) {
				t.Fatalf("step %d: Input channel %d does not match drive", step, c)
			}
		}
	}
	if ev.Epoch.Cur != 0 {
		t.Errorf("epoch advanced early: %d", ev.Epoch.Cur)
	}
	ev.Step() // wraps
	if ev.Event.Cur != 0 || ev.Epoch.Cur != 1 {
		t.Errorf("wrap: Event.Cur=%d Epoch.Cur=%d, want 0 and 1", ev.Event.Cur, ev.Epoch.Cur)
	}
}
