package stim

import "math"

// QuantMethod selects the rounding rule used to map a continuous
// stimulus value onto an input channel.
type QuantMethod int

const (
	Round QuantMethod = iota
	Floor
	Ceil
)

func (qm QuantMethod) String() string {
	switch qm {
	case Floor:
		return "Floor"
	case Ceil:
		return "Ceil"
	}
	return "Round"
}

func (qm QuantMethod) apply(x float64) float64 {
	switch qm {
	case Floor:
		return math.Floor(x)
	case Ceil:
		return math.Ceil(x)
	}
	return math.Round(x)
}

// Quantize maps each stream value to a zero-based channel class: apply
// the rounding method, clip to [1, nIn], subtract 1. Silent (zero) steps
// land in class 0 via the clip, exactly as they do in the encoded drive.
// Only finite inputs are meaningful -- the generator clips upstream.
func Quantize(vals []float64, nIn int, method QuantMethod) []int {
	labels := make([]int, len(vals))
	hi := float64(nIn)
	for i, v := range vals {
		labels[i] = int(clip(method.apply(v), 1, hi)) - 1
	}
	return labels
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
