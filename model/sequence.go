package model

import "fmt"

// Rest marks a step or run with no sounding pitch.
const Rest = -1

// StepSequence holds one pitch (or Rest) per quantization step.
type StepSequence []int

func (s StepSequence) Copy() StepSequence {
	res := make(StepSequence, len(s))
	copy(res, s)
	return res
}

// Run is a maximal span [Start, End) of identical values in a StepSequence.
type Run struct {
	Value int
	Start int
	End   int
}

func (r Run) Len() int {
	return r.End - r.Start
}

func (r Run) IsRest() bool {
	return r.Value == Rest
}

// Mode selects which voice role a pool is sequenced for.
type Mode int

const (
	Melody Mode = iota
	Upper
	Lower
)

func (m Mode) String() string {
	switch m {
	case Melody:
		return "melody"
	case Upper:
		return "upper"
	case Lower:
		return "lower"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// PartName is the name used for the mode in score output and reports.
func (m Mode) PartName() string {
	switch m {
	case Upper:
		return "chord1"
	case Lower:
		return "chord2"
	default:
		return "melody"
	}
}

var Modes = [3]Mode{Melody, Upper, Lower}
