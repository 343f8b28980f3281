package model

import "fmt"

type DurationToken struct {
	Value int
	Steps int
	Text  string
}

// EncodedPart is one rendered MML part. Tokens and TokenSteps are parallel;
// the first HeaderTokens entries are directives that consume no time.
type EncodedPart struct {
	Text             string
	Tokens           []string
	TokenSteps       []int
	HeaderTokens     int
	StepTicks        int
	StepsPerQuarter  int
	Level            int
	NoteEventCount   int
	RetainedEndTicks int
	SourceEndTicks   int
	Truncated        bool
	Fidelity         float64
}

func (p EncodedPart) Len() int {
	return len(p.Text)
}

type Segment struct {
	Index int
	Start int
	End   int
}

func (s Segment) Ticks() int {
	return s.End - s.Start
}

type Split int

const (
	Parallel Split = iota
	Sequential
)

func (s Split) String() string {
	if s == Sequential {
		return "sequential"
	}
	return "parallel"
}

func ParseSplit(s string) (Split, error) {
	switch s {
	case "parallel", "":
		return Parallel, nil
	case "sequential":
		return Sequential, nil
	}
	return Parallel, fmt.Errorf("unknown split mode %q", s)
}
