package mml

import (
	"strconv"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/pkg/errors"
)

// Denominators are the note lengths the grammar can write without ties.
var Denominators = []int{1, 2, 4, 8, 16, 32, 64}

// Supports reports whether every step count is writable at this resolution,
// which needs a single step to be an exact 1/d note.
func Supports(stepsPerQuarter int) bool {
	whole := 4 * stepsPerQuarter
	for _, d := range Denominators {
		if whole == d {
			return true
		}
	}
	return false
}

type duration struct {
	steps  int
	denom  int
	dotted bool
}

func (d duration) text(defaultDenom int) string {
	var s string
	if d.denom != defaultDenom {
		s = strconv.Itoa(d.denom)
	}
	if d.dotted {
		s += "."
	}
	return s
}

type factoring struct {
	count   int
	textLen int
	parts   []duration
}

// DurationTable factors step counts into note lengths for one resolution and
// one default length.
type DurationTable struct {
	StepsPerQuarter int
	DefaultDenom    int
	entries         []duration
	memo            []*factoring
}

func NewDurationTable(stepsPerQuarter int, defaultDenom int) (*DurationTable, error) {
	if !Supports(stepsPerQuarter) {
		return nil, errors.Errorf("unsupported resolution %d steps per quarter", stepsPerQuarter)
	}
	whole := 4 * stepsPerQuarter
	t := &DurationTable{StepsPerQuarter: stepsPerQuarter, DefaultDenom: defaultDenom}
	for _, d := range Denominators {
		if whole%d != 0 {
			continue
		}
		steps := whole / d
		t.entries = append(t.entries, duration{steps: steps, denom: d})
		if steps%2 == 0 {
			t.entries = append(t.entries, duration{steps: steps + steps/2, denom: d, dotted: true})
		}
	}
	t.memo = make([]*factoring, 2*whole+1)
	return t, nil
}

func (t *DurationTable) WholeSteps() int {
	return 4 * t.StepsPerQuarter
}

// Factor splits steps into the fewest lengths, preferring shorter text on ties.
// Runs longer than two whole notes shed whole notes first.
func (t *DurationTable) Factor(steps int) []duration {
	if steps <= 0 {
		return nil
	}
	whole := t.WholeSteps()
	var res []duration
	for steps > 2*whole {
		res = append(res, duration{steps: whole, denom: 1})
		steps -= whole
	}
	f := t.solve(steps)
	return append(res, f.parts...)
}

func (t *DurationTable) solve(n int) *factoring {
	if n == 0 {
		return &factoring{}
	}
	if f := t.memo[n]; f != nil {
		return f
	}
	var best *factoring
	for _, e := range t.entries {
		if e.steps > n {
			continue
		}
		sub := t.solve(n - e.steps)
		if sub.count < 0 {
			continue
		}
		count := sub.count + 1
		textLen := sub.textLen + len(e.text(t.DefaultDenom))
		if best == nil || count < best.count || (count == best.count && textLen < best.textLen) {
			parts := make([]duration, 0, count)
			parts = append(parts, e)
			parts = append(parts, sub.parts...)
			best = &factoring{count: count, textLen: textLen, parts: parts}
		}
	}
	if best == nil {
		best = &factoring{count: -1}
	}
	t.memo[n] = best
	return best
}

// Split renders a run as duration tokens; Text holds only the length part.
func (t *DurationTable) Split(run model.Run) []model.DurationToken {
	parts := t.Factor(run.Len())
	res := make([]model.DurationToken, len(parts))
	for i, p := range parts {
		res[i] = model.DurationToken{Value: run.Value, Steps: p.steps, Text: p.text(t.DefaultDenom)}
	}
	return res
}
