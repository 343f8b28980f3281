// Package search picks the resolution and simplification level that render a
// note pool within a character budget at the best fidelity.
package search

import (
	"math"
	"sync"

	"github.com/jsphweid/mmlcodec/logger"
	"github.com/jsphweid/mmlcodec/mml"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/sequence"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/jsphweid/mmlcodec/util"
)

type Request struct {
	Notes  []model.NoteEvent
	Mode   model.Mode
	Budget int
	PPQ    int
	Tempo  int
	Volume int
	// CarryTempo writes the tempo directive into this part's header.
	CarryTempo bool
	// Compress enables the resolution and simplification search; otherwise a
	// single fixed resolution is rendered.
	Compress bool
	// StrictPrefix ranks candidates by how much of the front of the piece
	// survives rather than by fidelity.
	StrictPrefix bool
	// ForcedEnd extends the grid to at least this tick.
	ForcedEnd int
	Tuning    tuning.Params
	Logger    logger.Printer
}

type candidate struct {
	stepsPerQuarter int
	level           int
	part            model.EncodedPart
	fidelity        Score
	score           float64
	inBudget        bool
	ok              bool
}

func (r Request) encodeOptions(spq int) mml.EncodeOptions {
	return mml.EncodeOptions{
		StepsPerQuarter: spq,
		StepTicks:       r.PPQ / spq,
		Tempo:           r.Tempo,
		Volume:          r.Volume,
		CarryTempo:      r.CarryTempo,
	}
}

// Resolutions lists the candidate steps-per-quarter for a request, richest first.
func Resolutions(r Request) []int {
	var res []int
	if !r.Compress {
		for spq := r.Tuning.FixedStepsPerQuarter; spq > 1; spq /= 2 {
			if r.PPQ%spq == 0 && mml.Supports(spq) {
				return []int{spq}
			}
		}
		return []int{1}
	}
	for _, spq := range r.Tuning.Resolutions(r.Mode) {
		if r.PPQ%spq == 0 && mml.Supports(spq) {
			res = append(res, spq)
		}
	}
	if len(res) == 0 {
		res = []int{1}
	}
	return res
}

// Passes lists the simplification levels tried in each pass.
func Passes(r Request) [][]int {
	if !r.Compress {
		return [][]int{{0}}
	}
	var later []int
	for level := 1; level <= r.Tuning.MaxLevel; level++ {
		later = append(later, level)
	}
	if len(later) == 0 {
		return [][]int{{0}}
	}
	return [][]int{{0}, later}
}

// Run renders the pool under the budget. The result never exceeds the budget.
func Run(r Request) model.EncodedPart {
	if r.Tuning.ReferenceStepsPerQuarter == 0 {
		r.Tuning = tuning.Default()
	}
	if r.Logger == nil {
		r.Logger = logger.Nop()
	}
	if len(r.Notes) == 0 || r.PPQ <= 0 {
		return Fallback(r)
	}

	ref := NewReference(r.Notes, r.Mode, r.PPQ, r.ForcedEnd, r.Tuning)
	resolutions := Resolutions(r)
	var overflow *candidate
	for i, levels := range Passes(r) {
		cands := evaluate(r, ref, resolutions, levels)
		var best *candidate
		for j := range cands {
			c := &cands[j]
			if !c.ok {
				continue
			}
			if c.inBudget {
				if best == nil || betterInBudget(c, best, r.StrictPrefix) {
					best = c
				}
			} else if overflow == nil || betterOverflow(c, overflow, r.StrictPrefix) {
				overflow = c
			}
		}
		if best != nil {
			r.Logger.Debugf("%s: %d/%d chars at %d steps/quarter, level %d (pass %d)",
				r.Mode, best.part.Len(), r.Budget, best.stepsPerQuarter, best.level, i+1)
			return best.part
		}
	}

	if overflow == nil {
		return Fallback(r)
	}
	r.Logger.Debugf("%s: no candidate fits %d chars, truncating %d steps/quarter level %d",
		r.Mode, r.Budget, overflow.stepsPerQuarter, overflow.level)
	return overflow.part
}

// evaluate renders every resolution and level combination concurrently.
// Results keep their slot order so ranking stays deterministic.
func evaluate(r Request, ref Reference, resolutions []int, levels []int) []candidate {
	type job struct{ spq, level int }
	var jobs []job
	for _, spq := range resolutions {
		for _, level := range levels {
			jobs = append(jobs, job{spq, level})
		}
	}

	res := make([]candidate, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			res[i] = render(r, ref, j.spq, j.level)
		}(i, j)
	}
	wg.Wait()
	return res
}

func render(r Request, ref Reference, spq int, level int) candidate {
	p := r.Tuning
	c := candidate{stepsPerQuarter: spq, level: level}
	stepTicks := r.PPQ / spq
	seq := sequence.Quantize(r.Notes, stepTicks, r.Mode, r.ForcedEnd)
	seq = sequence.Simplify(seq, r.Mode, level, p)
	runs := sequence.Runs(seq)
	if sequence.NoteCount(runs) == 0 {
		return c
	}
	part, err := mml.Encode(runs, r.encodeOptions(spq))
	if err != nil {
		r.Logger.Warnf("%s: skipping %d steps/quarter: %v", r.Mode, spq, err)
		return c
	}
	part.Level = level
	sourceNotes := part.NoteEventCount

	c.fidelity = Fidelity(ref.Seq, ref.StepTicks, seq, stepTicks, p, 0)
	early := Fidelity(ref.Seq, ref.StepTicks, seq, stepTicks, p, ref.EarlySteps)
	part.Fidelity = c.fidelity.Total

	c.inBudget = part.Len() <= r.Budget
	overflowRatio := 0.0
	if !c.inBudget {
		overflowRatio = float64(part.Len()-r.Budget) / float64(util.Max(r.Budget, 1))
		part = Truncate(part, r.Budget)
	}

	earlyWeight := p.EarlyWeight
	if r.Compress {
		earlyWeight = p.EarlyWeightCompressed
	}
	coverage := float64(part.NoteEventCount) / float64(util.Max(sourceNotes, 1))
	c.score = c.fidelity.Total -
		p.LevelPenalty*float64(level) +
		p.ResolutionBonus*math.Log2(float64(spq)) +
		p.CoverageBonus*coverage +
		earlyWeight*early.Total -
		p.OverflowPenalty*overflowRatio
	c.part = part
	c.ok = true
	return c
}

// Fallback is a bare header and rest, used when there is nothing to render.
func Fallback(r Request) model.EncodedPart {
	spq := 1
	if r.PPQ > 0 {
		spq = Resolutions(r)[0]
	}
	part, err := mml.Encode([]model.Run{{Value: model.Rest, Start: 0, End: spq}}, r.encodeOptions(spq))
	if err != nil {
		return model.EncodedPart{}
	}
	return Truncate(part, r.Budget)
}
