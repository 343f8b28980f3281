package search

import (
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/sequence"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/jsphweid/mmlcodec/util"
	"github.com/jsphweid/mmlcodec/voice"
)

// Score compares a candidate with the reference. Pitch is the mean pitch-match
// value alone; Total adds the transition and leap terms.
type Score struct {
	Pitch float64
	Total float64
}

// Reference is the fine-grained sequence every candidate is measured against.
type Reference struct {
	Seq        model.StepSequence
	StepTicks  int
	EarlySteps int
}

// ReferenceStepsPerQuarter is the finest divisor of ppq not above the tuned
// reference resolution.
func ReferenceStepsPerQuarter(ppq int, p tuning.Params) int {
	for spq := util.Min(p.ReferenceStepsPerQuarter, ppq); spq > 1; spq-- {
		if ppq%spq == 0 {
			return spq
		}
	}
	return 1
}

// NewReference quantizes the pool at reference resolution. Mostly
// monophonic pools are laid on the grid directly.
func NewReference(notes []model.NoteEvent, mode model.Mode, ppq int, forcedEnd int, p tuning.Params) Reference {
	spq := ReferenceStepsPerQuarter(ppq, p)
	stepTicks := ppq / spq
	var seq model.StepSequence
	if voice.OverlapRatio(notes) <= p.MonoReferenceMaxOverlap {
		seq = sequence.Monophonic(notes, stepTicks, forcedEnd)
	} else {
		seq = sequence.Quantize(notes, stepTicks, mode, forcedEnd)
	}

	quarters := util.CeilDiv(len(seq), spq)
	early := int(float64(quarters)*p.EarlyFraction + 0.5)
	early = util.Clamp(early, p.EarlyMinQuarters, p.EarlyMaxQuarters)
	return Reference{
		Seq:        seq,
		StepTicks:  stepTicks,
		EarlySteps: util.Min(early*spq, len(seq)),
	}
}

func pitchScore(ref, cand int, p tuning.Params) float64 {
	switch {
	case ref == model.Rest && cand == model.Rest:
		return p.BothRestScore
	case ref == model.Rest || cand == model.Rest:
		return p.RestMismatchScore
	}
	switch d := util.Abs(ref - cand); {
	case d == 0:
		return p.ExactScore
	case d == 1:
		return p.SemitoneScore
	case d == 2:
		return p.WholeToneScore
	case d <= 4:
		return p.ThirdScore
	case d <= 7:
		return p.FifthScore
	default:
		return p.FarScore
	}
}

func leapScore(refLeap, candLeap int, p tuning.Params) float64 {
	switch d := util.Abs(refLeap - candLeap); {
	case d == 0:
		return p.LeapExactBonus
	case d <= 2:
		return p.LeapNearBonus
	case d >= 7:
		return p.LeapFarPenalty
	}
	return 0
}

func at(seq model.StepSequence, i int) int {
	if i < 0 || i >= len(seq) {
		return model.Rest
	}
	return seq[i]
}

// Fidelity averages over the first limit reference steps (all of them when
// limit <= 0). Candidate steps are sampled at each reference step's tick.
func Fidelity(ref model.StepSequence, refStepTicks int, cand model.StepSequence, candStepTicks int, p tuning.Params, limit int) Score {
	n := len(ref)
	if limit > 0 && limit < n {
		n = limit
	}
	if n == 0 || refStepTicks <= 0 || candStepTicks <= 0 {
		return Score{}
	}

	var pitchSum, totalSum float64
	prevRef, prevCand := model.Rest, model.Rest
	for i := 0; i < n; i++ {
		r := ref[i]
		c := at(cand, i*refStepTicks/candStepTicks)
		ps := pitchScore(r, c, p)
		s := ps

		refChange := i == 0 || r != prevRef
		candChange := i == 0 || c != prevCand
		if refChange == candChange {
			s += p.TransitionBonus
		}
		if i > 0 && refChange && candChange &&
			r != model.Rest && c != model.Rest && prevRef != model.Rest && prevCand != model.Rest {
			s += leapScore(r-prevRef, c-prevCand, p)
		}

		pitchSum += ps
		totalSum += s
		prevRef, prevCand = r, c
	}
	return Score{
		Pitch: pitchSum / float64(n),
		Total: totalSum / float64(n),
	}
}
