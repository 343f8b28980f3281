package sequence

import (
	"github.com/jsphweid/mmlcodec/chord"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/util"
)

// TotalSteps is ceil(end / stepTicks) over the later of the last note end and
// forcedEnd, and never less than one step.
func TotalSteps(notes []model.NoteEvent, stepTicks int, forcedEnd int) int {
	end := forcedEnd
	for _, n := range notes {
		end = util.Max(end, n.End())
	}
	if stepTicks <= 0 {
		return 1
	}
	return util.Max(1, util.CeilDiv(end, stepTicks))
}

// Quantize reduces a note pool to one pitch per step using the policy of mode.
func Quantize(notes []model.NoteEvent, stepTicks int, mode model.Mode, forcedEnd int) model.StepSequence {
	total := TotalSteps(notes, stepTicks, forcedEnd)
	seq := make(model.StepSequence, total)
	if len(notes) == 0 {
		for i := range seq {
			seq[i] = model.Rest
		}
		return seq
	}

	policy := PolicyFor(mode)
	frames := chord.BuildFrames(notes, stepTicks, total)
	prev, last := model.Rest, model.Rest
	for i, f := range frames {
		v := policy.Pick(f, prev, last)
		seq[i] = v
		prev = v
		if v != model.Rest {
			last = v
		}
	}
	return seq
}

// Monophonic places notes directly on the grid. When two notes claim the same
// step the longer note keeps it, so the shorter one is trimmed or replaced.
func Monophonic(notes []model.NoteEvent, stepTicks int, forcedEnd int) model.StepSequence {
	total := TotalSteps(notes, stepTicks, forcedEnd)
	owner := make([]int, total)
	for i := range owner {
		owner[i] = -1
	}
	for idx, n := range notes {
		start, end := chord.QuantizeSpan(n, stepTicks)
		if start >= total {
			start = total - 1
		}
		end = util.Max(start+1, util.Min(end, total))
		for s := start; s < end; s++ {
			cur := owner[s]
			if cur == -1 || n.Duration > notes[cur].Duration {
				owner[s] = idx
			}
		}
	}
	seq := make(model.StepSequence, total)
	for i, o := range owner {
		if o == -1 {
			seq[i] = model.Rest
		} else {
			seq[i] = int(notes[o].Pitch)
		}
	}
	return seq
}
