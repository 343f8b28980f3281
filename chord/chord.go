package chord

import (
	"sort"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/util"
)

// Frame is the set of pitches sounding during one quantization step and the
// subset that start on it. Both slices are ascending and duplicate free.
type Frame struct {
	Active model.Pitches
	Onsets model.Pitches
}

func (f Frame) Sounding(pitch int) bool {
	for _, p := range f.Active {
		if int(p) == pitch {
			return true
		}
	}
	return false
}

// QuantizeSpan rounds a note to the step grid. Every note keeps at least one step.
func QuantizeSpan(n model.NoteEvent, stepTicks int) (int, int) {
	start := util.RoundDiv(n.Start, stepTicks)
	end := util.RoundDiv(n.End(), stepTicks)
	if end <= start {
		end = start + 1
	}
	return start, end
}

func normalize(pitches model.Pitches) model.Pitches {
	if len(pitches) < 2 {
		return pitches
	}
	sort.Slice(pitches, func(i, j int) bool {
		return pitches[i] < pitches[j]
	})
	res := pitches[:1]
	for _, p := range pitches[1:] {
		if p != res[len(res)-1] {
			res = append(res, p)
		}
	}
	return res
}

func BuildFrames(notes []model.NoteEvent, stepTicks int, totalSteps int) []Frame {
	frames := make([]Frame, totalSteps)
	if stepTicks <= 0 || totalSteps == 0 {
		return frames
	}
	for _, n := range notes {
		start, end := QuantizeSpan(n, stepTicks)
		if start >= totalSteps {
			start = totalSteps - 1
		}
		end = util.Max(start+1, util.Min(end, totalSteps))
		frames[start].Onsets = append(frames[start].Onsets, n.Pitch)
		for s := start; s < end; s++ {
			frames[s].Active = append(frames[s].Active, n.Pitch)
		}
	}
	for i := range frames {
		frames[i].Active = normalize(frames[i].Active)
		frames[i].Onsets = normalize(frames[i].Onsets)
	}
	return frames
}

// HeldAcross counts notes that sound on both sides of tick.
func HeldAcross(notes []model.NoteEvent, tick int) int {
	var count int
	for _, n := range notes {
		if n.Start < tick && n.End() > tick {
			count++
		}
	}
	return count
}

// TouchesEdge reports whether some note starts or ends exactly at tick.
func TouchesEdge(notes []model.NoteEvent, tick int) bool {
	for _, n := range notes {
		if n.Start == tick || n.End() == tick {
			return true
		}
	}
	return false
}
