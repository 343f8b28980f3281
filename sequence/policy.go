package sequence

import (
	"github.com/jsphweid/mmlcodec/chord"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/util"
)

// Policy picks the sounding pitch of one step for a voice role.
// prev is the pitch picked on the previous step (model.Rest if none) and
// last is the most recent non-rest pick.
type Policy struct {
	Mode model.Mode
	pick func(f chord.Frame, prev, last int) int
}

func PolicyFor(mode model.Mode) Policy {
	switch mode {
	case model.Upper:
		return Policy{Mode: mode, pick: pickMiddle}
	case model.Lower:
		return Policy{Mode: mode, pick: pickBottom}
	default:
		return Policy{Mode: model.Melody, pick: pickTop}
	}
}

func (p Policy) Pick(f chord.Frame, prev, last int) int {
	if len(f.Active) == 0 {
		return model.Rest
	}
	return p.pick(f, prev, last)
}

func highest(ps model.Pitches) int {
	return int(ps[len(ps)-1])
}

func lowest(ps model.Pitches) int {
	return int(ps[0])
}

// pickTop takes the highest new onset. On a step with no onset a previous
// pitch that is still sounding is held.
func pickTop(f chord.Frame, prev, _ int) int {
	if len(f.Onsets) > 0 {
		return highest(f.Onsets)
	}
	if prev != model.Rest && f.Sounding(prev) {
		return prev
	}
	return highest(f.Active)
}

func pickBottom(f chord.Frame, prev, _ int) int {
	if len(f.Onsets) > 0 {
		return lowest(f.Onsets)
	}
	if prev != model.Rest && f.Sounding(prev) {
		return prev
	}
	return lowest(f.Active)
}

// pickMiddle leaves the lowest pitch to the bass part once three or more
// candidates sound, then moves as little as possible from the last pitch.
func pickMiddle(f chord.Frame, _, last int) int {
	candidates := f.Active
	if len(f.Onsets) > 0 {
		candidates = f.Onsets
	}
	if len(candidates) >= 3 {
		candidates = candidates[1:]
	}
	if last == model.Rest {
		return highest(candidates)
	}
	best := highest(candidates)
	bestDist := util.Abs(best - last)
	for i := len(candidates) - 2; i >= 0; i-- {
		c := int(candidates[i])
		if d := util.Abs(c - last); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
