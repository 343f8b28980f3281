// Package ensemble divides one piece between several players, either by time
// range or by redistributing its notes.
package ensemble

import (
	"github.com/jsphweid/mmlcodec/chord"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/jsphweid/mmlcodec/util"
)

// complexity returns the per-beat cost profile of the piece: onsets are
// expensive, releases less so and sustained notes almost free.
func complexity(notes []model.NoteEvent, totalTicks, ppq int, p tuning.Params) []float64 {
	slices := make([]float64, util.Max(1, util.CeilDiv(totalTicks, ppq)))
	for _, n := range notes {
		first := util.Clamp(n.Start/ppq, 0, len(slices)-1)
		last := util.Clamp((n.End()-1)/ppq, first, len(slices)-1)
		slices[first] += p.OnsetCost
		if n.End() <= totalTicks {
			slices[last] += p.ReleaseCost
		}
		for s := first + 1; s < last; s++ {
			slices[s] += p.SustainCost
		}
	}
	return slices
}

// complexityTarget is the tick where the cumulative cost reaches frac of the
// total, interpolated within the beat.
func complexityTarget(slices []float64, frac float64, ppq int) (int, bool) {
	total := util.Sum(slices)
	if total <= 0 {
		return 0, false
	}
	want := total * frac
	var acc float64
	for i, c := range slices {
		if c > 0 && acc+c >= want {
			return i*ppq + int((want-acc)/c*float64(ppq)), true
		}
		acc += c
	}
	return len(slices) * ppq, true
}

func cutCost(notes []model.NoteEvent, tick, target, ppq int, p tuning.Params) float64 {
	bar := ppq * p.BeatsPerBar
	cost := p.CutActiveWeight * float64(chord.HeldAcross(notes, tick))
	if bar > 0 && tick%bar == 0 {
		cost -= p.BarAlignBonus
	}
	if tick%ppq == 0 {
		cost -= p.BeatAlignBonus
	}
	if chord.TouchesEdge(notes, tick) {
		cost -= p.EdgeAlignBonus
	}
	return cost + p.CutDistanceWeight*float64(util.Abs(tick-target))/float64(ppq)
}

// cutCandidates are the sixteenth-grid ticks and note edges within [lo, hi].
func cutCandidates(notes []model.NoteEvent, lo, hi, ppq int) []int {
	grid := util.Max(1, ppq/4)
	seen := map[int]bool{}
	for t := util.CeilDiv(lo, grid) * grid; t <= hi; t += grid {
		seen[t] = true
	}
	for _, n := range notes {
		for _, t := range []int{n.Start, n.End()} {
			if t >= lo && t <= hi {
				seen[t] = true
			}
		}
	}
	return util.GetKeys(seen)
}

// Boundaries returns players-1 ascending cut ticks. Each cut is searched
// around a target blending an even split with an equal share of complexity,
// and every segment keeps at least totalTicks/(MinSegmentDivisor*players).
func Boundaries(notes []model.NoteEvent, totalTicks, ppq, players int, p tuning.Params) []int {
	if players <= 1 || totalTicks <= 0 {
		return nil
	}
	ppq = util.Max(ppq, 1)
	minSeg := totalTicks / (util.Max(p.MinSegmentDivisor, 1) * players)
	window := util.Max(p.CutWindowBars, 1) * util.Max(p.BeatsPerBar, 1) * ppq
	slices := complexity(notes, totalTicks, ppq, p)

	cuts := make([]int, 0, players-1)
	prev := 0
	for k := 1; k < players; k++ {
		frac := float64(k) / float64(players)
		target := int(float64(totalTicks) * frac)
		if ct, ok := complexityTarget(slices, frac, ppq); ok {
			target = int((1-p.ComplexityBlend)*float64(target) + p.ComplexityBlend*float64(ct))
		}

		lo := prev + util.Max(minSeg, 1)
		hi := totalTicks - util.Max(minSeg, 1)*(players-k)
		if lo > hi {
			lo, hi = prev+1, totalTicks-(players-k)
		}
		target = util.Clamp(target, lo, hi)

		cands := cutCandidates(notes, util.Max(lo, target-window), util.Min(hi, target+window), ppq)
		if len(cands) == 0 {
			cands = cutCandidates(notes, lo, hi, ppq)
		}
		best := target
		if len(cands) > 0 {
			best = cands[0]
			bestCost := cutCost(notes, best, target, ppq, p)
			for _, c := range cands[1:] {
				if cost := cutCost(notes, c, target, ppq, p); cost < bestCost {
					best, bestCost = c, cost
				}
			}
		}
		cuts = append(cuts, best)
		prev = best
	}
	return cuts
}

// Segments turns cut ticks into consecutive segments covering [0, totalTicks).
func Segments(cuts []int, totalTicks int) []model.Segment {
	res := make([]model.Segment, 0, len(cuts)+1)
	start := 0
	for i, c := range cuts {
		res = append(res, model.Segment{Index: i, Start: start, End: c})
		start = c
	}
	return append(res, model.Segment{Index: len(cuts), Start: start, End: totalTicks})
}
