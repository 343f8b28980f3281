package pool

import (
	"math"
	"sort"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/jsphweid/mmlcodec/voice"
)

// Pools holds the merged note pool for each output part.
type Pools struct {
	Melody []model.NoteEvent
	Upper  []model.NoteEvent
	Lower  []model.NoteEvent
}

func (p Pools) For(mode model.Mode) []model.NoteEvent {
	switch mode {
	case model.Upper:
		return p.Upper
	case model.Lower:
		return p.Lower
	default:
		return p.Melody
	}
}

func (p Pools) Empty() bool {
	return len(p.Melody) == 0 && len(p.Upper) == 0 && len(p.Lower) == 0
}

// Merge flattens the tracks into one pool ordered by start tick, then pitch.
func Merge(tracks []model.Track) []model.NoteEvent {
	var all []model.NoteEvent
	for _, t := range tracks {
		all = append(all, t.Notes...)
	}
	return voice.SortByStart(all)
}

// Percentile uses linear interpolation between closest ranks.
func Percentile(pitches []int, pct float64) float64 {
	if len(pitches) == 0 {
		return 0
	}
	sorted := make([]int, len(pitches))
	copy(sorted, pitches)
	sort.Ints(sorted)
	if len(sorted) == 1 {
		return float64(sorted[0])
	}
	rank := pct / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	frac := rank - float64(lo)
	return float64(sorted[lo]) + (float64(sorted[hi])-float64(sorted[lo]))*frac
}

func Build(cls voice.Classification, p tuning.Params) Pools {
	pools := Pools{Melody: Merge(cls.Melody)}
	if cls.Separated {
		pools.Upper = Merge(cls.Upper)
		pools.Lower = Merge(cls.Lower)
	} else {
		harmony := Merge(cls.Harmony)
		pools.Upper = harmony
		pools.Lower = append([]model.NoteEvent(nil), harmony...)
	}
	return Rebalance(pools, p)
}

type noteKey struct {
	pitch    uint8
	start    int
	duration int
}

func keyOf(n model.NoteEvent) noteKey {
	return noteKey{n.Pitch, n.Start, n.Duration}
}

func keySet(notes []model.NoteEvent) map[noteKey]bool {
	res := make(map[noteKey]bool, len(notes))
	for _, n := range notes {
		res[keyOf(n)] = true
	}
	return res
}

// Rebalance lifts high notes out of the lower harmony pool into the upper one,
// and echoes the very highest into the melody pool.
func Rebalance(pools Pools, p tuning.Params) Pools {
	res := Pools{Melody: pools.Melody, Upper: pools.Upper, Lower: pools.Lower}
	combined := make([]int, 0, len(pools.Upper)+len(pools.Lower))
	for _, n := range pools.Upper {
		combined = append(combined, int(n.Pitch))
	}
	for _, n := range pools.Lower {
		combined = append(combined, int(n.Pitch))
	}

	if len(combined) >= p.RebalanceMinNotes && len(pools.Lower) > 0 {
		upperCut := Percentile(combined, p.UpperPercentile)
		echoCut := Percentile(combined, p.EchoPercentile)

		inUpper := keySet(pools.Upper)
		inMelody := keySet(pools.Melody)
		upper := append([]model.NoteEvent(nil), pools.Upper...)
		melody := append([]model.NoteEvent(nil), pools.Melody...)
		var lower []model.NoteEvent
		for _, n := range pools.Lower {
			if float64(n.Pitch) < upperCut {
				lower = append(lower, n)
				continue
			}
			if !inUpper[keyOf(n)] {
				upper = append(upper, n)
				inUpper[keyOf(n)] = true
			}
			if float64(n.Pitch) >= echoCut && !inMelody[keyOf(n)] {
				melody = append(melody, n)
				inMelody[keyOf(n)] = true
			}
		}
		res = Pools{Melody: voice.SortByStart(melody), Upper: voice.SortByStart(upper), Lower: lower}
	}

	res.Melody = Coalesce(res.Melody)
	res.Upper = Coalesce(res.Upper)
	res.Lower = Coalesce(res.Lower)
	return res
}

// Coalesce resolves overlapping notes of identical pitch: the earlier note is
// cut at the later note's start, and a later note starting together with the
// earlier one is folded into it.
func Coalesce(notes []model.NoteEvent) []model.NoteEvent {
	sorted := voice.SortByStart(notes)
	res := make([]model.NoteEvent, 0, len(sorted))
	last := make(map[uint8]int)
	for _, n := range sorted {
		if n.Duration <= 0 {
			continue
		}
		if idx, ok := last[n.Pitch]; ok && res[idx].End() > n.Start {
			prev := &res[idx]
			if n.Start <= prev.Start {
				if n.End() > prev.End() {
					prev.Duration = n.End() - prev.Start
				}
				continue
			}
			prev.Duration = n.Start - prev.Start
		}
		last[n.Pitch] = len(res)
		res = append(res, n)
	}
	return res
}
