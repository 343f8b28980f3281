package voice

import (
	"sort"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/jsphweid/mmlcodec/util"
)

// Bucket is the running state of one voice during greedy assignment.
type Bucket struct {
	Index     int
	Notes     []model.NoteEvent
	LastEnd   int
	LastPitch int
}

func (b *Bucket) Empty() bool {
	return len(b.Notes) == 0
}

func (b *Bucket) add(n model.NoteEvent) {
	b.Notes = append(b.Notes, n)
	if n.End() > b.LastEnd {
		b.LastEnd = n.End()
	}
	b.LastPitch = int(n.Pitch)
}

// CostFunc prices putting n into b. Lower is better.
type CostFunc func(b *Bucket, n model.NoteEvent) float64

// SortForAssignment orders notes by start tick, then descending pitch, then
// descending duration.
func SortForAssignment(notes []model.NoteEvent) []model.NoteEvent {
	res := make([]model.NoteEvent, len(notes))
	copy(res, notes)
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Pitch != b.Pitch {
			return a.Pitch > b.Pitch
		}
		return a.Duration > b.Duration
	})
	return res
}

// Assign greedily distributes notes over n buckets, placing each note in the
// bucket with the lowest cost. Ties go to the lowest bucket index.
func Assign(notes []model.NoteEvent, n int, cost CostFunc) []*Bucket {
	buckets := make([]*Bucket, n)
	for i := range buckets {
		buckets[i] = &Bucket{Index: i, LastPitch: model.Rest}
	}
	if n == 0 {
		return buckets
	}
	for _, note := range SortForAssignment(notes) {
		best := 0
		bestCost := cost(buckets[0], note)
		for i := 1; i < n; i++ {
			c := cost(buckets[i], note)
			if c < bestCost {
				best, bestCost = i, c
			}
		}
		buckets[best].add(note)
	}
	return buckets
}

// SeparationCost penalises overlapping an unfinished note, leaping away from
// the bucket's last pitch and leaving the bucket idle.
func SeparationCost(p tuning.Params, ppq int) CostFunc {
	beat := float64(util.Max(ppq, 1))
	return func(b *Bucket, n model.NoteEvent) float64 {
		if b.Empty() {
			return p.EmptyBucketCost
		}
		var cost float64
		if b.LastEnd > n.Start {
			cost += p.OverlapPenalty + float64(b.LastEnd-n.Start)/beat*p.OverlapBeatWeight
		}
		cost += float64(util.Abs(int(n.Pitch)-b.LastPitch)) * p.PitchDistanceWeight
		if gap := n.Start - b.LastEnd; gap > 0 {
			cost += util.Min(float64(gap)/beat, p.IdleGapCapBeats) * p.IdleGapWeight
		}
		return cost
	}
}

// TrimOverlaps shortens any note that is still sounding when the next one
// in the same voice starts. Notes left with no duration are dropped.
func TrimOverlaps(notes []model.NoteEvent) []model.NoteEvent {
	sorted := SortByStart(notes)
	res := make([]model.NoteEvent, 0, len(sorted))
	for i, n := range sorted {
		if i+1 < len(sorted) && n.End() > sorted[i+1].Start {
			n.Duration = sorted[i+1].Start - n.Start
		}
		if n.Duration <= 0 {
			continue
		}
		res = append(res, n)
	}
	return res
}
