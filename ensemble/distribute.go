package ensemble

import (
	"sort"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/pool"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/jsphweid/mmlcodec/voice"
)

// Assignment is one player's three note pools.
type Assignment struct {
	Melody []model.NoteEvent
	Chord1 []model.NoteEvent
	Chord2 []model.NoteEvent
}

func (a Assignment) For(mode model.Mode) []model.NoteEvent {
	switch mode {
	case model.Upper:
		return a.Chord1
	case model.Lower:
		return a.Chord2
	default:
		return a.Melody
	}
}

// Estimator predicts how many note events a pool keeps once rendered in mode.
type Estimator interface {
	Retained(notes []model.NoteEvent, mode model.Mode) int
}

type slot struct {
	notes []model.NoteEvent
	stats model.VoiceStats
}

func slotsOf(notes []model.NoteEvent, count, ppq int, p tuning.Params) []slot {
	buckets := voice.Assign(notes, count, voice.SeparationCost(p, ppq))
	var res []slot
	for _, v := range voice.VoicesFromBuckets(buckets, false, "slot") {
		if len(v.Notes) == 0 {
			continue
		}
		res = append(res, slot{notes: v.Notes, stats: voice.TrackStats(v)})
	}
	return res
}

// Distribute pools all notes and deals them out to players melody/chord1/chord2
// triples. With at least 3 slots per player the highest slots carry the
// melodies and the rest go to whichever chord part loses fewer notes.
// Otherwise the pool is cut into three pitch bands.
func Distribute(notes []model.NoteEvent, players, ppq int, p tuning.Params, est Estimator) []Assignment {
	if players < 1 {
		players = 1
	}
	res := make([]Assignment, players)
	if len(notes) == 0 {
		return res
	}
	slots := slotsOf(notes, 3*players, ppq, p)
	if len(slots) >= 3*players && est != nil {
		return distributeSlots(slots, players, est)
	}
	return distributeBands(notes, players, ppq, p)
}

type chordSlot struct {
	slot
	// gain is how many more notes chord1 keeps than chord2
	gain int
}

func distributeSlots(slots []slot, players int, est Estimator) []Assignment {
	res := make([]Assignment, players)
	for i := 0; i < players; i++ {
		res[i].Melody = slots[i].notes
	}

	rest := make([]chordSlot, 0, len(slots)-players)
	for _, s := range slots[players:] {
		upper := est.Retained(s.notes, model.Upper)
		lower := est.Retained(s.notes, model.Lower)
		rest = append(rest, chordSlot{slot: s, gain: upper - lower})
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].gain > rest[j].gain
	})

	chord1 := rest[:players]
	chord2 := rest[players:]
	byPitch := func(cs []chordSlot) {
		sort.SliceStable(cs, func(i, j int) bool {
			return cs[i].stats.AvgPitch > cs[j].stats.AvgPitch
		})
	}
	byPitch(chord1)
	byPitch(chord2)
	for i := 0; i < players; i++ {
		res[i].Chord1 = chord1[i].notes
	}
	for i := 0; i < players; i++ {
		res[i].Chord2 = chord2[i].notes
	}
	return res
}

// bands splits notes into high, middle and low thirds by pitch. An empty band
// is backfilled from its largest neighbour.
func bands(notes []model.NoteEvent) [3][]model.NoteEvent {
	pitches := make([]int, len(notes))
	for i, n := range notes {
		pitches[i] = int(n.Pitch)
	}
	lowCut := pool.Percentile(pitches, 100.0/3)
	highCut := pool.Percentile(pitches, 200.0/3)

	var res [3][]model.NoteEvent
	for _, n := range notes {
		switch pitch := float64(n.Pitch); {
		case pitch > highCut:
			res[0] = append(res[0], n)
		case pitch > lowCut:
			res[1] = append(res[1], n)
		default:
			res[2] = append(res[2], n)
		}
	}
	for i := range res {
		if len(res[i]) > 0 {
			continue
		}
		from := -1
		for _, j := range []int{i - 1, i + 1} {
			if j >= 0 && j < 3 && len(res[j]) > 0 && (from < 0 || len(res[j]) > len(res[from])) {
				from = j
			}
		}
		if from < 0 {
			from = 1
			for j := range res {
				if len(res[j]) > len(res[from]) {
					from = j
				}
			}
		}
		res[i] = append([]model.NoteEvent(nil), res[from]...)
	}
	return res
}

func distributeBands(notes []model.NoteEvent, players, ppq int, p tuning.Params) []Assignment {
	res := make([]Assignment, players)
	for b, band := range bands(notes) {
		buckets := voice.Assign(band, players, voice.SeparationCost(p, ppq))
		for i, bucket := range buckets {
			switch b {
			case 0:
				res[i].Melody = bucket.Notes
			case 1:
				res[i].Chord1 = bucket.Notes
			default:
				res[i].Chord2 = bucket.Notes
			}
		}
	}
	return res
}
