package voice

import (
	"sort"

	"github.com/jsphweid/mmlcodec/model"
)

// SortByStart returns a copy of notes ordered by start tick, then pitch.
func SortByStart(notes []model.NoteEvent) []model.NoteEvent {
	res := make([]model.NoteEvent, len(notes))
	copy(res, notes)
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Start != res[j].Start {
			return res[i].Start < res[j].Start
		}
		return res[i].Pitch < res[j].Pitch
	})
	return res
}

// OverlapRatio is the fraction of notes whose onset falls while an earlier
// note of the same voice is still sounding.
func OverlapRatio(notes []model.NoteEvent) float64 {
	if len(notes) == 0 {
		return 0
	}
	sorted := SortByStart(notes)
	var overlapped int
	maxEnd := -1
	for i, n := range sorted {
		if i > 0 && n.Start < maxEnd {
			overlapped++
		}
		if n.End() > maxEnd {
			maxEnd = n.End()
		}
	}
	return float64(overlapped) / float64(len(notes))
}

func Stats(notes []model.NoteEvent, percussion bool) model.VoiceStats {
	s := model.VoiceStats{NoteCount: len(notes), Percussion: percussion}
	if len(notes) == 0 {
		s.AvgPitch = -1
		return s
	}
	var pitchSum, velSum float64
	for _, n := range notes {
		pitchSum += float64(n.Pitch)
		velSum += n.Velocity
		if n.End() > s.MaxEnd {
			s.MaxEnd = n.End()
		}
	}
	s.AvgPitch = pitchSum / float64(len(notes))
	s.AvgVelocity = velSum / float64(len(notes))
	s.OverlapRatio = OverlapRatio(notes)
	return s
}

func TrackStats(t model.Track) model.VoiceStats {
	return Stats(t.Notes, t.Percussion)
}
