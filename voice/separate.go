package voice

import (
	"fmt"
	"sort"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/tuning"
)

// Separate splits one polyphonic note stream into p.SeparationVoices
// monophonic voices, ordered from highest to lowest average pitch.
func Separate(notes []model.NoteEvent, percussion bool, ppq int, p tuning.Params) []model.Track {
	n := p.SeparationVoices
	if n <= 0 {
		n = 3
	}
	buckets := Assign(notes, n, SeparationCost(p, ppq))
	return VoicesFromBuckets(buckets, percussion, "voice")
}

// VoicesFromBuckets trims residual overlaps and orders the voices by
// descending average pitch.
func VoicesFromBuckets(buckets []*Bucket, percussion bool, prefix string) []model.Track {
	voices := make([]model.Track, len(buckets))
	for i, b := range buckets {
		voices[i] = model.Track{
			Notes:      TrimOverlaps(b.Notes),
			Percussion: percussion,
		}
	}
	sort.SliceStable(voices, func(i, j int) bool {
		return Stats(voices[i].Notes, false).AvgPitch > Stats(voices[j].Notes, false).AvgPitch
	})
	for i := range voices {
		voices[i].Name = fmt.Sprintf("%s %d", prefix, i+1)
	}
	return voices
}
