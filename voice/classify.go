package voice

import (
	"math"
	"sort"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/jsphweid/mmlcodec/util"
	"github.com/pkg/errors"
)

var ErrNoPlayableContent = errors.New("no playable content")

// Classification assigns source tracks to voice roles. Upper and Lower are
// only set when a single polyphonic track was separated into voices.
type Classification struct {
	Melody    []model.Track
	Harmony   []model.Track
	Upper     []model.Track
	Lower     []model.Track
	Separated bool
}

type scoredTrack struct {
	track model.Track
	stats model.VoiceStats
}

func usableTracks(tracks []model.Track) []model.Track {
	var pitched, percussion []model.Track
	for _, t := range tracks {
		if len(t.Notes) == 0 {
			continue
		}
		if t.Percussion {
			percussion = append(percussion, t)
		} else {
			pitched = append(pitched, t)
		}
	}
	if len(pitched) > 0 {
		return pitched
	}
	return percussion
}

func melodyScore(s model.VoiceStats, p tuning.Params) float64 {
	return s.AvgPitch*p.MelodyPitchWeight +
		(1-s.OverlapRatio)*p.MelodyMonoWeight +
		math.Log2(float64(s.NoteCount)+1)*p.MelodyBusyWeight
}

func Classify(tracks []model.Track, ppq int, p tuning.Params) (Classification, error) {
	var res Classification
	usable := usableTracks(tracks)
	if len(usable) == 0 {
		return res, ErrNoPlayableContent
	}

	if len(usable) == 1 {
		t := usable[0]
		s := TrackStats(t)
		if s.OverlapRatio >= p.SeparationMinOverlap && s.NoteCount >= p.SeparationMinNotes {
			voices := Separate(t.Notes, t.Percussion, ppq, p)
			res.Separated = true
			res.Melody = voices[:1]
			if len(voices) > 1 {
				res.Upper = voices[1:2]
			}
			if len(voices) > 2 {
				res.Lower = voices[2:3]
			}
			res.Harmony = append(append(res.Harmony, res.Upper...), res.Lower...)
			return res, nil
		}
		res.Melody = []model.Track{t}
		return res, nil
	}

	scored := make([]scoredTrack, len(usable))
	for i, t := range usable {
		scored[i] = scoredTrack{track: t, stats: TrackStats(t)}
	}

	best := 0
	for i := 1; i < len(scored); i++ {
		if melodyScore(scored[i].stats, p) > melodyScore(scored[best].stats, p) {
			best = i
		}
	}
	melody := scored[best]
	res.Melody = []model.Track{melody.track}

	minSupport := util.Max(p.SupportMinNotes, int(math.Ceil(float64(melody.stats.NoteCount)*p.SupportMinRatio)))
	var rest []scoredTrack
	for i, st := range scored {
		if i == best {
			continue
		}
		if len(res.Melody) <= p.MaxSupportTracks &&
			math.Abs(st.stats.AvgPitch-melody.stats.AvgPitch) <= p.SupportMaxDistance &&
			st.stats.OverlapRatio <= p.SupportMaxOverlap &&
			st.stats.NoteCount >= minSupport {
			res.Melody = append(res.Melody, st.track)
			continue
		}
		rest = append(rest, st)
	}

	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].stats.NoteCount != rest[j].stats.NoteCount {
			return rest[i].stats.NoteCount > rest[j].stats.NoteCount
		}
		return rest[i].stats.AvgPitch < rest[j].stats.AvgPitch
	})
	for i := 0; i < len(rest) && i < p.MaxHarmonyTracks; i++ {
		res.Harmony = append(res.Harmony, rest[i].track)
	}
	return res, nil
}
