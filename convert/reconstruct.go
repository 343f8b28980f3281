package convert

import (
	"fmt"

	"github.com/jsphweid/mmlcodec/constants"
	"github.com/jsphweid/mmlcodec/mml"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/score"
	"github.com/jsphweid/mmlcodec/util"
	"github.com/pkg/errors"
)

// Reconstruction is a decoded score laid out on one timeline.
type Reconstruction struct {
	PPQ        int
	TotalTicks int
	Tracks     []model.Track
	Tempos     []model.TempoEvent
}

// Reconstruct decodes every part of s at ppq. Sequential players follow one
// another; parallel players all start at tick 0.
func Reconstruct(s *score.Score, ppq int) (Reconstruction, error) {
	if s == nil || len(s.Players) == 0 {
		return Reconstruction{}, errors.Wrap(score.ErrMalformedScore, "score has no players")
	}
	if ppq <= 0 {
		ppq = s.Meta.PPQ
	}
	if ppq <= 0 {
		ppq = constants.DefaultPPQ
	}
	scorePPQ := s.Meta.PPQ
	if scorePPQ <= 0 {
		scorePPQ = ppq
	}

	res := Reconstruction{PPQ: ppq}
	tempoAt := map[int]float64{}
	offset := 0
	for i, player := range s.Players {
		span := 0
		for mode, text := range player.Parts() {
			dec := mml.Decode(text, mml.DecodeOptions{PPQ: ppq})
			notes := make([]model.NoteEvent, len(dec.Notes))
			for j, n := range dec.Notes {
				n.Start += offset
				notes[j] = n
			}
			for _, t := range dec.Tempos {
				if _, ok := tempoAt[t.Tick+offset]; !ok {
					tempoAt[t.Tick+offset] = t.BPM
				}
			}
			span = util.Max(span, dec.TotalTicks)
			res.Tracks = append(res.Tracks, model.Track{
				Name:  fmt.Sprintf("player %d %s", i+1, model.Mode(mode).PartName()),
				Notes: notes,
			})
		}
		res.TotalTicks = util.Max(res.TotalTicks, offset+span)
		if s.Meta.Split == model.Sequential {
			if player.Ticks >= 0 {
				span = player.Ticks * ppq / scorePPQ
			}
			offset += span
		}
	}
	res.TotalTicks = util.Max(res.TotalTicks, offset)

	for _, tick := range util.GetKeys(tempoAt) {
		res.Tempos = append(res.Tempos, model.TempoEvent{Tick: tick, BPM: tempoAt[tick]})
	}
	if len(res.Tempos) == 0 || res.Tempos[0].Tick > 0 {
		bpm := s.Meta.BPM
		if bpm <= 0 {
			bpm = constants.DefaultBPM
		}
		res.Tempos = append([]model.TempoEvent{{Tick: 0, BPM: float64(bpm)}}, res.Tempos...)
	}
	return res, nil
}
