package sample

import (
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/util"
)

// SliceNotes keeps the notes sounding inside [start, end), clipped to the
// range and shifted so start becomes tick 0.
func SliceNotes(notes []model.NoteEvent, start, end int) []model.NoteEvent {
	var res []model.NoteEvent
	for _, n := range notes {
		s := util.Max(n.Start, start)
		e := util.Min(n.End(), end)
		if e <= s {
			continue
		}
		n.Start = s - start
		n.Duration = e - s
		res = append(res, n)
	}
	return res
}

// Slice re-bases every track into one segment. Tracks left empty are kept so
// track indexes still line up with the source.
func Slice(tracks []model.Track, start, end int) []model.Track {
	res := make([]model.Track, len(tracks))
	for i, t := range tracks {
		res[i] = model.Track{
			Name:       t.Name,
			Notes:      SliceNotes(t.Notes, start, end),
			Percussion: t.Percussion,
		}
	}
	return res
}

// Excerpt is a short preview of src starting at tick: at most maxNotes notes
// per track, re-based to tick 0.
func Excerpt(src model.Source, tick int, maxNotes int) model.Source {
	res := model.Source{PPQ: src.PPQ, BPM: src.BPM}
	for _, t := range Slice(src.Tracks, tick, src.EndTick()) {
		if maxNotes > 0 && len(t.Notes) > maxNotes {
			t.Notes = t.Notes[:maxNotes]
		}
		res.Tracks = append(res.Tracks, t)
	}
	return res
}
