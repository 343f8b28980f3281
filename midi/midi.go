package midi

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/jsphweid/mmlcodec/constants"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNoTracks = errors.New("midi file has no tracks")

const percussionChannel = 9

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		var blank smf.SMF
		return &blank, errors.Wrap(err, "reading midi file")
	}
	return ParseMidi(dat)
}

func ParseMidi(dat []byte) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			e = errors.Errorf("parsing midi file panicked: %v", r)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, errors.Wrap(err, "parsing midi file")
	}
	return res, nil
}

// ReadSource reads a file and extracts its notes.
func ReadSource(filepath string) (model.Source, error) {
	s, err := ReadMidiFile(filepath)
	if err != nil {
		return model.Source{}, err
	}
	src, err := ExtractSource(s)
	return src, errors.Wrapf(err, "extracting %s", filepath)
}

type trackKey struct {
	track   int
	channel uint8
}

type openNote struct {
	start    int
	velocity uint8
}

// ExtractSource pairs note on/off events into notes, one track per source
// track and channel. Channel 10 is percussion. The first tempo event sets the
// source tempo.
func ExtractSource(s *smf.SMF) (model.Source, error) {
	src := model.Source{PPQ: constants.DefaultPPQ, BPM: constants.DefaultBPM}
	if s == nil || len(s.Tracks) == 0 {
		return src, ErrNoTracks
	}
	tf, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return src, errors.Errorf("unsupported time format %v", s.TimeFormat)
	}
	src.PPQ = int(tf)

	tempoTick := -1
	notes := map[trackKey][]model.NoteEvent{}
	for ti, events := range s.Tracks {
		open := map[[2]uint8][]openNote{}
		var absTicks int
		closeNote := func(ch, key uint8) {
			k := [2]uint8{ch, key}
			stack := open[k]
			if len(stack) == 0 {
				return
			}
			on := stack[0]
			open[k] = stack[1:]
			if absTicks <= on.start {
				return
			}
			tk := trackKey{ti, ch}
			notes[tk] = append(notes[tk], model.NoteEvent{
				Pitch:    key,
				Start:    on.start,
				Duration: absTicks - on.start,
				Velocity: float64(on.velocity) / 127,
			})
		}

		for _, event := range events {
			absTicks += int(event.Delta)
			var channel, key, velocity uint8
			var bpm float64
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				if velocity == 0 {
					closeNote(channel, key)
					continue
				}
				k := [2]uint8{channel, key}
				open[k] = append(open[k], openNote{start: absTicks, velocity: velocity})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				closeNote(channel, key)
			case event.Message.GetMetaTempo(&bpm):
				if tempoTick < 0 || absTicks < tempoTick {
					tempoTick = absTicks
					src.BPM = bpm
				}
			}
		}
		// notes never released end with their track
		for k, stack := range open {
			for range stack {
				closeNote(k[0], k[1])
			}
		}
	}

	keys := make([]trackKey, 0, len(notes))
	for k := range notes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].track != keys[j].track {
			return keys[i].track < keys[j].track
		}
		return keys[i].channel < keys[j].channel
	})
	for _, k := range keys {
		sort.SliceStable(notes[k], func(i, j int) bool {
			return notes[k][i].Start < notes[k][j].Start
		})
		src.Tracks = append(src.Tracks, model.Track{
			Name:       fmt.Sprintf("track %d ch %d", k.track+1, k.channel+1),
			Notes:      notes[k],
			Percussion: k.channel == percussionChannel,
		})
	}
	return src, nil
}
