package midi

import (
	"io"
	"sort"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/util"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type event struct {
	tick int
	off  bool
	msg  []byte
}

// channelFor skips the percussion channel.
func channelFor(i int) uint8 {
	ch := uint8(i % 15)
	if ch >= percussionChannel {
		ch++
	}
	return ch
}

// Write renders tracks as a format 1 SMF: a tempo track followed by one
// track per input track.
func Write(w io.Writer, tracks []model.Track, tempos []model.TempoEvent, ppq int) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ppq)

	var tempoTrack smf.Track
	sorted := append([]model.TempoEvent(nil), tempos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tick < sorted[j].Tick
	})
	last := 0
	for _, t := range sorted {
		tempoTrack.Add(uint32(util.Max(t.Tick-last, 0)), smf.MetaTempo(t.BPM))
		last = util.Max(t.Tick, last)
	}
	tempoTrack.Close(0)
	if err := s.Add(tempoTrack); err != nil {
		return errors.Wrap(err, "adding tempo track")
	}

	for i, t := range tracks {
		ch := channelFor(i)
		if t.Percussion {
			ch = percussionChannel
		}
		var events []event
		for _, n := range t.Notes {
			vel := uint8(util.Clamp(int(n.Velocity*127+0.5), 1, 127))
			events = append(events,
				event{tick: n.Start, msg: midi.NoteOn(ch, n.Pitch, vel)},
				event{tick: n.End(), off: true, msg: midi.NoteOff(ch, n.Pitch)},
			)
		}
		// releases go before attacks on the same tick
		sort.SliceStable(events, func(a, b int) bool {
			if events[a].tick != events[b].tick {
				return events[a].tick < events[b].tick
			}
			return events[a].off && !events[b].off
		})

		var tr smf.Track
		last := 0
		for _, e := range events {
			tr.Add(uint32(e.tick-last), e.msg)
			last = e.tick
		}
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			return errors.Wrapf(err, "adding track %q", t.Name)
		}
	}

	_, err := s.WriteTo(w)
	return errors.Wrap(err, "writing midi")
}
