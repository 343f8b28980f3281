package mml

import (
	"github.com/jsphweid/mmlcodec/constants"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/util"
)

var noteOffsets = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

type DecodeOptions struct {
	PPQ int
}

// Decoded is one part as timed events relative to the start of the part.
type Decoded struct {
	Notes      []model.NoteEvent
	Tempos     []model.TempoEvent
	TotalTicks int
}

type decodeState struct {
	ppq     int
	tick    int
	octave  int
	length  int
	volume  int
	tempo   int
	tie     bool
	pending *model.NoteEvent
	out     Decoded
}

func newDecodeState(ppq int) *decodeState {
	if ppq <= 0 {
		ppq = constants.DefaultPPQ
	}
	return &decodeState{
		ppq:    ppq,
		octave: constants.DefaultOctave,
		length: ppq,
		volume: 8,
		tempo:  constants.DefaultBPM,
	}
}

func (st *decodeState) flush() {
	if st.pending != nil {
		st.out.Notes = append(st.out.Notes, *st.pending)
		st.pending = nil
	}
	st.tie = false
}

// note emits a note, or extends the pending one when tied to the same pitch.
func (st *decodeState) note(pitch int, ticks int) {
	if st.pending != nil && st.tie && int(st.pending.Pitch) == pitch {
		st.pending.Duration += ticks
		st.tie = false
		st.tick += ticks
		return
	}
	st.flush()
	st.pending = &model.NoteEvent{
		Pitch:    uint8(pitch),
		Start:    st.tick,
		Duration: ticks,
		Velocity: float64(st.volume) / float64(constants.MaxVolume),
	}
	st.tick += ticks
}

func (st *decodeState) rest(ticks int) {
	st.flush()
	st.tick += ticks
}

// Decode parses one MML part. Unknown characters are skipped.
func Decode(text string, opts DecodeOptions) Decoded {
	st := newDecodeState(opts.PPQ)
	c := newCursor(text)
	for !c.done() {
		c.skipSpace()
		if c.done() {
			break
		}
		ch := c.peek()
		c.advance()
		switch {
		case isNoteLetter(ch):
			pitch := parsePitch(c, st, ch)
			st.note(pitch, parseLength(c, st, st.length))
		case ch == 'n':
			if v, ok := c.number(); ok {
				st.note(util.Clamp(v, 0, 127), st.length)
			}
		case ch == 'r':
			st.rest(parseLength(c, st, st.length))
		case ch == '&':
			if st.pending != nil {
				st.tie = true
			}
		default:
			parseDirective(c, st, ch)
		}
	}
	st.flush()
	st.out.TotalTicks = st.tick
	return st.out
}

func isNoteLetter(b byte) bool {
	_, ok := noteOffsets[b]
	return ok
}

// parseDirective handles state changes that consume no time.
func parseDirective(c *cursor, st *decodeState, ch byte) {
	switch ch {
	case 't':
		if v, ok := c.number(); ok && v > 0 {
			st.tempo = v
			st.out.Tempos = append(st.out.Tempos, model.TempoEvent{Tick: st.tick, BPM: float64(v)})
		}
	case 'v':
		if v, ok := c.number(); ok {
			st.volume = util.Clamp(v, 0, constants.MaxVolume)
		}
	case 'o':
		if v, ok := c.number(); ok {
			st.octave = util.Clamp(v, constants.MinOctave, constants.MaxOctave)
		}
	case '>':
		st.octave = util.Min(st.octave+1, constants.MaxOctave)
	case '<':
		st.octave = util.Max(st.octave-1, constants.MinOctave)
	case 'l':
		st.length = parseLength(c, st, st.length)
	}
}

// parsePitch reads accidentals after a note letter.
func parsePitch(c *cursor, st *decodeState, letter byte) int {
	pitch := (st.octave+1)*12 + noteOffsets[letter]
	for {
		switch c.peek() {
		case '+', '#':
			pitch++
			c.advance()
			continue
		case '-':
			pitch--
			c.advance()
			continue
		}
		break
	}
	return util.Clamp(pitch, 0, 127)
}

// parseLength reads an optional 1/n length and dots, in ticks. Without a
// number the fallback length is dotted instead.
func parseLength(c *cursor, st *decodeState, fallback int) int {
	base := fallback
	if n, ok := c.number(); ok && n > 0 {
		base = 4 * st.ppq / n
	}
	dur, term := base, base
	for c.accept('.') {
		term /= 2
		dur += term
	}
	return dur
}
