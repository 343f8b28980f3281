package chord

import (
	"testing"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/stretchr/testify/assert"
)

func note(pitch uint8, start, duration int) model.NoteEvent {
	return model.NoteEvent{Pitch: pitch, Start: start, Duration: duration, Velocity: 0.8}
}

func TestQuantizeSpanKeepsOneStep(t *testing.T) {
	start, end := QuantizeSpan(note(60, 100, 10), 240)

	assert := assert.New(t)
	assert.Equal(0, start)
	assert.Equal(1, end)

	start, end = QuantizeSpan(note(60, 130, 500), 240)
	assert.Equal(1, start)
	assert.Equal(3, end)
}

func TestBuildFramesSortsAndDedupes(t *testing.T) {
	notes := []model.NoteEvent{
		note(67, 0, 480),
		note(60, 0, 960),
		note(60, 0, 240),
		note(64, 480, 480),
	}
	frames := BuildFrames(notes, 240, 4)

	assert := assert.New(t)
	assert.Len(frames, 4)
	assert.Equal(model.Pitches{60, 67}, frames[0].Active)
	assert.Equal(model.Pitches{60, 67}, frames[0].Onsets)
	assert.Equal(model.Pitches{60, 67}, frames[1].Active)
	assert.Empty(frames[1].Onsets)
	assert.Equal(model.Pitches{60, 64}, frames[2].Active)
	assert.Equal(model.Pitches{64}, frames[2].Onsets)
	assert.True(frames[3].Sounding(64))
	assert.False(frames[3].Sounding(67))
}

func TestBuildFramesClampsLateNotes(t *testing.T) {
	frames := BuildFrames([]model.NoteEvent{note(72, 2000, 480)}, 240, 4)

	assert.Equal(t, model.Pitches{72}, frames[3].Active)
	assert.Equal(t, model.Pitches{72}, frames[3].Onsets)
}

func TestHeldAcrossAndEdges(t *testing.T) {
	notes := []model.NoteEvent{note(60, 0, 960), note(64, 480, 480), note(67, 960, 480)}

	assert := assert.New(t)
	assert.Equal(1, HeldAcross(notes, 480))
	assert.Equal(2, HeldAcross(notes, 720))
	assert.Equal(0, HeldAcross(notes, 960))
	assert.True(TouchesEdge(notes, 960))
	assert.False(TouchesEdge(notes, 720))
}
