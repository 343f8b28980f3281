package voice

import (
	"testing"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/stretchr/testify/assert"
)

func note(pitch uint8, start, duration int) model.NoteEvent {
	return model.NoteEvent{Pitch: pitch, Start: start, Duration: duration, Velocity: 0.8}
}

func line(pitch uint8, count int, step int) []model.NoteEvent {
	var notes []model.NoteEvent
	for i := 0; i < count; i++ {
		notes = append(notes, note(pitch+uint8(i%3), i*step, step))
	}
	return notes
}

func TestOverlapRatio(t *testing.T) {
	notes := []model.NoteEvent{note(60, 0, 960), note(64, 480, 240), note(67, 960, 480), note(72, 1000, 100)}

	assert := assert.New(t)
	assert.Equal(0.5, OverlapRatio(notes))
	assert.Equal(0.0, OverlapRatio(nil))
}

func TestStats(t *testing.T) {
	s := Stats([]model.NoteEvent{note(60, 0, 480), note(64, 480, 960)}, false)

	assert := assert.New(t)
	assert.Equal(2, s.NoteCount)
	assert.Equal(62.0, s.AvgPitch)
	assert.Equal(1440, s.MaxEnd)
	assert.Equal(-1.0, Stats(nil, false).AvgPitch)
}

func TestAssignTiesGoToLowestBucket(t *testing.T) {
	flat := func(b *Bucket, n model.NoteEvent) float64 { return 0 }
	buckets := Assign([]model.NoteEvent{note(60, 0, 480), note(62, 480, 480)}, 3, flat)

	assert := assert.New(t)
	assert.Len(buckets, 3)
	assert.Len(buckets[0].Notes, 2)
	assert.True(buckets[1].Empty())
	assert.Equal(62, buckets[0].LastPitch)
	assert.Equal(960, buckets[0].LastEnd)
}

func TestAssignOrdersByStartThenHighestPitch(t *testing.T) {
	sorted := SortForAssignment([]model.NoteEvent{note(60, 480, 480), note(64, 0, 240), note(67, 0, 480), note(67, 0, 960)})

	assert := assert.New(t)
	assert.Equal(note(67, 0, 960), sorted[0])
	assert.Equal(note(67, 0, 480), sorted[1])
	assert.Equal(note(64, 0, 240), sorted[2])
	assert.Equal(note(60, 480, 480), sorted[3])
}

func TestSeparationCostSplitsChord(t *testing.T) {
	p := tuning.Default()
	chords := []model.NoteEvent{
		note(72, 0, 480), note(64, 0, 480), note(48, 0, 480),
		note(74, 480, 480), note(65, 480, 480), note(50, 480, 480),
	}
	voices := Separate(chords, false, 480, p)

	assert := assert.New(t)
	assert.Len(voices, 3)
	assert.Equal("voice 1", voices[0].Name)
	assert.Equal([]model.NoteEvent{note(72, 0, 480), note(74, 480, 480)}, voices[0].Notes)
	assert.Equal([]model.NoteEvent{note(64, 0, 480), note(65, 480, 480)}, voices[1].Notes)
	assert.Equal([]model.NoteEvent{note(48, 0, 480), note(50, 480, 480)}, voices[2].Notes)
}

func TestTrimOverlaps(t *testing.T) {
	res := TrimOverlaps([]model.NoteEvent{note(60, 0, 960), note(62, 480, 480), note(64, 480, 240)})

	assert := assert.New(t)
	assert.Len(res, 2)
	assert.Equal(note(60, 0, 480), res[0])
	assert.Equal(note(64, 480, 240), res[1])
}

func TestClassifyRejectsEmptyInput(t *testing.T) {
	_, err := Classify([]model.Track{{Name: "empty"}}, 480, tuning.Default())

	assert.ErrorIs(t, err, ErrNoPlayableContent)
}

func TestClassifyPicksHighMonophonicMelody(t *testing.T) {
	var chords []model.NoteEvent
	for i := 0; i < 16; i++ {
		chords = append(chords, note(48, i*480, 480), note(52, i*480, 480))
	}
	tracks := []model.Track{
		{Name: "bass", Notes: chords},
		{Name: "lead", Notes: line(72, 16, 480)},
		{Name: "drums", Notes: line(36, 16, 240), Percussion: true},
	}
	cls, err := Classify(tracks, 480, tuning.Default())

	assert := assert.New(t)
	assert.NoError(err)
	assert.False(cls.Separated)
	assert.Len(cls.Melody, 1)
	assert.Equal("lead", cls.Melody[0].Name)
	assert.Len(cls.Harmony, 1)
	assert.Equal("bass", cls.Harmony[0].Name)
}

func TestClassifyFallsBackToPercussion(t *testing.T) {
	cls, err := Classify([]model.Track{{Name: "drums", Notes: line(36, 4, 240), Percussion: true}}, 480, tuning.Default())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("drums", cls.Melody[0].Name)
}

func TestClassifySeparatesDensePolyphony(t *testing.T) {
	var notes []model.NoteEvent
	for i := 0; i < 24; i++ {
		notes = append(notes, note(72, i*480, 480), note(64, i*480, 480), note(48, i*480, 480))
	}
	cls, err := Classify([]model.Track{{Name: "piano", Notes: notes}}, 480, tuning.Default())

	assert := assert.New(t)
	assert.NoError(err)
	assert.True(cls.Separated)
	assert.Equal(72.0, TrackStats(cls.Melody[0]).AvgPitch)
	assert.Equal(64.0, TrackStats(cls.Upper[0]).AvgPitch)
	assert.Equal(48.0, TrackStats(cls.Lower[0]).AvgPitch)
	assert.Len(cls.Harmony, 2)
}
