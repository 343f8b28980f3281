package mml

import (
	"testing"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/stretchr/testify/assert"
)

func sumSteps(ds []duration) int {
	var total int
	for _, d := range ds {
		total += d.steps
	}
	return total
}

func TestSupportsOnlyPowerOfTwoResolutions(t *testing.T) {
	assert := assert.New(t)
	for _, spq := range []int{1, 2, 4, 8, 16} {
		assert.True(Supports(spq), spq)
	}
	for _, spq := range []int{3, 6, 12, 96} {
		assert.False(Supports(spq), spq)
	}
	_, err := NewDurationTable(3, 4)
	assert.Error(err)
}

func TestFactorShedsWholeNotesAndKeepsSum(t *testing.T) {
	table, err := NewDurationTable(4, 4)
	assert := assert.New(t)
	assert.NoError(err)

	parts := table.Factor(80)
	assert.Equal(5, len(parts))
	assert.Equal(80, sumSteps(parts))
	for _, p := range parts {
		assert.Equal(1, p.denom)
	}

	parts = table.Factor(3)
	assert.Equal(1, len(parts))
	assert.Equal("8.", parts[0].text(4))

	for steps := 1; steps <= 70; steps++ {
		assert.Equal(steps, sumSteps(table.Factor(steps)), steps)
	}
}

func TestSplitOmitsDefaultLength(t *testing.T) {
	table, _ := NewDurationTable(2, 4)
	toks := table.Split(model.Run{Value: 60, Start: 0, End: 2})
	assert.Equal(t, []model.DurationToken{{Value: 60, Steps: 2, Text: ""}}, toks)
}

func TestSingleQuarterNoteIsOneToken(t *testing.T) {
	part, err := Encode([]model.Run{{Value: 60, Start: 0, End: 8}}, EncodeOptions{
		StepsPerQuarter: 8,
		StepTicks:       60,
		Tempo:           120,
		Volume:          10,
		CarryTempo:      true,
	})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("t120v10o4l4c", part.Text)
	assert.Equal(4, part.HeaderTokens)
	assert.Equal([]string{"c"}, part.Tokens[part.HeaderTokens:])
	assert.Equal(1, part.NoteEventCount)
	assert.Equal(480, part.RetainedEndTicks)
}

func TestOctaveShiftUsesAbsoluteForLargeJumps(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]string{">", ">"}, octaveShift(4, 6))
	assert.Equal([]string{"<"}, octaveShift(4, 3))
	assert.Equal([]string{"o1"}, octaveShift(4, 1))
	assert.Nil(octaveShift(4, 4))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	runs := []model.Run{
		{Value: 60, Start: 0, End: 4},
		{Value: model.Rest, Start: 4, End: 5},
		{Value: 64, Start: 5, End: 12},
		{Value: 72, Start: 12, End: 13},
		{Value: 48, Start: 13, End: 30},
	}
	part, err := Encode(runs, EncodeOptions{
		StepsPerQuarter: 4,
		StepTicks:       120,
		Tempo:           120,
		Volume:          15,
		CarryTempo:      true,
	})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(4, part.NoteEventCount)

	dec := Decode(part.Text, DecodeOptions{PPQ: 480})
	assert.Equal(30*120, dec.TotalTicks)
	assert.Equal([]model.TempoEvent{{Tick: 0, BPM: 120}}, dec.Tempos)
	assert.Equal([]model.NoteEvent{
		{Pitch: 60, Start: 0, Duration: 480, Velocity: 1},
		{Pitch: 64, Start: 600, Duration: 840, Velocity: 1},
		{Pitch: 72, Start: 1440, Duration: 120, Velocity: 1},
		{Pitch: 48, Start: 1560, Duration: 2040, Velocity: 1},
	}, dec.Notes)
}

func TestDecodeGrammar(t *testing.T) {
	dec := Decode("t150 o5 l8 c d+ e16. r4 > c & c <<< b", DecodeOptions{PPQ: 480})

	assert := assert.New(t)
	assert.Equal([]model.TempoEvent{{Tick: 0, BPM: 150}}, dec.Tempos)
	assert.Equal(1860, dec.TotalTicks)
	assert.Equal(5, len(dec.Notes))

	expect := []struct{ pitch, start, dur int }{
		{72, 0, 240},
		{75, 240, 240},
		{76, 480, 180},
		{84, 1140, 480},
		{59, 1620, 240},
	}
	for i, e := range expect {
		assert.Equal(uint8(e.pitch), dec.Notes[i].Pitch, i)
		assert.Equal(e.start, dec.Notes[i].Start, i)
		assert.Equal(e.dur, dec.Notes[i].Duration, i)
	}
}

func TestDecodeDefaultsAndUnknownCharacters(t *testing.T) {
	dec := Decode("C x! D- n61", DecodeOptions{})

	assert := assert.New(t)
	assert.Empty(dec.Tempos)
	assert.Equal(3*480, dec.TotalTicks)
	assert.Equal(uint8(60), dec.Notes[0].Pitch)
	assert.Equal(uint8(61), dec.Notes[1].Pitch)
	assert.Equal(uint8(61), dec.Notes[2].Pitch)
	assert.InDelta(8.0/15.0, dec.Notes[0].Velocity, 1e-9)
}

func TestDecodeTieToDifferentPitchStartsNewNote(t *testing.T) {
	dec := Decode("c&d", DecodeOptions{PPQ: 96})
	assert.Equal(t, 2, len(dec.Notes))
	assert.Equal(t, 96, dec.Notes[1].Start)
}
