package search

import (
	"strings"
	"testing"

	"github.com/jsphweid/mmlcodec/mml"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/sequence"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/jsphweid/mmlcodec/util"
	"github.com/stretchr/testify/assert"
)

func busyNotes(count int) []model.NoteEvent {
	notes := make([]model.NoteEvent, count)
	for i := range notes {
		notes[i] = model.NoteEvent{
			Pitch:    uint8(48 + (i*7)%24),
			Start:    i * 120,
			Duration: 120 + (i%3)*60,
			Velocity: 0.8,
		}
	}
	return notes
}

func TestResolutionsFollowPPQ(t *testing.T) {
	p := tuning.Default()
	assert := assert.New(t)
	assert.Equal([]int{16, 8, 4, 2, 1}, Resolutions(Request{PPQ: 480, Mode: model.Melody, Compress: true, Tuning: p}))
	assert.Equal([]int{8, 4, 2, 1}, Resolutions(Request{PPQ: 480, Mode: model.Lower, Compress: true, Tuning: p}))
	assert.Equal([]int{4, 2, 1}, Resolutions(Request{PPQ: 12, Mode: model.Melody, Compress: true, Tuning: p}))
	assert.Equal([]int{8}, Resolutions(Request{PPQ: 480, Tuning: p}))
	assert.Equal([]int{4}, Resolutions(Request{PPQ: 12, Tuning: p}))
}

func TestExactMatchScoresTwo(t *testing.T) {
	p := tuning.Default()
	seq := model.StepSequence{60, 60, 62, model.Rest, 67, 67, 65}
	s := Fidelity(seq, 10, seq, 10, p, 0)
	assert := assert.New(t)
	assert.InDelta(2.0, s.Pitch, 1e-9)
	assert.Greater(s.Total, s.Pitch)
}

func TestFidelitySamplesCoarserCandidate(t *testing.T) {
	p := tuning.Default()
	ref := model.StepSequence{60, 60, 60, 60, 64, 64, 64, 64}
	cand := model.StepSequence{60, 64}
	s := Fidelity(ref, 10, cand, 40, p, 0)
	assert.InDelta(t, 2.0, s.Pitch, 1e-9)

	early := Fidelity(ref, 10, model.StepSequence{61}, 80, p, 4)
	assert.InDelta(t, 1.45, early.Pitch, 1e-9)
}

func TestSingleQuarterNote(t *testing.T) {
	part := Run(Request{
		Notes:  []model.NoteEvent{{Pitch: 60, Start: 0, Duration: 480, Velocity: 1}},
		Mode:   model.Melody,
		Budget: 1200,
		PPQ:    480,
		Tempo:  120,
		Volume: 10,
		Tuning: tuning.Default(),
	})

	assert := assert.New(t)
	assert.Equal("v10o4l4c", part.Text)
	assert.Equal([]string{"c"}, part.Tokens[part.HeaderTokens:])
	assert.False(part.Truncated)
	assert.Equal(480, part.RetainedEndTicks)
}

func TestCompressedOutputStaysWithinBudget(t *testing.T) {
	notes := busyNotes(300)
	for _, mode := range model.Modes {
		for _, budget := range []int{60, 300, 800} {
			part := Run(Request{
				Notes:      notes,
				Mode:       mode,
				Budget:     budget,
				PPQ:        480,
				Tempo:      140,
				Volume:     12,
				CarryTempo: mode == model.Melody,
				Compress:   true,
				Tuning:     tuning.Default(),
			})
			assert.LessOrEqual(t, part.Len(), budget, "%s %d", mode, budget)
			assert.Greater(t, part.NoteEventCount, 0)
		}
	}
}

func TestOverflowIsTokenAlignedPrefix(t *testing.T) {
	notes := busyNotes(120)
	p := tuning.Default()
	part := Run(Request{
		Notes:  notes,
		Mode:   model.Melody,
		Budget: 40,
		PPQ:    480,
		Tempo:  120,
		Volume: 10,
		Tuning: p,
	})

	runs := sequence.Runs(sequence.Quantize(notes, 60, model.Melody, 0))
	full, err := mml.Encode(runs, mml.EncodeOptions{StepsPerQuarter: 8, StepTicks: 60, Tempo: 120, Volume: 10})

	assert := assert.New(t)
	assert.NoError(err)
	assert.True(part.Truncated)
	assert.LessOrEqual(part.Len(), 40)
	assert.True(strings.HasPrefix(full.Text, part.Text))
	assert.Equal(full.Tokens[:len(part.Tokens)], part.Tokens)
}

func TestEmptyPoolFallsBackToHeader(t *testing.T) {
	req := Request{Mode: model.Upper, Budget: 1200, PPQ: 480, Tempo: 120, Volume: 10, Tuning: tuning.Default()}
	assert := assert.New(t)
	assert.Equal("v10o4l4r", Run(req).Text)

	req.Budget = 5
	assert.Equal("v10o4", Run(req).Text)
}

func samplePart() model.EncodedPart {
	return model.EncodedPart{
		Tokens:           []string{"v10", "o4", "l4", "c", "<", "a", "&a8", "r"},
		TokenSteps:       []int{0, 0, 0, 2, 0, 2, 1, 2},
		HeaderTokens:     3,
		StepTicks:        10,
		Text:             "v10o4l4c<a&a8r",
		NoteEventCount:   2,
		RetainedEndTicks: 70,
		SourceEndTicks:   70,
	}
}

func TestTruncateDropsTrailingOctaveShift(t *testing.T) {
	part := Truncate(samplePart(), 9)

	assert := assert.New(t)
	assert.Equal("v10o4l4c", part.Text)
	assert.Equal(1, part.NoteEventCount)
	assert.Equal(20, part.RetainedEndTicks)
	assert.Equal(70, part.SourceEndTicks)
	assert.True(part.Truncated)

	same := Truncate(samplePart(), 100)
	assert.False(same.Truncated)
	assert.Equal(samplePart().Text, same.Text)
}

func TestClipTicksNeverSplitsTokens(t *testing.T) {
	part := ClipTicks(samplePart(), 45)

	assert := assert.New(t)
	assert.Equal("v10o4l4c<a", part.Text)
	assert.Equal(2, part.NoteEventCount)
	assert.Equal(40, part.RetainedEndTicks)
	assert.True(part.Truncated)
}

func TestStrictRankingPrefersNotesThenRetainedSpan(t *testing.T) {
	fewNotes := &candidate{stepsPerQuarter: 8, score: 1.9, fidelity: Score{Total: 1.9},
		part: model.EncodedPart{NoteEventCount: 10, RetainedEndTicks: 4800}}
	moreNotes := &candidate{stepsPerQuarter: 4, score: 1.2, fidelity: Score{Total: 1.2},
		part: model.EncodedPart{NoteEventCount: 14, RetainedEndTicks: 3840}}

	assert := assert.New(t)
	assert.True(betterInBudget(moreNotes, fewNotes, true))
	assert.False(betterInBudget(moreNotes, fewNotes, false))

	longer := &candidate{stepsPerQuarter: 2, score: 0.4,
		part: model.EncodedPart{NoteEventCount: 6, RetainedEndTicks: 7680}}
	assert.True(betterOverflow(longer, moreNotes, true))
	assert.False(betterOverflow(longer, moreNotes, false))

	sameSpan := &candidate{stepsPerQuarter: 16, score: 0.1,
		part: model.EncodedPart{NoteEventCount: 9, RetainedEndTicks: 7680}}
	assert.True(betterOverflow(sameSpan, longer, true))
}

func strictRequest(budget int) Request {
	return Request{
		Notes:        busyNotes(600),
		Mode:         model.Melody,
		Budget:       budget,
		PPQ:          480,
		Tempo:        120,
		Volume:       10,
		Compress:     true,
		StrictPrefix: true,
		Tuning:       tuning.Default(),
	}
}

func TestStrictOverflowKeepsLongestPrefix(t *testing.T) {
	r := strictRequest(40)
	ref := NewReference(r.Notes, r.Mode, r.PPQ, r.ForcedEnd, r.Tuning)
	longest := 0
	for _, levels := range Passes(r) {
		for _, c := range evaluate(r, ref, Resolutions(r), levels) {
			assert.False(t, c.inBudget)
			longest = util.Max(longest, c.part.RetainedEndTicks)
		}
	}
	part := Run(r)

	assert := assert.New(t)
	assert.True(part.Truncated)
	assert.LessOrEqual(part.Len(), 40)
	assert.Equal(longest, part.RetainedEndTicks)
}

func TestStrictInBudgetKeepsMostNotes(t *testing.T) {
	r := strictRequest(1200)
	r.Notes = busyNotes(120)
	ref := NewReference(r.Notes, r.Mode, r.PPQ, r.ForcedEnd, r.Tuning)
	most := -1
	for _, c := range evaluate(r, ref, Resolutions(r), Passes(r)[0]) {
		if c.ok && c.inBudget {
			most = util.Max(most, c.part.NoteEventCount)
		}
	}
	part := Run(r)

	assert := assert.New(t)
	assert.Greater(most, 0)
	assert.False(part.Truncated)
	assert.Equal(most, part.NoteEventCount)
}
