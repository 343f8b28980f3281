package mml

import (
	"strconv"
	"strings"

	"github.com/jsphweid/mmlcodec/constants"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/util"
)

var noteNames = [12]string{"c", "c+", "d", "d+", "e", "f", "f+", "g", "g+", "a", "a+", "b"}

// default lengths tried by Encode, in tie-break order
var defaultDenomOrder = []int{4, 8, 16, 2, 1, 32, 64}

type EncodeOptions struct {
	StepsPerQuarter int
	StepTicks       int
	Tempo           int
	Volume          int
	CarryTempo      bool
}

// Octave is the MML octave of a MIDI pitch; middle C (60) is o4.
func Octave(pitch int) int {
	return pitch/12 - 1
}

// writablePitch folds a pitch into the octaves the grammar can address.
func writablePitch(p int) int {
	lo := (constants.MinOctave + 1) * 12
	hi := (constants.MaxOctave+2)*12 - 1
	for p < lo {
		p += 12
	}
	for p > hi {
		p -= 12
	}
	return p
}

// Encode renders runs as one MML part, choosing the default length that gives
// the shortest text.
func Encode(runs []model.Run, opts EncodeOptions) (model.EncodedPart, error) {
	var best model.EncodedPart
	found := false
	for _, denom := range defaultDenomOrder {
		table, err := NewDurationTable(opts.StepsPerQuarter, denom)
		if err != nil {
			return model.EncodedPart{}, err
		}
		part := render(runs, table, opts)
		if !found || part.Len() < best.Len() {
			best, found = part, true
		}
	}
	return best, nil
}

func header(opts EncodeOptions, octave int, denom int) []string {
	var res []string
	if opts.CarryTempo {
		res = append(res, "t"+strconv.Itoa(opts.Tempo))
	}
	res = append(res,
		"v"+strconv.Itoa(opts.Volume),
		"o"+strconv.Itoa(octave),
		"l"+strconv.Itoa(denom),
	)
	return res
}

func firstOctave(runs []model.Run) int {
	for _, r := range runs {
		if !r.IsRest() {
			return Octave(writablePitch(r.Value))
		}
	}
	return constants.DefaultOctave
}

// octaveShift moves the octave cursor from -> to with `>` (up) and `<` (down),
// or an absolute `o` when that is shorter.
func octaveShift(from, to int) []string {
	delta := to - from
	if util.Abs(delta) >= 3 {
		return []string{"o" + strconv.Itoa(to)}
	}
	var res []string
	for ; delta > 0; delta-- {
		res = append(res, ">")
	}
	for ; delta < 0; delta++ {
		res = append(res, "<")
	}
	return res
}

func render(runs []model.Run, table *DurationTable, opts EncodeOptions) model.EncodedPart {
	octave := firstOctave(runs)
	tokens := header(opts, octave, table.DefaultDenom)
	steps := make([]int, len(tokens))
	part := model.EncodedPart{
		HeaderTokens:    len(tokens),
		StepTicks:       opts.StepTicks,
		StepsPerQuarter: opts.StepsPerQuarter,
	}

	var total int
	for _, r := range runs {
		total += r.Len()
		durs := table.Split(r)
		if r.IsRest() {
			for _, d := range durs {
				tokens = append(tokens, "r"+d.Text)
				steps = append(steps, d.Steps)
			}
			continue
		}
		pitch := writablePitch(r.Value)
		for _, s := range octaveShift(octave, Octave(pitch)) {
			tokens = append(tokens, s)
			steps = append(steps, 0)
		}
		octave = Octave(pitch)
		name := noteNames[pitch%12]
		for i, d := range durs {
			if i == 0 {
				tokens = append(tokens, name+d.Text)
			} else {
				tokens = append(tokens, "&"+name+d.Text)
			}
			steps = append(steps, d.Steps)
		}
		part.NoteEventCount++
	}

	part.Tokens = tokens
	part.TokenSteps = steps
	part.Text = strings.Join(tokens, "")
	part.RetainedEndTicks = total * opts.StepTicks
	part.SourceEndTicks = part.RetainedEndTicks
	return part
}
