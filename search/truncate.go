package search

import (
	"strings"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/util"
)

// Truncate cuts a part to at most budget characters at a token boundary.
// Header tokens are kept first; trailing octave shifts are dropped.
func Truncate(part model.EncodedPart, budget int) model.EncodedPart {
	if part.Len() <= budget {
		return part
	}
	length := 0
	return cut(part, func(i int) bool {
		if length+len(part.Tokens[i]) > budget {
			return false
		}
		length += len(part.Tokens[i])
		return true
	})
}

// ClipTicks cuts a part so it covers at most maxTicks. A note or rest token
// that would cross maxTicks is dropped whole.
func ClipTicks(part model.EncodedPart, maxTicks int) model.EncodedPart {
	if part.RetainedEndTicks <= maxTicks {
		return part
	}
	ticks := 0
	return cut(part, func(i int) bool {
		next := ticks + part.TokenSteps[i]*part.StepTicks
		if next > maxTicks {
			return false
		}
		ticks = next
		return true
	})
}

// cut keeps the longest token prefix accepted by keep, stopping at the first
// rejected token.
func cut(part model.EncodedPart, keep func(i int) bool) model.EncodedPart {
	n := 0
	for n < len(part.Tokens) && keep(n) {
		n++
	}
	for n > part.HeaderTokens && part.TokenSteps[n-1] == 0 {
		n--
	}

	res := part
	res.Tokens = append([]string(nil), part.Tokens[:n]...)
	res.TokenSteps = append([]int(nil), part.TokenSteps[:n]...)
	res.HeaderTokens = util.Min(part.HeaderTokens, n)
	res.Text = strings.Join(res.Tokens, "")
	res.Truncated = part.Truncated || n < len(part.Tokens)

	var steps, notes int
	for i := res.HeaderTokens; i < n; i++ {
		steps += res.TokenSteps[i]
		if isNoteStart(res.Tokens[i]) {
			notes++
		}
	}
	res.NoteEventCount = notes
	res.RetainedEndTicks = steps * part.StepTicks
	return res
}

func isNoteStart(tok string) bool {
	if tok == "" {
		return false
	}
	switch tok[0] {
	case 'a', 'b', 'c', 'd', 'e', 'f', 'g':
		return true
	}
	return false
}
