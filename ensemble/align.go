package ensemble

import (
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/search"
)

// Align re-clips all parts to the shortest retained span once any of them
// was truncated, so a player's parts stay in step. Parts without notes are
// ignored when picking the span.
func Align(parts [3]model.EncodedPart) [3]model.EncodedPart {
	truncated := false
	shortest := -1
	for _, part := range parts {
		truncated = truncated || part.Truncated
		if part.NoteEventCount == 0 {
			continue
		}
		if shortest < 0 || part.RetainedEndTicks < shortest {
			shortest = part.RetainedEndTicks
		}
	}
	if !truncated || shortest < 0 {
		return parts
	}
	for i, part := range parts {
		if part.NoteEventCount > 0 {
			parts[i] = search.ClipTicks(part, shortest)
		}
	}
	return parts
}
