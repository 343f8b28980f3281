package search

// tieBreak prefers the richer resolution, then the shorter text, then the
// lower simplification level.
func tieBreak(a, b *candidate) bool {
	if a.stepsPerQuarter != b.stepsPerQuarter {
		return a.stepsPerQuarter > b.stepsPerQuarter
	}
	if a.part.Len() != b.part.Len() {
		return a.part.Len() < b.part.Len()
	}
	return a.level < b.level
}

// betterInBudget reports whether a beats b among candidates that fit.
func betterInBudget(a, b *candidate, strict bool) bool {
	if strict {
		if a.part.NoteEventCount != b.part.NoteEventCount {
			return a.part.NoteEventCount > b.part.NoteEventCount
		}
		if a.fidelity.Total != b.fidelity.Total {
			return a.fidelity.Total > b.fidelity.Total
		}
		return tieBreak(a, b)
	}
	if a.score != b.score {
		return a.score > b.score
	}
	return tieBreak(a, b)
}

// betterOverflow ranks truncated candidates. Strict prefix mode keeps as much
// of the front of the piece as possible.
func betterOverflow(a, b *candidate, strict bool) bool {
	if strict {
		if a.part.RetainedEndTicks != b.part.RetainedEndTicks {
			return a.part.RetainedEndTicks > b.part.RetainedEndTicks
		}
		if a.part.NoteEventCount != b.part.NoteEventCount {
			return a.part.NoteEventCount > b.part.NoteEventCount
		}
	}
	if a.score != b.score {
		return a.score > b.score
	}
	return tieBreak(a, b)
}
