package model

type Pitches = []uint8

// NoteEvent is a single pitched note on an absolute tick timeline.
type NoteEvent struct {
	Pitch    uint8
	Start    int
	Duration int
	Velocity float64
}

func (n NoteEvent) End() int {
	return n.Start + n.Duration
}

type Track struct {
	Name       string
	Notes      []NoteEvent
	Percussion bool
}

// Source is what an extractor (MIDI reader, live capture) hands to the codec.
type Source struct {
	Tracks []Track
	PPQ    int
	BPM    float64
}

func (s Source) EndTick() int {
	var end int
	for _, t := range s.Tracks {
		for _, n := range t.Notes {
			if n.End() > end {
				end = n.End()
			}
		}
	}
	return end
}

type VoiceStats struct {
	NoteCount    int
	AvgPitch     float64
	AvgVelocity  float64
	OverlapRatio float64
	MaxEnd       int
	Percussion   bool
}

type TempoEvent struct {
	Tick int
	BPM  float64
}
