package midi

import (
	"sync"

	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/util"
)

// Recorder collects notes played on a live input. Timestamps are in
// milliseconds and are converted to ticks at a fixed tempo.
type Recorder struct {
	mu     sync.Mutex
	ppq    int
	bpm    float64
	origin int32
	open   map[uint8]openNote
	notes  []model.NoteEvent
}

func NewRecorder(ppq int, bpm float64) *Recorder {
	return &Recorder{ppq: ppq, bpm: bpm, origin: -1, open: map[uint8]openNote{}}
}

func (r *Recorder) tick(ms int32) int {
	if r.origin < 0 {
		r.origin = ms
	}
	return int(float64(ms-r.origin) / 60000 * r.bpm * float64(r.ppq))
}

func (r *Recorder) NoteStart(key, velocity uint8, ms int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tick(ms)
	r.release(key, t)
	r.open[key] = openNote{start: t, velocity: velocity}
}

func (r *Recorder) NoteEnd(key uint8, ms int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.release(key, r.tick(ms))
}

func (r *Recorder) release(key uint8, t int) {
	on, ok := r.open[key]
	if !ok {
		return
	}
	delete(r.open, key)
	r.notes = append(r.notes, model.NoteEvent{
		Pitch:    key,
		Start:    on.start,
		Duration: util.Max(1, t-on.start),
		Velocity: float64(on.velocity) / 127,
	})
}

// Source snapshots what has been played so far. Held notes are cut at the
// latest event time.
func (r *Recorder) Source(nowMs int32) model.Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	notes := append([]model.NoteEvent(nil), r.notes...)
	if r.origin >= 0 {
		now := r.tick(nowMs)
		for key, on := range r.open {
			if now > on.start {
				notes = append(notes, model.NoteEvent{
					Pitch:    key,
					Start:    on.start,
					Duration: now - on.start,
					Velocity: float64(on.velocity) / 127,
				})
			}
		}
	}
	return model.Source{
		PPQ:    r.ppq,
		BPM:    r.bpm,
		Tracks: []model.Track{{Name: "live", Notes: notes}},
	}
}
