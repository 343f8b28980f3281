package sequence

import "github.com/jsphweid/mmlcodec/model"

// Runs partitions seq into maximal runs of equal values covering [0, len(seq)).
func Runs(seq model.StepSequence) []model.Run {
	var runs []model.Run
	for i, v := range seq {
		if len(runs) > 0 && runs[len(runs)-1].Value == v {
			runs[len(runs)-1].End = i + 1
			continue
		}
		runs = append(runs, model.Run{Value: v, Start: i, End: i + 1})
	}
	return runs
}

// NoteCount is the number of pitched runs, i.e. note events a rendering keeps.
func NoteCount(runs []model.Run) int {
	var count int
	for _, r := range runs {
		if !r.IsRest() {
			count++
		}
	}
	return count
}
