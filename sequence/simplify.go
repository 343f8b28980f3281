package sequence

import (
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/jsphweid/mmlcodec/util"
)

const none = -2

// Simplify absorbs short runs into a neighbour, up to level passes or until a
// pass changes nothing. Level 0 returns an unchanged copy. A replacement
// always takes the value currently adjacent to the run.
func Simplify(seq model.StepSequence, mode model.Mode, level int, p tuning.Params) model.StepSequence {
	cur := seq.Copy()
	threshold := p.ShortRunThreshold(mode, level)
	if level <= 0 || threshold <= 0 {
		return cur
	}
	for pass := 0; pass < level; pass++ {
		runs := Runs(cur)
		changed := false
		for i := 0; i < len(runs); i++ {
			r := runs[i]
			if r.Len() > threshold {
				continue
			}
			left, right := none, none
			if i > 0 {
				left = runs[i-1].Value
			}
			if i+1 < len(runs) {
				right = runs[i+1].Value
			}
			v := replacement(r.Value, left, right)
			if v == r.Value {
				continue
			}
			for s := r.Start; s < r.End; s++ {
				cur[s] = v
			}
			changed = true
			runs, i = absorb(runs, i, v)
		}
		if !changed {
			break
		}
	}
	return cur
}

// absorb sets run i to v and merges it with equal neighbours. It returns the
// index of the merged run.
func absorb(runs []model.Run, i, v int) ([]model.Run, int) {
	lo, hi := i, i
	if i > 0 && runs[i-1].Value == v {
		lo = i - 1
	}
	if i+1 < len(runs) && runs[i+1].Value == v {
		hi = i + 1
	}
	runs[lo] = model.Run{Value: v, Start: runs[lo].Start, End: runs[hi].End}
	return append(runs[:lo+1], runs[hi+1:]...), lo
}

// replacement picks the neighbour value that keeps the contour closest.
func replacement(v, left, right int) int {
	if left == none && right == none {
		return v
	}
	if left == right {
		return left
	}
	if left == none {
		return right
	}
	if right == none {
		return left
	}
	// neighbours of a rest run are always pitched; the earlier note sustains
	if v == model.Rest {
		return left
	}
	switch {
	case left == model.Rest:
		return right
	case right == model.Rest:
		return left
	}
	if util.Abs(right-v) < util.Abs(left-v) {
		return right
	}
	return left
}
