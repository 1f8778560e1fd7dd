package numeric

// Run is a half-open index range [Start, End)
type Run struct {
	Start int
	End   int
}

func (r Run) Len() int {
	return r.End - r.Start
}

// Runs performs a run-length encoding of mask and returns the maximal
// ranges of true values with at least minLen elements, in input order.
// A run reaching the end of mask is included.
func Runs(mask []bool, minLen int) []Run {
	ret := []Run{}
	start := -1
	emit := func(end int) {
		if end-start >= minLen {
			ret = append(ret, Run{Start: start, End: end})
		}
		start = -1
	}
	for i, v := range mask {
		switch {
		case v && start < 0:
			start = i
		case !v && start >= 0:
			emit(i)
		}
	}
	if start >= 0 {
		emit(len(mask))
	}
	return ret
}
