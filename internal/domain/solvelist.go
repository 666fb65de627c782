package domain

import "sort"

// SolveList is a read-only, time-ordered projection used for display
// and statistics. It does not participate in sync; it is always
// derived from a History's solve map on demand.
type SolveList []Solve

// Sorted returns a copy ordered by Before (Created then ID).
func (l SolveList) Sorted() SolveList {
	out := make(SolveList, len(l))
	copy(out, l)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// BestSolve returns the fastest non-DNF solve, if any.
func (l SolveList) BestSolve() (Solve, bool) {
	var best Solve
	found := false
	for _, s := range l {
		t, ok := s.FinalTimeMs()
		if !ok {
			continue
		}
		if bt, bok := best.FinalTimeMs(); !found || !bok || t < bt || (t == bt && s.Before(best)) {
			best, found = s, true
		}
	}
	return best, found
}

// Mean returns the unweighted mean of the most recent n solves' final
// times. It fails (ok=false) if fewer than n solves exist or any of
// the last n is a DNF.
func (l SolveList) Mean(n int) (ms uint32, ok bool) {
	sorted := l.Sorted()
	if len(sorted) < n || n <= 0 {
		return 0, false
	}
	recent := sorted[len(sorted)-n:]
	var sum uint64
	for _, s := range recent {
		t, tok := s.FinalTimeMs()
		if !tok {
			return 0, false
		}
		sum += uint64(t)
	}
	return uint32(sum / uint64(n)), true
}

// Average computes a WCA-style average of the most recent n solves:
// for n >= 5, the best and worst results are trimmed before
// averaging, and more than one DNF among the n makes the average a
// DNF (ok=false). For n < 5 it is equivalent to Mean (no trimming,
// any DNF fails the average).
func (l SolveList) Average(n int) (ms uint32, ok bool) {
	sorted := l.Sorted()
	if len(sorted) < n || n <= 0 {
		return 0, false
	}
	recent := sorted[len(sorted)-n:]

	times := make([]uint32, 0, n)
	dnfCount := 0
	for _, s := range recent {
		t, tok := s.FinalTimeMs()
		if !tok {
			dnfCount++
			continue
		}
		times = append(times, t)
	}
	if n < 5 {
		if dnfCount > 0 {
			return 0, false
		}
		return l.Mean(n)
	}
	if dnfCount > 1 {
		return 0, false
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	// A single DNF already counts as the dropped worst result.
	trimmed := times
	if dnfCount == 0 {
		trimmed = times[1 : len(times)-1]
	} else {
		trimmed = times[1:]
	}
	if len(trimmed) == 0 {
		return 0, false
	}
	var sum uint64
	for _, t := range trimmed {
		sum += uint64(t)
	}
	return uint32(sum / uint64(len(trimmed))), true
}
