// Package tables builds the precomputed move and prune tables the
// solver searches over (C2). In the original system these are built
// offline and shipped as binary blobs; here they are built once per
// process via breadth-first search and memoized, since this repository
// has no offline build step. The index math below (Lehmer code,
// positional base-N, n-choose-k) is pure and independently testable.
package tables

// Factorial returns n!.
func Factorial(n int) int {
	r := 1
	for i := 2; i <= n; i++ {
		r *= i
	}
	return r
}

// NChooseK returns C(n, k), the binomial coefficient.
func NChooseK(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1
	for i := 0; i < k; i++ {
		r = r * (n - i) / (i + 1)
	}
	return r
}

// EncodeBaseMixed encodes digits (each in [0, base)) into a single
// index, most significant digit first, matching the positional
// base-3/base-2 orientation indices described by the spec.
func EncodeBaseMixed(digits []int, base int) int {
	idx := 0
	for _, d := range digits {
		idx = idx*base + d
	}
	return idx
}

// DecodeBaseMixed is the inverse of EncodeBaseMixed for a known digit count.
func DecodeBaseMixed(index, digitCount, base int) []int {
	digits := make([]int, digitCount)
	for i := digitCount - 1; i >= 0; i-- {
		digits[i] = index % base
		index /= base
	}
	return digits
}

// EncodePermutation computes the Lehmer-code index of a permutation of
// n distinct identities (a permutation of 0..n-1): the i-th digit is
// the position of the i-th element among those not yet used, base
// decreasing from n to 1.
func EncodePermutation(perm []int) int {
	n := len(perm)
	used := make([]bool, n)
	index := 0
	for i := 0; i < n; i++ {
		rank := 0
		for j := 0; j < perm[i]; j++ {
			if !used[j] {
				rank++
			}
		}
		index = index*(n-i) + rank
		used[perm[i]] = true
	}
	return index
}

// DecodePermutation is the inverse of EncodePermutation for n elements.
func DecodePermutation(index, n int) []int {
	ranks := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		ranks[i] = index % (n - i)
		index /= (n - i)
	}
	available := make([]int, n)
	for i := range available {
		available[i] = i
	}
	perm := make([]int, n)
	for i := 0; i < n; i++ {
		perm[i] = available[ranks[i]]
		available = append(available[:ranks[i]], available[ranks[i]+1:]...)
	}
	return perm
}

// EncodeCombination computes the combinatorial-number-system index of
// a size-k subset of {0, ..., n-1} given as a sorted slice of members,
// used for slice-membership indices.
func EncodeCombination(members []int, n int) int {
	index := 0
	for i, m := range members {
		r := i + 1
		if m >= r-1 {
			index += NChooseK(m, r)
		}
	}
	return index
}

// DecodeCombination is the inverse of EncodeCombination.
func DecodeCombination(index, n, k int) []int {
	members := make([]int, k)
	rem := index
	m := n - 1
	for i := k; i >= 1; i-- {
		for m >= 0 && NChooseK(m, i) > rem {
			m--
		}
		members[i-1] = m
		rem -= NChooseK(m, i)
		m--
	}
	return members
}
