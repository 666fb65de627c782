package tables

import "testing"

func TestFactorial(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 4: 24, 8: 40320}
	for n, want := range cases {
		if got := Factorial(n); got != want {
			t.Errorf("Factorial(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestNChooseK(t *testing.T) {
	cases := []struct{ n, k, want int }{
		{12, 4, 495},
		{8, 0, 1},
		{8, 8, 1},
		{5, 2, 10},
		{4, 5, 0},
	}
	for _, c := range cases {
		if got := NChooseK(c.n, c.k); got != c.want {
			t.Errorf("NChooseK(%d,%d) = %d, want %d", c.n, c.k, got, c.want)
		}
	}
}

func TestPermutationRoundTrip(t *testing.T) {
	perms := [][]int{
		{0, 1, 2, 3, 4, 5, 6, 7},
		{7, 6, 5, 4, 3, 2, 1, 0},
		{2, 0, 1, 3, 5, 4, 7, 6},
	}
	for _, perm := range perms {
		idx := EncodePermutation(perm)
		back := DecodePermutation(idx, len(perm))
		for i := range perm {
			if back[i] != perm[i] {
				t.Fatalf("round trip of %v via index %d gave %v", perm, idx, back)
			}
		}
	}
}

func TestEncodePermutationIdentityIsZero(t *testing.T) {
	if idx := EncodePermutation([]int{0, 1, 2, 3, 4, 5, 6, 7}); idx != 0 {
		t.Fatalf("identity permutation should encode to 0, got %d", idx)
	}
}

func TestCombinationRoundTrip(t *testing.T) {
	all := [][]int{
		{0, 1, 2, 3},
		{8, 9, 10, 11},
		{0, 5, 6, 11},
	}
	for _, members := range all {
		idx := EncodeCombination(members, 12)
		back := DecodeCombination(idx, 12, len(members))
		for i := range members {
			if back[i] != members[i] {
				t.Fatalf("round trip of %v via index %d gave %v", members, idx, back)
			}
		}
	}
}

func TestBaseMixedRoundTrip(t *testing.T) {
	digits := []int{1, 2, 0, 1, 1, 0, 2}
	idx := EncodeBaseMixed(digits, 3)
	back := DecodeBaseMixed(idx, len(digits), 3)
	for i := range digits {
		if back[i] != digits[i] {
			t.Fatalf("round trip of %v via index %d gave %v", digits, idx, back)
		}
	}
}
