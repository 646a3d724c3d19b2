package game

import "math/rand/v2"

// Sampler picks k distinct cells uniformly from 1..n.
type Sampler interface {
	Sample(n, k int) []int
}

// RandomSampler uses Floyd's algorithm, so memory stays O(k) however large
// the board is.
type RandomSampler struct{}

func (RandomSampler) Sample(n, k int) []int {
	chosen := make(map[int]struct{}, k)
	out := make([]int, 0, k)
	for j := n - k + 1; j <= n; j++ {
		t := rand.IntN(j) + 1
		if _, dup := chosen[t]; dup {
			t = j
		}
		chosen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// FixedSampler returns a preset bomb layout, ignoring n and k.
type FixedSampler []int

func (f FixedSampler) Sample(int, int) []int {
	out := make([]int, len(f))
	copy(out, f)
	return out
}
