package state

import (
	"cmp"
	"slices"
)

type Pair[Ty1, Ty2 any] struct {
	V1 Ty1
	V2 Ty2
}

// SortPairs orders pairs by V1, then V2.
func SortPairs[T1, T2 cmp.Ordered](pairs []Pair[T1, T2]) {
	slices.SortFunc(pairs, func(a, b Pair[T1, T2]) int {
		if c := cmp.Compare(a.V1, b.V1); c != 0 {
			return c
		}
		return cmp.Compare(a.V2, b.V2)
	})
}
