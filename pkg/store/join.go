package store

// Joined pairs a left-table row with the first matching right-table row.
// Ok is false when no match exists (left outer join semantics); Right is
// the zero value in that case, not an error.
type Joined[L Row, R Row] struct {
	Left  L
	Right R
	Ok    bool
}

// Join attaches, for each left row, the first right-table row whose
// rightField key equals leftKey(left). Missing matches yield Ok=false.
func Join[L Row, R Row](left []L, leftKey func(L) string, right *Table[R], rightField string) []Joined[L, R] {
	out := make([]Joined[L, R], 0, len(left))
	for _, l := range left {
		j := Joined[L, R]{Left: l}
		if matches := right.ByIndex(rightField, leftKey(l)); len(matches) > 0 {
			j.Right = matches[0]
			j.Ok = true
		}
		out = append(out, j)
	}
	return out
}
