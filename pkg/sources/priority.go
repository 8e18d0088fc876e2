package sources

// priorities ranks every source; lower rank means higher priority.
// The array length is tied to the enum, so a source added without a rank
// is a compile error.
var priorities = [count]int{
	Unknown:  int(count), // always last
	Steam:    1,
	Xbox:     2,
	Epic:     3,
	GOG:      4,
	Amazon:   5,
	GamePass: 6,
	Manual:   7,
}

// Priority returns the rank of t. Ranks are unique; 1 is highest.
func Priority(t Type) int {
	if t >= count {
		return priorities[Unknown]
	}
	return priorities[t]
}

// Compare orders sources by priority, highest first. It is suitable for
// slices.SortStableFunc.
func Compare(a, b Type) int {
	return Priority(a) - Priority(b)
}

// Higher reports whether a outranks b.
func Higher(a, b Type) bool {
	return Priority(a) < Priority(b)
}
