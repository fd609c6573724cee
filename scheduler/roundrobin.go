package scheduler

// Pairing is a single home/away assignment produced by the round-robin
// generator, in terms of pair ids.
type Pairing struct {
	Home int
	Away int
}

// GenerateRoundRobin emits one match per unordered pair of the input, in
// nested-loop order, so identical input always yields identical output.
// With legs == 2 the mirrored return match follows immediately after its
// first leg. Fewer than two ids yield an empty schedule; minimum-size
// validation belongs to the caller.
func GenerateRoundRobin(pairIDs []int, legs int) []Pairing {
	matches := make([]Pairing, 0)
	if len(pairIDs) < 2 {
		return matches
	}
	for i := 0; i < len(pairIDs); i++ {
		for j := i + 1; j < len(pairIDs); j++ {
			matches = append(matches, Pairing{Home: pairIDs[i], Away: pairIDs[j]})
			if legs == 2 {
				matches = append(matches, Pairing{Home: pairIDs[j], Away: pairIDs[i]})
			}
		}
	}
	return matches
}
