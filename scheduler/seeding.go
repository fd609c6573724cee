package scheduler

import "fmt"

// nextPowerOfTwo returns the smallest power of two >= n (n >= 1).
func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// bracketOrder returns the standard seeding order for a bracket of the
// given power-of-two size: the value at slot s is the seed number that
// belongs there. Size 2 is [1 2]; every doubling interleaves each previous
// entry with its complement, so seed 1 and seed 2 can only meet in the
// final, 1 and 4 only in a semifinal, and so on.
func bracketOrder(size int) []int {
	if size < 2 {
		return []int{1}
	}
	order := []int{1, 2}
	for len(order) < size {
		next := make([]int, 0, len(order)*2)
		target := len(order) * 2
		for _, seed := range order {
			next = append(next, seed, target+1-seed)
		}
		order = next
	}
	return order
}

// RoundLabelForSize maps a round's participant count to its display label.
func RoundLabelForSize(size int) string {
	switch size {
	case 2:
		return "Final"
	case 4:
		return "Semifinals"
	case 8:
		return "Quarterfinals"
	case 16:
		return "Round of 16"
	case 32:
		return "Round of 32"
	default:
		return fmt.Sprintf("Round %d", size)
	}
}

// sizeByLabel is the label-to-size table kept as data, so a custom or
// localized label simply sorts last instead of breaking ordering. The
// advancement machine never walks labels: adjacency is the round numbers
// fixed at seeding time, and this table only serves display sorting.
var sizeByLabel = map[string]int{
	"Round of 32":   32,
	"Round of 16":   16,
	"Quarterfinals": 8,
	"Semifinals":    4,
	"Final":         2,
}

// RoundRank returns a sort key for a round label: wider rounds sort first,
// the final last, unrecognized labels after everything.
func RoundRank(label string) int {
	size, ok := sizeByLabel[label]
	if !ok {
		var n int
		if _, err := fmt.Sscanf(label, "Round %d", &n); err == nil && n > 2 {
			size = n
		}
	}
	if size < 2 {
		return 1 << 30 // unknown label, sort last
	}
	return 1 << 20 / size
}
