package compute

import "fmt"

// Size is a 2D extent. One-dimensional grids use Y == 1.
type Size struct {
	X, Y int
}

// Linear returns a one-dimensional extent.
func Linear(n int) Size { return Size{X: n, Y: 1} }

// Count returns X*Y.
func (s Size) Count() int { return s.X * s.Y }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.X, s.Y) }

// ID is the global invocation id of one kernel instance.
type ID struct {
	X, Y int
}

// Kernel is the per-invocation body of a dispatch. It must write only the
// cells owned by its id and must do nothing when id lies outside its domain.
type Kernel func(id ID)

// Partition returns the number of work-groups of size group needed to cover
// domain elements: ceil(domain/group).
func Partition(domain, group int) int {
	if domain <= 0 || group <= 0 {
		return 0
	}
	return (domain + group - 1) / group
}

// GridFor partitions a 2D domain into work-groups.
func GridFor(domain, group Size) Size {
	return Size{X: Partition(domain.X, group.X), Y: Partition(domain.Y, group.Y)}
}
