package vrp

import "sort"

// correlationLimit caps the correlation width regardless of granularity.
const correlationLimit = 200

// CorrelationMatrix stores, for every location, the indices of its closest
// other customers in ascending distance order. The depot and the location
// itself are excluded. Immutable after construction.
type CorrelationMatrix struct {
	storage []int
	width   int
}

// NewCorrelationMatrix builds correlation rows of the given width from the
// distance matrix. The effective width is clamped to min(width, n−2, 200).
func NewCorrelationMatrix(dm *DistanceMatrix, width int) *CorrelationMatrix {
	n := dm.Size()
	w := width
	if w > n-2 {
		w = n - 2
	}
	if w > correlationLimit {
		w = correlationLimit
	}
	if w < 0 {
		w = 0
	}

	cm := &CorrelationMatrix{
		storage: make([]int, n*w),
		width:   w,
	}
	if w == 0 {
		return cm
	}

	candidates := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		candidates = candidates[:0]
		for j := 1; j < n; j++ {
			if j != i {
				candidates = append(candidates, j)
			}
		}
		i := i // row index captured by the comparator
		sort.SliceStable(candidates, func(a, b int) bool {
			return dm.Get(i, candidates[a]) < dm.Get(i, candidates[b])
		})
		copy(cm.storage[i*w:(i+1)*w], candidates[:w])
	}

	return cm
}

// Get returns the full correlation row of location i.
func (cm *CorrelationMatrix) Get(i int) []int {
	return cm.storage[i*cm.width : (i+1)*cm.width]
}

// Width returns the number of correlates stored per location.
func (cm *CorrelationMatrix) Width() int {
	return cm.width
}
