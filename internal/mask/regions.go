package mask

import "img2mesh/internal/depth"

// RemoveSmallRegions zeroes 8-connected regions of cells above threshold
// whose size is below minRatio of all such cells. It cleans specks out of
// hand-painted or thresholded mask images.
func RemoveSmallRegions(f *depth.Field, threshold float32, minRatio float64) *depth.Field {
	w, h := f.Width, f.Height

	// Find covered cells
	covered := make([]bool, w*h)
	total := 0
	for i, v := range f.Values {
		if v > threshold {
			covered[i] = true
			total++
		}
	}
	if total == 0 {
		return f
	}

	labels := make([]int, w*h)
	for i := range labels {
		labels[i] = -1
	}
	var sizes []int

	dx := [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	dy := [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
	queue := make([]int, 0, 1024)

	for start := range covered {
		if !covered[start] || labels[start] >= 0 {
			continue
		}
		id := len(sizes)
		queue = append(queue[:0], start)
		labels[start] = id
		size := 0
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			size++

			cx, cy := curr%w, curr/w
			for d := 0; d < 8; d++ {
				nx, ny := cx+dx[d], cy+dy[d]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				ni := ny*w + nx
				if covered[ni] && labels[ni] < 0 {
					labels[ni] = id
					queue = append(queue, ni)
				}
			}
		}
		sizes = append(sizes, size)
	}

	if len(sizes) <= 1 {
		return f
	}

	minSize := int(float64(total) * minRatio)
	out := depth.NewField(w, h)
	copy(out.Values, f.Values)
	for i, l := range labels {
		if l >= 0 && sizes[l] < minSize {
			out.Values[i] = 0
		}
	}
	return out
}
