package shape

// CountComponents returns the number of 8-connected foreground components.
//
// Extract traces only the component holding the seed pixel; a count above one
// tells callers the rest of the image was ignored by the boundary walk.
// A grid that fails Validate has no components.
func CountComponents(g *Grid) int {
	if g.Validate() != nil {
		return 0
	}
	visited := make([]bool, len(g.cells))
	count := 0

	for i, v := range g.cells {
		if v == 1 && !visited[i] {
			floodFill(g, visited, i/g.width, i%g.width)
			count++
		}
	}
	return count
}

// floodFill marks every foreground cell 8-connected to (row, col).
//
// Uses an explicit stack rather than recursion so large regions cannot
// overflow the goroutine stack.
func floodFill(g *Grid, visited []bool, row, col int) {
	stack := [][2]int{{row, col}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		r, c := p[0], p[1]
		if r < 0 || r >= g.height || c < 0 || c >= g.width {
			continue
		}
		i := r*g.width + c
		if visited[i] || g.cells[i] == 0 {
			continue
		}
		visited[i] = true

		for _, off := range delta {
			stack = append(stack, [2]int{r + off[0], c + off[1]})
		}
	}
}
