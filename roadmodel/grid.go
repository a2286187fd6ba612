package roadmodel

// GridMap returns a cols x rows lattice with the given spacing in metres.
// Node ids are row*cols+col. Every row and every column is one road.
// Nodes listed in skip are left out of the roads, splitting them; they are
// kept in the map so ids stay stable but are never reachable.
func GridMap(cols, rows int, spacing float64, skip ...int) Map {
	blocked := make(map[int]bool, len(skip))
	for _, id := range skip {
		blocked[id] = true
	}

	var m Map
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			m.Nodes = append(m.Nodes, MapNode{
				ID: row*cols + col,
				X:  float64(col) * spacing,
				Y:  float64(row) * spacing,
			})
		}
	}

	// appendRuns splits a line of ids into roads at blocked ids.
	appendRuns := func(name string, ids []int) {
		var run []int
		flush := func() {
			if len(run) >= 2 {
				m.Roads = append(m.Roads, Road{Name: name, Type: "residential", Nodes: run})
			}
			run = nil
		}
		for _, id := range ids {
			if blocked[id] {
				flush()
				continue
			}
			run = append(run, id)
		}
		flush()
	}

	for row := 0; row < rows; row++ {
		ids := make([]int, cols)
		for col := range ids {
			ids[col] = row*cols + col
		}
		appendRuns("row", ids)
	}
	for col := 0; col < cols; col++ {
		ids := make([]int, rows)
		for row := range ids {
			ids[row] = row*cols + col
		}
		appendRuns("col", ids)
	}
	return m
}

// Grid builds a model from GridMap.
func Grid(cols, rows int, spacing float64, skip ...int) (*Model, error) {
	return New(GridMap(cols, rows, spacing, skip...))
}
