package align

// table is the dense LCS length matrix. lcs(i, j) is the length of the longest
// common subsequence of the first i lines of x and the first j lines of y, so
// row 0 and column 0 are zero.
type table struct {
	n, m  int
	cells []int32
}

func buildTable(n, m int, eq func(i, j int) bool) *table {
	t := &table{n: n, m: m, cells: make([]int32, (n+1)*(m+1))}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			if eq(i, j) {
				t.set(i+1, j+1, t.lcs(i, j)+1)
			} else {
				t.set(i+1, j+1, max(t.lcs(i+1, j), t.lcs(i, j+1)))
			}
		}
	}
	return t
}

func (t *table) lcs(i, j int) int32 {
	return t.cells[i*(t.m+1)+j]
}

func (t *table) set(i, j int, v int32) {
	t.cells[i*(t.m+1)+j] = v
}
