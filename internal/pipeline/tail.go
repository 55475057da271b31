package pipeline

// lineTail keeps the last n lines written to it.
type lineTail struct {
	n     int
	lines []string
}

func newLineTail(n int) *lineTail {
	return &lineTail{n: n, lines: make([]string, 0, n)}
}

func (t *lineTail) add(line string) {
	if len(t.lines) == t.n {
		copy(t.lines, t.lines[1:])
		t.lines = t.lines[:t.n-1]
	}
	t.lines = append(t.lines, line)
}

func (t *lineTail) all() []string {
	return append([]string(nil), t.lines...)
}
