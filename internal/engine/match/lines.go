package match

import (
	"sort"
	"strings"
)

// LineIndex records the byte offset at which each line starts.
type LineIndex struct {
	starts []int
	size   int
}

func NewLineIndex(src []byte) *LineIndex {
	starts := make([]int, 0, len(src)/32+1)
	if len(src) > 0 {
		starts = append(starts, 0)
	}
	for i, b := range src {
		if b == '\n' && i+1 < len(src) {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, size: len(src)}
}

// LineCount is the number of lines. A trailing newline does not open a
// new line, and an empty source has none.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// LineOf returns the 1-based line containing byte offset.
func (li *LineIndex) LineOf(offset int) int {
	return sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset })
}

// Clip widens [start, end] by context lines on each side and clips the
// result to [1, LineCount].
func (li *LineIndex) Clip(start, end, context int) (int, int) {
	if context < 0 {
		context = 0
	}
	first := start - context
	if first < 1 {
		first = 1
	}
	last := end + context
	if last > li.LineCount() {
		last = li.LineCount()
	}
	return first, last
}

// Excerpt returns lines [start-context, end+context], clipped to the file,
// including the newline that ends the last line. Invalid UTF-8 is replaced
// with U+FFFD.
func (li *LineIndex) Excerpt(src []byte, start, end, context int) string {
	first, last := li.Clip(start, end, context)
	if li.LineCount() == 0 || first > last {
		return ""
	}
	from := li.starts[first-1]
	to := li.size
	if last < len(li.starts) {
		to = li.starts[last]
	}
	return strings.ToValidUTF8(string(src[from:to]), "\uFFFD")
}
