package match

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ChunkID derives a stable 16-hex-digit id from a path and line range.
func ChunkID(path string, startLine, endLine int) string {
	d := xxhash.New()
	_, _ = d.WriteString(path)
	_, _ = d.WriteString(":")
	_, _ = d.WriteString(strconv.Itoa(startLine))
	_, _ = d.WriteString("-")
	_, _ = d.WriteString(strconv.Itoa(endLine))
	return fmt.Sprintf("%016x", d.Sum64())
}
