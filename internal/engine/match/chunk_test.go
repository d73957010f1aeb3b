package match

import (
	"fmt"
	"regexp"
	"testing"
)

var hex16 = regexp.MustCompile(`^[0-9a-f]{16}$`)

func TestChunkID_Stable(t *testing.T) {
	a := ChunkID("src/app.py", 5, 5)
	b := ChunkID("src/app.py", 5, 5)
	if a != b {
		t.Fatalf("expected identical ids, got %s and %s", a, b)
	}
	if !hex16.MatchString(a) {
		t.Fatalf("expected 16 lower-case hex digits, got %q", a)
	}
}

func TestChunkID_Distinct(t *testing.T) {
	seen := make(map[string]string)
	for _, path := range []string{"a.go", "b.go", "dir/a.go"} {
		for start := 1; start <= 40; start++ {
			for end := start; end <= start+5; end++ {
				id := ChunkID(path, start, end)
				key := fmt.Sprintf("%s:%d-%d", path, start, end)
				if prev, ok := seen[id]; ok {
					t.Fatalf("collision between %s and %s", prev, key)
				}
				seen[id] = key
			}
		}
	}
}

func TestChunkID_SeparatorsMatter(t *testing.T) {
	if ChunkID("a", 1, 12) == ChunkID("a", 11, 2) {
		t.Fatal("expected different ids for different ranges with the same digits")
	}
}
