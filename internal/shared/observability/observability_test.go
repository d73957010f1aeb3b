package observability

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTextfile(t *testing.T) {
	FilesTotal.WithLabelValues("parsed").Add(3)
	ParsingDuration.WithLabelValues("go").Observe(0.01)

	path := filepath.Join(t.TempDir(), "astfind.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		`astfind_files_total{outcome="parsed"}`,
		`astfind_parse_seconds_count{language="go"}`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in textfile:\n%s", want, text)
		}
	}
}

func TestSetupTracing_DisabledIsNoop(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), TracingConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, span := Tracer().Start(context.Background(), "probe")
	span.End()
}
