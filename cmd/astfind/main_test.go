package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// run executes the CLI with an empty config so no ancestor file leaks in.
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "astfind.toml")
	require.NoError(t, os.WriteFile(cfg, nil, 0o644))

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), append(args, "--config", cfg), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

var sample = map[string]string{
	"web/app.js": "import axios from \"axios\";\n\naxios.get(url);\nconsole.log(1);\n",
	"svc/api.py": "import requests\n\nrequests.get(url)\n",
	"README.md":  "axios.get(url)\n",
}

func TestSearch_NDJSON(t *testing.T) {
	root := writeTree(t, sample)
	code, stdout, _ := run(t, "--within", root, "--query", `call(prop=/^get$/)`, "--context", "0")
	require.Equal(t, exitOK, code)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"path":"svc/api.py","start_line":3,"end_line":3`)
	assert.Contains(t, lines[0], `"capture":{"callee":"get","object":"requests","prop":"get","attr":"get","module":null,"name":null,"kind":null}`)
	assert.Contains(t, lines[1], `"lang":"javascript","path":"web/app.js","start_line":3,"end_line":3`)
	assert.Contains(t, lines[1], `"excerpt":"axios.get(url);\n"`)
}

func TestSearch_DeterministicAcrossWorkers(t *testing.T) {
	root := writeTree(t, sample)
	q := `or(call(), import(), def())`
	_, one, _ := run(t, "--within", root, "--query", q, "--workers", "1")
	_, many, _ := run(t, "--within", root, "--query", q, "--workers", "8")
	assert.NotEmpty(t, one)
	assert.Equal(t, one, many)
}

func TestSearch_LanguageFilterAndSummary(t *testing.T) {
	root := writeTree(t, sample)
	code, stdout, _ := run(t, "--within", root, "--lang", "py", "--query", `import()`, "--summary")
	require.Equal(t, exitOK, code)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"module":"requests"`)
	assert.Equal(t, `{"type":"summary","tool":"astfind","message":"1 match in 1 file"}`, lines[1])
}

func TestSearch_TextFormat(t *testing.T) {
	root := writeTree(t, sample)
	code, stdout, _ := run(t, "--within", root, "--lang", "js", "--query", `import()`, "--format", "text", "--context", "0")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "web/app.js:1-1 [javascript] module=axios\n    import axios from \"axios\";\n", stdout)
}

func TestSearch_QueryErrorExitsBeforeDiscovery(t *testing.T) {
	code, stdout, stderr := run(t, "--within", "/does/not/exist", "--query", `and(not(call()))`)
	assert.Equal(t, exitQuery, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid query")
}

func TestSearch_Failures(t *testing.T) {
	code, _, stderr := run(t, "--query", `call()`, "--within", "/does/not/exist")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "is not a directory")

	root := writeTree(t, sample)
	code, _, stderr = run(t, "--within", root, "--query", `call()`, "--lang", "cobol")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, `unknown language "cobol"`)

	code, _, _ = run(t, "--within", root)
	assert.Equal(t, exitError, code)
}

func TestSearch_FileErrorsKeepExitZero(t *testing.T) {
	root := writeTree(t, map[string]string{
		"ok.py":  "import os\n",
		"big.py": strings.Repeat("x = 1\n", 50),
	})
	code, stdout, _ := run(t, "--within", root, "--query", `import()`, "--max-file-bytes", "100")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, `{"type":"error","code":"E_TOO_LARGE"`)
	assert.Contains(t, stdout, `"path":"ok.py"`)
}

func TestSearch_MetricsFile(t *testing.T) {
	root := writeTree(t, sample)
	metrics := filepath.Join(t.TempDir(), "astfind.prom")
	code, _, _ := run(t, "--within", root, "--query", `call()`, "--metrics-file", metrics)
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "astfind_files_total")
}

func TestCheck(t *testing.T) {
	code, stdout, _ := run(t, "check", `call( object = /axios/ , callee=/get/ )`)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "call(callee=/get/, object=/axios/)\n", stdout)

	code, _, stderr := run(t, "check", `call(callee=/(/)`)
	assert.Equal(t, exitQuery, code)
	assert.Contains(t, stderr, "invalid query")
}

func TestLanguages(t *testing.T) {
	code, stdout, _ := run(t, "languages")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "python      .py .pyi")
	assert.Contains(t, stdout, "tsx")
	assert.Equal(t, 8, strings.Count(stdout, "\n"))
}

func TestVersion(t *testing.T) {
	code, stdout, _ := run(t, "version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "astfind "+Version+"\n", stdout)
}
