package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
)

type testEnv struct {
	dir       string
	cfgPath   string
	exportDir string
}

// newTestEnv writes a config using a sqlite store in a temp dir and a fake
// PaddleOCR endpoint that always returns text.
func newTestEnv(t *testing.T, ocrText string) *testEnv {
	t.Helper()
	dir := t.TempDir()

	paddle := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results":[[{"text":%q,"confidence":0.9}]]}`, ocrText)
	}))
	t.Cleanup(paddle.Close)

	env := &testEnv{
		dir:       dir,
		cfgPath:   filepath.Join(dir, "config.yaml"),
		exportDir: filepath.Join(dir, "exports"),
	}
	cfg := fmt.Sprintf(`log:
  level: error
ocr:
  backend: paddle
  paddle:
    api_url: %s
storage:
  backend: sqlite
  sqlite_path: %s
files:
  backend: local
  dir: %s
`, paddle.URL, filepath.Join(dir, "state.db"), env.exportDir)
	require.NoError(t, os.WriteFile(env.cfgPath, []byte(cfg), 0o644))
	return env
}

func (e *testEnv) image(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))))
	return path
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(append([]string{"--config", e.cfgPath, "--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestExtractAndExport(t *testing.T) {
	env := newTestEnv(t, "Rahul 96565 01307")

	out, err := env.run(t, "extract", env.image(t, "a.png"), env.image(t, "b.png"), "--export")
	require.NoError(t, err)

	assert.Contains(t, out, "a.png: 1 number(s), 1 new")
	assert.Contains(t, out, "b.png: 1 number(s), 0 new")
	assert.Contains(t, out, "+919656501307")
	assert.Contains(t, out, "exported 1 number(s) to 1.csv")

	data, err := os.ReadFile(filepath.Join(env.exportDir, "1.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Number,Phone Number\n1,919656501307\n", string(data))
}

func TestStatePersistsBetweenCommands(t *testing.T) {
	env := newTestEnv(t, "Call 7012345678")

	_, err := env.run(t, "extract", env.image(t, "a.png"))
	require.NoError(t, err)

	out, err := env.run(t, "export", "--mode", "google", "--print")
	require.NoError(t, err)
	assert.Equal(t, "Name,Phone 1 - Value\nContact 1,+917012345678\n", out)

	out, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "1.csv")
	assert.Contains(t, out, "next file: 2.csv")

	out, err = env.run(t, "extract", env.image(t, "b.png"))
	require.NoError(t, err)
	assert.Contains(t, out, "b.png: 1 number(s), 0 new")

	_, err = env.run(t, "reset")
	require.NoError(t, err)

	_, err = env.run(t, "export")
	assert.ErrorIs(t, err, dto.ErrNothingToExport)

	out, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "1.csv")
}

func TestResetAllRestartsNumbering(t *testing.T) {
	env := newTestEnv(t, "9876543210")
	_, err := env.run(t, "extract", env.image(t, "a.png"), "--export")
	require.NoError(t, err)

	out, err := env.run(t, "reset", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "export history cleared")

	out, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No exports yet.")

	_, err = env.run(t, "extract", env.image(t, "b.png"), "--export")
	require.NoError(t, err)
	out, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "1.csv")
	assert.Contains(t, out, "next file: 2.csv")
}

func TestHistoryShowAndClear(t *testing.T) {
	env := newTestEnv(t, "9876543210")
	_, err := env.run(t, "extract", env.image(t, "a.png"), "--export")
	require.NoError(t, err)

	a, err := newApp(t.Context(), env.cfgPath, false)
	require.NoError(t, err)
	records := a.exports.History()
	require.NoError(t, a.Close())
	require.Len(t, records, 1)

	out, err := env.run(t, "history", "show", records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Number,Phone Number\n1,919876543210\n", out)

	xlsx := filepath.Join(env.dir, "out.xlsx")
	_, err = env.run(t, "history", "show", records[0].ID, "--xlsx", xlsx)
	require.NoError(t, err)
	assert.FileExists(t, xlsx)

	_, err = env.run(t, "history", "show", "missing")
	assert.ErrorIs(t, err, dto.ErrExportNotFound)

	_, err = env.run(t, "history", "clear")
	require.NoError(t, err)
	out, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No exports yet.")
}

func TestExtractRejectsUnsupportedOnly(t *testing.T) {
	env := newTestEnv(t, "")
	notes := filepath.Join(env.dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0o644))

	_, err := env.run(t, "extract", notes)
	assert.EqualError(t, err, "nothing to process")
}

func TestExportInvalidMode(t *testing.T) {
	env := newTestEnv(t, "")
	_, err := env.run(t, "export", "--mode", "outlook")
	assert.Error(t, err)
}
