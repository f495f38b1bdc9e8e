package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/ocr-phone-extractor/storage"
)

// pngBytes returns a small valid PNG filled with c.
func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

// scriptedExtractor answers OCR calls in order from texts, failing where errs says so.
type scriptedExtractor struct {
	mu    sync.Mutex
	texts []string
	errs  map[int]error
	calls int
	ctxs  []context.Context
}

func (s *scriptedExtractor) Name() string { return "scripted" }

func (s *scriptedExtractor) ExtractText(ctx context.Context, payload string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.calls
	s.calls++
	s.ctxs = append(s.ctxs, ctx)
	if err, ok := s.errs[i]; ok {
		return "", err
	}
	if i < len(s.texts) {
		return s.texts[i], nil
	}
	return "", nil
}

type failingSaver struct{ calls int }

func (f *failingSaver) Save(context.Context, []byte, string) error {
	f.calls++
	return context.DeadlineExceeded
}

var errDiskFull = errors.New("disk full")

// flakyKV wraps a MemoryKV and fails writes to the keys listed in failing.
type flakyKV struct {
	*storage.MemoryKV
	failing map[string]bool
}

func newFlakyKV(keys ...string) *flakyKV {
	kv := &flakyKV{MemoryKV: storage.NewMemoryKV(), failing: make(map[string]bool)}
	for _, k := range keys {
		kv.failing[k] = true
	}
	return kv
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if f.failing[key] {
		return errDiskFull
	}
	return f.MemoryKV.Set(ctx, key, value)
}
