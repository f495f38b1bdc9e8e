package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/ocr-phone-extractor/config"
)

type s3Object struct {
	body        string
	contentType string
}

// s3Stub answers the handful of S3 calls MinioSaver makes, path style.
type s3Stub struct {
	mu             sync.Mutex
	buckets        map[string]bool
	objects        map[string]s3Object
	bucketsMade    int
	denyEverything bool
}

func newS3Stub(t *testing.T, buckets ...string) (*s3Stub, config.MinioConfig) {
	stub := &s3Stub{buckets: make(map[string]bool), objects: make(map[string]s3Object)}
	for _, b := range buckets {
		stub.buckets[b] = true
	}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	return stub, config.MinioConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "minio",
		SecretKey: "minio-secret",
		Bucket:    "exports",
	}
}

func (s *s3Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.denyEverything {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied.</Message></Error>`)
		return
	}

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodGet && r.URL.Query().Has("location"):
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/"></LocationConstraint>`)
	case r.Method == http.MethodHead && key == "":
		if !s.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && key == "":
		s.buckets[bucket] = true
		s.bucketsMade++
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		s.objects[bucket+"/"+key] = s3Object{body: string(body), contentType: r.Header.Get("Content-Type")}
		w.Header().Set("ETag", `"0f343b0931126a20f133d67c2b018a3b"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func TestMinioSaverUploadsToExistingBucket(t *testing.T) {
	stub, cfg := newS3Stub(t, "exports")
	ctx := context.Background()

	saver, err := NewFileSaver(ctx, config.FilesConfig{Backend: "minio", Minio: cfg})
	require.NoError(t, err)
	require.NoError(t, saver.Save(ctx, []byte("Number,Phone Number\n1,919656501307\n"), "1.csv"))

	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Zero(t, stub.bucketsMade)
	obj, ok := stub.objects["exports/1.csv"]
	require.True(t, ok)
	// plain HTTP uploads arrive aws-chunked, so only the payload is checked
	assert.Contains(t, obj.body, "1,919656501307")
	assert.Equal(t, "text/csv", obj.contentType)
}

func TestMinioSaverCreatesMissingBucket(t *testing.T) {
	stub, cfg := newS3Stub(t)
	ctx := context.Background()

	saver, err := NewMinioSaver(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, saver.Save(ctx, []byte("xlsx-bytes"), "2.xlsx"))

	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Equal(t, 1, stub.bucketsMade)
	assert.True(t, stub.buckets["exports"])
	assert.Equal(t, contentTypeFor("2.xlsx"), stub.objects["exports/2.xlsx"].contentType)
}

func TestMinioSaverAccessDenied(t *testing.T) {
	stub, cfg := newS3Stub(t)
	stub.denyEverything = true

	_, err := NewMinioSaver(context.Background(), cfg)
	assert.ErrorContains(t, err, "failed to check bucket")
}

func TestMinioSaverUploadFails(t *testing.T) {
	stub, cfg := newS3Stub(t, "exports")
	ctx := context.Background()

	saver, err := NewMinioSaver(ctx, cfg)
	require.NoError(t, err)

	stub.mu.Lock()
	stub.denyEverything = true
	stub.mu.Unlock()

	err = saver.Save(ctx, []byte("x"), "3.csv")
	assert.ErrorContains(t, err, "failed to upload 3.csv")
}
