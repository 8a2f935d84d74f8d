package s3

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/erdos/internal/handlers"
)

// fakeStore accepts PUT requests and serves the last stored body on GET and
// HEAD. Streaming-signed uploads are stored decoded.
type fakeStore struct {
	mu          sync.Mutex
	path        string
	contentType string
	body        []byte
	modified    time.Time
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, err := readPayload(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.path = r.URL.Path
		f.contentType = r.Header.Get("Content-Type")
		f.body = body
		f.modified = time.Now().UTC().Truncate(time.Second)
		w.Header().Set("ETag", `"abc123"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		w.Header().Set("ETag", `"abc123"`)
		if f.contentType != "" {
			w.Header().Set("Content-Type", f.contentType)
		}
		http.ServeContent(w, r, path.Base(r.URL.Path), f.modified, bytes.NewReader(f.body))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// readPayload returns the request body, stripping the aws-chunked framing
// ("<hex-size>;chunk-signature=...\r\n<data>\r\n") when present.
func readPayload(r *http.Request) ([]byte, error) {
	streaming := strings.Contains(r.Header.Get("Content-Encoding"), "aws-chunked") ||
		strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-")
	if !streaming {
		return io.ReadAll(r.Body)
	}

	var out bytes.Buffer
	br := bufio.NewReader(r.Body)
	for {
		header, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading chunk header: %w", err)
		}
		sizeHex, _, _ := strings.Cut(strings.TrimSpace(header), ";")
		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing chunk size %q: %w", sizeHex, err)
		}
		if size == 0 {
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, br, size); err != nil {
			return nil, fmt.Errorf("reading chunk data: %w", err)
		}
		if _, err := br.Discard(2); err != nil {
			return nil, fmt.Errorf("reading chunk trailer: %w", err)
		}
	}
}

func minioArgs(t *testing.T, srv *httptest.Server, attrs map[string]cty.Value) map[string]cty.Value {
	t.Helper()
	endpoint, err := url.Parse(srv.URL)
	require.NoError(t, err)

	args := map[string]cty.Value{
		"endpoint":   cty.StringVal(endpoint.Host),
		"use_ssl":    cty.False,
		"access_key": cty.StringVal("minio"),
		"secret_key": cty.StringVal("minio123"),
		"bucket":     cty.StringVal("artifacts"),
		"key":        cty.StringVal("runs/report.json"),
	}
	for k, v := range attrs {
		args[k] = v
	}
	return args
}

func input(attrs map[string]cty.Value) handlers.Input {
	return handlers.Input{NodeID: "s3", Args: cty.ObjectVal(attrs)}
}

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ok":true}`), 0o600))
	return path
}

func TestOnRunS3_PresignedRoundTrip(t *testing.T) {
	t.Parallel()

	// Arrange
	store := &fakeStore{}
	srv := httptest.NewServer(store)
	defer srv.Close()
	m := &Module{Client: srv.Client()}
	source := writeSource(t)
	dest := filepath.Join(t.TempDir(), "copy.json")

	// Act
	up, upErr := m.OnRunS3(context.Background(), input(map[string]cty.Value{
		"action":      cty.StringVal("upload"),
		"source_path": cty.StringVal(source),
		"upload_url":  cty.StringVal(srv.URL + "/bucket/report.json?X-Amz-Signature=x"),
	}))
	down, downErr := m.OnRunS3(context.Background(), input(map[string]cty.Value{
		"action":    cty.StringVal("DOWNLOAD"),
		"url":       cty.StringVal(srv.URL + "/bucket/report.json"),
		"dest_path": cty.StringVal(dest),
	}))

	// Assert
	require.NoError(t, upErr)
	require.NoError(t, downErr)
	assert.Equal(t, map[string]any{"success": true, "status": "200 OK"}, up)
	assert.Equal(t, map[string]any{"success": true, "size": int64(11)}, down)
	assert.Equal(t, "application/json", store.contentType)

	copied, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(copied))
}

func TestOnRunS3_PutObject(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	srv := httptest.NewServer(store)
	defer srv.Close()

	out, err := (&Module{}).OnRunS3(context.Background(), input(minioArgs(t, srv, map[string]cty.Value{
		"action":      cty.StringVal("put_object"),
		"source_path": cty.StringVal(writeSource(t)),
	})))

	require.NoError(t, err)
	assert.Equal(t, "/artifacts/runs/report.json", store.path)
	assert.Equal(t, `{"ok":true}`, string(store.body))
	assert.Equal(t, true, out.(map[string]any)["success"])
}

func TestOnRunS3_PutThenGetObject(t *testing.T) {
	t.Parallel()

	// Arrange
	store := &fakeStore{}
	srv := httptest.NewServer(store)
	defer srv.Close()
	m := &Module{}
	dest := filepath.Join(t.TempDir(), "nested", "copy.json")

	// Act
	_, putErr := m.OnRunS3(context.Background(), input(minioArgs(t, srv, map[string]cty.Value{
		"action":      cty.StringVal("put_object"),
		"source_path": cty.StringVal(writeSource(t)),
	})))
	out, getErr := m.OnRunS3(context.Background(), input(minioArgs(t, srv, map[string]cty.Value{
		"action":    cty.StringVal("get_object"),
		"dest_path": cty.StringVal(dest),
	})))

	// Assert
	require.NoError(t, putErr)
	require.NoError(t, getErr)
	assert.Equal(t, map[string]any{"success": true}, out)

	copied, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(copied))
}

func TestOnRunS3_GetObjectRequiresDestination(t *testing.T) {
	t.Parallel()

	_, err := (&Module{}).OnRunS3(context.Background(), input(map[string]cty.Value{
		"action": cty.StringVal("get_object"),
	}))

	assert.ErrorContains(t, err, "argument 'dest_path' is required for get_object")
}

func TestOnRunS3_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		attrs map[string]cty.Value
		want  string
	}{
		{
			name:  "unknown action",
			attrs: map[string]cty.Value{"action": cty.StringVal("sync")},
			want:  "unknown s3 action: 'sync'",
		},
		{
			name: "missing source file",
			attrs: map[string]cty.Value{
				"action":      cty.StringVal("upload"),
				"source_path": cty.StringVal("/does/not/exist"),
			},
			want: "failed to open source file",
		},
		{
			name:  "download without destination",
			attrs: map[string]cty.Value{"action": cty.StringVal("download"), "url": cty.StringVal("http://x")},
			want:  "'dest_path' is required",
		},
		{
			name:  "put without bucket",
			attrs: map[string]cty.Value{"action": cty.StringVal("put_object"), "endpoint": cty.StringVal("localhost:9000")},
			want:  "'endpoint', 'bucket' and 'key' are required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := (&Module{}).OnRunS3(context.Background(), input(tc.attrs))
			assert.ErrorContains(t, err, tc.want)
		})
	}
}
