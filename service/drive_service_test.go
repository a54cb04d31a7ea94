package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type fakeProcessor struct {
	mu      sync.Mutex
	sources []string
	paths   []string
}

func (f *fakeProcessor) ProcessSources(_ context.Context, sources []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, sources...)
	return f.paths, nil
}

// fakeDriveServer serves the two Files.List calls Sync makes plus media
// downloads for the listed files.
func fakeDriveServer(t *testing.T, folders string, files string, content map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/files" && strings.Contains(r.URL.Query().Get("q"), "application/vnd.google-apps.folder"):
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(folders))
		case r.URL.Path == "/files":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(files))
		case strings.HasPrefix(r.URL.Path, "/files/") && r.URL.Query().Get("alt") == "media":
			id := strings.TrimPrefix(r.URL.Path, "/files/")
			body, ok := content[id]
			if !ok {
				t.Errorf("unexpected download of file %q", id)
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestDriveService(t *testing.T, server *httptest.Server, processor SourceProcessor) *DriveService {
	t.Helper()
	svc, err := drive.NewService(context.Background(),
		option.WithEndpoint(server.URL),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return newDriveService(svc, processor, zap.NewNop().Sugar())
}

func TestDriveSyncSkipsMirroredFiles(t *testing.T) {
	server := fakeDriveServer(t,
		`{"files": [{"id": "folder1", "name": "Notes"}]}`,
		`{"files": [{"id": "f1", "name": "old.pdf"}, {"id": "f2", "name": "new.pdf"}]}`,
		map[string]string{"f2": "fresh scan bytes"},
	)
	defer server.Close()

	rawDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rawDir, "old.pdf"), []byte("already mirrored"), 0644))

	processor := &fakeProcessor{paths: []string{"note.md"}}
	svc := newTestDriveService(t, server, processor)

	paths, err := svc.Sync(context.Background(), "Notes", rawDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"note.md"}, paths)

	assert.Equal(t, []string{filepath.Join(rawDir, "new.pdf")}, processor.sources)

	downloaded, err := os.ReadFile(filepath.Join(rawDir, "new.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "fresh scan bytes", string(downloaded))

	untouched, err := os.ReadFile(filepath.Join(rawDir, "old.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "already mirrored", string(untouched))
}

func TestDriveSyncFolderNotFound(t *testing.T) {
	server := fakeDriveServer(t, `{"files": []}`, `{"files": []}`, nil)
	defer server.Close()

	svc := newTestDriveService(t, server, &fakeProcessor{})

	_, err := svc.Sync(context.Background(), "Missing", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDriveSyncNoNewFiles(t *testing.T) {
	server := fakeDriveServer(t,
		`{"files": [{"id": "folder1", "name": "Notes"}]}`,
		`{"files": [{"id": "f1", "name": "old.pdf"}]}`,
		nil,
	)
	defer server.Close()

	rawDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rawDir, "old.pdf"), []byte("already mirrored"), 0644))

	processor := &fakeProcessor{paths: []string{"stale.md"}}
	svc := newTestDriveService(t, server, processor)

	paths, err := svc.Sync(context.Background(), "Notes", rawDir)
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.Empty(t, processor.sources)
}
