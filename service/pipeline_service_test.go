package service

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tieubaoca/inkwell/types"
)

// pipelineFake emulates all three completion passes: extraction answers with
// two article blocks, cleanup passes the candidate text through behind a
// comment block, tagging wraps the note with a tags meta tag.
type pipelineFake struct {
	mu    sync.Mutex
	calls int
}

func (f *pipelineFake) Complete(_ context.Context, system string, messages []types.Message) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if system == TaggingPrompt {
		return "<article>" + messages[0].Content + `<meta name="tags" content="Ledger, Errands">` + "</article>", nil
	}
	for _, msg := range messages {
		if len(msg.Images) > 0 {
			return `<article><p>bought seeds</p>
<meta name="title" content="garden">
<meta name="date" content="2024-03-05">
</article>
<article><p>fix the fence</p>
<meta name="title" content="chores">
<meta name="date" content="2024-03-06">
</article>`, nil
		}
	}
	return "<comment>looks accurate</comment>" + messages[0].Content, nil
}

func (f *pipelineFake) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestPipeline(t *testing.T, ai Completer, buildDir string) *PipelineService {
	t.Helper()
	logger := zap.NewNop().Sugar()

	cache, err := NewCacheService(filepath.Join(buildDir, "cache"), logger)
	require.NoError(t, err)
	notes, err := NewNoteService(filepath.Join(buildDir, "notes"), logger)
	require.NoError(t, err)

	pdf := NewPDFService(types.RasterOptions{TargetEdge: 64, JPEGQuality: 85}, logger)
	extract := NewExtractService(ai, cache, types.ExtractOptions{BatchSize: 16, Workers: 2}, logger)
	enrich := NewEnrichService(ai, cache, logger)
	return NewPipelineService(pdf, extract, enrich, notes, logger)
}

func writeTestScan(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(120, 90)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestSubmitFilesEndToEnd(t *testing.T) {
	srcDir := t.TempDir()
	rawDir := filepath.Join(t.TempDir(), "raw")
	buildDir := t.TempDir()
	writeTestScan(t, srcDir, "scan1.png")

	ai := &pipelineFake{}
	pipeline := newTestPipeline(t, ai, buildDir)

	paths, err := pipeline.SubmitFiles(context.Background(), filepath.Join(srcDir, "*.png"), rawDir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Contains(t, paths[0], "2024-03-05_garden.md")
	assert.Contains(t, paths[1], "2024-03-06_chores.md")

	// source was mirrored into the raw directory
	_, err = os.Stat(filepath.Join(rawDir, "scan1.png"))
	assert.NoError(t, err)

	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "bought seeds")
	assert.Contains(t, string(content), "- ledger")
	assert.Contains(t, string(content), "title: garden")
}

func TestSubmitFilesIdempotentWithWarmCache(t *testing.T) {
	srcDir := t.TempDir()
	rawDir := filepath.Join(t.TempDir(), "raw")
	buildDir := t.TempDir()
	writeTestScan(t, srcDir, "scan1.png")

	ai := &pipelineFake{}
	pipeline := newTestPipeline(t, ai, buildDir)

	first, err := pipeline.SubmitFiles(context.Background(), filepath.Join(srcDir, "*.png"), rawDir)
	require.NoError(t, err)
	callsAfterFirst := ai.callCount()
	firstContent, err := os.ReadFile(first[0])
	require.NoError(t, err)

	second, err := pipeline.SubmitFiles(context.Background(), filepath.Join(srcDir, "*.png"), rawDir)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, ai.callCount(), "warm cache must issue no inference calls")
	assert.Equal(t, first, second)
	secondContent, err := os.ReadFile(second[0])
	require.NoError(t, err)
	assert.Equal(t, firstContent, secondContent)
}

func TestSubmitFilesNoMatches(t *testing.T) {
	pipeline := newTestPipeline(t, &pipelineFake{}, t.TempDir())

	_, err := pipeline.SubmitFiles(context.Background(), filepath.Join(t.TempDir(), "*.pdf"), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSourceRead)
}

// malformedFake returns non-empty output with no article blocks
type malformedFake struct{ pipelineFake }

func (f *malformedFake) Complete(_ context.Context, _ string, _ []types.Message) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return "I could not find any notes in these images.", nil
}

func TestProcessSourcesMalformedOutputYieldsNoNotes(t *testing.T) {
	srcDir := t.TempDir()
	buildDir := t.TempDir()
	scan := writeTestScan(t, srcDir, "scan1.png")

	pipeline := newTestPipeline(t, &malformedFake{}, buildDir)

	paths, err := pipeline.ProcessSources(context.Background(), []string{scan})
	require.NoError(t, err, "malformed output is a warning, not a failure")
	assert.Empty(t, paths)
}
