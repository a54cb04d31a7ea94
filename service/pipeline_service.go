package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tieubaoca/inkwell/types"
	"github.com/tieubaoca/inkwell/utils"
)

// PipelineService sequences the extraction pipeline: rasterizing, batching,
// parallel extraction, splitting, serial enrichment, persistence.
// Rasterization and extraction fail fast; everything downstream of splitting
// runs with partial-success semantics, since the content cache already made
// the expensive work durable.
type PipelineService struct {
	pdf     *PDFService
	extract *ExtractService
	enrich  *EnrichService
	notes   *NoteService
	logger  *zap.SugaredLogger
}

func NewPipelineService(
	pdf *PDFService,
	extract *ExtractService,
	enrich *EnrichService,
	notes *NoteService,
	logger *zap.SugaredLogger,
) *PipelineService {
	return &PipelineService{
		pdf:     pdf,
		extract: extract,
		enrich:  enrich,
		notes:   notes,
		logger:  logger,
	}
}

// ProcessSources runs the full pipeline over the given source documents and
// returns the paths of the persisted note artifacts. Re-invoking it on the
// same sources reuses every cached batch and note, recomputing only what
// never completed.
func (s *PipelineService) ProcessSources(ctx context.Context, sources []string) ([]string, error) {
	var allImages []types.PageImage
	for _, src := range sources {
		s.logger.Infow("rasterizing source", "file", src)
		images, err := s.pdf.ExtractImages(ctx, src)
		if err != nil {
			return nil, err
		}
		allImages = append(allImages, images...)
	}
	if len(allImages) == 0 {
		s.logger.Warnw("no pages produced", "sources", len(sources))
		return nil, nil
	}

	results, err := s.extract.ExtractAll(ctx, allImages)
	if err != nil {
		return nil, err
	}

	var allNotes []string
	for i, result := range results {
		notes, comment := SplitNotes(result)
		if comment != "" {
			s.logger.Infow("model comment", "batch", i, "comment", comment)
		}
		if len(notes) == 0 {
			if strings.TrimSpace(result) != "" {
				s.logger.Warnw("no note blocks in batch output", "batch", i, "error", types.ErrMalformedOutput)
			}
			continue
		}
		s.logger.Infow("split batch", "batch", i, "notes", len(notes))
		allNotes = append(allNotes, notes...)
	}

	enriched := s.enrich.EnrichAll(ctx, allNotes)

	s.logger.Infow("saving notes", "count", len(enriched))
	return s.notes.SaveAll(enriched), nil
}

// SubmitFiles resolves a file path or glob pattern, mirrors the matched
// sources into rawDir and processes them.
func (s *PipelineService) SubmitFiles(ctx context.Context, pattern, rawDir string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: bad pattern %q: %v", types.ErrSourceRead, pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no files match %q", types.ErrSourceRead, pattern)
	}

	var sources []string
	for _, match := range matches {
		if info, err := os.Stat(match); err != nil || info.IsDir() {
			continue
		}
		if !supportedSource(match) {
			s.logger.Warnw("skipping unsupported file", "file", match)
			continue
		}
		dest, err := utils.CopyFileTo(match, rawDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrSourceRead, err)
		}
		sources = append(sources, dest)
	}
	if len(sources) == 0 {
		s.logger.Warnw("nothing to process", "pattern", pattern)
		return nil, nil
	}
	return s.ProcessSources(ctx, sources)
}

func supportedSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
