package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tieubaoca/inkwell/types"
	"github.com/tieubaoca/inkwell/utils"
)

// EnrichService injects tags and wiki links into extracted notes. Enrichment
// calls run strictly one at a time: this stage is the pipeline's
// rate-limiting point and must stay serial.
type EnrichService struct {
	ai     Completer
	cache  *CacheService
	logger *zap.SugaredLogger
}

func NewEnrichService(ai Completer, cache *CacheService, logger *zap.SugaredLogger) *EnrichService {
	return &EnrichService{
		ai:     ai,
		cache:  cache,
		logger: logger,
	}
}

// EnrichAll enriches each note in order, returning results in the same
// order. A note that fails enrichment is kept in its unenriched form rather
// than dropped.
func (s *EnrichService) EnrichAll(ctx context.Context, notes []string) []string {
	enriched := make([]string, len(notes))
	for i, note := range notes {
		enriched[i] = s.enrichNote(ctx, note)
	}
	return enriched
}

func (s *EnrichService) enrichNote(ctx context.Context, note string) string {
	// Blank notes are never sent to the service
	if strings.TrimSpace(note) == "" {
		return note
	}

	key := utils.TextHash(note)
	result, ok := s.cache.LookupEnrichment(key)
	if ok {
		s.logger.Infow("cache hit", "key", key)
	} else {
		s.logger.Infow("cache miss", "key", key)
		var err error
		result, err = s.ai.Complete(ctx, TaggingPrompt, []types.Message{
			{Role: types.RoleUser, Content: note},
		})
		if err != nil {
			s.logger.Warnw("enrichment failed, keeping unenriched note", "key", key, "error", err)
			return note
		}
		if err := s.cache.StoreEnrichment(key, result); err != nil {
			s.logger.Warnw("failed to cache enrichment result", "key", key, "error", err)
		}
	}

	// The tagging pass returns a full note wrapper; only the inner article
	// span is trusted as the post-enrichment content.
	if inner, found := articleSpan(result); found {
		return articleOpen + inner + articleClose
	}
	s.logger.Warnw("enriched note has no article block, keeping unenriched note", "key", key)
	return note
}

func articleSpan(text string) (string, bool) {
	open := strings.Index(text, articleOpen)
	if open == -1 {
		return "", false
	}
	rest := text[open+len(articleOpen):]
	end := strings.Index(rest, articleClose)
	if end == -1 {
		return "", false
	}
	return rest[:end], true
}
