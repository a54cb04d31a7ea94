package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tieubaoca/inkwell/types"
	"github.com/tieubaoca/inkwell/utils"
)

// ExtractService turns batches of page images into cleaned note markup
// through a two-pass completion, memoized in the content cache.
type ExtractService struct {
	ai     Completer
	cache  *CacheService
	opts   types.ExtractOptions
	logger *zap.SugaredLogger
}

func NewExtractService(ai Completer, cache *CacheService, opts types.ExtractOptions, logger *zap.SugaredLogger) *ExtractService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = types.DefaultExtractOptions.BatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = types.DefaultExtractOptions.Workers
	}
	return &ExtractService{
		ai:     ai,
		cache:  cache,
		opts:   opts,
		logger: logger,
	}
}

// PlanBatches splits the flattened page sequence into consecutive batches of
// at most batchSize images. Every image lands in exactly one batch and
// batches preserve the global page order.
func PlanBatches(images []types.PageImage, batchSize int) [][]types.PageImage {
	var batches [][]types.PageImage
	for start := 0; start < len(images); start += batchSize {
		end := start + batchSize
		if end > len(images) {
			end = len(images)
		}
		batches = append(batches, images[start:end])
	}
	return batches
}

// ExtractAll processes all page images and returns one cleaned text blob per
// batch, in batch order. Batches run on a bounded worker pool; results are
// collected positionally so completion order never reorders them. Any batch
// failing after retries aborts the remaining work.
func (s *ExtractService) ExtractAll(ctx context.Context, images []types.PageImage) ([]string, error) {
	batches := PlanBatches(images, s.opts.BatchSize)
	s.logger.Infow("extracting notes",
		"images", len(images),
		"batches", len(batches),
		"workers", s.opts.Workers)

	results := make([]string, len(batches))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			text, err := s.extractBatch(ctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i, err)
			}
			results[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// extractBatch runs the two-pass extraction for one batch: an initial
// extraction over the images, then a cleanup pass over the raw candidate
// text. Only the cleanup output is cached and returned.
func (s *ExtractService) extractBatch(ctx context.Context, batch []types.PageImage) (string, error) {
	key := utils.BatchHash(batch)
	if text, ok := s.cache.LookupExtraction(key); ok {
		s.logger.Infow("cache hit", "key", key, "batch_size", len(batch))
		return text, nil
	}
	s.logger.Infow("cache miss", "key", key, "batch_size", len(batch))

	firstPass, err := s.ai.Complete(ctx, SystemPrompt, []types.Message{
		{Role: types.RoleUser, Content: UserPrompt},
		{Role: types.RoleUser, Images: batch},
	})
	if err != nil {
		return "", fmt.Errorf("%w: extraction pass: %v", types.ErrInference, err)
	}

	cleaned, err := s.ai.Complete(ctx, SystemPrompt, []types.Message{
		{Role: types.RoleUser, Content: firstPass},
		{Role: types.RoleUser, Content: CleanupPrompt},
	})
	if err != nil {
		return "", fmt.Errorf("%w: cleanup pass: %v", types.ErrInference, err)
	}

	if err := s.cache.StoreExtraction(key, cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}
