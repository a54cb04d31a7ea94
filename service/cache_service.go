package service

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// enrichmentPrefix separates the enrichment namespace from extraction
// results inside the same cache directory.
const enrichmentPrefix = "tags_"

// CacheService is a content-addressable store of inference results, keyed by
// a hash of the cached payload. Entries are flat UTF-8 files; presence of a
// file is the sole hit signal. Entries are created once and never mutated,
// which makes concurrent writers benign: two workers computing the same key
// write identical bytes. Operators invalidate by deleting files.
type CacheService struct {
	dir    string
	logger *zap.SugaredLogger
}

func NewCacheService(dir string, logger *zap.SugaredLogger) (*CacheService, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &CacheService{
		dir:    dir,
		logger: logger,
	}, nil
}

// LookupExtraction returns the cached extraction result for a batch key
func (s *CacheService) LookupExtraction(key string) (string, bool) {
	return s.lookup(key + ".txt")
}

// StoreExtraction caches the cleaned extraction result for a batch key
func (s *CacheService) StoreExtraction(key, text string) error {
	return s.store(key+".txt", text)
}

// LookupEnrichment returns the cached enrichment result for a note key
func (s *CacheService) LookupEnrichment(key string) (string, bool) {
	return s.lookup(enrichmentPrefix + key + ".txt")
}

// StoreEnrichment caches the enrichment result for a note key
func (s *CacheService) StoreEnrichment(key, text string) error {
	return s.store(enrichmentPrefix+key+".txt", text)
}

func (s *CacheService) lookup(name string) (string, bool) {
	content, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnw("failed to read cache entry", "entry", name, "error", err)
		}
		return "", false
	}
	return string(content), true
}

func (s *CacheService) store(name, text string) error {
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", name, err)
	}
	return nil
}
