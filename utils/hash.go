package utils

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/tieubaoca/inkwell/types"
)

// BatchHash computes the cache key for a batch of page images. Images are
// sorted by MIME type before hashing, so the key depends only on the multiset
// of (content, MIME type) pairs, not on construction order. Existing caches
// were built with this rule; changing it invalidates them.
func BatchHash(images []types.PageImage) string {
	sorted := make([]types.PageImage, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MIMEType < sorted[j].MIMEType
	})

	hasher := sha256.New()
	for _, img := range sorted {
		hasher.Write(img.Content)
		hasher.Write([]byte(img.MIMEType))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// TextHash computes the cache key for a text artifact
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NoteHash generates a short consistent hash used for naming untitled notes
func NoteHash(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])[:8]
}
