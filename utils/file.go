package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyFileTo copies a source file into destDir keeping its base name.
// The name is kept stable so re-submitting the same file is a no-op
// for the raw mirror. Returns the destination path.
func CopyFileTo(sourcePath, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}

	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open source file: %v", err)
	}
	defer sourceFile.Close()

	destPath := filepath.Join(destDir, filepath.Base(sourcePath))
	if destPath == sourcePath {
		return destPath, nil
	}

	destFile, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %v", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return "", fmt.Errorf("failed to copy file: %v", err)
	}

	return destPath, nil
}

// SanitizeFilename replaces characters that are not safe in file names
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}
