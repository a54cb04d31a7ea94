package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// SourceProcessor runs downloaded source files through the extraction
// pipeline. PipelineService is the production implementation.
type SourceProcessor interface {
	ProcessSources(ctx context.Context, sources []string) ([]string, error)
}

// DriveService pulls new PDFs from a Google Drive folder into the raw
// mirror and runs them through the pipeline.
type DriveService struct {
	svc      *drive.Service
	pipeline SourceProcessor
	logger   *zap.SugaredLogger
}

func NewDriveService(ctx context.Context, credentialsFile string, pipeline SourceProcessor, logger *zap.SugaredLogger) (*DriveService, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return newDriveService(svc, pipeline, logger), nil
}

func newDriveService(svc *drive.Service, pipeline SourceProcessor, logger *zap.SugaredLogger) *DriveService {
	return &DriveService{
		svc:      svc,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Sync downloads PDFs from the named Drive folder that are not yet present
// in rawDir and processes the new files. Files already mirrored locally are
// skipped, so repeated syncs only pay for new uploads.
func (s *DriveService) Sync(ctx context.Context, folderName, rawDir string) ([]string, error) {
	if err := os.MkdirAll(rawDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create raw directory: %w", err)
	}

	folders, err := s.svc.Files.List().
		Q(fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.folder'", folderName)).
		Spaces("drive").
		Fields("files(id, name)").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list drive folders: %w", err)
	}
	if len(folders.Files) == 0 {
		return nil, fmt.Errorf("folder %q not found in drive", folderName)
	}

	files, err := s.svc.Files.List().
		Q(fmt.Sprintf("'%s' in parents and mimeType = 'application/pdf'", folders.Files[0].Id)).
		Spaces("drive").
		Fields("files(id, name)").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list drive files: %w", err)
	}

	var newFiles []string
	for _, f := range files.Files {
		localPath := filepath.Join(rawDir, f.Name)
		if _, err := os.Stat(localPath); err == nil {
			continue // already synced
		}
		if err := s.download(ctx, f.Id, localPath); err != nil {
			return nil, err
		}
		s.logger.Infow("downloaded file", "name", f.Name)
		newFiles = append(newFiles, localPath)
	}

	if len(newFiles) == 0 {
		s.logger.Infow("no new files in drive folder", "folder", folderName)
		return nil, nil
	}
	s.logger.Infow("processing new files", "count", len(newFiles))
	return s.pipeline.ProcessSources(ctx, newFiles)
}

func (s *DriveService) download(ctx context.Context, fileID, dest string) error {
	resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
