package service

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/tieubaoca/inkwell/types"
)

// renderDPI is the resolution pages are rendered at before resizing.
const renderDPI = 150

// PDFService rasterizes source documents into normalized page images
type PDFService struct {
	opts   types.RasterOptions
	logger *zap.SugaredLogger
}

func NewPDFService(opts types.RasterOptions, logger *zap.SugaredLogger) *PDFService {
	if opts.TargetEdge <= 0 {
		opts.TargetEdge = types.DefaultRasterOptions.TargetEdge
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = types.DefaultRasterOptions.JPEGQuality
	}
	return &PDFService{
		opts:   opts,
		logger: logger,
	}
}

// ExtractImages converts a source document into one PageImage per page, in
// page order. An unreadable or corrupt source fails the whole document; no
// partial output is returned. This stage is cheap to redo and not cached.
func (s *PDFService) ExtractImages(ctx context.Context, path string) ([]types.PageImage, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return s.extractFromPDF(ctx, path)
	case ".png", ".jpg", ".jpeg":
		return s.extractFromImageFile(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %s", types.ErrSourceRead, ext)
	}
}

func (s *PDFService) extractFromPDF(ctx context.Context, pdfPath string) ([]types.PageImage, error) {
	totalPages, err := getNumPages(ctx, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrSourceRead, pdfPath, err)
	}
	s.logger.Infow("rendering pdf", "file", pdfPath, "pages", totalPages)

	tempDir, err := os.MkdirTemp("", "inkwell-raster-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	convertCmd := exec.CommandContext(ctx, "pdftoppm",
		"-jpeg",
		"-r", strconv.Itoa(renderDPI),
		pdfPath,
		filepath.Join(tempDir, "page"))
	if out, err := convertCmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: pdftoppm failed for %s: %v: %s", types.ErrSourceRead, pdfPath, err, out)
	}

	files, err := filepath.Glob(filepath.Join(tempDir, "page-*.jpg"))
	if err != nil || len(files) == 0 {
		return nil, fmt.Errorf("%w: no pages rendered from %s", types.ErrSourceRead, pdfPath)
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order
	sort.Strings(files)

	images := make([]types.PageImage, 0, len(files))
	for _, file := range files {
		img, err := decodeImageFile(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrSourceRead, pdfPath, err)
		}
		page, err := s.resizePage(img)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrSourceRead, pdfPath, err)
		}
		images = append(images, page)
	}
	return images, nil
}

func (s *PDFService) extractFromImageFile(path string) ([]types.PageImage, error) {
	img, err := decodeImageFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrSourceRead, path, err)
	}
	page, err := s.resizePage(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrSourceRead, path, err)
	}
	return []types.PageImage{page}, nil
}

// resizePage scales a page so its shorter edge matches the target dimension,
// preserving aspect ratio, and encodes it as JPEG. Pages already smaller than
// the target are encoded as-is rather than upscaled.
func (s *PDFService) resizePage(src image.Image) (types.PageImage, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	shorter := width
	if height < width {
		shorter = height
	}
	if shorter > s.opts.TargetEdge {
		scale := float64(s.opts.TargetEdge) / float64(shorter)
		width = int(float64(width)*scale + 0.5)
		height = int(float64(height)*scale + 0.5)
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: s.opts.JPEGQuality}); err != nil {
		return types.PageImage{}, fmt.Errorf("failed to encode page: %w", err)
	}
	return types.PageImage{
		MIMEType: "image/jpeg",
		Content:  buf.Bytes(),
		Width:    width,
		Height:   height,
	}, nil
}

func decodeImageFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// getNumPages uses pdfinfo to get the total number of pages in a PDF file
func getNumPages(ctx context.Context, pdfPath string) (int, error) {
	cmd := exec.CommandContext(ctx, "pdfinfo", pdfPath)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("error running pdfinfo: %v", err)
	}

	scanner := bufio.NewScanner(&out)
	re := regexp.MustCompile(`Pages:\s+(\d+)`)
	for scanner.Scan() {
		line := scanner.Text()
		if matches := re.FindStringSubmatch(line); len(matches) == 2 {
			return strconv.Atoi(matches[1])
		}
	}

	return 0, fmt.Errorf("unable to determine page count from pdfinfo")
}
