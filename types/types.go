package types

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message sent to the completion service.
// Images, when present, are attached as multimodal parts of the message.
type Message struct {
	Role    string
	Content string
	Images  []PageImage
}

// ExtractOptions contains configuration options for the extraction stage
type ExtractOptions struct {
	BatchSize int // Maximum number of page images per inference call
	Workers   int // Degree of parallelism for batch extraction
}

// RasterOptions contains configuration options for page rasterization
type RasterOptions struct {
	TargetEdge  int // Target pixel size for the shorter edge of each page
	JPEGQuality int // Lossy encoding quality for rasterized pages
}

var DefaultExtractOptions = ExtractOptions{
	BatchSize: 16,
	Workers:   4,
}

var DefaultRasterOptions = RasterOptions{
	TargetEdge:  1536,
	JPEGQuality: 85,
}
