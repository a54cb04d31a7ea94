package types

// PageImage is one rasterized page of a source document
type PageImage struct {
	MIMEType string // MIME type of the encoded content, e.g. "image/jpeg"
	Content  []byte // Encoded image bytes
	Width    int    // Pixel width after resizing
	Height   int    // Pixel height after resizing
}

// Note is the final persisted unit produced by the pipeline
type Note struct {
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"` // ISO calendar date, always present in output
	Tags     []string `yaml:"tags,omitempty"`
	Comments string   `yaml:"comments,omitempty"`
	Body     string   `yaml:"-"`
}
