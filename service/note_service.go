package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tieubaoca/inkwell/types"
	"github.com/tieubaoca/inkwell/utils"
)

const (
	commentOpen  = "<comment>"
	commentClose = "</comment>"
	articleOpen  = "<article>"
	articleClose = "</article>"
)

var (
	metaTagRe    = regexp.MustCompile(`<meta\s+name="([^"]+)"\s+content="([^"]*)"\s*/?>`)
	articleTagRe = regexp.MustCompile(`</?article>`)
)

// SplitNotes parses a blob of concatenated note markup into individual note
// bodies. A leading <comment> block is returned separately so callers can
// log it; it never becomes note content. Text outside <article> pairs is
// ignored, as is an unterminated block. A text with no delimiters yields
// zero notes; callers decide whether that is a warning.
func SplitNotes(text string) ([]string, string) {
	const (
		stateOutside = iota
		stateInComment
		stateInArticle
	)

	var notes []string
	var comment strings.Builder
	var article strings.Builder
	state := stateOutside
	seenComment := false

	i := 0
	for i < len(text) {
		switch state {
		case stateOutside:
			if !seenComment && strings.HasPrefix(text[i:], commentOpen) {
				state = stateInComment
				seenComment = true
				i += len(commentOpen)
			} else if strings.HasPrefix(text[i:], articleOpen) {
				state = stateInArticle
				article.Reset()
				i += len(articleOpen)
			} else {
				i++
			}
		case stateInComment:
			if strings.HasPrefix(text[i:], commentClose) {
				state = stateOutside
				i += len(commentClose)
			} else {
				comment.WriteByte(text[i])
				i++
			}
		case stateInArticle:
			if strings.HasPrefix(text[i:], articleClose) {
				notes = append(notes, article.String())
				state = stateOutside
				i += len(articleClose)
			} else {
				article.WriteByte(text[i])
				i++
			}
		}
	}
	return notes, strings.TrimSpace(comment.String())
}

// ParseNote extracts metadata from a raw note body. Metadata is read from
// YAML front matter when present, falling back to inline meta tags. A
// missing title is synthesized from a short hash of the raw content and a
// missing date becomes today, so the output always carries both.
func ParseNote(raw string) types.Note {
	content := strings.TrimSpace(raw)
	content = articleTagRe.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```markdown")
	content = strings.TrimPrefix(content, "```html")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var note types.Note
	if strings.HasPrefix(content, "---") {
		parts := strings.SplitN(content, "---", 3)
		if len(parts) == 3 {
			if err := yaml.Unmarshal([]byte(parts[1]), &note); err == nil {
				content = strings.TrimSpace(parts[2])
			}
		}
	}
	note.Tags = normalizeTags(note.Tags)

	for _, m := range metaTagRe.FindAllStringSubmatch(content, -1) {
		name, value := m[1], m[2]
		switch name {
		case "title":
			if note.Title == "" {
				note.Title = value
			}
		case "date":
			if note.Date == "" {
				note.Date = value
			}
		case "tags":
			if len(note.Tags) == 0 {
				note.Tags = parseTags(value)
			}
		case "comments":
			if note.Comments == "" {
				note.Comments = value
			}
		}
	}

	if note.Title == "" {
		note.Title = "untitled-" + utils.NoteHash(raw)
	}
	if note.Date == "" {
		note.Date = time.Now().Format("2006-01-02")
	}
	note.Body = content
	return note
}

func parseTags(value string) []string {
	return normalizeTags(strings.Split(value, ","))
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// NoteService persists notes as markdown artifacts with YAML front matter
type NoteService struct {
	notesDir string
	logger   *zap.SugaredLogger
}

func NewNoteService(notesDir string, logger *zap.SugaredLogger) (*NoteService, error) {
	if err := os.MkdirAll(notesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create notes directory: %w", err)
	}
	return &NoteService{
		notesDir: notesDir,
		logger:   logger,
	}, nil
}

// Save writes one note artifact named <date>_<title>.md. A note with the
// same date and title overwrites the previous artifact (upsert-by-title), so
// re-running the pipeline on unchanged input reproduces the same files.
func (s *NoteService) Save(raw string) (string, error) {
	note := ParseNote(raw)

	front, err := yaml.Marshal(note)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrPersist, err)
	}

	var content strings.Builder
	content.WriteString("---\n")
	content.Write(front)
	content.WriteString("---\n\n")
	content.WriteString(strings.TrimSpace(note.Body))
	content.WriteString("\n")

	filename := utils.SanitizeFilename(fmt.Sprintf("%s_%s.md", note.Date, note.Title))
	path := filepath.Join(s.notesDir, filename)
	if err := os.WriteFile(path, []byte(content.String()), 0644); err != nil {
		return "", fmt.Errorf("%w: %s: %v", types.ErrPersist, filename, err)
	}
	s.logger.Infow("saved note", "file", filename, "title", note.Title, "tags", len(note.Tags))
	return path, nil
}

// SaveAll persists all notes with partial-success semantics: a write failure
// is logged and skips that note, the rest are still written.
func (s *NoteService) SaveAll(notes []string) []string {
	paths := make([]string, 0, len(notes))
	for i, raw := range notes {
		path, err := s.Save(raw)
		if err != nil {
			s.logger.Errorw("failed to save note", "index", i, "error", err)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
