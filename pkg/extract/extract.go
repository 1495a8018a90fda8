// Package extract handles document intake: file type detection, tolerant
// text decoding, and the canonical document model the rest of the
// pipeline consumes.
//
// Only plain text is decoded here. Binary formats (pdf, pptx, docx,
// images) are extracted upstream by the intake sidecar, which posts the
// recovered text to this service.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnsupportedType marks uploads this service cannot decode itself.
var ErrUnsupportedType = errors.New("extract: unsupported file type")

// FileType classifies an upload.
type FileType string

const (
	TypePDF     FileType = "pdf"
	TypePPTX    FileType = "pptx"
	TypeDOCX    FileType = "docx"
	TypeTXT     FileType = "txt"
	TypeImage   FileType = "image"
	TypeUnknown FileType = "unknown"
)

const methodDirectRead = "direct_read"

// DetectFileType classifies an upload by extension first, then by
// mimetype substrings. Presentation formats are checked before word
// processing ones: their mimetypes also contain "document".
func DetectFileType(fileName, mimeType string) FileType {
	ext := ""
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		ext = strings.ToLower(fileName[i+1:])
	}

	switch {
	case ext == "pdf" || strings.Contains(mimeType, "pdf"):
		return TypePDF
	case ext == "pptx" || ext == "ppt" ||
		strings.Contains(mimeType, "presentation") || strings.Contains(mimeType, "powerpoint"):
		return TypePPTX
	case ext == "docx" || ext == "doc" ||
		strings.Contains(mimeType, "word") || strings.Contains(mimeType, "document"):
		return TypeDOCX
	case ext == "txt" || strings.Contains(mimeType, "text/plain"):
		return TypeTXT
	case ext == "png" || ext == "jpg" || ext == "jpeg" || ext == "webp" || ext == "gif":
		return TypeImage
	default:
		return TypeUnknown
	}
}

// ReadText decodes an uploaded buffer. Valid UTF-8 passes through;
// anything else reads as Windows-1252, which covers Latin-1 on the
// printable range and maps the 0x80-0x9F block to usable punctuation.
// Bytes with no mapping are dropped.
func ReadText(buf []byte) string {
	if utf8.Valid(buf) {
		return string(buf)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(buf)
	if err != nil {
		// Last resort: keep what is valid, drop the rest.
		return strings.ToValidUTF8(string(buf), "")
	}
	return strings.ReplaceAll(string(decoded), string(utf8.RuneError), "")
}

// Extraction records how a document's text was recovered.
type Extraction struct {
	Method     string    `json:"method"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// Block is one paragraph-level unit of document text.
type Block struct {
	Text       string  `json:"text"`
	Page       int     `json:"page"`
	Confidence float64 `json:"confidence"`
	Type       string  `json:"type"`
}

// Content holds the extracted text, whole and in blocks.
type Content struct {
	Blocks   []Block `json:"blocks"`
	FullText string  `json:"fullText"`
}

// Stats summarizes the extracted text.
type Stats struct {
	Chars  int `json:"chars"`
	Words  int `json:"words"`
	Blocks int `json:"blocks"`
}

// Canonical is the standardized document model handed to the pipeline.
type Canonical struct {
	ID         string     `json:"id"`
	Filename   string     `json:"filename"`
	FileType   FileType   `json:"fileType"`
	FileSize   int        `json:"fileSize"`
	Extraction Extraction `json:"extraction"`
	Content    Content    `json:"content"`
	Stats      Stats      `json:"stats"`
}

// FromBytes builds the canonical document for an upload. Only plain text
// decodes here; every other detected type returns ErrUnsupportedType.
// An empty id gets a generated one.
func FromBytes(id, fileName, mimeType string, buf []byte) (*Canonical, error) {
	ft := DetectFileType(fileName, mimeType)
	if ft != TypeTXT {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ft)
	}
	return BuildCanonical(id, fileName, ft, len(buf), ReadText(buf)), nil
}

// BuildCanonical assembles the canonical model around already-decoded
// text. Blocks split on blank lines.
func BuildCanonical(id, fileName string, ft FileType, size int, text string) *Canonical {
	if id == "" {
		id = uuid.NewString()
	}
	blocks := splitBlocks(text)
	return &Canonical{
		ID:       id,
		Filename: fileName,
		FileType: ft,
		FileSize: size,
		Extraction: Extraction{
			Method:     methodDirectRead,
			Confidence: 1.0,
			Timestamp:  time.Now().UTC(),
		},
		Content: Content{
			Blocks:   blocks,
			FullText: text,
		},
		Stats: Stats{
			Chars:  utf8.RuneCountInString(text),
			Words:  len(strings.Fields(text)),
			Blocks: len(blocks),
		},
	}
}

var blockSplitRe = regexp.MustCompile(`\n\s*\n`)

func splitBlocks(text string) []Block {
	parts := blockSplitRe.Split(text, -1)
	blocks := make([]Block, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		blocks = append(blocks, Block{Text: p, Page: 1, Confidence: 1.0, Type: "text"})
	}
	return blocks
}
