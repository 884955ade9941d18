package extract

import (
	"encoding/csv"
	"mime"
	"path/filepath"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// Extractor converts a raw byte payload plus a declared content type
// into plain text, dispatching by normalized MIME type with a
// filename-extension fallback. Unrecognized types take the plain-text
// path; extraction never fails on undecodable bytes.
type Extractor struct{}

// New creates a new Extractor
func New() *Extractor {
	return &Extractor{}
}

const (
	mimePlain    = "text/plain"
	mimeMarkdown = "text/markdown"
	mimeCSV      = "text/csv"
	mimePDF      = "application/pdf"
	mimeDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXlsx     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var extensionTypes = map[string]string{
	".txt":  mimePlain,
	".md":   mimeMarkdown,
	".csv":  mimeCSV,
	".pdf":  mimePDF,
	".docx": mimeDocx,
	".xlsx": mimeXlsx,
}

// Extract converts data into plain text. sourceName is used only for
// the extension fallback when contentType is missing or unhelpful.
func (e *Extractor) Extract(data []byte, contentType, sourceName string) (string, error) {
	switch normalizeContentType(contentType, sourceName) {
	case mimeCSV:
		return extractCSV(data), nil
	case mimePDF:
		return extractPDF(data)
	case mimeDocx:
		return extractDocx(data)
	case mimeXlsx:
		return extractSheet(data)
	case mimeMarkdown:
		return stripFrontMatter(decodeText(data)), nil
	default:
		return stripFrontMatter(decodeText(data)), nil
	}
}

// normalizeContentType lowercases the media type, drops parameters and
// falls back to the filename extension for generic or empty types.
func normalizeContentType(contentType, sourceName string) string {
	mt := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mt = parsed
	}
	mt = strings.ToLower(strings.TrimSpace(mt))

	if mt == "" || mt == "application/octet-stream" {
		if byExt, ok := extensionTypes[strings.ToLower(filepath.Ext(sourceName))]; ok {
			return byExt
		}
		return mimePlain
	}
	return mt
}

// decodeText decodes bytes with best-effort charset detection. If no
// encoding is confidently detected or decoding fails, UTF-8 with lossy
// replacement is used; this never fails.
func decodeText(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	if result, err := chardet.NewTextDetector().DetectBest(data); err == nil && result.Confidence >= 80 {
		if enc, err := htmlindex.Get(strings.ToLower(result.Charset)); err == nil && enc != nil {
			if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
				return string(decoded)
			}
		}
	}

	return strings.ToValidUTF8(string(data), "�")
}

// extractCSV flattens rows to tab-joined lines. Malformed rows are
// skipped; if nothing parses the payload falls back to plain text.
func extractCSV(data []byte) string {
	reader := csv.NewReader(strings.NewReader(decodeText(data)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var lines []string
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		lines = append(lines, strings.Join(record, "\t"))
	}

	if len(lines) == 0 {
		return decodeText(data)
	}
	return strings.Join(lines, "\n")
}

// stripFrontMatter removes a leading YAML front-matter block delimited
// by `---` lines.
func stripFrontMatter(text string) string {
	if !strings.HasPrefix(text, "---") {
		return text
	}
	lines := strings.Split(text, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return text
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return text
}
