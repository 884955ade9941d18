package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// documentXML mirrors the relevant structure of word/document.xml
type documentXML struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []struct {
		Texts []string `xml:"t"`
	} `xml:"r"`
}

// extractDocx flattens a Word document to one line per non-empty
// paragraph.
func extractDocx(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to open docx archive")
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", goerr.Wrap(err, "failed to open word/document.xml")
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", goerr.Wrap(err, "failed to read word/document.xml")
		}

		var doc documentXML
		if err := xml.Unmarshal(content, &doc); err != nil {
			return "", goerr.Wrap(err, "failed to parse word/document.xml")
		}

		var lines []string
		for _, p := range doc.Body.Paragraphs {
			var sb strings.Builder
			for _, r := range p.Runs {
				for _, t := range r.Texts {
					sb.WriteString(t)
				}
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n"), nil
	}

	return "", nil
}
