package chunker

import (
	"regexp"
	"strings"
)

// Defaults for passage sizing. A passage may exceed MaxChars by at most
// the overlap seed plus the paragraph that triggered the cut.
const (
	DefaultMaxChars = 1000
	DefaultOverlap  = 200
)

// Passage is one section-tagged chunk of a document, sized for embedding
type Passage struct {
	Text    string
	Section string
}

// Splitter segments normalized text into overlapping passages on
// paragraph boundaries, tracking Markdown and setext headings as
// section labels.
type Splitter struct {
	maxChars int
	overlap  int
}

// New creates a Splitter. Non-positive arguments fall back to the defaults.
func New(maxChars, overlap int) *Splitter {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	return &Splitter{maxChars: maxChars, overlap: overlap}
}

var (
	paragraphSplit = regexp.MustCompile(`\n[ \t]*\n+`)
	atxHeading     = regexp.MustCompile(`^#{1,6}[ \t]+(.+)$`)
	setextRule     = regexp.MustCompile(`^(={3,}|-{3,})[ \t]*$`)

	// a chunk that is nothing but an email address carries no retrievable
	// context on its own
	bareEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}[.,;:]?$`)
)

// Split segments text into ordered passages. It returns nil for input
// that contains no paragraphs.
func (s *Splitter) Split(text string) []Passage {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var (
		out        []chunk
		buf        []string
		bufLen     int
		bufSection string
		bufHeading bool
		section    string
	)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		out = append(out, chunk{
			raw:        strings.Join(buf, "\n\n"),
			section:    bufSection,
			hasHeading: bufHeading,
		})
	}

	for _, para := range paragraphs {
		if label, ok := headingLabel(para); ok {
			section = label
		}

		// +2 accounts for the blank-line join
		if len(buf) > 0 && bufLen+2+len(para) > s.maxChars {
			flush()
			seed := tailRunes(strings.Join(buf, "\n\n"), s.overlap)
			buf = buf[:0]
			bufLen = 0
			bufHeading = false
			if seed != "" {
				buf = append(buf, seed)
				bufLen = len(seed)
			}
			bufSection = section
		}

		if len(buf) == 0 {
			bufSection = section
		}
		if _, ok := headingLabel(para); ok {
			bufHeading = true
		}
		if len(buf) > 0 {
			bufLen += 2
		}
		buf = append(buf, para)
		bufLen += len(para)
	}
	flush()

	return mergeBareEmails(out)
}

type chunk struct {
	raw        string
	section    string
	hasHeading bool
}

// mergeBareEmails folds a chunk that consists of a lone email address
// into its predecessor.
func mergeBareEmails(chunks []chunk) []Passage {
	var out []Passage
	for _, c := range chunks {
		text := normalizeWhitespace(c.raw)
		if text == "" {
			continue
		}
		if len(out) > 0 && !c.hasHeading && bareEmail.MatchString(text) {
			out[len(out)-1].Text += " " + text
			continue
		}
		out = append(out, Passage{Text: text, Section: c.section})
	}
	return out
}

// splitParagraphs splits text on blank-line boundaries, dropping
// whitespace-only paragraphs.
func splitParagraphs(text string) []string {
	var out []string
	for _, p := range paragraphSplit.Split(text, -1) {
		p = strings.TrimRight(strings.TrimLeft(p, "\n"), " \t\n")
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// headingLabel reports whether the paragraph is a section heading,
// either a leading `#` Markdown heading or a two-line title with an
// `=`/`-` underline, and returns its label.
func headingLabel(para string) (string, bool) {
	lines := strings.Split(para, "\n")
	if m := atxHeading.FindStringSubmatch(strings.TrimSpace(lines[0])); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if len(lines) >= 2 && setextRule.MatchString(strings.TrimSpace(lines[1])) {
		title := strings.TrimSpace(lines[0])
		if title != "" {
			return title, true
		}
	}
	return "", false
}

// tailRunes returns the last n runes of s (rune-safe overlap seed)
func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
