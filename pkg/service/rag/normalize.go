package rag

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var relativeDate = regexp.MustCompile(
	`(?i)\b(?:este|pr[oó]ximo)\s+(\d{1,2}\s+de\s+(?:enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre))\b`)

// normalizeDates rewrites relative Spanish date phrases
// ("este 15 de mayo", "próximo 2 de junio") into the absolute
// "<day> de <month> de <year>" form documents use, so the retrieval
// query matches document phrasing.
func normalizeDates(question string, now time.Time) string {
	return relativeDate.ReplaceAllString(question, fmt.Sprintf("${1} de %d", now.Year()))
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeEntity lowercases, strips accents and drops everything but
// letters, digits and spaces, for substring matching against passage
// text.
func normalizeEntity(s string) string {
	stripped, _, err := transform.String(accentStripper, s)
	if err != nil {
		stripped = s
	}

	var sb strings.Builder
	for _, r := range strings.ToLower(stripped) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

var leadingYesNo = regexp.MustCompile(`(?i)^(sí|si|no)[.,:]\s+`)

// polish post-processes a model answer: strips a leading bare "Sí,"/"No."
// token (the punctuation keeps sentences like "No tengo..." intact),
// keeps at most two sentences, collapses whitespace and ensures terminal
// punctuation.
func polish(answer string) string {
	answer = strings.TrimSpace(answer)
	answer = leadingYesNo.ReplaceAllString(answer, "")
	answer = strings.Join(strings.Fields(answer), " ")
	if answer == "" {
		return answer
	}

	parts := sentenceEnd.Split(answer, 3)
	ends := sentenceEnd.FindAllStringSubmatch(answer, 2)
	if len(parts) > 2 {
		answer = parts[0] + ends[0][1] + " " + parts[1] + ends[1][1]
	}

	if !strings.ContainsAny(answer[len(answer)-1:], ".!?") {
		answer += "."
	}
	return answer
}
