package model

import (
	"sort"
	"strings"
	"time"

	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
)

// Document is a source unit of the institutional catalog eligible for
// retrieval. The core never deletes documents; removal is an external
// administrative action that must also invalidate the document's chunks.
type Document struct {
	ID           types.DocumentID
	Title        string
	URL          string
	ContentType  string
	Kind         types.DocumentKind
	Enabled      bool
	Tags         []string
	Aliases      []string
	Version      int
	IngestStatus types.IngestStatus
	ChunkCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ingestible reports whether the document is eligible for the ingestion
// pipeline: retrievable knowledge and currently enabled.
func (d *Document) Ingestible() bool {
	return d.Kind == types.KindKnowledge && d.Enabled
}

// RankDocuments orders documents by how well title, aliases and tags
// match the query tokens, dropping documents with no match. Every
// catalog backend ranks with this so results are identical across them.
func RankDocuments(docs []*Document, query string, limit int) []*Document {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil
	}

	type scored struct {
		doc   *Document
		score int
	}
	var ranked []scored
	for _, doc := range docs {
		if s := matchScore(doc, tokens); s > 0 {
			ranked = append(ranked, scored{doc: doc, score: s})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]*Document, len(ranked))
	for i, s := range ranked {
		out[i] = s.doc
	}
	return out
}

func matchScore(doc *Document, tokens []string) int {
	title := strings.ToLower(doc.Title)
	var score int
	for _, token := range tokens {
		if strings.Contains(title, token) {
			score += 3
		}
		for _, alias := range doc.Aliases {
			if strings.Contains(strings.ToLower(alias), token) {
				score += 2
			}
		}
		for _, tag := range doc.Tags {
			if strings.Contains(strings.ToLower(tag), token) {
				score++
			}
		}
	}
	return score
}
