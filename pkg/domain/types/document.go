package types

import (
	"fmt"

	"github.com/google/uuid"
)

// DocumentID is a UUID-based identifier for an institutional document
type DocumentID string

// NewDocumentID generates a new UUID v7 DocumentID
func NewDocumentID() DocumentID {
	return DocumentID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of DocumentID
func (d DocumentID) String() string {
	return string(d)
}

// DocumentKind is the logical kind of a document in the catalog
type DocumentKind string

const (
	// KindMedia is downloadable media (images, videos); never ingested
	KindMedia DocumentKind = "media"

	// KindForm is a downloadable document (forms, templates); never ingested
	KindForm DocumentKind = "form"

	// KindKnowledge is retrievable knowledge eligible for vector ingestion
	KindKnowledge DocumentKind = "knowledge"
)

// IsValid checks if the document kind is valid
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindMedia, KindForm, KindKnowledge:
		return true
	default:
		return false
	}
}

// String returns the string representation of the document kind
func (k DocumentKind) String() string {
	return string(k)
}

// ParseDocumentKind parses a string into a DocumentKind
func ParseDocumentKind(s string) (DocumentKind, error) {
	kind := DocumentKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid document kind: %s", s)
	}
	return kind, nil
}

// IngestStatus is the ingestion lifecycle state of a document.
// It is mutated only by the ingestion pipeline.
type IngestStatus string

const (
	IngestPending    IngestStatus = "pending"
	IngestProcessing IngestStatus = "processing"
	IngestDone       IngestStatus = "done"
	IngestError      IngestStatus = "error"

	// IngestEmpty means extraction yielded no chunks; not an error
	IngestEmpty IngestStatus = "empty"
)

// IsValid checks if the ingest status is valid
func (s IngestStatus) IsValid() bool {
	switch s {
	case IngestPending, IngestProcessing, IngestDone, IngestError, IngestEmpty:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ingest status
func (s IngestStatus) String() string {
	return string(s)
}
