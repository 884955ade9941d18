package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/service/embed"
	"github.com/CarlosCampa21/aura-api/pkg/utils/logging"
)

// DefaultTopK is the KNN depth of the retrieval query
const DefaultTopK = 8

const systemPrompt = `Eres un asistente institucional. Responde en español, de forma breve y directa.
Usa únicamente la evidencia proporcionada en el contexto.
No cites fuentes ni incluyas URLs.
No empieces la respuesta con "Sí" ni con "No".
Si la evidencia no alcanza para responder, dilo claramente.`

const insufficiencyNote = "Si la evidencia no menciona a la persona o tema preguntado, indica que no tienes esa información."

// Answerer is the retrieval-grounded question path: embed the query,
// rank chunks by cosine similarity, deduplicate by source document and
// synthesize a short Spanish answer from the surviving passages.
type Answerer struct {
	chunks  interfaces.ChunkRepository
	catalog interfaces.DocumentCatalog
	embed   *embed.Client
	llm     interfaces.LLMClient
	topK    int
	now     func() time.Time
}

// Option configures an Answerer
type Option func(*Answerer)

// WithTopK overrides the KNN depth (values below 5 lose too much recall
// to the per-document deduplication and are raised to the default).
func WithTopK(k int) Option {
	return func(a *Answerer) {
		if k >= 5 {
			a.topK = k
		}
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(a *Answerer) {
		a.now = now
	}
}

// New creates an Answerer
func New(chunks interfaces.ChunkRepository, catalog interfaces.DocumentCatalog, embedClient *embed.Client, llm interfaces.LLMClient, options ...Option) *Answerer {
	a := &Answerer{
		chunks:  chunks,
		catalog: catalog,
		embed:   embedClient,
		llm:     llm,
		topK:    DefaultTopK,
		now:     time.Now,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Answer responds to a question, optionally scoped to entityHint (a
// proper name the answer must concern). Zero retrieval hits degrade to
// an ungrounded model answer, never to an error.
func (a *Answerer) Answer(ctx context.Context, question, entityHint string) (*model.Answer, error) {
	query := normalizeDates(question, a.now())
	if entityHint != "" {
		query = entityHint + ": " + query
	}

	passages, err := a.retrieve(ctx, query)
	if err != nil {
		if errors.Is(err, types.ErrNotConfigured) {
			logging.From(ctx).Warn("embedding provider not configured, answering without retrieval")
			return a.synthesize(ctx, question, nil, "")
		}
		return nil, err
	}

	extra := ""
	if entityHint != "" {
		filtered := filterByEntity(passages, entityHint)
		if len(filtered) == 0 {
			// keep the unfiltered evidence but tell the model to say so when
			// the target is not covered. Direct extraction must not read
			// these passages: they mention other people, so only the
			// title-search scan may supply an address here.
			extra = insufficiencyNote
			if answer := a.emailShortCircuit(ctx, nil, entityHint); answer != nil {
				return answer, nil
			}
		} else {
			passages = filtered
			if answer := a.emailShortCircuit(ctx, passages, entityHint); answer != nil {
				return answer, nil
			}
		}
	}

	return a.synthesize(ctx, question, passages, extra)
}

// retrieve embeds the query and returns the top hits deduplicated by
// source document, in descending similarity order.
func (a *Answerer) retrieve(ctx context.Context, query string) ([]*model.ScoredChunk, error) {
	vectors, err := a.embed.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	hits, err := a.chunks.Search(ctx, vectors[0], a.topK)
	if err != nil {
		return nil, goerr.Wrap(err, "similarity search failed")
	}

	seen := map[types.DocumentID]bool{}
	var out []*model.ScoredChunk
	for _, hit := range hits {
		if seen[hit.Chunk.DocumentID] {
			continue
		}
		seen[hit.Chunk.DocumentID] = true
		out = append(out, hit)
	}
	return out, nil
}

// filterByEntity keeps passages whose normalized text mentions the
// normalized hint.
func filterByEntity(passages []*model.ScoredChunk, hint string) []*model.ScoredChunk {
	needle := normalizeEntity(hint)
	if needle == "" {
		return passages
	}
	var out []*model.ScoredChunk
	for _, p := range passages {
		if strings.Contains(normalizeEntity(p.Chunk.Text), needle) {
			out = append(out, p)
		}
	}
	return out
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// emailShortCircuit answers "what is X's email" shapes without a model
// call: when the evidence (or a secondary title-search scan) yields
// exactly one email address, the answer is a fixed template.
func (a *Answerer) emailShortCircuit(ctx context.Context, passages []*model.ScoredChunk, entityHint string) *model.Answer {
	emails := map[string]bool{}
	for _, p := range passages {
		for _, m := range emailPattern.FindAllString(p.Chunk.Text, -1) {
			emails[strings.ToLower(m)] = true
		}
	}

	if len(emails) == 0 {
		for _, text := range a.scanByTitle(ctx, entityHint) {
			for _, m := range emailPattern.FindAllString(text, -1) {
				emails[strings.ToLower(m)] = true
			}
		}
	}

	if len(emails) != 1 {
		return nil
	}
	var email string
	for e := range emails {
		email = e
	}
	return &model.Answer{
		Text:        fmt.Sprintf("El correo de %s es %s.", entityHint, email),
		Origin:      types.OriginRAG,
		UsedContext: true,
	}
}

// scanByTitle pulls the full chunk texts of documents whose title or
// aliases match the hint. Best-effort; failures just yield no texts.
func (a *Answerer) scanByTitle(ctx context.Context, hint string) []string {
	if a.catalog == nil {
		return nil
	}
	docs, err := a.catalog.Search(ctx, hint, 3)
	if err != nil {
		logging.From(ctx).Debug("title search failed during email scan", slog.Any("error", err))
		return nil
	}

	var texts []string
	for _, doc := range docs {
		chunks, err := a.chunks.ListByDocument(ctx, doc.ID)
		if err != nil {
			continue
		}
		for _, c := range chunks {
			texts = append(texts, c.Text)
		}
	}
	return texts
}

// synthesize calls the model with the evidence block and post-processes
// its answer.
func (a *Answerer) synthesize(ctx context.Context, question string, passages []*model.ScoredChunk, extra string) (*model.Answer, error) {
	if a.llm == nil {
		return nil, goerr.Wrap(types.ErrNotConfigured, "no model provider configured")
	}

	prompt := systemPrompt
	if extra != "" {
		prompt += "\n" + extra
	}

	session, err := a.llm.NewSession(ctx, gollem.WithSessionSystemPrompt(prompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open model session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(a.buildUserContent(ctx, question, passages)))
	if err != nil {
		return nil, goerr.Wrap(err, "model synthesis failed")
	}

	return &model.Answer{
		Text:        polish(strings.Join(resp.Texts, " ")),
		Origin:      types.OriginRAG,
		UsedContext: len(passages) > 0,
	}, nil
}

// buildUserContent renders the evidence block: per passage its document
// title, comma-joined tags and extract text. Tag lookups are
// best-effort.
func (a *Answerer) buildUserContent(ctx context.Context, question string, passages []*model.ScoredChunk) string {
	var sb strings.Builder
	if len(passages) > 0 {
		sb.WriteString("Contexto:\n")
		for _, p := range passages {
			sb.WriteString("---\n")
			sb.WriteString("Título: " + p.Chunk.Title + "\n")
			if tags := a.documentTags(ctx, p.Chunk.DocumentID); len(tags) > 0 {
				sb.WriteString("Etiquetas: " + strings.Join(tags, ", ") + "\n")
			}
			sb.WriteString(p.Chunk.Text + "\n")
		}
		sb.WriteString("---\n\n")
	}
	sb.WriteString("Pregunta: " + question)
	return sb.String()
}

func (a *Answerer) documentTags(ctx context.Context, id types.DocumentID) []string {
	if a.catalog == nil {
		return nil
	}
	doc, err := a.catalog.Get(ctx, id)
	if err != nil || doc == nil {
		return nil
	}
	return doc.Tags
}
