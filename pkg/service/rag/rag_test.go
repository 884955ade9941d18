package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/repository/memory"
	"github.com/CarlosCampa21/aura-api/pkg/service/embed"
	"github.com/CarlosCampa21/aura-api/pkg/service/rag"
)

type mockSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return s.generateContentFn(ctx, input...)
}

type mockLLM struct {
	session *mockSession
	embedFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

func (m *mockLLM) NewSession(ctx context.Context, options ...gollem.SessionOption) (interfaces.LLMSession, error) {
	return m.session, nil
}

func (m *mockLLM) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, dimension, input)
	}
	return [][]float64{vec64(0)}, nil
}

// vec64 builds a unit-ish embedding whose direction is controlled by the
// second component, so cosine similarity ordering is predictable.
func vec64(y float64) []float64 {
	v := make([]float64, model.EmbeddingDimension)
	v[0] = 1
	v[1] = y
	return v
}

func vec32(y float32) []float32 {
	v := make([]float32, model.EmbeddingDimension)
	v[0] = 1
	v[1] = y
	return v
}

func seedChunks(t *testing.T, repo *memory.Memory, docID types.DocumentID, title string, texts []string, dir float32) {
	t.Helper()
	chunks := make([]*model.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &model.Chunk{
			DocumentID: docID,
			Index:      i,
			Text:       text,
			Embedding:  vec32(dir),
			Title:      title,
		}
	}
	gt.NoError(t, repo.Chunk().Replace(context.Background(), docID, chunks))
}

func inputText(input []gollem.Input) string {
	var sb strings.Builder
	for _, in := range input {
		if text, ok := in.(gollem.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

func TestAnswer_GroundedSynthesis(t *testing.T) {
	repo := memory.New()
	seedChunks(t, repo, "doc-fechas", "Calendario escolar", []string{
		"Las inscripciones abren el 15 de enero y cierran el 30 de enero.",
		"Los exámenes extraordinarios son en febrero.",
	}, 0)
	seedChunks(t, repo, "doc-becas", "Convocatoria de becas", []string{
		"La beca alimenticia se solicita en servicios escolares.",
	}, 0.2)

	var prompt string
	llm := &mockLLM{session: &mockSession{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			prompt = inputText(input)
			return &gollem.Response{Texts: []string{"Sí, las inscripciones abren el 15 de enero"}}, nil
		},
	}}

	a := rag.New(repo.Chunk(), repo.Document(), embed.New(llm, model.EmbeddingDimension), llm)
	answer, err := a.Answer(context.Background(), "¿Cuándo abren las inscripciones?", "")
	gt.NoError(t, err)

	gt.Value(t, answer.Origin).Equal(types.OriginRAG)
	gt.Value(t, answer.UsedContext).Equal(true)
	gt.Value(t, answer.Text).Equal("las inscripciones abren el 15 de enero.")

	// evidence is deduplicated per source document
	gt.Value(t, strings.Count(prompt, "Título:")).Equal(2)
	gt.Value(t, strings.Contains(prompt, "Contexto:")).Equal(true)
	gt.Value(t, strings.Contains(prompt, "Pregunta: ¿Cuándo abren las inscripciones?")).Equal(true)
}

func TestAnswer_EmailShortCircuit(t *testing.T) {
	repo := memory.New()
	seedChunks(t, repo, "doc-directorio", "Directorio institucional", []string{
		"La coordinadora de tutorías es Jane Doe, con oficina en el edificio A. Contacto: Jane.Doe@inst.edu",
	}, 0)

	llm := &mockLLM{session: &mockSession{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			t.Fatal("email answers must not reach the model")
			return nil, nil
		},
	}}

	a := rag.New(repo.Chunk(), repo.Document(), embed.New(llm, model.EmbeddingDimension), llm)
	answer, err := a.Answer(context.Background(), "¿Cuál es el correo de Jane Doe?", "Jane Doe")
	gt.NoError(t, err)

	gt.Value(t, answer.Text).Equal("El correo de Jane Doe es jane.doe@inst.edu.")
	gt.Value(t, answer.Origin).Equal(types.OriginRAG)
	gt.Value(t, answer.UsedContext).Equal(true)
}

func TestAnswer_UnrelatedEmailIsNotAttributed(t *testing.T) {
	repo := memory.New()
	// the retrieved evidence never mentions the asked person, only
	// someone else's address
	seedChunks(t, repo, "doc-deportes", "Coordinación de deportes", []string{
		"El coordinador de deportes es Bob Smith. Contacto: bob.smith@inst.edu",
	}, 0)

	called := false
	llm := &mockLLM{session: &mockSession{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			called = true
			return &gollem.Response{Texts: []string{"No tengo el correo de Jane Doe."}}, nil
		},
	}}

	a := rag.New(repo.Chunk(), repo.Document(), embed.New(llm, model.EmbeddingDimension), llm)
	answer, err := a.Answer(context.Background(), "¿Cuál es el correo de Jane Doe?", "Jane Doe")
	gt.NoError(t, err)

	gt.Value(t, called).Equal(true)
	gt.Value(t, strings.Contains(answer.Text, "bob.smith@inst.edu")).Equal(false)
}

func TestAnswer_AmbiguousEmailsGoToModel(t *testing.T) {
	repo := memory.New()
	seedChunks(t, repo, "doc-directorio", "Directorio institucional", []string{
		"Jane Doe: jane.doe@inst.edu. También puedes escribir a tutorias@inst.edu con copia a Jane Doe.",
	}, 0)

	called := false
	llm := &mockLLM{session: &mockSession{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			called = true
			return &gollem.Response{Texts: []string{"El correo de Jane Doe es jane.doe@inst.edu."}}, nil
		},
	}}

	a := rag.New(repo.Chunk(), repo.Document(), embed.New(llm, model.EmbeddingDimension), llm)
	_, err := a.Answer(context.Background(), "¿Cuál es el correo de Jane Doe?", "Jane Doe")
	gt.NoError(t, err)
	gt.Value(t, called).Equal(true)
}

func TestAnswer_WithoutEmbeddingProvider(t *testing.T) {
	repo := memory.New()
	seedChunks(t, repo, "doc-fechas", "Calendario escolar", []string{
		"Las inscripciones abren el 15 de enero.",
	}, 0)

	var prompt string
	llm := &mockLLM{session: &mockSession{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			prompt = inputText(input)
			return &gollem.Response{Texts: []string{"No tengo esa información a la mano."}}, nil
		},
	}}

	// nil embedding provider: retrieval is skipped, the model answers ungrounded
	a := rag.New(repo.Chunk(), repo.Document(), embed.New(nil, model.EmbeddingDimension), llm)
	answer, err := a.Answer(context.Background(), "¿Cuándo abren las inscripciones?", "")
	gt.NoError(t, err)

	gt.Value(t, answer.UsedContext).Equal(false)
	gt.Value(t, strings.Contains(prompt, "Contexto:")).Equal(false)
}

func TestAnswer_NoModelProvider(t *testing.T) {
	repo := memory.New()
	llm := &mockLLM{}

	a := rag.New(repo.Chunk(), repo.Document(), embed.New(llm, model.EmbeddingDimension), nil)
	_, err := a.Answer(context.Background(), "¿Cuándo abren las inscripciones?", "")
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, types.ErrNotConfigured)).Equal(true)
}
