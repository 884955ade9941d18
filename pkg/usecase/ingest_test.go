package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/repository/memory"
	"github.com/CarlosCampa21/aura-api/pkg/usecase"
)

type mockFetcher struct {
	bodies map[string][]byte
}

func (f *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, ok := f.bodies[url]
	if !ok {
		return nil, errors.New("unexpected url: " + url)
	}
	return body, nil
}

func TestIngestAll(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	gt.NoError(t, repo.PutDocument(ctx, &model.Document{
		ID:          "doc-uno",
		Title:       "Calendario",
		URL:         "https://example.test/uno.txt",
		ContentType: "text/plain",
		Kind:        types.KindKnowledge,
		Enabled:     true,
	}))
	gt.NoError(t, repo.PutDocument(ctx, &model.Document{
		ID:          "doc-dos",
		Title:       "Becas",
		URL:         "https://example.test/dos.txt",
		ContentType: "text/plain",
		Kind:        types.KindKnowledge,
		Enabled:     true,
	}))
	gt.NoError(t, repo.PutDocument(ctx, &model.Document{
		ID:          "doc-roto",
		Title:       "Documento roto",
		URL:         "https://example.test/roto.txt",
		ContentType: "text/plain",
		Kind:        types.KindKnowledge,
		Enabled:     true,
	}))

	uc := usecase.New(repo,
		usecase.WithLLM(&mockLLM{}),
		usecase.WithFetcher(&mockFetcher{bodies: map[string][]byte{
			"https://example.test/uno.txt": []byte("Las clases inician el 26 de agosto."),
			"https://example.test/dos.txt": []byte("La convocatoria de becas abre en enero."),
		}}),
	)

	res, err := uc.IngestAll(ctx, 0)
	gt.NoError(t, err)

	gt.Value(t, res.Processed).Equal(2)
	gt.Value(t, res.Failed).Equal(1)
	gt.Array(t, res.Results).Length(2)

	hits, err := uc.SearchChunks(ctx, "becas", 10)
	gt.NoError(t, err)
	gt.Array(t, hits).Length(2)
}

func TestIngestDocument_Unknown(t *testing.T) {
	uc := usecase.New(memory.New(), usecase.WithLLM(&mockLLM{}))

	_, err := uc.IngestDocument(context.Background(), "doc-inexistente")
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, types.ErrBadRequest)).Equal(true)
}
