package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/repository/firestore"
)

// testEmbedding builds a valid embedding whose direction is controlled
// by the second component, so similarity ordering is predictable.
func testEmbedding(y float32) []float32 {
	v := make([]float32, model.EmbeddingDimension)
	v[0] = 1
	v[1] = y
	return v
}

func uniqueSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	// Standard collection names so existing Firestore indexes apply; test
	// isolation comes from unique IDs in the test data.
	repo, err := firestore.New(ctx, projectID, databaseID)
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}
