package firestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
)

type profileDoc struct {
	Email    string `firestore:"Email"`
	Name     string `firestore:"Name,omitempty"`
	Program  string `firestore:"Program,omitempty"`
	Semester int    `firestore:"Semester,omitempty"`
	Group    string `firestore:"Group,omitempty"`
	Shift    string `firestore:"Shift,omitempty"`
	Timezone string `firestore:"Timezone,omitempty"`
}

type profileRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newProfileRepository(client *firestore.Client) *profileRepository {
	return &profileRepository{client: client}
}

func (r *profileRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "profiles")
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	doc, err := r.collection().Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("email", key))
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V("email", key))
	}

	var d profileDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal profile", goerr.V("email", key))
	}

	return &model.Profile{
		Email:    d.Email,
		Name:     d.Name,
		Program:  d.Program,
		Semester: d.Semester,
		Group:    d.Group,
		Shift:    types.Shift(d.Shift),
		Timezone: d.Timezone,
	}, nil
}
