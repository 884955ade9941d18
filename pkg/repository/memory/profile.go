package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
)

type profileStore struct {
	mu       sync.RWMutex
	profiles map[string]*model.Profile
}

func newProfileStore() *profileStore {
	return &profileStore{
		profiles: make(map[string]*model.Profile),
	}
}

func profileKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *profileStore) Put(ctx context.Context, profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *profile
	r.profiles[profileKey(profile.Email)] = &stored
	return nil
}

func (r *profileStore) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[profileKey(email)]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("email", email))
	}
	copied := *profile
	return &copied, nil
}
