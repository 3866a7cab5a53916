package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/config"
	"taskdeck/internal/domain"
	"taskdeck/internal/identity"
	"taskdeck/internal/repo"
	"taskdeck/internal/store"
)

// ResolveOwnerAndConfig picks the active owner, seeding a user row and a
// default config when missing. The override wins; otherwise the workspace
// config decides.
func ResolveOwnerAndConfig(ctx context.Context, workspace, ownerOverride string, r repo.Repo) (string, *config.Config, error) {
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return "", nil, err
	}
	ownerID := ownerOverride
	if ownerID == "" {
		if cfg == nil {
			return "", nil, fmt.Errorf("owner not specified; use --owner or add taskdeck.yml")
		}
		ownerID = cfg.Owner.ID
	}
	if cfg == nil {
		cfg = config.Default(ownerID)
	}
	if _, err := r.GetUser(ctx, ownerID); err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return "", nil, err
		}
		name := cfg.Owner.Name
		if name == "" {
			name = ownerID
		}
		if err := r.UpsertUser(ctx, domain.User{ID: ownerID, Name: name}); err != nil {
			return "", nil, fmt.Errorf("seed user: %w", err)
		}
	}
	cfg.Owner.ID = ownerID
	return ownerID, cfg, nil
}

// NewStore builds a task store over the repo for the resolved owner.
func NewStore(r repo.Repo, ownerID string) *store.Store {
	return store.New(r, ownerID)
}

// Identity returns the workspace identity provider: a fixed identity backed
// by the resolved config, refined with the stored user profile when present.
func Identity(ctx context.Context, r repo.Repo, cfg *config.Config) identity.Provider {
	u := domain.User{ID: cfg.Owner.ID, Name: cfg.Owner.Name}
	if stored, err := r.GetUser(ctx, cfg.Owner.ID); err == nil {
		u = stored
	}
	return identity.Static{User: u}
}

// MintAPIKey generates an API key for the owner and stores its hash. The
// plaintext is returned once and never persisted.
func MintAPIKey(ctx context.Context, r repo.Repo, ownerID, name string) (string, domain.APIKey, error) {
	plain := uuid.New().String()
	key := domain.APIKey{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		KeyHash:   repo.HashAPIKey(plain),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := r.InsertAPIKey(ctx, key); err != nil {
		return "", domain.APIKey{}, err
	}
	return plain, key, nil
}
