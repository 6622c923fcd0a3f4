package service

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/studiokit/backend/internal/db"
	"github.com/studiokit/backend/internal/model"
	"github.com/studiokit/backend/internal/storage"
)

type SettingsStore interface {
	ListSettings(ctx context.Context) ([]model.Setting, error)
	GetSetting(ctx context.Context, key string) (*model.Setting, error)
	UpsertSetting(ctx context.Context, key, value string) error
}

// SettingsService owns the app-wide key-value settings the marketing site
// and dashboard read for branding.
type SettingsService struct {
	store SettingsStore
	files storage.Provider
}

func NewSettingsService(store SettingsStore, files storage.Provider) *SettingsService {
	return &SettingsService{
		store: store,
		files: files,
	}
}

func (s *SettingsService) List(ctx context.Context) (map[string]string, error) {
	settings, err := s.store.ListSettings(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

func (s *SettingsService) Update(ctx context.Context, values map[string]string) error {
	for key, value := range values {
		if strings.TrimSpace(key) == "" {
			return ErrInvalidInput
		}
		if err := s.store.UpsertSetting(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SaveAsset uploads a branding asset and records its storage reference under
// the given settings key. A previously stored asset for the same key is
// removed best-effort once the new reference is recorded.
func (s *SettingsService) SaveAsset(ctx context.Context, key, filename string, r io.Reader) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrInvalidInput
	}

	prior, err := s.store.GetSetting(ctx, key)
	if err != nil && !db.IsNoRows(err) {
		return "", err
	}

	ref, err := s.files.Save(ctx, filename, r)
	if err != nil {
		return "", err
	}

	if err := s.store.UpsertSetting(ctx, key, ref); err != nil {
		return "", err
	}

	if prior != nil && prior.Value != "" && prior.Value != ref {
		if err := s.files.Remove(ctx, prior.Value); err != nil {
			log.Printf("Failed to remove replaced asset %q: %v", prior.Value, err)
		}
	}

	return ref, nil
}
