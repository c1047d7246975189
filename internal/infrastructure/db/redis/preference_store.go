package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PreferenceStore keeps per-installation UI preferences. Currently only the
// shell's dark-mode theme lives here.
// Key format: prefs:<installation_id>:theme
type PreferenceStore struct {
	client *redis.Client
}

func NewPreferenceStore(client *redis.Client) *PreferenceStore {
	return &PreferenceStore{client: client}
}

// Theme returns the saved theme, or "light" when none is saved.
func (p *PreferenceStore) Theme(ctx context.Context, installationID string) (string, error) {
	theme, err := p.client.Get(ctx, p.key(installationID)).Result()
	if err == redis.Nil {
		return "light", nil
	}
	if err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	return theme, nil
}

// SetTheme saves the theme without expiry.
func (p *PreferenceStore) SetTheme(ctx context.Context, installationID, theme string) error {
	if err := p.client.Set(ctx, p.key(installationID), theme, 0).Err(); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

func (p *PreferenceStore) key(installationID string) string {
	return "prefs:" + installationID + ":theme"
}
