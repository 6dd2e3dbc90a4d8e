package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
)

const settingJWTSecret = "jwt_secret"

// EnsureSetting stores value under key unless the key is already set and
// returns the stored value. Concurrent first calls agree on one value.
func EnsureSetting(ctx context.Context, q db.Querier, key, value string) (string, error) {
	_, err := q.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`,
		key, value,
	)
	if err != nil {
		return "", fmt.Errorf("storing setting %s: %w", key, err)
	}

	var stored string
	err = q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&stored)
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return stored, nil
}

// GetJWTSecret returns the token signing secret, generating it on first use.
func GetJWTSecret(ctx context.Context, q db.Querier) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	return EnsureSetting(ctx, q, settingJWTSecret, hex.EncodeToString(buf))
}
