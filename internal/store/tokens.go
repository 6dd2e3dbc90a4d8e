package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
)

// RevokeToken puts a token ID on the deny list until the token would have
// expired anyway. Revocations that outlived their token are purged.
func RevokeToken(ctx context.Context, q db.Querier, jti string, expiresAt time.Time) error {
	if _, err := q.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?) ON CONFLICT (jti) DO NOTHING`,
		jti, expiresAt.UTC(),
	); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return purgeRevocations(ctx, q, time.Now())
}

func purgeRevocations(ctx context.Context, q db.Querier, now time.Time) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < ?`, now.UTC()); err != nil {
		return fmt.Errorf("purging revoked tokens: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether a token ID is on the deny list.
func IsTokenRevoked(ctx context.Context, q db.Querier, jti string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`, jti).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return n > 0, nil
}
