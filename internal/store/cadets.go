package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
)

const cadetColumns = `id, organisation_id, firstname, lastname, active, comment`

// CreateCadet creates a new cadet.
func CreateCadet(ctx context.Context, q db.Querier, organisationID, firstname, lastname string) (*model.Cadet, error) {
	id := uuid.NewString()
	_, err := q.ExecContext(ctx,
		`INSERT INTO cadets (id, organisation_id, firstname, lastname, active, comment) VALUES (?, ?, ?, ?, ?, '')`,
		id, organisationID, firstname, lastname, true,
	)
	if err != nil {
		return nil, fmt.Errorf("creating cadet: %w", err)
	}
	return GetCadet(ctx, q, organisationID, id)
}

// GetCadet returns a non-deleted cadet of the organisation.
func GetCadet(ctx context.Context, q db.Querier, organisationID, id string) (*model.Cadet, error) {
	c := &model.Cadet{}
	err := q.QueryRowContext(ctx,
		`SELECT `+cadetColumns+` FROM cadets
		 WHERE id = ? AND organisation_id = ? AND recdelete IS NULL`, id, organisationID,
	).Scan(&c.ID, &c.OrganisationID, &c.Firstname, &c.Lastname, &c.Active, &c.Comment)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting cadet: %w", err)
	}
	return c, nil
}

// GetCadetRef returns the identity of a cadet, deleted or not.
func GetCadetRef(ctx context.Context, q db.Querier, id string) (*model.CadetRef, error) {
	ref := &model.CadetRef{}
	err := q.QueryRowContext(ctx,
		`SELECT id, firstname, lastname FROM cadets WHERE id = ?`, id,
	).Scan(&ref.ID, &ref.Firstname, &ref.Lastname)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting cadet: %w", err)
	}
	return ref, nil
}

// ListCadets returns all non-deleted cadets ordered by last name.
func ListCadets(ctx context.Context, q db.Querier, organisationID string) ([]model.Cadet, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+cadetColumns+` FROM cadets
		 WHERE organisation_id = ? AND recdelete IS NULL
		 ORDER BY lastname, firstname`, organisationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing cadets: %w", err)
	}
	defer rows.Close()

	var cadets []model.Cadet
	for rows.Next() {
		var c model.Cadet
		if err := rows.Scan(&c.ID, &c.OrganisationID, &c.Firstname, &c.Lastname, &c.Active, &c.Comment); err != nil {
			return nil, fmt.Errorf("scanning cadet: %w", err)
		}
		cadets = append(cadets, c)
	}
	return cadets, rows.Err()
}

// AppendCadetComment appends a line to a cadet's comment.
func AppendCadetComment(ctx context.Context, q db.Querier, id, line string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE cadets
		 SET comment = CASE WHEN comment = '' THEN ? ELSE comment || ? END
		 WHERE id = ?`,
		line, "\n"+line, id,
	)
	if err != nil {
		return fmt.Errorf("appending cadet comment: %w", err)
	}
	return nil
}

// DeleteCadet soft-deletes a cadet, stamping the actor.
func DeleteCadet(ctx context.Context, q db.Querier, organisationID, id, actor string, now time.Time) error {
	_, err := q.ExecContext(ctx,
		`UPDATE cadets SET recdelete = ?, recdelete_user = ?
		 WHERE id = ? AND organisation_id = ? AND recdelete IS NULL`,
		now, actor, id, organisationID,
	)
	if err != nil {
		return fmt.Errorf("deleting cadet: %w", err)
	}
	return nil
}
