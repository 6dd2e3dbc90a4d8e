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

// CreateDeficiency records a defect of an item.
func CreateDeficiency(ctx context.Context, q db.Querier, itemID, description string, created model.Date) (*model.Deficiency, error) {
	d := &model.Deficiency{
		ID:          uuid.NewString(),
		ItemID:      itemID,
		Description: description,
		DateCreated: created,
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO deficiencies (id, uniform_id, description, date_created) VALUES (?, ?, ?, ?)`,
		d.ID, d.ItemID, d.Description, d.DateCreated,
	)
	if err != nil {
		return nil, fmt.Errorf("creating deficiency: %w", err)
	}
	return d, nil
}

// GetDeficiency returns a live deficiency of the organisation.
func GetDeficiency(ctx context.Context, q db.Querier, organisationID, id string) (*model.Deficiency, error) {
	d := &model.Deficiency{}
	err := q.QueryRowContext(ctx,
		`SELECT d.id, d.uniform_id, d.description, d.date_created, d.date_resolved
		 FROM deficiencies d
		 JOIN uniform_items i ON i.id = d.uniform_id
		 JOIN uniform_types t ON t.id = i.type_id
		 WHERE d.id = ? AND t.organisation_id = ? AND d.recdelete IS NULL`, id, organisationID,
	).Scan(&d.ID, &d.ItemID, &d.Description, &d.DateCreated, &d.DateResolved)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting deficiency: %w", err)
	}
	return d, nil
}

// ResolveDeficiency marks a deficiency resolved.
func ResolveDeficiency(ctx context.Context, q db.Querier, id string, resolved model.Date) error {
	_, err := q.ExecContext(ctx,
		`UPDATE deficiencies SET date_resolved = ? WHERE id = ? AND date_resolved IS NULL`,
		resolved, id,
	)
	if err != nil {
		return fmt.Errorf("resolving deficiency: %w", err)
	}
	return nil
}

// ListDeficiencies returns the live deficiencies of an item.
func ListDeficiencies(ctx context.Context, q db.Querier, itemID string) ([]model.Deficiency, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, uniform_id, description, date_created, date_resolved
		 FROM deficiencies WHERE uniform_id = ? AND recdelete IS NULL
		 ORDER BY date_created`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing deficiencies: %w", err)
	}
	defer rows.Close()

	defs := []model.Deficiency{}
	for rows.Next() {
		var d model.Deficiency
		if err := rows.Scan(&d.ID, &d.ItemID, &d.Description, &d.DateCreated, &d.DateResolved); err != nil {
			return nil, fmt.Errorf("scanning deficiency: %w", err)
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// SoftDeleteOpenDeficiencies marks the unresolved deficiencies of an item deleted.
func SoftDeleteOpenDeficiencies(ctx context.Context, q db.Querier, itemID, actor string, now time.Time) error {
	_, err := q.ExecContext(ctx,
		`UPDATE deficiencies SET recdelete = ?, recdelete_user = ?
		 WHERE uniform_id = ? AND date_resolved IS NULL AND recdelete IS NULL`,
		now, actor, itemID,
	)
	if err != nil {
		return fmt.Errorf("deleting deficiencies: %w", err)
	}
	return nil
}
