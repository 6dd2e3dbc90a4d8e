package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
)

// CreateOrganisation creates a new organisation.
func CreateOrganisation(ctx context.Context, q db.Querier, name, acronym string) (*model.Organisation, error) {
	id := uuid.NewString()
	_, err := q.ExecContext(ctx,
		`INSERT INTO organisations (id, name, acronym) VALUES (?, ?, ?)`,
		id, name, acronym,
	)
	if err != nil {
		return nil, fmt.Errorf("creating organisation: %w", err)
	}
	return GetOrganisation(ctx, q, id)
}

// GetOrganisation returns an organisation by ID.
func GetOrganisation(ctx context.Context, q db.Querier, id string) (*model.Organisation, error) {
	o := &model.Organisation{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, acronym FROM organisations WHERE id = ?`, id,
	).Scan(&o.ID, &o.Name, &o.Acronym)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting organisation: %w", err)
	}
	return o, nil
}

// GetOrganisationByAcronym returns an organisation by its unique acronym.
func GetOrganisationByAcronym(ctx context.Context, q db.Querier, acronym string) (*model.Organisation, error) {
	o := &model.Organisation{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, acronym FROM organisations WHERE acronym = ?`, acronym,
	).Scan(&o.ID, &o.Name, &o.Acronym)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting organisation by acronym: %w", err)
	}
	return o, nil
}
