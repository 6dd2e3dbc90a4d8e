package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
)

const storageUnitColumns = `id, organisation_id, name, description, capacity, is_reserve`

func scanStorageUnit(s scanner) (*model.StorageUnit, error) {
	u := &model.StorageUnit{}
	err := s.Scan(&u.ID, &u.OrganisationID, &u.Name, &u.Description, &u.Capacity, &u.IsReserve)
	return u, err
}

// CreateStorageUnit creates a storage unit. A nil capacity means unlimited.
func CreateStorageUnit(ctx context.Context, q db.Querier, organisationID, name, description string, capacity *int, isReserve bool) (*model.StorageUnit, error) {
	u := &model.StorageUnit{
		ID:             uuid.NewString(),
		OrganisationID: organisationID,
		Name:           name,
		Description:    description,
		Capacity:       capacity,
		IsReserve:      isReserve,
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO storage_units (id, organisation_id, name, description, capacity, is_reserve)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.OrganisationID, u.Name, u.Description, u.Capacity, u.IsReserve,
	)
	if err != nil {
		return nil, fmt.Errorf("creating storage unit: %w", err)
	}
	return u, nil
}

// GetStorageUnit returns a storage unit of the organisation. With forUpdate
// the row stays locked until the surrounding transaction ends.
func GetStorageUnit(ctx context.Context, q db.Querier, dialect db.Dialect, organisationID, id string, forUpdate bool) (*model.StorageUnit, error) {
	query := `SELECT ` + storageUnitColumns + ` FROM storage_units WHERE id = ? AND organisation_id = ?`
	if forUpdate {
		query += dialect.ForUpdate()
	}
	u, err := scanStorageUnit(q.QueryRowContext(ctx, query, id, organisationID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting storage unit: %w", err)
	}
	return u, nil
}

// ListStorageUnits returns the organisation's storage units ordered by name.
func ListStorageUnits(ctx context.Context, q db.Querier, organisationID string) ([]model.StorageUnit, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+storageUnitColumns+` FROM storage_units WHERE organisation_id = ? ORDER BY name`,
		organisationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing storage units: %w", err)
	}
	defer rows.Close()

	units := []model.StorageUnit{}
	for rows.Next() {
		u, err := scanStorageUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning storage unit: %w", err)
		}
		units = append(units, *u)
	}
	return units, rows.Err()
}

// UpdateStorageUnit updates the editable fields of a storage unit.
func UpdateStorageUnit(ctx context.Context, q db.Querier, organisationID, id, name, description string, capacity *int, isReserve bool) error {
	_, err := q.ExecContext(ctx,
		`UPDATE storage_units SET name = ?, description = ?, capacity = ?, is_reserve = ?
		 WHERE id = ? AND organisation_id = ?`,
		name, description, capacity, isReserve, id, organisationID,
	)
	if err != nil {
		return fmt.Errorf("updating storage unit: %w", err)
	}
	return nil
}

// DeleteStorageUnit removes an empty storage unit.
func DeleteStorageUnit(ctx context.Context, q db.Querier, organisationID, id string) error {
	_, err := q.ExecContext(ctx,
		`DELETE FROM storage_units WHERE id = ? AND organisation_id = ?`, id, organisationID,
	)
	if err != nil {
		return fmt.Errorf("deleting storage unit: %w", err)
	}
	return nil
}

// CountItemsInStorageUnit returns the number of live items in a unit.
func CountItemsInStorageUnit(ctx context.Context, q db.Querier, id string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM uniform_items WHERE storage_unit_id = ? AND recdelete IS NULL`, id,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting storage unit items: %w", err)
	}
	return n, nil
}

// RemoveItemsFromStorageUnit clears the storage reference of the listed items
// that belong to the unit and returns how many were removed.
func RemoveItemsFromStorageUnit(ctx context.Context, q db.Querier, id string, itemIDs []string) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	args := append([]any{id}, stringArgs(itemIDs)...)
	result, err := q.ExecContext(ctx,
		`UPDATE uniform_items SET storage_unit_id = NULL
		 WHERE storage_unit_id = ? AND id IN (`+placeholders(len(itemIDs))+`)`, args...,
	)
	if err != nil {
		return 0, fmt.Errorf("removing items from storage unit: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting removed items: %w", err)
	}
	return n, nil
}

// ListStorageUnitsWithItems returns every storage unit of the organisation
// with its live items ordered by number.
func ListStorageUnitsWithItems(ctx context.Context, q db.Querier, organisationID string) ([]model.StorageUnitWithItems, error) {
	units, err := ListStorageUnits(ctx, q, organisationID)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx,
		itemViewSelect+`
		 JOIN storage_units su ON su.id = i.storage_unit_id
		 WHERE su.organisation_id = ? AND i.recdelete IS NULL
		 ORDER BY i.number`, organisationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stored items: %w", err)
	}
	items, err := scanItemViews(rows)
	if err != nil {
		return nil, err
	}

	byUnit := map[string][]model.ItemView{}
	for _, item := range items {
		byUnit[*item.StorageUnitID] = append(byUnit[*item.StorageUnitID], item)
	}

	result := make([]model.StorageUnitWithItems, 0, len(units))
	for _, u := range units {
		unitItems := byUnit[u.ID]
		if unitItems == nil {
			unitItems = []model.ItemView{}
		}
		result = append(result, model.StorageUnitWithItems{StorageUnit: u, Items: unitItems})
	}
	return result, nil
}
