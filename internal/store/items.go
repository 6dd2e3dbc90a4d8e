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

const itemViewSelect = `SELECT i.id, i.type_id, i.number, i.generation_id, i.size_id, i.comment,
	       i.active, i.is_reserve, i.storage_unit_id,
	       t.name, COALESCE(g.name, ''), COALESCE(s.name, '')
	FROM uniform_items i
	JOIN uniform_types t ON t.id = i.type_id
	LEFT JOIN uniform_generations g ON g.id = i.generation_id
	LEFT JOIN sizes s ON s.id = i.size_id`

func scanItemView(s scanner) (*model.ItemView, error) {
	v := &model.ItemView{}
	err := s.Scan(&v.ID, &v.TypeID, &v.Number, &v.GenerationID, &v.SizeID, &v.Comment,
		&v.Active, &v.IsReserve, &v.StorageUnitID,
		&v.TypeName, &v.GenerationName, &v.SizeName)
	return v, err
}

func scanItemViews(rows *sql.Rows) ([]model.ItemView, error) {
	defer rows.Close()
	items := []model.ItemView{}
	for rows.Next() {
		v, err := scanItemView(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}

// CreateItem inserts a new live item and returns it with its new ID.
func CreateItem(ctx context.Context, q db.Querier, item model.Item) (*model.Item, error) {
	item.ID = uuid.NewString()
	_, err := q.ExecContext(ctx,
		`INSERT INTO uniform_items (id, type_id, number, generation_id, size_id, comment, active, is_reserve, storage_unit_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.TypeID, item.Number, item.GenerationID, item.SizeID, item.Comment,
		item.Active, item.IsReserve, item.StorageUnitID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return &item, nil
}

// GetItem returns a live item of the organisation with resolved names.
func GetItem(ctx context.Context, q db.Querier, organisationID, id string) (*model.ItemView, error) {
	v, err := scanItemView(q.QueryRowContext(ctx,
		itemViewSelect+`
		 WHERE i.id = ? AND t.organisation_id = ? AND i.recdelete IS NULL`, id, organisationID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return v, nil
}

// GetItemByNumber returns the live item with the given number within a type.
func GetItemByNumber(ctx context.Context, q db.Querier, typeID string, number int) (*model.ItemView, error) {
	v, err := scanItemView(q.QueryRowContext(ctx,
		itemViewSelect+`
		 WHERE i.type_id = ? AND i.number = ? AND i.recdelete IS NULL`, typeID, number,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item by number: %w", err)
	}
	return v, nil
}

// NumbersInUse returns which of the given numbers are taken by live items of a type.
func NumbersInUse(ctx context.Context, q db.Querier, typeID string, numbers []int) ([]int, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	args := []any{typeID}
	for _, n := range numbers {
		args = append(args, n)
	}
	rows, err := q.QueryContext(ctx,
		`SELECT number FROM uniform_items
		 WHERE type_id = ? AND recdelete IS NULL AND number IN (`+placeholders(len(numbers))+`)
		 ORDER BY number`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("checking item numbers: %w", err)
	}
	defer rows.Close()

	var used []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning item number: %w", err)
		}
		used = append(used, n)
	}
	return used, rows.Err()
}

// SetItemStorageUnit sets or clears (nil) the storage unit of an item.
func SetItemStorageUnit(ctx context.Context, q db.Querier, id string, storageUnitID *string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE uniform_items SET storage_unit_id = ? WHERE id = ?`, storageUnitID, id,
	)
	if err != nil {
		return fmt.Errorf("setting item storage unit: %w", err)
	}
	return nil
}

// MarkItemReserve sets the reserve flag of an item.
func MarkItemReserve(ctx context.Context, q db.Querier, id string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE uniform_items SET is_reserve = ? WHERE id = ?`, true, id,
	)
	if err != nil {
		return fmt.Errorf("marking item reserve: %w", err)
	}
	return nil
}

// SoftDeleteItem detaches an item from storage and marks it deleted.
func SoftDeleteItem(ctx context.Context, q db.Querier, id, actor string, now time.Time) error {
	_, err := q.ExecContext(ctx,
		`UPDATE uniform_items SET storage_unit_id = NULL, recdelete = ?, recdelete_user = ?
		 WHERE id = ? AND recdelete IS NULL`,
		now, actor, id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// SoftDeleteItemsOfType detaches and marks deleted every live item of a type.
// It returns the number of items deleted.
func SoftDeleteItemsOfType(ctx context.Context, q db.Querier, typeID, actor string, now time.Time) (int64, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE uniform_items SET storage_unit_id = NULL, recdelete = ?, recdelete_user = ?
		 WHERE type_id = ? AND recdelete IS NULL`,
		now, actor, typeID,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting items of type: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted items: %w", err)
	}
	return n, nil
}

// ListItemsByType returns the live items of a type ordered by number.
func ListItemsByType(ctx context.Context, q db.Querier, organisationID, typeID string) ([]model.ItemView, error) {
	rows, err := q.QueryContext(ctx,
		itemViewSelect+`
		 WHERE i.type_id = ? AND t.organisation_id = ? AND i.recdelete IS NULL
		 ORDER BY i.number`, typeID, organisationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return scanItemViews(rows)
}
