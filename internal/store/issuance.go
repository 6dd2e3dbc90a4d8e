package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
)

const issuanceColumns = `ui.id, ui.uniform_id, ui.cadet_id, ui.date_issued, ui.date_returned`

func scanIssuance(s scanner) (*model.IssuanceRecord, error) {
	r := &model.IssuanceRecord{}
	err := s.Scan(&r.ID, &r.ItemID, &r.CadetID, &r.DateIssued, &r.DateReturned)
	return r, err
}

// OpenIssuance creates an open issuance record.
func OpenIssuance(ctx context.Context, q db.Querier, itemID, cadetID string, issued model.Date) (*model.IssuanceRecord, error) {
	r := &model.IssuanceRecord{
		ID:         uuid.NewString(),
		ItemID:     itemID,
		CadetID:    cadetID,
		DateIssued: issued,
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO uniform_issued (id, uniform_id, cadet_id, date_issued) VALUES (?, ?, ?, ?)`,
		r.ID, r.ItemID, r.CadetID, r.DateIssued,
	)
	if err != nil {
		return nil, fmt.Errorf("opening issuance: %w", err)
	}
	return r, nil
}

// GetOpenIssuance returns the open issuance record of an item, if any.
func GetOpenIssuance(ctx context.Context, q db.Querier, itemID string) (*model.IssuanceRecord, error) {
	r, err := scanIssuance(q.QueryRowContext(ctx,
		`SELECT `+issuanceColumns+` FROM uniform_issued ui
		 WHERE ui.uniform_id = ? AND ui.date_returned IS NULL`, itemID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting open issuance: %w", err)
	}
	return r, nil
}

// GetOpenIssuanceFor returns the open record of a live item held by a live
// cadet of the organisation.
func GetOpenIssuanceFor(ctx context.Context, q db.Querier, organisationID, itemID, cadetID string) (*model.IssuanceRecord, error) {
	r, err := scanIssuance(q.QueryRowContext(ctx,
		`SELECT `+issuanceColumns+` FROM uniform_issued ui
		 JOIN uniform_items i ON i.id = ui.uniform_id
		 JOIN cadets c ON c.id = ui.cadet_id
		 WHERE ui.uniform_id = ? AND ui.cadet_id = ? AND ui.date_returned IS NULL
		   AND i.recdelete IS NULL AND c.recdelete IS NULL AND c.organisation_id = ?`,
		itemID, cadetID, organisationID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting open issuance: %w", err)
	}
	return r, nil
}

// CloseIssuance sets the return date of a record.
func CloseIssuance(ctx context.Context, q db.Querier, id string, returned model.Date) error {
	_, err := q.ExecContext(ctx,
		`UPDATE uniform_issued SET date_returned = ? WHERE id = ? AND date_returned IS NULL`,
		returned, id,
	)
	if err != nil {
		return fmt.Errorf("closing issuance: %w", err)
	}
	return nil
}

// DeleteIssuance physically removes a record.
func DeleteIssuance(ctx context.Context, q db.Querier, id string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM uniform_issued WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting issuance: %w", err)
	}
	return nil
}

// CloseOpenIssuancesOfItem closes every open record of an item.
func CloseOpenIssuancesOfItem(ctx context.Context, q db.Querier, itemID string, returned model.Date) error {
	_, err := q.ExecContext(ctx,
		`UPDATE uniform_issued SET date_returned = ? WHERE uniform_id = ? AND date_returned IS NULL`,
		returned, itemID,
	)
	if err != nil {
		return fmt.Errorf("closing issuances of item: %w", err)
	}
	return nil
}

// CloseOpenIssuancesOfType closes every open record of the live items of a type.
// It returns the number of records closed.
func CloseOpenIssuancesOfType(ctx context.Context, q db.Querier, typeID string, returned model.Date) (int64, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE uniform_issued SET date_returned = ?
		 WHERE date_returned IS NULL AND uniform_id IN (
		     SELECT id FROM uniform_items WHERE type_id = ? AND recdelete IS NULL)`,
		returned, typeID,
	)
	if err != nil {
		return 0, fmt.Errorf("closing issuances of type: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting closed issuances: %w", err)
	}
	return n, nil
}

// CountOpenIssuancesOfCadet returns how many items a cadet currently holds.
func CountOpenIssuancesOfCadet(ctx context.Context, q db.Querier, cadetID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM uniform_issued ui
		 JOIN uniform_items i ON i.id = ui.uniform_id
		 WHERE ui.cadet_id = ? AND ui.date_returned IS NULL AND i.recdelete IS NULL`, cadetID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting open issuances: %w", err)
	}
	return n, nil
}

// ListIssuanceHistory returns all records of an item, newest first.
func ListIssuanceHistory(ctx context.Context, q db.Querier, itemID string) ([]model.IssuanceRecord, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+issuanceColumns+` FROM uniform_issued ui
		 WHERE ui.uniform_id = ? ORDER BY ui.date_issued DESC, ui.date_returned IS NULL DESC`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing issuance history: %w", err)
	}
	defer rows.Close()

	records := []model.IssuanceRecord{}
	for rows.Next() {
		r, err := scanIssuance(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning issuance: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// GetHolderKit returns the items a cadet currently holds, grouped by type
// and ordered by number.
func GetHolderKit(ctx context.Context, q db.Querier, cadetID string) (model.HolderKit, error) {
	rows, err := q.QueryContext(ctx,
		itemViewSelect+`
		 JOIN uniform_issued ui ON ui.uniform_id = i.id
		 WHERE ui.cadet_id = ? AND ui.date_returned IS NULL
		   AND i.recdelete IS NULL AND t.recdelete IS NULL
		 ORDER BY t.sort_order, i.number`, cadetID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting holder kit: %w", err)
	}
	items, err := scanItemViews(rows)
	if err != nil {
		return nil, err
	}

	kit := model.HolderKit{}
	for _, item := range items {
		kit[item.TypeID] = append(kit[item.TypeID], item)
	}
	return kit, nil
}
