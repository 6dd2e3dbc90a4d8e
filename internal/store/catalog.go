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

// NewType holds the fields of a uniform type to create.
type NewType struct {
	Name              string  `json:"name"`
	Acronym           string  `json:"acronym"`
	IssuedDefault     int     `json:"issued_default"`
	UsesGenerations   bool    `json:"uses_generations"`
	UsesSizes         bool    `json:"uses_sizes"`
	DefaultSizeListID *string `json:"default_size_list_id"`
}

const typeColumns = `id, organisation_id, name, acronym, issued_default, uses_generations, uses_sizes,
	default_size_list_id, sort_order, COALESCE(image_mime, '')`

func scanType(s scanner) (*model.UniformType, error) {
	t := &model.UniformType{}
	err := s.Scan(&t.ID, &t.OrganisationID, &t.Name, &t.Acronym, &t.IssuedDefault, &t.UsesGenerations,
		&t.UsesSizes, &t.DefaultSizeListID, &t.SortOrder, &t.ImageMime)
	return t, err
}

// CreateType creates a uniform type at the end of the organisation's type list.
func CreateType(ctx context.Context, q db.Querier, organisationID string, nt NewType) (*model.UniformType, error) {
	var next int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM uniform_types
		 WHERE organisation_id = ? AND recdelete IS NULL`, organisationID,
	).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("computing type sort order: %w", err)
	}

	id := uuid.NewString()
	_, err = q.ExecContext(ctx,
		`INSERT INTO uniform_types (id, organisation_id, name, acronym, issued_default, uses_generations,
		     uses_sizes, default_size_list_id, sort_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, organisationID, nt.Name, nt.Acronym, nt.IssuedDefault, nt.UsesGenerations,
		nt.UsesSizes, nt.DefaultSizeListID, next,
	)
	if err != nil {
		return nil, fmt.Errorf("creating type: %w", err)
	}
	return GetType(ctx, q, organisationID, id)
}

// GetType returns a non-deleted uniform type of the organisation.
func GetType(ctx context.Context, q db.Querier, organisationID, id string) (*model.UniformType, error) {
	t, err := scanType(q.QueryRowContext(ctx,
		`SELECT `+typeColumns+` FROM uniform_types
		 WHERE id = ? AND organisation_id = ? AND recdelete IS NULL`, id, organisationID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting type: %w", err)
	}
	return t, nil
}

// ListTypes returns the organisation's live types ordered by sort order,
// each with its live generations.
func ListTypes(ctx context.Context, q db.Querier, organisationID string) ([]model.UniformType, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+typeColumns+` FROM uniform_types
		 WHERE organisation_id = ? AND recdelete IS NULL
		 ORDER BY sort_order`, organisationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing types: %w", err)
	}
	defer rows.Close()

	var types []model.UniformType
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning type: %w", err)
		}
		types = append(types, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range types {
		gens, err := ListGenerations(ctx, q, types[i].ID)
		if err != nil {
			return nil, err
		}
		types[i].Generations = gens
	}
	return types, nil
}

// SoftDeleteType marks a type deleted, stamping the actor.
func SoftDeleteType(ctx context.Context, q db.Querier, id, actor string, now time.Time) error {
	_, err := q.ExecContext(ctx,
		`UPDATE uniform_types SET recdelete = ?, recdelete_user = ? WHERE id = ? AND recdelete IS NULL`,
		now, actor, id,
	)
	if err != nil {
		return fmt.Errorf("deleting type: %w", err)
	}
	return nil
}

// CompactTypeSortOrder closes the gap left at position after removing a type.
func CompactTypeSortOrder(ctx context.Context, q db.Querier, organisationID string, after int) error {
	_, err := q.ExecContext(ctx,
		`UPDATE uniform_types SET sort_order = sort_order - 1
		 WHERE organisation_id = ? AND recdelete IS NULL AND sort_order > ?`,
		organisationID, after,
	)
	if err != nil {
		return fmt.Errorf("compacting type sort order: %w", err)
	}
	return nil
}

// SetTypeImage stores a processed image for a type.
func SetTypeImage(ctx context.Context, q db.Querier, organisationID, id string, data []byte, mime string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE uniform_types SET image = ?, image_mime = ?
		 WHERE id = ? AND organisation_id = ? AND recdelete IS NULL`,
		data, mime, id, organisationID,
	)
	if err != nil {
		return fmt.Errorf("setting type image: %w", err)
	}
	return nil
}

// GetTypeImage returns the image of a type. Data is nil when no image is set.
func GetTypeImage(ctx context.Context, q db.Querier, organisationID, id string) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT image, image_mime FROM uniform_types
		 WHERE id = ? AND organisation_id = ? AND recdelete IS NULL`, id, organisationID,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting type image: %w", err)
	}
	return data, mime.String, nil
}

// CreateGeneration appends a generation to a type.
func CreateGeneration(ctx context.Context, q db.Querier, typeID, name string, sizeListID *string, outdated bool) (*model.Generation, error) {
	var next int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM uniform_generations
		 WHERE type_id = ? AND recdelete IS NULL`, typeID,
	).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("computing generation sort order: %w", err)
	}

	g := &model.Generation{
		ID:         uuid.NewString(),
		TypeID:     typeID,
		Name:       name,
		Outdated:   outdated,
		SizeListID: sizeListID,
		SortOrder:  next,
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO uniform_generations (id, type_id, name, outdated, size_list_id, sort_order)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.TypeID, g.Name, g.Outdated, g.SizeListID, g.SortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("creating generation: %w", err)
	}
	return g, nil
}

// GetGeneration returns a live generation by ID.
func GetGeneration(ctx context.Context, q db.Querier, id string) (*model.Generation, error) {
	g := &model.Generation{}
	err := q.QueryRowContext(ctx,
		`SELECT id, type_id, name, outdated, size_list_id, sort_order
		 FROM uniform_generations WHERE id = ? AND recdelete IS NULL`, id,
	).Scan(&g.ID, &g.TypeID, &g.Name, &g.Outdated, &g.SizeListID, &g.SortOrder)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting generation: %w", err)
	}
	return g, nil
}

// ListGenerations returns the live generations of a type in sort order.
func ListGenerations(ctx context.Context, q db.Querier, typeID string) ([]model.Generation, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, type_id, name, outdated, size_list_id, sort_order
		 FROM uniform_generations WHERE type_id = ? AND recdelete IS NULL
		 ORDER BY sort_order`, typeID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	defer rows.Close()

	var gens []model.Generation
	for rows.Next() {
		var g model.Generation
		if err := rows.Scan(&g.ID, &g.TypeID, &g.Name, &g.Outdated, &g.SizeListID, &g.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning generation: %w", err)
		}
		gens = append(gens, g)
	}
	return gens, rows.Err()
}

// SoftDeleteGenerationsOfType marks all live generations of a type deleted.
func SoftDeleteGenerationsOfType(ctx context.Context, q db.Querier, typeID, actor string, now time.Time) error {
	_, err := q.ExecContext(ctx,
		`UPDATE uniform_generations SET recdelete = ?, recdelete_user = ?
		 WHERE type_id = ? AND recdelete IS NULL`,
		now, actor, typeID,
	)
	if err != nil {
		return fmt.Errorf("deleting generations: %w", err)
	}
	return nil
}

// CreateSize creates a size.
func CreateSize(ctx context.Context, q db.Querier, organisationID, name string, sortOrder int) (*model.Size, error) {
	s := &model.Size{ID: uuid.NewString(), Name: name, SortOrder: sortOrder}
	_, err := q.ExecContext(ctx,
		`INSERT INTO sizes (id, organisation_id, name, sort_order) VALUES (?, ?, ?, ?)`,
		s.ID, organisationID, s.Name, s.SortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("creating size: %w", err)
	}
	return s, nil
}

// CreateSizeList creates a size list containing the given sizes.
func CreateSizeList(ctx context.Context, q db.Querier, organisationID, name string, sizeIDs []string) (*model.SizeList, error) {
	id := uuid.NewString()
	_, err := q.ExecContext(ctx,
		`INSERT INTO size_lists (id, organisation_id, name) VALUES (?, ?, ?)`,
		id, organisationID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating size list: %w", err)
	}
	for _, sizeID := range sizeIDs {
		_, err := q.ExecContext(ctx,
			`INSERT INTO size_list_sizes (size_list_id, size_id) VALUES (?, ?)`,
			id, sizeID,
		)
		if err != nil {
			return nil, fmt.Errorf("adding size to list: %w", err)
		}
	}
	return GetSizeList(ctx, q, organisationID, id)
}

// GetSizeList returns a size list with its sizes in sort order.
func GetSizeList(ctx context.Context, q db.Querier, organisationID, id string) (*model.SizeList, error) {
	l := &model.SizeList{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name FROM size_lists WHERE id = ? AND organisation_id = ?`, id, organisationID,
	).Scan(&l.ID, &l.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting size list: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT s.id, s.name, s.sort_order FROM size_list_sizes ls
		 JOIN sizes s ON s.id = ls.size_id
		 WHERE ls.size_list_id = ? ORDER BY s.sort_order`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sizes: %w", err)
	}
	defer rows.Close()

	l.Sizes = []model.Size{}
	for rows.Next() {
		var s model.Size
		if err := rows.Scan(&s.ID, &s.Name, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning size: %w", err)
		}
		l.Sizes = append(l.Sizes, s)
	}
	return l, rows.Err()
}

// SizeListContains reports whether a size is part of a size list.
func SizeListContains(ctx context.Context, q db.Querier, sizeListID, sizeID string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM size_list_sizes WHERE size_list_id = ? AND size_id = ?`,
		sizeListID, sizeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking size list: %w", err)
	}
	return n > 0, nil
}
