package custody

import (
	"context"
	"fmt"
	"sort"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// CreateItemsRequest creates one unassigned item per number, all sharing
// type, generation, size and comment.
type CreateItemsRequest struct {
	TypeID       string  `json:"type_id"`
	GenerationID *string `json:"generation_id"`
	SizeID       *string `json:"size_id"`
	Comment      string  `json:"comment"`
	Active       *bool   `json:"active"`
	Numbers      []int   `json:"numbers"`
}

// CreateItems creates items in bulk. Numbers already taken by live items of
// the type are reported as a conflict and nothing is created.
func (e *Engine) CreateItems(ctx context.Context, caller model.Caller, req CreateItemsRequest) ([]model.Item, *Conflict, error) {
	var created []model.Item
	conflict, err := e.run(ctx, "create_items", func(tx *db.Tx) error {
		created = created[:0]

		typ, err := store.GetType(ctx, tx, caller.OrganisationID, req.TypeID)
		if err != nil {
			return err
		}
		if typ == nil {
			return notFound("type", req.TypeID)
		}
		if err := validateCatalog(ctx, tx, typ, req.GenerationID, req.SizeID); err != nil {
			return err
		}

		if dup := duplicates(req.Numbers); len(dup) > 0 {
			c := newConflict(CodeNumbersInUse, "numbers given more than once: %v", dup)
			c.Numbers = dup
			return c
		}
		used, err := store.NumbersInUse(ctx, tx, typ.ID, req.Numbers)
		if err != nil {
			return err
		}
		if len(used) > 0 {
			c := newConflict(CodeNumbersInUse, "%s numbers already in use: %v", typ.Name, used)
			c.Numbers = used
			return c
		}

		active := req.Active == nil || *req.Active
		for _, n := range req.Numbers {
			item, err := store.CreateItem(ctx, tx, model.Item{
				TypeID:       typ.ID,
				Number:       n,
				GenerationID: req.GenerationID,
				SizeID:       req.SizeID,
				Comment:      req.Comment,
				Active:       active,
			})
			if err != nil {
				return err
			}
			created = append(created, *item)
		}
		return nil
	})
	if conflict != nil || err != nil {
		return nil, conflict, err
	}
	return created, nil, nil
}

// validateCatalog checks that generation and size are legal for the type.
// Both are required when the type uses them and forbidden otherwise.
// The legal sizes come from the generation's size list if it has one and
// from the type's default size list otherwise.
func validateCatalog(ctx context.Context, tx *db.Tx, typ *model.UniformType, generationID, sizeID *string) error {
	if typ.UsesGenerations && generationID == nil {
		return fmt.Errorf("%w: type %s needs a generation", ErrInvalidCatalog, typ.Name)
	}
	if typ.UsesSizes && sizeID == nil {
		return fmt.Errorf("%w: type %s needs a size", ErrInvalidCatalog, typ.Name)
	}

	var gen *model.Generation
	if generationID != nil {
		if !typ.UsesGenerations {
			return fmt.Errorf("%w: type %s has no generations", ErrInvalidCatalog, typ.Name)
		}
		var err error
		gen, err = store.GetGeneration(ctx, tx, *generationID)
		if err != nil {
			return err
		}
		if gen == nil || gen.TypeID != typ.ID {
			return fmt.Errorf("%w: generation %s not found for type %s", ErrInvalidCatalog, *generationID, typ.Name)
		}
	}

	if sizeID == nil {
		return nil
	}
	if !typ.UsesSizes {
		return fmt.Errorf("%w: type %s has no sizes", ErrInvalidCatalog, typ.Name)
	}
	listID := typ.DefaultSizeListID
	if gen != nil && gen.SizeListID != nil {
		listID = gen.SizeListID
	}
	if listID == nil {
		return fmt.Errorf("%w: no size list for type %s", ErrInvalidCatalog, typ.Name)
	}
	ok, err := store.SizeListContains(ctx, tx, *listID, *sizeID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: size %s not allowed for type %s", ErrInvalidCatalog, *sizeID, typ.Name)
	}
	return nil
}

func duplicates(numbers []int) []int {
	seen := make(map[int]int, len(numbers))
	for _, n := range numbers {
		seen[n]++
	}
	var dup []int
	for n, count := range seen {
		if count > 1 {
			dup = append(dup, n)
		}
	}
	sort.Ints(dup)
	return dup
}
