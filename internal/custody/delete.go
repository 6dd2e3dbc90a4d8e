package custody

import (
	"context"
	"fmt"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// DeleteItem soft-deletes an item. Open issuances are closed with today's
// date and kept as history, open deficiencies are deleted with it and the
// item leaves its storage unit.
func (e *Engine) DeleteItem(ctx context.Context, caller model.Caller, itemID string) error {
	_, err := e.run(ctx, "delete_item", func(tx *db.Tx) error {
		item, err := store.GetItem(ctx, tx, caller.OrganisationID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return notFound("item", itemID)
		}

		now := e.now()
		if err := store.CloseOpenIssuancesOfItem(ctx, tx, item.ID, model.DateOf(now)); err != nil {
			return err
		}
		if err := store.SoftDeleteOpenDeficiencies(ctx, tx, item.ID, caller.Username, now); err != nil {
			return err
		}
		return store.SoftDeleteItem(ctx, tx, item.ID, caller.Username, now)
	})
	return err
}

// DeleteType soft-deletes a type with all its items and generations and
// returns the remaining type list.
func (e *Engine) DeleteType(ctx context.Context, caller model.Caller, typeID string) ([]model.UniformType, error) {
	var types []model.UniformType
	_, err := e.run(ctx, "delete_type", func(tx *db.Tx) error {
		typ, err := store.GetType(ctx, tx, caller.OrganisationID, typeID)
		if err != nil {
			return err
		}
		if typ == nil {
			return notFound("type", typeID)
		}

		now := e.now()
		if _, err := store.CloseOpenIssuancesOfType(ctx, tx, typ.ID, model.DateOf(now)); err != nil {
			return err
		}
		if _, err := store.SoftDeleteItemsOfType(ctx, tx, typ.ID, caller.Username, now); err != nil {
			return err
		}
		if err := store.SoftDeleteGenerationsOfType(ctx, tx, typ.ID, caller.Username, now); err != nil {
			return err
		}
		if err := store.SoftDeleteType(ctx, tx, typ.ID, caller.Username, now); err != nil {
			return err
		}
		if err := store.CompactTypeSortOrder(ctx, tx, caller.OrganisationID, typ.SortOrder); err != nil {
			return err
		}

		types, err = store.ListTypes(ctx, tx, caller.OrganisationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return types, nil
}

// DeleteCadet soft-deletes a cadet who holds no items.
func (e *Engine) DeleteCadet(ctx context.Context, caller model.Caller, cadetID string) error {
	_, err := e.run(ctx, "delete_cadet", func(tx *db.Tx) error {
		cadet, err := store.GetCadet(ctx, tx, caller.OrganisationID, cadetID)
		if err != nil {
			return err
		}
		if cadet == nil {
			return notFound("cadet", cadetID)
		}
		n, err := store.CountOpenIssuancesOfCadet(ctx, tx, cadet.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: cadet %s holds %d items", ErrNotEmpty, cadet.FullName(), n)
		}
		return store.DeleteCadet(ctx, tx, caller.OrganisationID, cadet.ID, caller.Username, e.now())
	})
	return err
}
