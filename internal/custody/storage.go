package custody

import (
	"context"
	"fmt"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// StorageOptions are the caller's overrides for storage conflicts.
type StorageOptions struct {
	IgnoreFull bool `json:"ignore_full"`
}

// AddToStorageUnit places an item in a storage unit and returns the
// organisation's storage units with their items.
func (e *Engine) AddToStorageUnit(ctx context.Context, caller model.Caller, unitID, itemID string, opts StorageOptions) ([]model.StorageUnitWithItems, *Conflict, error) {
	var units []model.StorageUnitWithItems
	conflict, err := e.run(ctx, "add_to_storage_unit", func(tx *db.Tx) error {
		if err := e.addToStorageUnit(ctx, tx, caller, unitID, itemID, opts); err != nil {
			return err
		}
		var err error
		units, err = store.ListStorageUnitsWithItems(ctx, tx, caller.OrganisationID)
		return err
	})
	if conflict != nil || err != nil {
		return nil, conflict, err
	}
	return units, nil, nil
}

func (e *Engine) addToStorageUnit(ctx context.Context, tx *db.Tx, caller model.Caller, unitID, itemID string, opts StorageOptions) error {
	item, err := store.GetItem(ctx, tx, caller.OrganisationID, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return notFound("item", itemID)
	}
	unit, err := store.GetStorageUnit(ctx, tx, tx.Dialect(), caller.OrganisationID, unitID, true)
	if err != nil {
		return err
	}
	if unit == nil {
		return notFound("storage unit", unitID)
	}

	if item.StorageUnitID != nil {
		current, err := store.GetStorageUnit(ctx, tx, tx.Dialect(), caller.OrganisationID, *item.StorageUnitID, false)
		if err != nil {
			return err
		}
		ref := &model.StorageUnitRef{ID: *item.StorageUnitID}
		if current != nil {
			ref.Name = current.Name
		}
		c := newConflict(CodeAlreadyInStorageUnit, "%s %d is already stored in %s", item.TypeName, item.Number, ref.Name)
		c.StorageUnit = ref
		return c
	}

	open, err := store.GetOpenIssuance(ctx, tx, item.ID)
	if err != nil {
		return err
	}
	if open != nil {
		holder, err := store.GetCadetRef(ctx, tx, open.CadetID)
		if err != nil {
			return err
		}
		c := newConflict(CodeItemIssued, "%s %d is issued", item.TypeName, item.Number)
		c.Holder = holder
		return c
	}

	if unit.Capacity != nil && !opts.IgnoreFull {
		current, err := store.CountItemsInStorageUnit(ctx, tx, unit.ID)
		if err != nil {
			return err
		}
		if current >= *unit.Capacity {
			capacity := *unit.Capacity
			c := newConflict(CodeStorageUnitFull, "%s is full (%d of %d)", unit.Name, current, capacity)
			c.StorageUnit = &model.StorageUnitRef{ID: unit.ID, Name: unit.Name}
			c.Capacity = &capacity
			c.Current = &current
			return c
		}
	}

	if err := store.SetItemStorageUnit(ctx, tx, item.ID, &unit.ID); err != nil {
		return err
	}
	if unit.IsReserve && !item.IsReserve {
		return store.MarkItemReserve(ctx, tx, item.ID)
	}
	return nil
}

// RemoveFromStorageUnit takes items out of a storage unit. Every listed item
// must currently be in the unit, otherwise nothing is changed and
// ErrPartialRemoval is returned.
func (e *Engine) RemoveFromStorageUnit(ctx context.Context, caller model.Caller, unitID string, itemIDs []string) error {
	_, err := e.run(ctx, "remove_from_storage_unit", func(tx *db.Tx) error {
		unit, err := store.GetStorageUnit(ctx, tx, tx.Dialect(), caller.OrganisationID, unitID, true)
		if err != nil {
			return err
		}
		if unit == nil {
			return notFound("storage unit", unitID)
		}
		ids := uniqueIDs(itemIDs)
		n, err := store.RemoveItemsFromStorageUnit(ctx, tx, unit.ID, ids)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return fmt.Errorf("%w: removed %d of %d", ErrPartialRemoval, n, len(ids))
		}
		return nil
	})
	return err
}

// DeleteStorageUnit removes an empty storage unit.
func (e *Engine) DeleteStorageUnit(ctx context.Context, caller model.Caller, unitID string) error {
	_, err := e.run(ctx, "delete_storage_unit", func(tx *db.Tx) error {
		unit, err := store.GetStorageUnit(ctx, tx, tx.Dialect(), caller.OrganisationID, unitID, true)
		if err != nil {
			return err
		}
		if unit == nil {
			return notFound("storage unit", unitID)
		}
		n, err := store.CountItemsInStorageUnit(ctx, tx, unit.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: storage unit %s holds %d items", ErrNotEmpty, unit.Name, n)
		}
		return store.DeleteStorageUnit(ctx, tx, caller.OrganisationID, unit.ID)
	})
	return err
}

// uniqueIDs drops repeated ids, keeping the first occurrence.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
