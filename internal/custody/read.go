package custody

import (
	"context"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// Item returns an item with its current custody resolved. All reads share
// one transaction so a concurrent issue or return cannot be seen half done.
func (e *Engine) Item(ctx context.Context, caller model.Caller, itemID string) (*model.ItemDetail, error) {
	var detail *model.ItemDetail
	err := e.DB.InTx(ctx, func(tx *db.Tx) error {
		item, err := store.GetItem(ctx, tx, caller.OrganisationID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return notFound("item", itemID)
		}
		open, err := store.GetOpenIssuance(ctx, tx, item.ID)
		if err != nil {
			return err
		}
		c, err := model.CustodyOf(item.Item, open)
		if err != nil {
			return err
		}

		detail = &model.ItemDetail{ItemView: *item, Custody: model.CustodyState(c)}
		switch c := c.(type) {
		case model.IssuedTo:
			detail.Holder, err = store.GetCadetRef(ctx, tx, c.CadetID)
			if err != nil {
				return err
			}
		case model.Stored:
			unit, err := store.GetStorageUnit(ctx, tx, tx.Dialect(), caller.OrganisationID, c.StorageUnitID, false)
			if err != nil {
				return err
			}
			if unit != nil {
				detail.StorageUnit = &model.StorageUnitRef{ID: unit.ID, Name: unit.Name}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// HolderKit returns the items a cadet currently holds.
func (e *Engine) HolderKit(ctx context.Context, caller model.Caller, cadetID string) (model.HolderKit, error) {
	cadet, err := store.GetCadet(ctx, e.DB, caller.OrganisationID, cadetID)
	if err != nil {
		return nil, err
	}
	if cadet == nil {
		return nil, notFound("cadet", cadetID)
	}
	return store.GetHolderKit(ctx, e.DB, cadet.ID)
}
