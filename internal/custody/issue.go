package custody

import (
	"context"
	"fmt"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// IssueOptions are the caller's overrides for soft conflicts.
type IssueOptions struct {
	// IgnoreInactive allows issuing inactive and reserve items.
	IgnoreInactive bool `json:"ignore_inactive"`
	// Force takes the item away from its current holder.
	Force bool `json:"force"`
	// Create creates the item when no item with the number exists.
	Create bool `json:"create"`
}

// IssueRequest asks to hand the item with Number of TypeID to CadetID.
// IDToReplace names an item of the same type the cadet returns in exchange.
type IssueRequest struct {
	Number      int          `json:"number"`
	TypeID      string       `json:"type_id"`
	CadetID     string       `json:"cadet_id"`
	IDToReplace *string      `json:"id_to_replace,omitempty"`
	Options     IssueOptions `json:"options"`
}

// Issue hands an item to a cadet and returns the cadet's kit.
func (e *Engine) Issue(ctx context.Context, caller model.Caller, req IssueRequest) (model.HolderKit, *Conflict, error) {
	var kit model.HolderKit
	conflict, err := e.run(ctx, "issue", func(tx *db.Tx) error {
		if err := e.issue(ctx, tx, caller, req); err != nil {
			return err
		}
		var err error
		kit, err = store.GetHolderKit(ctx, tx, req.CadetID)
		return err
	})
	if conflict != nil || err != nil {
		return nil, conflict, err
	}
	return kit, nil, nil
}

func (e *Engine) issue(ctx context.Context, tx *db.Tx, caller model.Caller, req IssueRequest) error {
	today := e.today()

	typ, err := store.GetType(ctx, tx, caller.OrganisationID, req.TypeID)
	if err != nil {
		return err
	}
	if typ == nil {
		return notFound("type", req.TypeID)
	}
	cadet, err := store.GetCadet(ctx, tx, caller.OrganisationID, req.CadetID)
	if err != nil {
		return err
	}
	if cadet == nil {
		return notFound("cadet", req.CadetID)
	}

	if req.IDToReplace != nil {
		if err := e.returnReplaced(ctx, tx, caller, req, today); err != nil {
			return err
		}
	}

	item, err := store.GetItemByNumber(ctx, tx, typ.ID, req.Number)
	if err != nil {
		return err
	}
	if item == nil {
		if !req.Options.Create {
			c := newConflict(CodeItemNotFound, "%s %d does not exist", typ.Name, req.Number)
			c.Number = &req.Number
			return c
		}
		created, err := store.CreateItem(ctx, tx, model.Item{TypeID: typ.ID, Number: req.Number, Active: true})
		if err != nil {
			return err
		}
		_, err = store.OpenIssuance(ctx, tx, created.ID, cadet.ID, today)
		return err
	}

	if !item.Active && !req.Options.IgnoreInactive {
		c := newConflict(CodeItemInactive, "%s %d is inactive", typ.Name, item.Number)
		c.Number = &item.Number
		return c
	}
	if item.IsReserve && !req.Options.IgnoreInactive {
		c := newConflict(CodeItemReserve, "%s %d is a reserve item", typ.Name, item.Number)
		c.Number = &item.Number
		return c
	}

	open, err := store.GetOpenIssuance(ctx, tx, item.ID)
	if err != nil {
		return err
	}
	if open != nil {
		if open.CadetID == cadet.ID {
			return nil
		}
		holder, err := store.GetCadetRef(ctx, tx, open.CadetID)
		if err != nil {
			return err
		}
		if holder == nil {
			return notFound("cadet", open.CadetID)
		}
		if !req.Options.Force {
			c := newConflict(CodeAlreadyIssued, "%s %d is issued to %s %s",
				typ.Name, item.Number, holder.Firstname, holder.Lastname)
			c.Number = &item.Number
			c.Holder = holder
			return c
		}

		note := fmt.Sprintf("%s %d was handed over to %s on %s", typ.Name, item.Number, cadet.FullName(), today)
		if err := store.AppendCadetComment(ctx, tx, holder.ID, note); err != nil {
			return err
		}
		if err := closeIssuance(ctx, tx, open, today); err != nil {
			return err
		}
	}

	if item.StorageUnitID != nil {
		if err := store.SetItemStorageUnit(ctx, tx, item.ID, nil); err != nil {
			return err
		}
	}

	_, err = store.OpenIssuance(ctx, tx, item.ID, cadet.ID, today)
	return err
}

// returnReplaced closes the cadet's record of the item being swapped out.
func (e *Engine) returnReplaced(ctx context.Context, tx *db.Tx, caller model.Caller, req IssueRequest, today model.Date) error {
	replaced, err := store.GetItem(ctx, tx, caller.OrganisationID, *req.IDToReplace)
	if err != nil {
		return err
	}
	var open *model.IssuanceRecord
	if replaced != nil && replaced.TypeID == req.TypeID {
		open, err = store.GetOpenIssuanceFor(ctx, tx, caller.OrganisationID, replaced.ID, req.CadetID)
		if err != nil {
			return err
		}
	}
	if open == nil {
		return newConflict(CodeReplaceNotIssued, "item %s is not issued to the cadet", *req.IDToReplace)
	}
	return closeIssuance(ctx, tx, open, today)
}

// closeIssuance ends an open record. A record issued today is deleted so
// that a same-day loan leaves no history; otherwise it is closed with
// today's date.
func closeIssuance(ctx context.Context, tx *db.Tx, rec *model.IssuanceRecord, today model.Date) error {
	if rec.DateIssued == today {
		return store.DeleteIssuance(ctx, tx, rec.ID)
	}
	return store.CloseIssuance(ctx, tx, rec.ID, today)
}
