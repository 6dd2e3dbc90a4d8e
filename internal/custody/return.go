package custody

import (
	"context"
	"fmt"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// Return takes an item back from a cadet and returns the cadet's kit.
// It fails with ErrNoOpenIssuance when the cadet does not hold the item.
func (e *Engine) Return(ctx context.Context, caller model.Caller, itemID, cadetID string) (model.HolderKit, error) {
	var kit model.HolderKit
	_, err := e.run(ctx, "return", func(tx *db.Tx) error {
		open, err := store.GetOpenIssuanceFor(ctx, tx, caller.OrganisationID, itemID, cadetID)
		if err != nil {
			return err
		}
		if open == nil {
			return fmt.Errorf("%w: item %s for cadet %s", ErrNoOpenIssuance, itemID, cadetID)
		}
		if err := closeIssuance(ctx, tx, open, e.today()); err != nil {
			return err
		}
		kit, err = store.GetHolderKit(ctx, tx, cadetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return kit, nil
}
