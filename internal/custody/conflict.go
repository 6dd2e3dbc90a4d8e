package custody

import (
	"errors"
	"fmt"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// Conflict codes. A conflict is a business-rule rejection the caller can
// resolve, for example by retrying with an override option.
const (
	CodeItemNotFound         = "item_not_found"
	CodeReplaceNotIssued     = "replace_not_issued"
	CodeItemInactive         = "item_inactive"
	CodeItemReserve          = "item_reserve"
	CodeAlreadyIssued        = "already_issued"
	CodeAlreadyInStorageUnit = "already_in_storage_unit"
	CodeItemIssued           = "item_issued"
	CodeStorageUnitFull      = "storage_unit_full"
	CodeNumbersInUse         = "numbers_in_use"
)

// Conflict is a soft error. Operations return it as a value next to the
// hard error; nothing is written when an operation reports a conflict.
type Conflict struct {
	Code        string                `json:"code"`
	Message     string                `json:"message"`
	Number      *int                  `json:"number,omitempty"`
	Numbers     []int                 `json:"numbers,omitempty"`
	Holder      *model.CadetRef       `json:"holder,omitempty"`
	StorageUnit *model.StorageUnitRef `json:"storage_unit,omitempty"`
	Capacity    *int                  `json:"capacity,omitempty"`
	Current     *int                  `json:"current,omitempty"`
}

func (c *Conflict) Error() string {
	return c.Code + ": " + c.Message
}

func newConflict(code, format string, args ...any) *Conflict {
	return &Conflict{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Hard errors. They reject requests that refer to state which does not
// hold, and no override resolves them. Missing entities are reported with
// store.ErrNotFound.
var (
	ErrNoOpenIssuance = errors.New("no open issuance")
	ErrPartialRemoval = errors.New("not all items belong to the storage unit")
	ErrInvalidCatalog = errors.New("invalid catalog reference")
	ErrNotEmpty       = errors.New("still in use")
)

func notFound(entity, id string) error {
	return fmt.Errorf("%w: %s %s", store.ErrNotFound, entity, id)
}
