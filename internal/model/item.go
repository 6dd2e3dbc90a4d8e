package model

import "fmt"

// Item is a single physical uniform piece identified by its number
// within a type.
type Item struct {
	ID            string  `json:"id"`
	TypeID        string  `json:"type_id"`
	Number        int     `json:"number"`
	GenerationID  *string `json:"generation_id,omitempty"`
	SizeID        *string `json:"size_id,omitempty"`
	Comment       string  `json:"comment"`
	Active        bool    `json:"active"`
	IsReserve     bool    `json:"is_reserve"`
	StorageUnitID *string `json:"storage_unit_id,omitempty"`
}

// ItemView is an item with its catalog names resolved.
type ItemView struct {
	Item
	TypeName       string `json:"type_name"`
	GenerationName string `json:"generation_name,omitempty"`
	SizeName       string `json:"size_name,omitempty"`
}

// Custody is where an item currently is. Exactly one of Unassigned,
// IssuedTo or Stored.
type Custody interface {
	custodyState() string
}

// Unassigned means nobody holds the item.
type Unassigned struct{}

// IssuedTo means the item is held by a cadet through an open issuance record.
type IssuedTo struct {
	CadetID  string
	RecordID string
	Since    Date
}

// Stored means the item sits in a storage unit.
type Stored struct {
	StorageUnitID string
}

func (Unassigned) custodyState() string { return "unassigned" }
func (IssuedTo) custodyState() string   { return "issued" }
func (Stored) custodyState() string     { return "stored" }

// CustodyState names the variant of c for display.
func CustodyState(c Custody) string {
	return c.custodyState()
}

// CustodyOf derives the custody of an item from its storage reference and
// its open issuance record, if any. An item that is both stored and issued
// violates mutual exclusion and yields an error.
func CustodyOf(item Item, open *IssuanceRecord) (Custody, error) {
	switch {
	case item.StorageUnitID != nil && open != nil:
		return nil, fmt.Errorf("item %s is both issued and stored", item.ID)
	case open != nil:
		return IssuedTo{CadetID: open.CadetID, RecordID: open.ID, Since: open.DateIssued}, nil
	case item.StorageUnitID != nil:
		return Stored{StorageUnitID: *item.StorageUnitID}, nil
	default:
		return Unassigned{}, nil
	}
}

// ItemDetail is an item with its custody resolved.
type ItemDetail struct {
	ItemView
	Custody     string          `json:"custody"`
	Holder      *CadetRef       `json:"holder,omitempty"`
	StorageUnit *StorageUnitRef `json:"storage_unit,omitempty"`
}
