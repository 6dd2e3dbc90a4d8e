package model

// IssuanceRecord records that an item was handed to a cadet. A record
// with no DateReturned is open.
type IssuanceRecord struct {
	ID           string `json:"id"`
	ItemID       string `json:"item_id"`
	CadetID      string `json:"cadet_id"`
	DateIssued   Date   `json:"date_issued"`
	DateReturned *Date  `json:"date_returned,omitempty"`
}

// Open reports whether the item has not been returned yet.
func (r IssuanceRecord) Open() bool {
	return r.DateReturned == nil
}

// HolderKit maps uniform type IDs to the items a cadet currently holds.
type HolderKit map[string][]ItemView

// Deficiency is a reported defect of an item.
type Deficiency struct {
	ID           string `json:"id"`
	ItemID       string `json:"item_id"`
	Description  string `json:"description"`
	DateCreated  Date   `json:"date_created"`
	DateResolved *Date  `json:"date_resolved,omitempty"`
}
