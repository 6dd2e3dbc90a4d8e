package model

// StorageUnit is a container items can be placed in.
// A nil Capacity means unlimited.
type StorageUnit struct {
	ID             string `json:"id"`
	OrganisationID string `json:"organisation_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Capacity       *int   `json:"capacity"`
	IsReserve      bool   `json:"is_reserve"`
}

// StorageUnitRef identifies a storage unit in conflict reports.
type StorageUnitRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StorageUnitWithItems is a storage unit with its items ordered by number.
type StorageUnitWithItems struct {
	StorageUnit
	Items []ItemView `json:"items"`
}
