package model

// Cadet is a person who can hold uniform items.
type Cadet struct {
	ID             string `json:"id"`
	OrganisationID string `json:"organisation_id"`
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	Active         bool   `json:"active"`
	Comment        string `json:"comment"`
}

// FullName returns "Firstname Lastname".
func (c Cadet) FullName() string {
	return c.Firstname + " " + c.Lastname
}

// CadetRef identifies the holder of an item in conflict reports.
type CadetRef struct {
	ID        string `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}
