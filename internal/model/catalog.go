package model

// UniformType is a kind of uniform item, e.g. a jacket.
type UniformType struct {
	ID                string  `json:"id"`
	OrganisationID    string  `json:"organisation_id"`
	Name              string  `json:"name"`
	Acronym           string  `json:"acronym"`
	IssuedDefault     int     `json:"issued_default"`
	UsesGenerations   bool    `json:"uses_generations"`
	UsesSizes         bool    `json:"uses_sizes"`
	DefaultSizeListID *string `json:"default_size_list_id,omitempty"`
	SortOrder         int     `json:"sort_order"`
	ImageMime         string  `json:"image_mime,omitempty"`

	Generations []Generation `json:"generations,omitempty"`
}

// Generation is a model revision of a uniform type.
type Generation struct {
	ID         string  `json:"id"`
	TypeID     string  `json:"type_id"`
	Name       string  `json:"name"`
	Outdated   bool    `json:"outdated"`
	SizeListID *string `json:"size_list_id,omitempty"`
	SortOrder  int     `json:"sort_order"`
}

type Size struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// SizeList is a named set of sizes legal for a type or generation.
type SizeList struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Sizes []Size `json:"sizes"`
}
