package model

import "time"

// EntityType identifies which catalog collection an entry belongs to
type EntityType string

const (
	EntitySite      EntityType = "site"
	EntityTradition EntityType = "tradition"
	EntitySymbol    EntityType = "symbol"
	EntityGuide     EntityType = "guide"
)

// ValidEntityTypes is the closed set of catalog collections.
var ValidEntityTypes = []EntityType{EntitySite, EntityTradition, EntitySymbol, EntityGuide}

// IsValid returns true if the entity type is recognized
func (t EntityType) IsValid() bool {
	for _, v := range ValidEntityTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Collection returns the document collection name backing the entity type
func (t EntityType) Collection() string {
	switch t {
	case EntitySite:
		return "sites"
	case EntityTradition:
		return "traditions"
	case EntitySymbol:
		return "stateSymbols"
	case EntityGuide:
		return "guides"
	default:
		return ""
	}
}

// Entity represents a catalogued content record. Entries are immutable after
// creation: there is no update operation, only create and delete.
type Entity struct {
	ID          string     `json:"id"`
	Type        EntityType `json:"type"`
	Name        string     `json:"name"`
	State       string     `json:"state,omitempty"`    // Indian state/region the entry belongs to
	Category    string     `json:"category,omitempty"` // fort, temple, dance, festival, ...
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Contact     string     `json:"contact,omitempty"` // Guides only
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"` // Server-assigned
}

// Constraints
const (
	MaxEntityNameLength = 200
	MaxEntityDescLength = 5000
)

// CreateEntityRequest represents a request to add a catalog entry
type CreateEntityRequest struct {
	Name        string `json:"name"`
	State       string `json:"state,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Contact     string `json:"contact,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateEntityRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxEntityNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 200 characters or less"})
	}
	if len(r.Description) > MaxEntityDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 5000 characters or less"})
	}

	return errors
}
