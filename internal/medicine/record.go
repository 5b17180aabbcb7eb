// Package medicine holds the canonical medicine record and the parsing
// rules applied to every model response that claims to contain one.
package medicine

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrNotFoundSentinel is returned when a provider answers {"error": true}
	ErrNotFoundSentinel = errors.New("provider reported medicine not found")
	// ErrInvalidRecord wraps validation failures of a decoded record
	ErrInvalidRecord = errors.New("invalid medicine record")
)

// Alternatives lists the generic composition and similar brands
type Alternatives struct {
	Generic string   `json:"generic" bson:"generic"`
	Similar []string `json:"similar" bson:"similar"`
}

// Record is the structured medicine information shown to the user.
// Cached is set only by the lookup service on a cache hit and is never persisted.
type Record struct {
	Name         string       `json:"name" bson:"name"`
	Category     string       `json:"category,omitempty" bson:"category,omitempty"`
	Manufacturer string       `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
	Description  string       `json:"description,omitempty" bson:"description,omitempty"`
	Uses         []string     `json:"uses" bson:"uses"`
	SideEffects  []string     `json:"sideEffects" bson:"sideEffects"`
	Warnings     []string     `json:"warnings" bson:"warnings"`
	Dosage       string       `json:"dosage" bson:"dosage"`
	Alternatives Alternatives `json:"alternatives" bson:"alternatives"`
	Substitutes  []string     `json:"substitutes" bson:"substitutes"`
	Cached       bool         `json:"_cached,omitempty" bson:"-"`
}

// Validate enforces the minimum shape a provider answer must have:
// a non-empty name plus present uses and warnings lists.
func (r Record) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Uses, validation.NotNil),
		validation.Field(&r.Warnings, validation.NotNil),
	)
	if err != nil {
		return errors.Join(ErrInvalidRecord, err)
	}
	return nil
}

// Clone returns a deep copy so callers can tag or rename without aliasing
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Uses = cloneStrings(r.Uses)
	c.SideEffects = cloneStrings(r.SideEffects)
	c.Warnings = cloneStrings(r.Warnings)
	c.Substitutes = cloneStrings(r.Substitutes)
	c.Alternatives.Similar = cloneStrings(r.Alternatives.Similar)
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
