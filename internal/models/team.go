package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Team represents a canonical team identity. Aliases accumulate over time as
// new feed spellings are observed; teams are never deleted.
type Team struct {
	ID         uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	Name       string    `db:"name" json:"name" validate:"required,min=1,max=255"`
	Sport      Sport     `db:"sport" json:"sport" validate:"required"`
	Conference string    `db:"conference" json:"conference"`
	Aliases    []string  `db:"aliases" json:"aliases"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// HasAlias reports whether the team already knows the given spelling,
// case-insensitively.
func (t *Team) HasAlias(name string) bool {
	if strings.EqualFold(t.Name, name) {
		return true
	}
	for _, alias := range t.Aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// AddAlias records a new feed spelling. Duplicates are ignored.
func (t *Team) AddAlias(name string) {
	if name == "" || t.HasAlias(name) {
		return
	}
	t.Aliases = append(t.Aliases, name)
}

// ResolutionMiss records a raw feed name that could not be mapped to a
// canonical team, for later alias-table curation.
type ResolutionMiss struct {
	RawName      string    `db:"raw_name" json:"raw_name" validate:"required"`
	StrippedName string    `db:"stripped_name" json:"stripped_name"`
	Source       string    `db:"source" json:"source"`
	Count        int       `db:"count" json:"count"`
	LastSeen     time.Time `db:"last_seen" json:"last_seen"`
}
