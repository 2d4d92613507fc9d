package importer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
)

// NameLookup resolves free-text spreadsheet names to canonical rows. The key
// comparison is case-insensitive and collapses interior whitespace, so
// "chemicals " and "Chemicals" resolve to the same row.
type NameLookup struct {
	byKey map[string]entry
}

type entry struct {
	id   uuid.UUID
	name string
}

func lookupKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func newNameLookup(size int) *NameLookup {
	return &NameLookup{byKey: make(map[string]entry, size)}
}

func (l *NameLookup) add(id uuid.UUID, name string) {
	key := lookupKey(name)
	if key == "" {
		return
	}
	if _, exists := l.byKey[key]; exists {
		return
	}
	l.byKey[key] = entry{id: id, name: name}
}

// Resolve returns the canonical id and name for the given free-text value.
func (l *NameLookup) Resolve(raw string) (uuid.UUID, string, bool) {
	e, ok := l.byKey[lookupKey(raw)]
	if !ok {
		return uuid.Nil, "", false
	}
	return e.id, e.name, true
}

// CategoryLookup builds a lookup over the current category table.
func CategoryLookup(categories []models.Category) *NameLookup {
	l := newNameLookup(len(categories))
	for _, c := range categories {
		l.add(c.ID, c.Name)
	}
	return l
}

// LocationLookup builds a lookup over the current location table.
func LocationLookup(locations []models.Location) *NameLookup {
	l := newNameLookup(len(locations))
	for _, loc := range locations {
		l.add(loc.ID, loc.Name)
	}
	return l
}
