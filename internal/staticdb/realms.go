package staticdb

import (
	"fmt"
	"sort"
	"strings"
)

// Slug converts a realm display name to its slug form: lowercase, spaces
// become hyphens, apostrophes are dropped ("Emerald Dream" -> "emerald-dream").
func Slug(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "'", "")
	return s
}

// Unslug does a best-effort reverse of Slug (apostrophes cannot come back).
func Unslug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ConnectedRealmIDs returns every connected realm id in a region, sorted.
func (db *DB) ConnectedRealmIDs(region string) []int {
	groups := db.Realms[strings.ToUpper(region)]
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ConnectedRealmID finds the connected realm group a realm slug belongs to.
func (db *DB) ConnectedRealmID(region, slug string) (int, error) {
	groups := db.Realms[strings.ToUpper(region)]
	for id, slugs := range groups {
		for _, s := range slugs {
			if s == slug {
				return id, nil
			}
		}
	}
	return 0, fmt.Errorf("realm %q was not found in region %s", slug, region)
}

// RealmNames returns the display names of every realm in a connected group,
// sorted alphabetically.
func (db *DB) RealmNames(region string, realmID int) []string {
	slugs := db.Realms[strings.ToUpper(region)][realmID]
	names := make([]string, 0, len(slugs))
	for _, s := range slugs {
		names = append(names, Unslug(s))
	}
	sort.Strings(names)
	return names
}
