// Package staticdb serves the bundled reference databases: item base levels,
// bonus effects, scaling curves, battle-pet metadata and connected-realm
// groups. The data ships embedded so lookups never touch the network.
package staticdb

import (
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
)

//go:embed data/*.json
var dataFS embed.FS

// ItemMeta is the static metadata of one item.
type ItemMeta struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// BonusEffect describes what a bonus id does to an item. Zero values mean
// the bonus carries no effect of that kind.
type BonusEffect struct {
	// CurveID names a scaling curve used with a player level modifier.
	CurveID int `json:"curve"`
	// LevelDelta is a flat item-level adjustment.
	LevelDelta int `json:"level"`
	// Suffix is a display suffix, e.g. "of the Aurora".
	Suffix string `json:"suffix"`
}

// CurvePoint is one sampled point of a scaling curve.
type CurvePoint struct {
	PlayerLevel float64 `json:"playerLevel"`
	ItemLevel   float64 `json:"itemLevel"`
}

// Curve is a sampled player-level -> item-level function.
type Curve struct {
	Points []CurvePoint `json:"points"`
}

// DB holds every bundled database, loaded once at startup.
type DB struct {
	Items        map[int]ItemMeta
	Bonuses      map[int]BonusEffect
	Curves       map[int]Curve
	PetSpecies   map[int]string
	PetQualities map[int]string
	PetBreeds    map[int]string
	// Realms maps region -> connected realm id -> realm slugs.
	Realms map[string]map[int][]string
}

// Load parses all embedded databases.
func Load() (*DB, error) {
	db := &DB{}

	if err := loadInto(&db.Items, "data/items.json"); err != nil {
		return nil, err
	}
	if err := loadInto(&db.Bonuses, "data/bonuses.json"); err != nil {
		return nil, err
	}
	if err := loadInto(&db.Curves, "data/item_curves.json"); err != nil {
		return nil, err
	}
	if err := loadInto(&db.PetSpecies, "data/pet_species.json"); err != nil {
		return nil, err
	}
	if err := loadInto(&db.PetQualities, "data/pet_quality.json"); err != nil {
		return nil, err
	}
	if err := loadInto(&db.PetBreeds, "data/pet_breeds.json"); err != nil {
		return nil, err
	}

	raw, err := dataFS.ReadFile("data/connected_realms.json")
	if err != nil {
		return nil, fmt.Errorf("staticdb.Load: %w", err)
	}
	var regions map[string]map[string][]string
	if err := json.Unmarshal(raw, &regions); err != nil {
		return nil, fmt.Errorf("staticdb.Load: connected_realms.json: %w", err)
	}
	db.Realms = make(map[string]map[int][]string, len(regions))
	for region, groups := range regions {
		converted := make(map[int][]string, len(groups))
		for key, slugs := range groups {
			id, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("staticdb.Load: realm group %q: %w", key, err)
			}
			converted[id] = slugs
		}
		db.Realms[region] = converted
	}

	return db, nil
}

// loadInto reads an embedded JSON object keyed by stringified integer ids
// into an int-keyed map.
func loadInto[V any](dst *map[int]V, path string) error {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("staticdb.Load: %w", err)
	}

	var byKey map[string]V
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return fmt.Errorf("staticdb.Load: %s: %w", path, err)
	}

	*dst = make(map[int]V, len(byKey))
	for key, v := range byKey {
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("staticdb.Load: %s: key %q: %w", path, key, err)
		}
		(*dst)[id] = v
	}
	return nil
}

// Item returns the static metadata for an item id.
func (db *DB) Item(id int) (ItemMeta, bool) {
	m, ok := db.Items[id]
	return m, ok
}

// Bonus returns the effect of a bonus id.
func (db *DB) Bonus(id int) (BonusEffect, bool) {
	b, ok := db.Bonuses[id]
	return b, ok
}

// Curve returns a scaling curve by id.
func (db *DB) Curve(id int) (Curve, bool) {
	c, ok := db.Curves[id]
	return c, ok
}
