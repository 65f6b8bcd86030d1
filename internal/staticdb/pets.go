package staticdb

import (
	"fmt"
	"sort"
	"strings"
)

// PetSpeciesName returns the display name for a species id, or "" if unknown.
func (db *DB) PetSpeciesName(id int) string {
	return db.PetSpecies[id]
}

// PetQualityName returns the display name for a quality id, or "" if unknown.
func (db *DB) PetQualityName(id int) string {
	return db.PetQualities[id]
}

// PetBreedName returns the display name for a breed id, or "" if unknown.
func (db *DB) PetBreedName(id int) string {
	return db.PetBreeds[id]
}

// PetQualityIDs resolves a quality name (case-insensitive) to its id set.
func (db *DB) PetQualityIDs(name string) ([]int, error) {
	ids := idsByName(db.PetQualities, name)
	if len(ids) == 0 {
		return nil, fmt.Errorf("unknown pet quality %q", name)
	}
	return ids, nil
}

// PetBreedIDs resolves a breed name (case-insensitive) to its id set. Breeds
// come in male/female pairs, so a name usually resolves to two ids.
func (db *DB) PetBreedIDs(name string) ([]int, error) {
	ids := idsByName(db.PetBreeds, name)
	if len(ids) == 0 {
		return nil, fmt.Errorf("unknown pet breed %q", name)
	}
	return ids, nil
}

func idsByName(byID map[int]string, name string) []int {
	var ids []int
	for id, n := range byID {
		if strings.EqualFold(n, name) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
