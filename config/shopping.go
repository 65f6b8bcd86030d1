package config

import (
	"fmt"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
	"gopkg.in/yaml.v3"
)

// ListConfig is one shopping list as written in YAML: items keyed by item id,
// pets keyed by species id.
type ListConfig struct {
	Items map[int]ItemConfig `yaml:"items"`
	Pets  map[int]PetConfig  `yaml:"pets"`
}

// ItemConfig is one wanted item. Budget is in gold; 0 means unlimited.
type ItemConfig struct {
	Nickname string      `yaml:"nickname"`
	Budget   float64     `yaml:"budget"`
	Level    LevelFilter `yaml:"level"`
}

// PetConfig is one wanted battle pet. Quality and breed take display names
// ("Rare", "P/P"); level 0 accepts any level.
type PetConfig struct {
	Nickname string   `yaml:"nickname"`
	Budget   float64  `yaml:"budget"`
	Level    int      `yaml:"level"`
	Quality  NameList `yaml:"quality"`
	Breed    NameList `yaml:"breed"`
}

// LevelFilter accepts a scalar or a list in YAML: `level: 262` and
// `level: [252, 262]` both work.
type LevelFilter []int

func (f *LevelFilter) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var single int
		if err := value.Decode(&single); err != nil {
			return err
		}
		*f = LevelFilter{single}
		return nil
	}
	var many []int
	if err := value.Decode(&many); err != nil {
		return err
	}
	*f = LevelFilter(many)
	return nil
}

// NameList accepts a scalar or a list of strings in YAML.
type NameList []string

func (n *NameList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*n = NameList{single}
		return nil
	}
	var many []string
	if err := value.Decode(&many); err != nil {
		return err
	}
	*n = NameList(many)
	return nil
}

func (l ListConfig) empty() bool {
	return len(l.Items) == 0 && len(l.Pets) == 0
}

func (l ListConfig) validate(scope string) error {
	for id, item := range l.Items {
		if id == domain.PetCageID {
			return fmt.Errorf("%s: item %d is the pet cage; configure the pet under pets instead", scope, id)
		}
		if item.Budget < 0 {
			return fmt.Errorf("%s: item %d: budget must not be negative", scope, id)
		}
	}
	for id, pet := range l.Pets {
		if pet.Budget < 0 {
			return fmt.Errorf("%s: pet %d: budget must not be negative", scope, id)
		}
		if pet.Level < 0 || pet.Level > 25 {
			return fmt.Errorf("%s: pet %d: level must be 1-25 (or 0 for any)", scope, id)
		}
	}
	return nil
}

// ShoppingLists resolves the YAML lists into per-connected-realm shopping
// lists. Global wants apply everywhere; a realm's own entry for the same id
// wins over the global one.
func (c *Config) ShoppingLists(db *staticdb.DB) (map[int]domain.ShoppingList, error) {
	out := make(map[int]domain.ShoppingList)

	apply := func(realmID int, list ListConfig) error {
		target, ok := out[realmID]
		if !ok {
			target = domain.ShoppingList{
				Items: make(map[int]domain.ItemWant),
				Pets:  make(map[int]domain.PetWant),
			}
			out[realmID] = target
		}

		for id, item := range list.Items {
			target.Items[id] = domain.ItemWant{
				ID:       id,
				Nickname: item.Nickname,
				Budget:   goldToCopper(item.Budget),
				Levels:   []int(item.Level),
			}
		}
		for id, pet := range list.Pets {
			want := domain.PetWant{
				SpeciesID: id,
				Nickname:  pet.Nickname,
				Budget:    goldToCopper(pet.Budget),
				Level:     pet.Level,
			}
			for _, name := range pet.Quality {
				ids, err := db.PetQualityIDs(name)
				if err != nil {
					return fmt.Errorf("pet %d: %w", id, err)
				}
				want.Qualities = append(want.Qualities, ids...)
			}
			for _, name := range pet.Breed {
				ids, err := db.PetBreedIDs(name)
				if err != nil {
					return fmt.Errorf("pet %d: %w", id, err)
				}
				want.Breeds = append(want.Breeds, ids...)
			}
			target.Pets[id] = want
		}
		return nil
	}

	if !c.Global.empty() {
		for _, realmID := range db.ConnectedRealmIDs(c.Region) {
			if err := apply(realmID, c.Global); err != nil {
				return nil, err
			}
		}
	}

	for slug, list := range c.Realms {
		realmID, err := db.ConnectedRealmID(c.Region, slug)
		if err != nil {
			return nil, err
		}
		if err := apply(realmID, list); err != nil {
			return nil, fmt.Errorf("realm %s: %w", slug, err)
		}
	}

	return out, nil
}

// goldToCopper converts a user-facing gold amount to copper.
func goldToCopper(gold float64) int64 {
	return int64(gold * domain.CopperPerGold)
}
