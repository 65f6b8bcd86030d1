package domain

// ShoppingList holds one realm's matching criteria, keyed by item id and pet
// species id. It is read-only during a scheduling cycle and copied into the
// fetch worker, so it carries no synchronization.
type ShoppingList struct {
	Items map[int]ItemWant
	Pets  map[int]PetWant
}

// ItemWant is the per-item criteria of a shopping list.
type ItemWant struct {
	ID       int
	Nickname string
	// Budget is the maximum acceptable price in copper. 0 means unlimited.
	Budget int64
	// Levels restricts matches to these resolved item levels. Empty = any.
	Levels []int
}

// PetWant is the per-species criteria of a shopping list.
type PetWant struct {
	SpeciesID int
	Nickname  string
	Budget    int64
	// Level restricts matches to an exact pet level. 0 = any.
	Level int
	// Qualities and Breeds restrict matches to these ids. Empty = any.
	Qualities []int
	Breeds    []int
}

// Empty reports whether the list has nothing to shop for.
func (l ShoppingList) Empty() bool {
	return len(l.Items) == 0 && len(l.Pets) == 0
}

// WantsLevel reports whether the item entry carries an item-level filter.
func (w ItemWant) WantsLevel() bool {
	return len(w.Levels) > 0
}

// MatchesLevel reports whether lvl satisfies the item-level filter.
func (w ItemWant) MatchesLevel(lvl int) bool {
	for _, want := range w.Levels {
		if want == lvl {
			return true
		}
	}
	return false
}
