package deals

import (
	"math"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
)

// scalingModifierType marks the auction modifier whose value is the player
// level that scaling curves are sampled at.
const scalingModifierType = 9

// ResolveLevel computes the effective item level and suffix of an auction and
// caches the result on the auction, so repeated passes (filtering, then
// notification formatting) pay for curve interpolation once.
func ResolveLevel(db *staticdb.DB, a *domain.Auction) (int, string) {
	if a.LevelResolved {
		return a.ItemLevel, a.ItemSuffix
	}

	level, suffix := resolveLevel(db, a)
	a.LevelResolved = true
	a.ItemLevel = level
	a.ItemSuffix = suffix
	return level, suffix
}

// resolveLevel walks the auction's scaling modifiers and bonus ids. Unknown
// item, bonus or curve ids contribute nothing; they never fail the resolution.
func resolveLevel(db *staticdb.DB, a *domain.Auction) (int, string) {
	level := 0
	if meta, ok := db.Item(a.Item.ID); ok {
		level = meta.Level
	}

	// Scaling pass: every type-9 modifier supplies a player level, every bonus
	// id with a curve maps it to a candidate item level. The last positive
	// candidate wins.
	for _, m := range a.Item.Modifiers {
		if m.Type != scalingModifierType || len(a.Item.BonusLists) == 0 {
			continue
		}
		playerLevel := float64(m.Value)

		for _, bonusID := range a.Item.BonusLists {
			bonus, ok := db.Bonus(bonusID)
			if !ok || bonus.CurveID == 0 {
				continue
			}
			curve, ok := db.Curve(bonus.CurveID)
			if !ok {
				continue
			}
			if lvl := interpolate(curve.Points, playerLevel); lvl > 0 {
				level = lvl
			}
		}
	}

	// Flat pass: level deltas are summed across bonus ids, and the last
	// suffix-carrying bonus names the item.
	delta := 0
	suffix := ""
	for _, bonusID := range a.Item.BonusLists {
		bonus, ok := db.Bonus(bonusID)
		if !ok {
			continue
		}
		delta += bonus.LevelDelta
		if bonus.Suffix != "" {
			suffix = bonus.Suffix
		}
	}
	if delta != 0 {
		level += delta
	}

	return level, suffix
}

// interpolate evaluates a sampled curve at x with piecewise-linear
// interpolation, saturating at the boundary points outside the sampled domain.
func interpolate(points []staticdb.CurvePoint, x float64) int {
	if len(points) == 0 {
		return 0
	}
	if x <= points[0].PlayerLevel {
		return int(math.Round(points[0].ItemLevel))
	}
	last := points[len(points)-1]
	if x >= last.PlayerLevel {
		return int(math.Round(last.ItemLevel))
	}

	for i := 1; i < len(points); i++ {
		lo, hi := points[i-1], points[i]
		if x > hi.PlayerLevel {
			continue
		}
		span := hi.PlayerLevel - lo.PlayerLevel
		if span == 0 {
			return int(math.Round(hi.ItemLevel))
		}
		t := (x - lo.PlayerLevel) / span
		return int(math.Round(lo.ItemLevel + t*(hi.ItemLevel-lo.ItemLevel)))
	}
	return int(math.Round(last.ItemLevel))
}
