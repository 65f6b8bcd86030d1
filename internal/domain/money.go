package domain

import "fmt"

// CopperPerGold is the minor-unit scale of WoW prices: 1g = 100s = 10000c.
const CopperPerGold = 10000

// FormatGold renders a copper amount as a thousand-separated gold string,
// e.g. 12345678 -> "1,234.57g". Zero renders as "Unlimited" because a zero
// budget means no budget at all.
func FormatGold(copper int64) string {
	if copper == 0 {
		return "Unlimited"
	}

	gold := copper / CopperPerGold
	frac := copper % CopperPerGold

	// Insert thousand separators into the gold part.
	s := fmt.Sprintf("%d", gold)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return fmt.Sprintf("%s.%02dg", out, frac/100)
}
