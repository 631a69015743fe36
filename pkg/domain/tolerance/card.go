package tolerance

import "strings"

// Card is the display form of a single tolerance entry.
type Card struct {
	Key   string
	Title string
	Label string
}

// Cards returns one card per tolerance, ordered by key.
func Cards(p Profile) []Card {
	keys := p.Keys()
	cards := make([]Card, 0, len(keys))
	for _, k := range keys {
		cards = append(cards, Card{
			Key:   k,
			Title: Title(k),
			Label: p.Tolerances[k].Label(),
		})
	}
	return cards
}

// Title turns a tolerance key into a card title. Only the first underscore is
// replaced, so "Coil_dT" reads "Coil dT".
func Title(key string) string {
	return strings.Replace(key, "_", " ", 1)
}
