package achievements

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mauv0809/match-ledger/internal/club"
)

// Achievement is one placement a team earned in a tournament.
type Achievement struct {
	Medal      string `json:"medal"`
	Tournament string `json:"tournament"`
	Season     string `json:"season"`
	Place      string `json:"place"`
	Amount     string `json:"amount,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

// String renders the achievement as "🥇 Cup S1 - 1st (4000 RUB)". The prize
// part is left out when there is no amount.
func (a Achievement) String() string {
	line := fmt.Sprintf("%s %s %s - %s", a.Medal, a.Tournament, a.Season, a.Place)
	if a.Amount != "" {
		line += fmt.Sprintf(" (%s %s)", a.Amount, a.Currency)
	}
	return strings.TrimSpace(line)
}

// Derive lists every placement held by teamID across the given tournaments.
// A zero teamID never matches. Tournaments keep their given order and places
// within a tournament are visited alphabetically.
func Derive(tournaments []club.Tournament, teamID int64) []Achievement {
	result := []Achievement{}
	if teamID == 0 {
		return result
	}

	for _, t := range tournaments {
		if len(t.Winners) == 0 {
			continue
		}
		places := make([]string, 0, len(t.Winners))
		for place := range t.Winners {
			places = append(places, place)
		}
		sort.Strings(places)

		for _, place := range places {
			if t.Winners[place] != teamID {
				continue
			}
			a := Achievement{
				Medal:      Medal(place),
				Tournament: t.Name,
				Season:     t.Season,
				Place:      place,
			}
			if amount, ok := t.Prize.Distribution.Amount(place); ok && !isZero(amount) && t.Prize.Currency != "" {
				a.Amount = amount
				a.Currency = t.Prize.Currency
			}
			result = append(result, a)
		}
	}
	return result
}

// Medal picks the medal for a place label by the first of "1", "2" or "3"
// it contains.
func Medal(place string) string {
	switch {
	case strings.Contains(place, "1"):
		return "🥇"
	case strings.Contains(place, "2"):
		return "🥈"
	case strings.Contains(place, "3"):
		return "🥉"
	default:
		return "🏆"
	}
}

func isZero(amount string) bool {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return true
	}
	v, err := strconv.ParseFloat(amount, 64)
	return err == nil && v == 0
}
