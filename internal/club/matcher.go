package club

import (
	"sort"
	"strings"
	"unicode"
)

const (
	minSuggestionScore = 0.3
	maxSuggestions     = 5
)

// Suggestion is a rostered nickname that resembles a query.
type Suggestion struct {
	Player     RosterPlayer
	Confidence float64
}

// NicknameMatcher proposes rostered nicknames for mistyped player names.
type NicknameMatcher struct {
	store ClubStore
}

// NewNicknameMatcher creates a new matcher backed by the club store.
func NewNicknameMatcher(store ClubStore) *NicknameMatcher {
	return &NicknameMatcher{store: store}
}

// Suggest returns up to five rostered players whose nickname resembles query,
// best match first.
func (nm *NicknameMatcher) Suggest(query string) ([]Suggestion, error) {
	players, err := nm.store.AllRosterPlayers()
	if err != nil {
		return nil, err
	}
	return rankSuggestions(query, players), nil
}

func rankSuggestions(query string, players []RosterPlayer) []Suggestion {
	q := normalizeNickname(query)
	if q == "" {
		return nil
	}

	var suggestions []Suggestion
	for _, p := range players {
		score := similarity(q, normalizeNickname(p.Nickname))
		if score > minSuggestionScore {
			suggestions = append(suggestions, Suggestion{Player: p, Confidence: score})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// normalizeNickname lowercases and keeps only letters and digits.
func normalizeNickname(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// similarity is 1 minus the edit distance over the longer length. A prefix
// match scores at least 0.8.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	score := 1.0 - float64(levenshtein(ra, rb))/float64(maxLen)
	if strings.HasPrefix(b, a) && score < 0.8 {
		score = 0.8
	}
	return score
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
