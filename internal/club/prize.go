package club

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// PlaceAmount is the prize for one place label.
type PlaceAmount struct {
	Place  string `json:"place"`
	Amount string `json:"amount"`
}

// Distribution is a prize distribution normalized to an ordered list. It
// decodes from either a {"1st": 4000} object or a [{"place":..,"amount":..}]
// list and always encodes as the list form.
type Distribution []PlaceAmount

// Amount returns the prize for place. With duplicate places the first entry wins.
func (d Distribution) Amount(place string) (string, bool) {
	for _, pa := range d {
		if pa.Place == place {
			return pa.Amount, true
		}
	}
	return "", false
}

func (d *Distribution) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*d = nil
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '{':
		var byPlace map[string]json.RawMessage
		if err := json.Unmarshal(data, &byPlace); err != nil {
			return err
		}
		places := make([]string, 0, len(byPlace))
		for place := range byPlace {
			places = append(places, place)
		}
		sort.Strings(places)
		for _, place := range places {
			*d = append(*d, PlaceAmount{Place: place, Amount: scalarText(byPlace[place])})
		}
	case '[':
		var entries []map[string]json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return err
		}
		for _, e := range entries {
			place := scalarText(e["place"])
			if place == "" {
				continue
			}
			*d = append(*d, PlaceAmount{Place: place, Amount: scalarText(e["amount"])})
		}
	default:
		return fmt.Errorf("prize distribution: unsupported JSON %q", string(data))
	}
	return nil
}

// scalarText renders a JSON string or number as plain text; null is "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// decodeWinners accepts team ids stored either as numbers or numeric strings.
func decodeWinners(text string) (map[string]int64, error) {
	winners := map[string]int64{}
	if text == "" {
		return winners, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}
	for place, v := range raw {
		id, err := strconv.ParseInt(scalarText(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("winner for %q: %w", place, err)
		}
		winners[place] = id
	}
	return winners, nil
}
