package achievements_test

import (
	"testing"

	"github.com/mauv0809/match-ledger/internal/achievements"
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tournaments() []club.Tournament {
	return []club.Tournament{
		{
			Name: "GTC", Season: "SEASON 1",
			Prize: club.PrizeFund{
				Currency:     "RUB",
				Distribution: club.Distribution{{Place: "1st", Amount: "4000"}, {Place: "2nd", Amount: "0"}},
			},
			Winners: map[string]int64{"2nd": 7, "1st": 7, "3rd": 9},
		},
		{
			Name: "Open", Season: "S2",
			Winners: map[string]int64{},
		},
		{
			Name: "Night Cup", Season: "S3",
			Prize:   club.PrizeFund{Distribution: club.Distribution{{Place: "MVP", Amount: "100"}}},
			Winners: map[string]int64{"MVP": 7},
		},
	}
}

func TestDerive(t *testing.T) {
	got := achievements.Derive(tournaments(), 7)
	require.Len(t, got, 3)

	assert.Equal(t, "🥇 GTC SEASON 1 - 1st (4000 RUB)", got[0].String())
	assert.Equal(t, "🥈 GTC SEASON 1 - 2nd", got[1].String())
	assert.Equal(t, "🏆 Night Cup S3 - MVP", got[2].String())
	assert.Empty(t, got[2].Amount, "no currency means no amount")
}

func TestDeriveOtherTeam(t *testing.T) {
	got := achievements.Derive(tournaments(), 9)
	require.Len(t, got, 1)
	assert.Equal(t, "🥉", got[0].Medal)
	assert.Equal(t, "3rd", got[0].Place)
}

func TestDeriveNoTeam(t *testing.T) {
	assert.Empty(t, achievements.Derive(tournaments(), 0))
	assert.Empty(t, achievements.Derive(nil, 7))
}

func TestMedal(t *testing.T) {
	tests := map[string]string{
		"1st":    "🥇",
		"2nd":    "🥈",
		"3rd":    "🥉",
		"4th":    "🏆",
		"12th":   "🥇",
		"Finals": "🏆",
	}
	for place, want := range tests {
		t.Run(place, func(t *testing.T) {
			assert.Equal(t, want, achievements.Medal(place))
		})
	}
}
