package club_test

import (
	"encoding/json"
	"testing"

	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributionDecodesObjectForm(t *testing.T) {
	var fund club.PrizeFund
	err := json.Unmarshal([]byte(`{"currency":"$","total":"10000","distribution":{"2nd":3000,"1st":"6000"}}`), &fund)
	require.NoError(t, err)

	assert.Equal(t, club.Distribution{{Place: "1st", Amount: "6000"}, {Place: "2nd", Amount: "3000"}}, fund.Distribution)
}

func TestDistributionDecodesListForm(t *testing.T) {
	var d club.Distribution
	err := json.Unmarshal([]byte(`[{"place":"1st","amount":500},{"amount":1},{"place":"1st","amount":200},{"place":"3rd"}]`), &d)
	require.NoError(t, err)

	require.Len(t, d, 3)
	amount, ok := d.Amount("1st")
	assert.True(t, ok)
	assert.Equal(t, "500", amount)

	amount, ok = d.Amount("3rd")
	assert.True(t, ok)
	assert.Empty(t, amount)

	_, ok = d.Amount("4th")
	assert.False(t, ok)
}

func TestDistributionNullAndInvalid(t *testing.T) {
	var d club.Distribution
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.Nil(t, d)

	assert.Error(t, json.Unmarshal([]byte(`"1st"`), &d))
}
