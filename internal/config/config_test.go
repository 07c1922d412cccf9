package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_NAME", "ledger.db")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_CHANNEL_ID", "C123")
	t.Setenv("SLACK_SIGNING_SECRET", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("GCP_PROJECT", "test-project")
	t.Setenv("TURSO_PRIMARY_URL", "")
	t.Setenv("ADMIN_SLACK_IDS", "U1, U2,,")

	cfg := Load()

	assert.Equal(t, "ledger.db", cfg.DBName)
	assert.Equal(t, "C123", cfg.Slack.ChannelID)
	assert.Empty(t, cfg.Turso.PrimaryURL)
	assert.Equal(t, []string{"U1", "U2"}, cfg.AdminIDs)
	assert.True(t, cfg.IsAdmin("U2"))
	assert.False(t, cfg.IsAdmin("U3"))
}

func TestParseList(t *testing.T) {
	assert.Nil(t, ParseList(""))
	assert.Equal(t, []string{"a"}, ParseList(" a "))
}
