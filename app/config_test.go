package app

import (
	"testing"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SESSIONS_API_KEY", "sk")
	t.Setenv("NOTION_API_KEY", "nk")
	t.Setenv("NOTION_DATABASE_ID_CONTACT", "db123")
	t.Setenv("NOTION_ENSURE_SCHEMA", "true")
	t.Setenv("SESSIONS_BOOKING_PAGE_ID", "my-page")
	t.Setenv("LOGGER_LEVEL", "debug")
	var config Config
	require.NoError(t, envconfig.Process("", &config))
	assert.Equal(t, "sk", config.Sessions.APIKey)
	assert.Equal(t, "nk", config.Notion.APIKey)
	assert.Equal(t, "db123", config.NotionSettings.DatabaseIDContact)
	assert.True(t, config.NotionSettings.EnsureSchema)
	assert.Equal(t, "my-page", config.SessionsSettings.BookingPageID)
	assert.Equal(t, "debug", config.Logger.Level)
}

func TestConfigDefaults(t *testing.T) {
	var config Config
	require.NoError(t, envconfig.Process("", &config))
	assert.Equal(t, "https://api.app.sessions.us", config.SessionsSettings.BaseURL)
	assert.Equal(t, "d4056e52-9d59-4fe5-9c87-da65f008879a", config.SessionsSettings.BookingPageID)
	assert.Equal(t, "UTC", config.SessionsSettings.TimeZone)
	assert.Equal(t, "2022-06-28", config.NotionSettings.Version)
	assert.Equal(t, "info", config.Logger.Level)
	assert.Equal(t, "sessions-to-notion", config.Logger.ServiceName)
	assert.False(t, config.Logger.Development)
}

func TestConfigIgnoresUnprefixedKeys(t *testing.T) {
	t.Setenv("API_KEY", "stray")
	t.Setenv("DATABASE_ID_CONTACT", "stray-db")
	var config Config
	require.NoError(t, envconfig.Process("", &config))
	assert.Empty(t, config.Sessions.APIKey)
	assert.Empty(t, config.Notion.APIKey)
	assert.Empty(t, config.NotionSettings.DatabaseIDContact)
}
