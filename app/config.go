package app

import (
	"sessions-to-notion/api/notionapi"
	"sessions-to-notion/api/sessionsapi"
)

type Config struct {
	Logger struct {
		ServiceName string `split_words:"true" default:"sessions-to-notion"`
		Level       string `default:"info"`
		Development bool   `default:"false"`
	}
	// API keys hold either the key itself or a Secret Manager secret version name.
	Sessions struct {
		APIKey string `split_words:"true"`
	}
	Notion struct {
		APIKey string `split_words:"true"`
	}
	Google struct {
		CredentialsFile string `split_words:"true"`
	}
	SessionsSettings sessionsapi.Config `envconfig:"SESSIONS"`
	NotionSettings   notionapi.Config   `envconfig:"NOTION"`
}
