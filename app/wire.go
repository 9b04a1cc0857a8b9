//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"
	"sessions-to-notion/api/notionapi"
	"sessions-to-notion/api/sessionsapi"
)

func InitApp(ctx context.Context, logger *zap.Logger, config *Config) (*App, func(), error) {
	panic(
		wire.Build(
			wire.Struct(new(App), "*"),
			InitSecrets,
			InitNotion,
			InitSessions,
			wire.Struct(new(notionapi.Client), "*"), wire.FieldsOf(&config, "NotionSettings", "SessionsSettings"),
			wire.Bind(new(ContactStore), new(*notionapi.Client)),
			wire.Bind(new(BookingSource), new(*sessionsapi.Client)),
		),
	)
}
