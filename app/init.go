package app

import (
	"context"
	"fmt"
	"net/http"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"github.com/blendle/zapdriver"
	"github.com/googleapis/gax-go/v2"
	"github.com/jomei/notionapi"
	"go.einride.tech/aip/resourcename"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/api/option"
	secretmanagerpb "google.golang.org/genproto/googleapis/cloud/secretmanager/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"sessions-to-notion/api/sessionsapi"
)

const secretVersionPattern = "projects/{project}/secrets/{secret}/versions/{version}"

// SecretAccessor is the part of the Secret Manager client used to read keys.
type SecretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// Secrets resolves configured keys. Values naming a secret version are read
// from Secret Manager, anything else is used as is.
type Secrets struct {
	Logger *zap.Logger
	// Dial opens the Secret Manager client on first use.
	Dial   func(ctx context.Context) (SecretAccessor, func() error, error)
	client SecretAccessor
	close  func() error
}

func (s *Secrets) Resolve(ctx context.Context, value string) (string, error) {
	var project, secret, version string
	if err := resourcename.Sscan(value, secretVersionPattern, &project, &secret, &version); err != nil {
		return value, nil
	}
	if s.client == nil {
		client, closeFn, err := s.Dial(ctx)
		if err != nil {
			return "", err
		}
		s.client, s.close = client, closeFn
	}
	s.Logger.Info("accessing secret", zap.String("project", project), zap.String("secret", secret), zap.String("version", version))
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: value})
	switch status.Code(err) {
	case codes.OK:
		return string(resp.Payload.Data), nil
	case codes.NotFound:
		return "", fmt.Errorf("secret %s not found: %w", value, err)
	default:
		return "", fmt.Errorf("access secret %s: %w", value, err)
	}
}

func (s *Secrets) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func InitSecrets(
	config *Config,
	logger *zap.Logger,
) (*Secrets, func()) {
	s := &Secrets{
		Logger: logger,
		Dial: func(ctx context.Context) (SecretAccessor, func() error, error) {
			return dialSecretManager(ctx, config, logger)
		},
	}
	cleanup := func() {
		if err := s.Close(); err != nil {
			logger.Error("close Secret Manager client", zap.Error(err))
		}
	}
	return s, cleanup
}

func dialSecretManager(
	ctx context.Context,
	config *Config,
	logger *zap.Logger,
) (SecretAccessor, func() error, error) {
	logger.Info("init Secret Manager client")
	var opts []option.ClientOption
	if config.Google.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.Google.CredentialsFile))
	}
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("init Secret Manager client: %w", err)
	}
	closeFn := func() error {
		logger.Info("closing Secret Manager client")
		return client.Close()
	}
	return client, closeFn, nil
}

func InitNotion(
	ctx context.Context,
	config *Config,
	secrets *Secrets,
	logger *zap.Logger,
) (*notionapi.Client, error) {
	logger.Info("init Notion client")
	key, err := secrets.Resolve(ctx, config.Notion.APIKey)
	if err != nil {
		return nil, fmt.Errorf("fetch api key: %w", err)
	}
	var opts []notionapi.ClientOption
	if config.NotionSettings.Version != "" {
		opts = append(opts, notionapi.WithVersion(config.NotionSettings.Version))
	}
	return notionapi.NewClient(notionapi.Token(key), opts...), nil
}

func InitSessions(
	ctx context.Context,
	config *Config,
	secrets *Secrets,
	logger *zap.Logger,
) (*sessionsapi.Client, error) {
	logger.Info("init Sessions client")
	key, err := secrets.Resolve(ctx, config.Sessions.APIKey)
	if err != nil {
		return nil, fmt.Errorf("fetch api key: %w", err)
	}
	return &sessionsapi.Client{
		Config:     config.SessionsSettings,
		APIKey:     key,
		HTTPClient: http.DefaultClient,
		Logger:     logger.Named("sessions"),
	}, nil
}

func InitLogger(
	config *Config,
) (_ *zap.Logger, _ func(), err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("init logger: %w", err)
		}
	}()
	var zapConfig zap.Config
	var zapOptions []zap.Option
	if config.Logger.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.LowercaseColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig = zapdriver.NewProductionEncoderConfig()
		zapOptions = append(
			zapOptions,
			zapdriver.WrapCore(
				zapdriver.ServiceName(config.Logger.ServiceName),
				zapdriver.ReportAllErrors(true),
			),
		)
	}
	if err := zapConfig.Level.UnmarshalText([]byte(config.Logger.Level)); err != nil {
		return nil, nil, err
	}
	logger, err := zapConfig.Build(zapOptions...)
	if err != nil {
		return nil, nil, err
	}
	logger = logger.WithOptions(zap.AddStacktrace(zap.ErrorLevel)).With(
		zap.String("booking_page_id", config.SessionsSettings.BookingPageID),
		zap.String("database_id", config.NotionSettings.DatabaseIDContact),
	)
	logger.Info("logger initialized", zap.String("level", zapConfig.Level.String()))
	cleanup := func() {
		logger.Info("closing logger, goodbye")
		_ = logger.Sync()
	}
	return logger, cleanup, nil
}
