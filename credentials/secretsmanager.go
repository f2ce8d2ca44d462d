package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	collectorerrors "github.com/input-output-hk/catalyst-forge-libs/collector/errors"
)

// AWS error code constants
const (
	ResourceNotFoundException = "ResourceNotFoundException"
	AccessDeniedException     = "AccessDeniedException"
)

// ManagerAPI defines the Secrets Manager call used to fetch credentials.
type ManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

var _ ManagerAPI = (*secretsmanager.Client)(nil)

// secretPayload is the JSON document stored in the secret.
type secretPayload struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token,omitempty"`
}

// secretsManagerOptions holds configuration for the Secrets Manager source.
type secretsManagerOptions struct {
	logger   *slog.Logger
	region   string
	endpoint string
}

// SecretsManagerOption is a functional option for NewSecretsManager.
type SecretsManagerOption func(*secretsManagerOptions)

// WithLogger configures the source with a logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) SecretsManagerOption {
	return func(o *secretsManagerOptions) {
		o.logger = logger
	}
}

// WithRegion sets the region Secrets Manager is called in.
func WithRegion(region string) SecretsManagerOption {
	return func(o *secretsManagerOptions) {
		o.region = region
	}
}

// WithEndpoint points the Secrets Manager client at a custom endpoint such as LocalStack.
func WithEndpoint(endpoint string) SecretsManagerOption {
	return func(o *secretsManagerOptions) {
		o.endpoint = endpoint
	}
}

// SecretsManager is a Source reading a JSON credential document from AWS Secrets Manager.
type SecretsManager struct {
	api      ManagerAPI
	secretID string
	logger   *slog.Logger
}

// NewSecretsManager creates a source for secretID using the default AWS
// credential chain to reach Secrets Manager.
func NewSecretsManager(ctx context.Context, secretID string, opts ...SecretsManagerOption) (*SecretsManager, error) {
	if secretID == "" {
		return nil, fmt.Errorf("secret id cannot be empty")
	}

	options := &secretsManagerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var loadOpts []func(*config.LoadOptions) error
	if options.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(options.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var smOpts []func(*secretsmanager.Options)
	if options.endpoint != "" {
		endpoint := options.endpoint
		smOpts = append(smOpts, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	return &SecretsManager{
		api:      secretsmanager.NewFromConfig(cfg, smOpts...),
		secretID: secretID,
		logger:   options.logger,
	}, nil
}

// NewSecretsManagerWithAPI creates a source over a custom ManagerAPI.
// This is primarily used for testing with mocked clients.
func NewSecretsManagerWithAPI(api ManagerAPI, secretID string, opts ...SecretsManagerOption) *SecretsManager {
	options := &secretsManagerOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return &SecretsManager{api: api, secretID: secretID, logger: options.logger}
}

// Retrieve implements Source.
func (s *SecretsManager) Retrieve(ctx context.Context) (Credentials, error) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "retrieving credentials secret", "secret_name", s.secretID)
	}

	output, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretID),
	})
	if err != nil {
		return Credentials{}, s.handleError(ctx, err)
	}

	var raw []byte
	switch {
	case output.SecretString != nil:
		raw = []byte(*output.SecretString)
	case output.SecretBinary != nil:
		raw = output.SecretBinary
	}
	if len(raw) == 0 {
		return Credentials{}, ErrSecretEmpty
	}

	var payload secretPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// The decoder error can quote secret bytes.
		return Credentials{}, fmt.Errorf("%w: secret %q is not a JSON credential document",
			collectorerrors.ErrInvalidCredentials, s.secretID)
	}

	creds := Credentials{
		AccessKeyID:     payload.AccessKeyID,
		SecretAccessKey: payload.SecretAccessKey,
		SessionToken:    payload.SessionToken,
	}
	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "credentials secret retrieved", "secret_name", s.secretID)
	}
	return creds, nil
}

func (s *SecretsManager) handleError(ctx context.Context, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case ResourceNotFoundException:
			return collectorerrors.Mark(ErrSecretNotFound, collectorerrors.ErrInvalidCredentials)
		case AccessDeniedException:
			return collectorerrors.Mark(ErrAccessDenied, collectorerrors.ErrInvalidCredentials)
		}
	}

	if s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to retrieve credentials secret",
			"secret_name", s.secretID,
			"error", err)
	}
	return fmt.Errorf("get secret value: %w", err)
}
