package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	collectorerrors "github.com/input-output-hk/catalyst-forge-libs/collector/errors"
)

// mockManagerAPI implements ManagerAPI for testing
type mockManagerAPI struct {
	getSecretValueFunc func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func (m *mockManagerAPI) GetSecretValue(
	ctx context.Context,
	params *secretsmanager.GetSecretValueInput,
	optFns ...func(*secretsmanager.Options),
) (*secretsmanager.GetSecretValueOutput, error) {
	if m.getSecretValueFunc != nil {
		return m.getSecretValueFunc(ctx, params, optFns...)
	}
	return nil, fmt.Errorf("GetSecretValue not implemented")
}

type logEntry struct {
	level      string
	msg        string
	secretName string
	raw        string
}

type testLogHandler struct {
	logs *[]logEntry
}

func (h *testLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *testLogHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := logEntry{
		level: r.Level.String(),
		msg:   r.Message,
	}

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "secret_name" {
			entry.secretName = a.Value.String()
		}
		entry.raw += a.String() + " "
		return true
	})

	*h.logs = append(*h.logs, entry)
	return nil
}

func (h *testLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *testLogHandler) WithGroup(name string) slog.Handler {
	return h
}

func stringPtr(s string) *string {
	return &s
}

func secretOutput(s string) func(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return func(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
		return &secretsmanager.GetSecretValueOutput{Name: params.SecretId, SecretString: stringPtr(s)}, nil
	}
}

func secretError(err error) func(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return func(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
		return nil, err
	}
}

func TestSecretsManager_Retrieve(t *testing.T) {
	tests := []struct {
		name     string
		getFunc  func(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
		validate func(t *testing.T, creds Credentials, err error)
	}{
		{
			name:    "valid document",
			getFunc: secretOutput(`{"access_key_id":"AKIA","secret_access_key":"shh","session_token":"tok"}`),
			validate: func(t *testing.T, creds Credentials, err error) {
				require.NoError(t, err)
				assert.Equal(t, Credentials{AccessKeyID: "AKIA", SecretAccessKey: "shh", SessionToken: "tok"}, creds)
			},
		},
		{
			name: "binary secret",
			getFunc: func(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
				return &secretsmanager.GetSecretValueOutput{
					SecretBinary: []byte(`{"access_key_id":"AKIA","secret_access_key":"shh"}`),
				}, nil
			},
			validate: func(t *testing.T, creds Credentials, err error) {
				require.NoError(t, err)
				assert.Equal(t, "AKIA", creds.AccessKeyID)
			},
		},
		{
			name:    "empty value",
			getFunc: secretOutput(""),
			validate: func(t *testing.T, _ Credentials, err error) {
				assert.ErrorIs(t, err, ErrSecretEmpty)
			},
		},
		{
			name:    "malformed json does not leak",
			getFunc: secretOutput(`{"secret_access_key":"topsecret"`),
			validate: func(t *testing.T, _ Credentials, err error) {
				require.Error(t, err)
				assert.ErrorIs(t, err, collectorerrors.ErrInvalidCredentials)
				assert.NotContains(t, err.Error(), "topsecret")
			},
		},
		{
			name:    "missing secret key",
			getFunc: secretOutput(`{"access_key_id":"AKIA"}`),
			validate: func(t *testing.T, _ Credentials, err error) {
				assert.ErrorIs(t, err, collectorerrors.ErrInvalidCredentials)
			},
		},
		{
			name:    "resource not found",
			getFunc: secretError(&smithy.GenericAPIError{Code: ResourceNotFoundException, Message: "missing"}),
			validate: func(t *testing.T, _ Credentials, err error) {
				assert.ErrorIs(t, err, ErrSecretNotFound)
				assert.ErrorIs(t, err, collectorerrors.ErrInvalidCredentials)
			},
		},
		{
			name:    "access denied",
			getFunc: secretError(&smithy.GenericAPIError{Code: AccessDeniedException, Message: "nope"}),
			validate: func(t *testing.T, _ Credentials, err error) {
				assert.ErrorIs(t, err, ErrAccessDenied)
			},
		},
		{
			name:    "other error is wrapped",
			getFunc: secretError(errors.New("network down")),
			validate: func(t *testing.T, _ Credentials, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "get secret value")
				assert.Contains(t, err.Error(), "network down")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSecretsManagerWithAPI(&mockManagerAPI{getSecretValueFunc: tt.getFunc}, "collector/creds")
			creds, err := src.Retrieve(context.Background())
			tt.validate(t, creds, err)
		})
	}
}

func TestSecretsManager_RequestsConfiguredSecret(t *testing.T) {
	var requested string
	api := &mockManagerAPI{
		getSecretValueFunc: func(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
			requested = *params.SecretId
			return &secretsmanager.GetSecretValueOutput{
				SecretString: stringPtr(`{"access_key_id":"a","secret_access_key":"b"}`),
			}, nil
		},
	}

	_, err := NewSecretsManagerWithAPI(api, "prod/collector").Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "prod/collector", requested)
}

func TestSecretsManager_LogsWithoutSecrets(t *testing.T) {
	var logs []logEntry
	logger := slog.New(&testLogHandler{logs: &logs})

	api := &mockManagerAPI{getSecretValueFunc: secretOutput(`{"access_key_id":"AKIA","secret_access_key":"hunter2"}`)}
	src := NewSecretsManagerWithAPI(api, "collector/creds", WithLogger(logger))

	_, err := src.Retrieve(context.Background())
	require.NoError(t, err)

	require.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, "collector/creds", entry.secretName)
		assert.NotContains(t, entry.raw, "hunter2")
		assert.NotContains(t, entry.msg, "hunter2")
	}
}

func TestNewSecretsManager_EmptyID(t *testing.T) {
	_, err := NewSecretsManager(context.Background(), "")
	assert.Error(t, err)
}

func TestSecretsManagerOptions(t *testing.T) {
	opts := &secretsManagerOptions{}
	for _, opt := range []SecretsManagerOption{
		WithRegion("eu-west-1"),
		WithEndpoint("http://localhost:4566"),
		WithLogger(nil),
	} {
		opt(opts)
	}

	assert.Equal(t, "eu-west-1", opts.region)
	assert.Equal(t, "http://localhost:4566", opts.endpoint)
	assert.Nil(t, opts.logger)
}
