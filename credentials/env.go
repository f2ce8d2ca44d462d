package credentials

import (
	"context"
	"os"
)

// Environment variable names read by Env.
const (
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvSessionToken    = "AWS_SESSION_TOKEN"
)

// Env is a Source reading the standard AWS environment variables.
type Env struct {
	lookup func(string) (string, bool)
}

// NewEnv creates an Env source over the process environment.
func NewEnv() *Env {
	return &Env{lookup: os.LookupEnv}
}

// NewEnvWithLookup creates an Env source over a custom lookup function.
func NewEnvWithLookup(lookup func(string) (string, bool)) *Env {
	return &Env{lookup: lookup}
}

// Retrieve implements Source.
func (e *Env) Retrieve(context.Context) (Credentials, error) {
	get := func(key string) string {
		v, _ := e.lookup(key)
		return v
	}

	creds := Credentials{
		AccessKeyID:     get(EnvAccessKeyID),
		SecretAccessKey: get(EnvSecretAccessKey),
		SessionToken:    get(EnvSessionToken),
	}
	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}
