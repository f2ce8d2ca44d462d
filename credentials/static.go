package credentials

import "context"

// Static is a Source holding fixed credentials, typically from a config file.
type Static struct {
	creds Credentials
}

// NewStatic creates a Static source.
func NewStatic(accessKeyID, secretAccessKey, sessionToken string) *Static {
	return &Static{creds: Credentials{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		SessionToken:    sessionToken,
	}}
}

// Retrieve implements Source.
func (s *Static) Retrieve(context.Context) (Credentials, error) {
	if err := s.creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return s.creds, nil
}
