package source

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/pior/platypus"
	"github.com/rs/zerolog"
)

// SecretStore fetches a named secret from AWS Secrets Manager. The
// secret id is built from a placeholder template against the request's
// captures. A binary secret is base64-encoded for storage as a cache
// value; a missing or denied secret degrades to a valueless response.
type SecretStore struct {
	MonitorConfig
	SecretIDTemplate string

	mu     sync.Mutex
	client *secretsmanager.Client
	log    zerolog.Logger
}

// NewSecretStore builds a SecretStore source resolving secretIDTemplate.
// The AWS client is created lazily on first Call, since loading default
// config can itself touch the network (IMDS, SSO, etc).
func NewSecretStore(secretIDTemplate string, log zerolog.Logger) *SecretStore {
	return &SecretStore{
		MonitorConfig:    defaultMonitorConfig(),
		SecretIDTemplate: secretIDTemplate,
		log:              log,
	}
}

// WithTTL overrides the default ttl.
func (s *SecretStore) WithTTL(ttl time.Duration) *SecretStore {
	s.TTL = ttl
	return s
}

// WithExpiry overrides the default expiry.
func (s *SecretStore) WithExpiry(expiry time.Duration) *SecretStore {
	s.Expiry = expiry
	return s
}

func (s *SecretStore) getClient(ctx context.Context) (*secretsmanager.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	s.client = secretsmanager.NewFromConfig(cfg)
	return s.client, nil
}

// Call fetches the secret named by SecretIDTemplate.
func (s *SecretStore) Call(ctx context.Context, req *platypus.Request) *platypus.Response {
	response := platypus.NewResponse().WithTTL(s.TTL).WithExpiry(s.Expiry)

	secretID := platypus.ReplacePlaceholders(s.SecretIDTemplate, req.Captures())

	client, err := s.getClient(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to build secrets manager client")
		return response
	}

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &secretID})
	if err != nil {
		s.log.Error().Err(err).Str("secret_id", secretID).Msg("failed to fetch secret")
		return response
	}

	if out.SecretString != nil {
		return response.WithValue(*out.SecretString)
	}
	if out.SecretBinary != nil {
		encoded := base64.StdEncoding.EncodeToString(out.SecretBinary)
		return response.WithValue(encoded)
	}

	s.log.Warn().Str("secret_id", secretID).Msg("secret has no string or binary value")
	return response
}
