package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EMAIL_HOST_USER", "EMAIL_HOST_USE", "EMAIL_HOST_PASSWORD",
		"JOBS_API_URL", "REDIS_URL", "AWS_REGION", "PORT",
		"SMTP_USERNAME", "SMTP_PASSWORD",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromFile_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
jobs:
  api_url: https://jobs.example.com/api/listings
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "careers-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, MailProviderSMTP, cfg.Mail.Provider)
	assert.Equal(t, "GetSetDeployed Applications", cfg.Mail.FromName)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.ImplicitTLS)
	assert.Equal(t, 30*time.Second, GetDuration(cfg.SMTP.Timeout))
	assert.Equal(t, JobSourceAPI, cfg.Jobs.Source)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "careers-api", cfg.Observability.ServiceName)
}

func TestLoadFromFile_MissingCredentialsIsNotAStartupError(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
jobs:
  api_url: https://jobs.example.com/api/listings
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.SMTP.Username)
	assert.Empty(t, cfg.SMTP.Password)
}

func TestLoadFromFile_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_HOST_USER", "careers@example.com")
	t.Setenv("EMAIL_HOST_PASSWORD", "app-password")
	t.Setenv("JOBS_API_URL", "https://jobs.example.com/api/listings")
	t.Setenv("PORT", "9090")

	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: careers\n"))
	require.NoError(t, err)

	assert.Equal(t, "careers@example.com", cfg.SMTP.Username)
	assert.Equal(t, "app-password", cfg.SMTP.Password)
	assert.Equal(t, "https://jobs.example.com/api/listings", cfg.Jobs.APIURL)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadFromFile_LegacyUserVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_HOST_USE", "legacy@example.com")
	t.Setenv("JOBS_API_URL", "https://jobs.example.com")

	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: careers\n"))
	require.NoError(t, err)
	assert.Equal(t, "legacy@example.com", cfg.SMTP.Username)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAREERS_SMTP_USER", "expanded@example.com")

	cfg, err := LoadFromFile(writeConfig(t, `
smtp:
  username: ${CAREERS_SMTP_USER}
jobs:
  api_url: https://jobs.example.com
`))
	require.NoError(t, err)
	assert.Equal(t, "expanded@example.com", cfg.SMTP.Username)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown mail provider",
			body:    "mail:\n  provider: pigeon\njobs:\n  api_url: https://x\n",
			wantErr: "mail.provider",
		},
		{
			name:    "ses without region",
			body:    "mail:\n  provider: ses\njobs:\n  api_url: https://x\n",
			wantErr: "integrations.aws.region",
		},
		{
			name:    "api source without url",
			body:    "app:\n  name: careers\n",
			wantErr: "jobs.api_url",
		},
		{
			name:    "elasticsearch source without addresses",
			body:    "jobs:\n  source: elasticsearch\n",
			wantErr: "database.elasticsearch",
		},
		{
			name:    "cache without redis",
			body:    "jobs:\n  api_url: https://x\n  cache_ttl: 60\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "sns without topic",
			body:    "jobs:\n  api_url: https://x\nnotifications:\n  sns:\n    enabled: true\n",
			wantErr: "topic_arn",
		},
		{
			name:    "port out of range",
			body:    "server:\n  port: 70000\njobs:\n  api_url: https://x\n",
			wantErr: "server.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_ElasticsearchURLFallback(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromFile(writeConfig(t, `
jobs:
  source: elasticsearch
database:
  elasticsearch:
    url: http://localhost:9200
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Database.Elasticsearch.Addresses)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSMTPConfig_Address(t *testing.T) {
	assert.Equal(t, "smtp.gmail.com:465", SMTPConfig{Host: "smtp.gmail.com", Port: 465}.Address())
}
