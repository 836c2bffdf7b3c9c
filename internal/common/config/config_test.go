package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes yaml content to a temp file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// clearOverrideEnv blanks the env vars the loader falls back to, so the
// validation tests see exactly what the yaml file provides.
func clearOverrideEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ELEVENLABS_API_KEY", "ELEVENLABS_VOICE_ID", "PUBLIC_BASE_URL",
		"GENAI_API_KEY", "SUMMARY_RECIPIENT", "SMTP_USERNAME", "SMTP_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

const validYAML = `
server:
  public_base_url: https://intake.example.com
speech:
  api_key: sk-tts
  voice_id: voice-1
genai:
  base_url: https://api.openai.com
  api_key: sk-genai
email:
  provider: smtp
  from: intake@example.com
  recipient: caseworker@example.com
  smtp:
    host: smtp.example.com
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	clearOverrideEnv(t)

	cfg, err := LoadFromFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "intake-call-service", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "static", cfg.Server.StaticDir)
	assert.Equal(t, "https://api.elevenlabs.io", cfg.Speech.BaseURL)
	assert.Equal(t, "eleven_multilingual_v2", cfg.Speech.ModelID)
	assert.Equal(t, 10000, cfg.Speech.Timeout)
	assert.Equal(t, "gpt-4o-mini", cfg.GenAI.Model)
	assert.Equal(t, 120, cfg.GenAI.MaxTokens)
	assert.Equal(t, 0.4, cfg.GenAI.Temperature)
	assert.Equal(t, 2, cfg.GenAI.MaxRetries)
	assert.Equal(t, 587, cfg.Email.SMTP.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing speech api key",
			yaml: `
server:
  public_base_url: https://intake.example.com
speech:
  voice_id: voice-1
genai:
  base_url: https://api.openai.com
  api_key: sk-genai
email:
  from: intake@example.com
  recipient: caseworker@example.com
  smtp:
    host: smtp.example.com
`,
			wantErr: "speech.api_key is required",
		},
		{
			name: "missing public base url",
			yaml: `
speech:
  api_key: sk-tts
  voice_id: voice-1
genai:
  base_url: https://api.openai.com
  api_key: sk-genai
email:
  from: intake@example.com
  recipient: caseworker@example.com
  smtp:
    host: smtp.example.com
`,
			wantErr: "server.public_base_url is required",
		},
		{
			name: "missing recipient",
			yaml: `
server:
  public_base_url: https://intake.example.com
speech:
  api_key: sk-tts
  voice_id: voice-1
genai:
  base_url: https://api.openai.com
  api_key: sk-genai
email:
  from: intake@example.com
  smtp:
    host: smtp.example.com
`,
			wantErr: "email.recipient is required",
		},
		{
			name: "smtp provider without host",
			yaml: `
server:
  public_base_url: https://intake.example.com
speech:
  api_key: sk-tts
  voice_id: voice-1
genai:
  base_url: https://api.openai.com
  api_key: sk-genai
email:
  provider: smtp
  from: intake@example.com
  recipient: caseworker@example.com
`,
			wantErr: "email.smtp.host is required",
		},
		{
			name: "unknown provider",
			yaml: `
server:
  public_base_url: https://intake.example.com
speech:
  api_key: sk-tts
  voice_id: voice-1
genai:
  base_url: https://api.openai.com
  api_key: sk-genai
email:
  provider: pigeon
  from: intake@example.com
  recipient: caseworker@example.com
`,
			wantErr: "email.provider must be smtp or ses",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearOverrideEnv(t)

			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_SESProvider(t *testing.T) {
	clearOverrideEnv(t)

	cfg, err := LoadFromFile(writeConfig(t, `
server:
  public_base_url: https://intake.example.com
speech:
  api_key: sk-tts
  voice_id: voice-1
genai:
  base_url: https://api.openai.com
  api_key: sk-genai
email:
  provider: ses
  from: intake@example.com
  recipient: caseworker@example.com
  ses:
    region: us-east-1
`))
	require.NoError(t, err)
	assert.Equal(t, "ses", cfg.Email.Provider)
	assert.Equal(t, "us-east-1", cfg.Email.SES.Region)
}

func TestLoadFromFile_EnvFallback(t *testing.T) {
	clearOverrideEnv(t)
	t.Setenv("ELEVENLABS_API_KEY", "sk-from-env")

	cfg, err := LoadFromFile(writeConfig(t, `
server:
  public_base_url: https://intake.example.com
speech:
  voice_id: voice-1
genai:
  base_url: https://api.openai.com
  api_key: sk-genai
email:
  from: intake@example.com
  recipient: caseworker@example.com
  smtp:
    host: smtp.example.com
`))
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.Speech.APIKey)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 6*time.Second, GetDuration(6000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
