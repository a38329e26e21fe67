package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://www.wikidata.org/w/api.php", cfg.Wikidata.APIURL)
	assert.Equal(t, "https://query.wikidata.org/sparql", cfg.Wikidata.SPARQLURL)
	assert.Equal(t, "en", cfg.Wikidata.Language)
	assert.Equal(t, 30, cfg.Wikidata.Timeout)
	assert.Equal(t, "ollama", cfg.NLP.Provider)
	assert.Equal(t, "gemma3:12b", cfg.NLP.Model)
	assert.Empty(t, cfg.NLP.BaseURL)
	assert.Equal(t, "chatbot_log", cfg.History.Table)
	assert.False(t, cfg.CircuitBreaker.Enabled)
	assert.Equal(t, 0.6, cfg.CircuitBreaker.ReadyToTripRatio)
	assert.False(t, cfg.Alert.Enabled)
	assert.Equal(t, "[wikibio]", cfg.Alert.SubjectPrefix)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("WIKIBIO_HISTORY_DSN", "postgres://localhost/test")
	t.Setenv("WIKIBIO_USER_AGENT", "test-agent/1.0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.NLP.APIKey)
	assert.Equal(t, "postgres://localhost/test", cfg.History.DSN)
	assert.Equal(t, "test-agent/1.0", cfg.Wikidata.UserAgent)
}
