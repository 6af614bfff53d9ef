package config

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcastogist/internal/errors"
)

func clearProviderKeys(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ASSEMBLYAI_API_KEY", "")
	t.Setenv("MOCK_AI", "")
	t.Setenv("MOCK_TRANSCRIPTION", "")
}

func TestLoadRequiresOpenAIKey(t *testing.T) {
	clearProviderKeys(t)
	t.Setenv("MOCK_TRANSCRIPTION", "true")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrMissingConfig))
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadRequiresAssemblyAIKey(t *testing.T) {
	clearProviderKeys(t)
	t.Setenv("MOCK_AI", "true")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrMissingConfig))
	assert.Contains(t, err.Error(), "ASSEMBLYAI_API_KEY")
}

func TestLoadMockModesSkipKeyValidation(t *testing.T) {
	clearProviderKeys(t)
	t.Setenv("MOCK_AI", "true")
	t.Setenv("MOCK_TRANSCRIPTION", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MockAI)
	assert.True(t, cfg.MockTranscription)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}
