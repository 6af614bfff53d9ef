package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCauseKeepsSentinelIdentity(t *testing.T) {
	err := ErrFeatureNotEntitled.WithCause(New("upgrade to plus"))
	assert.True(t, stderrors.Is(err, ErrFeatureNotEntitled))
	assert.Contains(t, err.Error(), "upgrade to plus")
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
}

func TestWrapChainsUnwrap(t *testing.T) {
	cause := New("inner")
	err := Wrap(cause, "outer")
	assert.Equal(t, "outer: inner", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestHelpers(t *testing.T) {
	assert.Contains(t, TranscriptionFailed("").Error(), "transcription failed")
	assert.Contains(t, TranscriptionFailed("bad audio").Error(), "bad audio")
	assert.Contains(t, TranscriptionIncomplete("queued").Error(), "queued")

	err := NoChaptersDetected("highlightMoments")
	assert.True(t, stderrors.Is(err, ErrNoChaptersDetected))
	assert.Contains(t, err.Error(), "highlightMoments")

	err = FeatureNotEntitled("Social Posts requires the Plus plan ($21/mo)")
	assert.True(t, stderrors.Is(err, ErrFeatureNotEntitled))
	assert.Contains(t, err.Error(), "Plus plan")
}
