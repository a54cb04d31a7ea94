package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiServiceRequiresKeys(t *testing.T) {
	_, err := NewGeminiService(nil, "gemini-2.0-flash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API keys")
}

func TestRotateFailureKeepsCompletionError(t *testing.T) {
	completeErr := errors.New("quota exhausted")
	rotateErr := errors.New("client init failed")

	err := rotateFailure(completeErr, rotateErr)
	require.Error(t, err)
	assert.ErrorIs(t, err, rotateErr)
	assert.Contains(t, err.Error(), "quota exhausted")
}
