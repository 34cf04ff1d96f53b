package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/second-brain-be/types"
)

func TestStreamWithRotationRetriesBeforeOutput(t *testing.T) {
	calls := 0
	stream := func(h types.StreamHandler) error {
		calls++
		if calls == 1 {
			return errors.New("quota exhausted")
		}
		h("answer")
		return nil
	}

	rotations := 0
	var got []string
	err := streamWithRotation(stream,
		func() error { rotations++; return nil },
		func(f string) { got = append(got, f) })

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, rotations)
	assert.Equal(t, []string{"answer"}, got)
}

func TestStreamWithRotationDoesNotReplayForwardedOutput(t *testing.T) {
	calls := 0
	stream := func(h types.StreamHandler) error {
		calls++
		h("partial")
		return errors.New("connection reset")
	}

	rotations := 0
	var got []string
	err := streamWithRotation(stream,
		func() error { rotations++; return nil },
		func(f string) { got = append(got, f) })

	require.Error(t, err)
	assert.Equal(t, 1, calls, "stream must not restart after output went out")
	assert.Equal(t, 0, rotations)
	assert.Equal(t, []string{"partial"}, got, "the delivered prefix must appear exactly once")
}

func TestStreamWithRotationRotateFailure(t *testing.T) {
	stream := func(h types.StreamHandler) error { return errors.New("bad key") }

	err := streamWithRotation(stream,
		func() error { return errors.New("rotate failed") },
		func(string) {})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rotate failed")
}

func TestNewGeminiServiceRequiresKeys(t *testing.T) {
	_, err := NewGeminiService(nil, "gemini-2.0-flash")
	require.Error(t, err)
}
