package service

import (
	"context"

	"github.com/tieubaoca/second-brain-be/types"
)

// PrimaryAI is the remote, higher-quality generation tier, attempted first.
// Implementations stream fragments through the handler as they arrive and may
// fail at call setup or mid-stream.
type PrimaryAI interface {
	ChatStream(ctx context.Context, prompt string, handler types.StreamHandler) error
}

// LocalAI is the locally-executed fallback tier. It produces a single answer
// string in one shot.
type LocalAI interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
