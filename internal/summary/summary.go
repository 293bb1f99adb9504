package summary

import (
	"context"

	"github.com/halcyonlab/notetracker/internal/store"
)

// Generator turns a transcript into a summary document. Implementations
// never fail: a degraded summary is always returned instead of an error.
type Generator interface {
	Generate(ctx context.Context, transcript *store.Transcript) *store.Summary
}
