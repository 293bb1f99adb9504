package summary

import (
	"context"
	"log/slog"

	"github.com/halcyonlab/notetracker/internal/config"
	"github.com/halcyonlab/notetracker/internal/summary"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (summary.Generator, error) {
		c := do.MustInvoke[*config.Config](i)
		basic := summary.NewBasicGenerator()
		if !c.SummaryEnrichmentEnabled() {
			return basic, nil
		}
		gen, err := NewGeminiGenerator(context.Background(), c.GeminiAPIKey, c.GeminiModel, basic)
		if err != nil {
			slog.Warn("gemini client unavailable; summaries use the basic strategy", "error", err)
			return basic, nil
		}
		return gen, nil
	})
}
