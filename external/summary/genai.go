package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/halcyonlab/notetracker/internal/store"
	"github.com/halcyonlab/notetracker/internal/summary"
	"google.golang.org/genai"
)

const (
	generateTimeout     = 30 * time.Second
	maxPromptSegments   = 500
	promptInstructions  = `Summarize the following meeting transcript. Respond with a single JSON object with these keys: "summary" (string, 2-4 sentences), "key_points" (array of strings), "topics" (array of strings), "decisions" (array of strings), "action_items" (array of strings), "open_questions" (array of strings), "next_steps" (array of strings). Respond with JSON only.`
)

// GeminiGenerator is the enriched strategy. Any failure of the model call
// falls back to the basic extractive result, so Generate never errors.
type GeminiGenerator struct {
	client    *genai.Client
	modelName string
	fallback  summary.Generator
}

func NewGeminiGenerator(ctx context.Context, apiKey, modelName string, fallback summary.Generator) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiGenerator{
		client:    client,
		modelName: modelName,
		fallback:  fallback,
	}, nil
}

type enrichedPayload struct {
	Summary       string   `json:"summary"`
	KeyPoints     []string `json:"key_points"`
	Topics        []string `json:"topics"`
	Decisions     []string `json:"decisions"`
	ActionItems   []string `json:"action_items"`
	OpenQuestions []string `json:"open_questions"`
	NextSteps     []string `json:"next_steps"`
}

func (g *GeminiGenerator) Generate(ctx context.Context, transcript *store.Transcript) *store.Summary {
	base := g.fallback.Generate(ctx, transcript)
	if transcript == nil || len(transcript.Segments) == 0 {
		return base
	}

	enriched, err := g.generateEnriched(ctx, transcript)
	if err != nil {
		slog.Warn("enriched summary failed; using basic strategy", "error", err)
		return base
	}

	if enriched.Summary != "" {
		base.Summary = enriched.Summary
	}
	if len(enriched.KeyPoints) > 0 {
		base.KeyPoints = enriched.KeyPoints
	}
	base.Topics = enriched.Topics
	base.Decisions = enriched.Decisions
	base.ActionItems = enriched.ActionItems
	base.OpenQuestions = enriched.OpenQuestions
	base.NextSteps = enriched.NextSteps
	return base
}

func (g *GeminiGenerator) generateEnriched(ctx context.Context, transcript *store.Transcript) (*enrichedPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	prompt := buildPrompt(transcript)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	temp := float32(0.2)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(promptInstructions, genai.RoleUser),
		Temperature:       &temp,
		ResponseMIMEType:  "application/json",
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	text := res.Text()
	if text == "" {
		return nil, fmt.Errorf("model returned empty text")
	}

	var payload enrichedPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("decoding model response: %w", err)
	}
	return &payload, nil
}

func buildPrompt(transcript *store.Transcript) string {
	segments := transcript.Segments
	if len(segments) > maxPromptSegments {
		segments = segments[len(segments)-maxPromptSegments:]
	}
	var b strings.Builder
	for _, seg := range segments {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = "Unknown"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, seg.Text)
	}
	return b.String()
}
