package summary

import (
	"context"
	"strings"

	"github.com/halcyonlab/notetracker/internal/store"
)

const (
	summaryPreviewRunes = 200
	maxKeyPoints        = 5
	emptySummaryText    = "No transcript available."
)

// Sentences containing one of these are promoted to key points.
var keyPointTriggers = []string{"?", "important", "action", "decision", "next"}

// BasicGenerator is the extractive fallback strategy. Pure text folding,
// no external calls.
type BasicGenerator struct{}

func NewBasicGenerator() *BasicGenerator {
	return &BasicGenerator{}
}

func (g *BasicGenerator) Generate(_ context.Context, transcript *store.Transcript) *store.Summary {
	if transcript == nil || len(transcript.Segments) == 0 {
		return &store.Summary{
			Summary:      emptySummaryText,
			KeyPoints:    []string{},
			Participants: []string{},
		}
	}

	texts := make([]string, 0, len(transcript.Segments))
	for _, seg := range transcript.Segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			texts = append(texts, t)
		}
	}
	fullText := strings.Join(texts, " ")

	last := transcript.Segments[len(transcript.Segments)-1]
	return &store.Summary{
		Summary:         preview(fullText),
		KeyPoints:       extractKeyPoints(fullText),
		Participants:    distinctSpeakers(transcript.Segments),
		DurationSeconds: int(last.EndSec),
		WordCount:       len(strings.Fields(fullText)),
	}
}

func preview(text string) string {
	if text == "" {
		return emptySummaryText
	}
	runes := []rune(text)
	if len(runes) <= summaryPreviewRunes {
		return text
	}
	return strings.TrimSpace(string(runes[:summaryPreviewRunes])) + "..."
}

func extractKeyPoints(text string) []string {
	points := []string{}
	for _, sentence := range splitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, trigger := range keyPointTriggers {
			if strings.Contains(lower, trigger) {
				points = append(points, sentence)
				break
			}
		}
		if len(points) == maxKeyPoints {
			break
		}
	}
	return points
}

// splitSentences cuts on sentence terminators, keeping the terminator so a
// trailing question mark still triggers key-point extraction.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func distinctSpeakers(segments []store.TranscriptSegment) []string {
	seen := make(map[string]struct{}, len(segments))
	speakers := []string{}
	for _, seg := range segments {
		name := strings.TrimSpace(seg.Speaker)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		speakers = append(speakers, name)
	}
	return speakers
}
