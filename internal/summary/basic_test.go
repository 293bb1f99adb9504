package summary

import (
	"context"
	"strings"
	"testing"

	"github.com/halcyonlab/notetracker/internal/store"
)

func TestGenerate_EmptyTranscript(t *testing.T) {
	gen := NewBasicGenerator()

	for _, transcript := range []*store.Transcript{nil, {}, {Segments: []store.TranscriptSegment{}}} {
		sum := gen.Generate(context.Background(), transcript)
		if sum.Summary != "No transcript available." {
			t.Fatalf("unexpected summary %q", sum.Summary)
		}
		if len(sum.KeyPoints) != 0 || sum.KeyPoints == nil {
			t.Fatalf("expected empty key points, got %v", sum.KeyPoints)
		}
		if len(sum.Participants) != 0 || sum.Participants == nil {
			t.Fatalf("expected empty participants, got %v", sum.Participants)
		}
		if sum.DurationSeconds != 0 {
			t.Fatalf("expected duration 0, got %d", sum.DurationSeconds)
		}
	}
}

func TestGenerate_BasicFields(t *testing.T) {
	gen := NewBasicGenerator()
	transcript := &store.Transcript{Segments: []store.TranscriptSegment{
		{Speaker: "Ana", Text: "Welcome everyone to the planning call.", StartSec: 0, EndSec: 8},
		{Speaker: "Ben", Text: "Thanks. What is the launch date?", StartSec: 8, EndSec: 15},
		{Speaker: "Ana", Text: "The decision is to launch in May.", StartSec: 15, EndSec: 24},
		{Speaker: "Ben", Text: "I will prepare the action items for next week.", StartSec: 24, EndSec: 31},
	}}

	sum := gen.Generate(context.Background(), transcript)

	if sum.DurationSeconds != 31 {
		t.Fatalf("expected duration 31, got %d", sum.DurationSeconds)
	}
	if sum.WordCount != 28 {
		t.Fatalf("expected 28 words, got %d", sum.WordCount)
	}
	if len(sum.Participants) != 2 || sum.Participants[0] != "Ana" || sum.Participants[1] != "Ben" {
		t.Fatalf("unexpected participants %v", sum.Participants)
	}
	if !strings.HasPrefix(sum.Summary, "Welcome everyone") {
		t.Fatalf("unexpected summary %q", sum.Summary)
	}
}

func TestGenerate_KeyPointTriggers(t *testing.T) {
	gen := NewBasicGenerator()
	transcript := &store.Transcript{Segments: []store.TranscriptSegment{
		{Speaker: "Ana", Text: "Nothing notable here. What about budget? This is important. We made a decision. Moving on now."},
	}}

	sum := gen.Generate(context.Background(), transcript)

	if len(sum.KeyPoints) != 3 {
		t.Fatalf("expected 3 key points, got %v", sum.KeyPoints)
	}
	if sum.KeyPoints[0] != "What about budget?" {
		t.Fatalf("unexpected first key point %q", sum.KeyPoints[0])
	}
}

func TestGenerate_KeyPointsCappedAtFive(t *testing.T) {
	gen := NewBasicGenerator()
	transcript := &store.Transcript{Segments: []store.TranscriptSegment{
		{Speaker: "Ana", Text: "First decision. Second decision. Third decision. Fourth decision. Fifth decision. Sixth decision."},
	}}

	sum := gen.Generate(context.Background(), transcript)
	if len(sum.KeyPoints) != 5 {
		t.Fatalf("expected 5 key points, got %d", len(sum.KeyPoints))
	}
}

func TestGenerate_SummaryTruncatedAt200Runes(t *testing.T) {
	gen := NewBasicGenerator()
	long := strings.Repeat("word ", 100)
	transcript := &store.Transcript{Segments: []store.TranscriptSegment{
		{Speaker: "Ana", Text: long, EndSec: 5},
	}}

	sum := gen.Generate(context.Background(), transcript)
	if len([]rune(sum.Summary)) > 204 {
		t.Fatalf("summary too long: %d runes", len([]rune(sum.Summary)))
	}
	if !strings.HasSuffix(sum.Summary, "...") {
		t.Fatalf("expected truncation marker, got %q", sum.Summary)
	}
}

func TestGenerate_SkipsBlankSpeakers(t *testing.T) {
	gen := NewBasicGenerator()
	transcript := &store.Transcript{Segments: []store.TranscriptSegment{
		{Speaker: "", Text: "Hello."},
		{Speaker: "  ", Text: "There."},
		{Speaker: "Cy", Text: "Hi."},
		{Speaker: "Cy", Text: "Again."},
	}}

	sum := gen.Generate(context.Background(), transcript)
	if len(sum.Participants) != 1 || sum.Participants[0] != "Cy" {
		t.Fatalf("unexpected participants %v", sum.Participants)
	}
}
