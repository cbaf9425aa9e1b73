package assist

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestGeneratePitchMentionsInputs(t *testing.T) {
	s := &Service{Delay: time.Millisecond}
	out, err := s.GeneratePitch(context.Background(), Request{
		ProductName: "Volt Cola",
		SlotScene:   "S14 INT. BAR",
		Objective:   "Reach",
	})
	if err != nil {
		t.Fatalf("GeneratePitch returned error: %v", err)
	}
	if !strings.Contains(out, "Volt Cola") {
		t.Fatalf("pitch does not mention product: %q", out)
	}
	if !strings.Contains(out, "S14 INT. BAR") {
		t.Fatalf("pitch does not mention scene: %q", out)
	}
}

func TestGeneratePitchConversionsAngle(t *testing.T) {
	s := &Service{Delay: time.Millisecond}
	out, err := s.GeneratePitch(context.Background(), Request{
		ProductName: "Volt Cola",
		Objective:   "Conversions",
	})
	if err != nil {
		t.Fatalf("GeneratePitch returned error: %v", err)
	}
	if !strings.Contains(out, "call to action") {
		t.Fatalf("conversions pitch missing call to action angle: %q", out)
	}
}

func TestGeneratePitchEmptyInputsFallBack(t *testing.T) {
	s := &Service{Delay: time.Millisecond}
	out, err := s.GeneratePitch(context.Background(), Request{})
	if err != nil {
		t.Fatalf("GeneratePitch returned error: %v", err)
	}
	if !strings.Contains(out, "your product") || !strings.Contains(out, "the scene") {
		t.Fatalf("fallback copy missing: %q", out)
	}
}

func TestGeneratePitchHonorsCancellation(t *testing.T) {
	s := &Service{Delay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.GeneratePitch(ctx, Request{}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
