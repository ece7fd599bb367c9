package ai

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"itinera/internal/modules/plan"
	"itinera/internal/modules/slots"
)

const validPlanJSON = `{"destination":"京都","days":[{"date":"2026-10-18","activities":[{"title":"清水寺","rationale":"經典","recommendedDuration":90}]}]}`

func sampleRequest() ItineraryRequest {
	start := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	return ItineraryRequest{
		Destination:  "京都",
		DateRange:    slots.RangeFromDuration(start, 1),
		DurationDays: 1,
		Pace:         slots.PaceModerate,
	}
}

func TestGenerateDisabled(t *testing.T) {
	called := false
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		called = true
		return validPlanJSON, nil
	})
	it := NewItinerary(gen, ItineraryOptions{Enabled: false}, nil)
	if _, err := it.GenerateAIItinerary(context.Background(), sampleRequest()); !errors.Is(err, ErrAIDisabled) {
		t.Fatalf("err = %v, want ErrAIDisabled", err)
	}
	if called {
		t.Fatal("provider called while disabled")
	}
}

func TestGenerateTimeoutWithUncooperativeProvider(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		<-release // ignores ctx
		return validPlanJSON, nil
	})
	it := NewItinerary(gen, ItineraryOptions{Enabled: true, Timeout: 20 * time.Millisecond}, nil)

	started := time.Now()
	_, err := it.GenerateAIItinerary(context.Background(), sampleRequest())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if time.Since(started) > 2*time.Second {
		t.Fatal("adapter waited on a provider that ignored cancellation")
	}
}

func TestGenerateCallerCancellation(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	it := NewItinerary(gen, ItineraryOptions{Enabled: true, Timeout: time.Second}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := it.GenerateAIItinerary(ctx, sampleRequest()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", boom
	})
	it := NewItinerary(gen, ItineraryOptions{Enabled: true}, nil)
	_, err := it.GenerateAIItinerary(context.Background(), sampleRequest())
	var genErr *GenerationError
	if !errors.As(err, &genErr) || !errors.Is(err, boom) {
		t.Fatalf("err = %v, want *GenerationError wrapping provider error", err)
	}
}

func TestGenerateInvalidJSON(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "I cannot help with that", nil
	})
	it := NewItinerary(gen, ItineraryOptions{Enabled: true}, nil)
	_, err := it.GenerateAIItinerary(context.Background(), sampleRequest())
	var invalid *InvalidJSONError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want *InvalidJSONError", err)
	}
}

func TestGenerateCachesByPrompt(t *testing.T) {
	var calls atomic.Int32
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		calls.Add(1)
		if !strings.Contains(prompt, "京都") {
			t.Errorf("prompt missing destination: %s", prompt)
		}
		return validPlanJSON, nil
	})
	it := NewItinerary(gen, ItineraryOptions{Enabled: true}, nil)

	for i := 0; i < 3; i++ {
		p, err := it.GenerateAIItinerary(context.Background(), sampleRequest())
		if err != nil {
			t.Fatalf("GenerateAIItinerary: %v", err)
		}
		if p.Days[0].Activities[0].Title != "清水寺" {
			t.Fatalf("plan = %+v", p)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("provider called %d times, want 1", calls.Load())
	}

	other := sampleRequest()
	other.Pace = slots.PaceTight
	if _, err := it.GenerateAIItinerary(context.Background(), other); err != nil {
		t.Fatalf("GenerateAIItinerary: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("different prompt served from cache")
	}
}

func TestGenerateRequiresDestinationAndDates(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) { return validPlanJSON, nil })
	it := NewItinerary(gen, ItineraryOptions{Enabled: true}, nil)

	req := sampleRequest()
	req.Destination = " "
	if _, err := it.GenerateAIItinerary(context.Background(), req); !errors.Is(err, plan.ErrMissingDestination) {
		t.Fatalf("err = %v, want ErrMissingDestination", err)
	}
	req = sampleRequest()
	req.DateRange = slots.DateRange{}
	if _, err := it.GenerateAIItinerary(context.Background(), req); !errors.Is(err, plan.ErrMissingDateInfo) {
		t.Fatalf("err = %v, want ErrMissingDateInfo", err)
	}
}

func TestBuildItineraryPrompt(t *testing.T) {
	walk := slots.WalkingLow
	req := sampleRequest()
	req.InterestTags = []string{"culture", "food"}
	req.WalkingLevel = &walk
	req.SelectedAttractions = []string{"伏見稻荷大社"}

	p := BuildItineraryPrompt(req)
	for _, want := range []string{"京都", "2026-10-18 to 2026-10-18 (1 days)", "culture, food", "Walking level: low", "伏見稻荷大社", `"rationale"`, `"dayTheme"`, `"daySummary"`, `"timeSlot"`, `"startDate"`} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
	if strings.Contains(p, "Transport:") {
		t.Fatal("absent transport preference must not be rendered")
	}
	if BuildItineraryPrompt(req) != p {
		t.Fatal("prompt is not deterministic")
	}
}
