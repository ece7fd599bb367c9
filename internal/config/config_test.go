package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"itinera/internal/modules/classifier"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New(), false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.AI.Enabled || cfg.AI.Timeout != 18*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Planner.Location.String() != "Asia/Taipei" {
		t.Fatalf("location = %s", cfg.Planner.Location)
	}
	if cfg.Classifier != classifier.DefaultThresholds() {
		t.Fatalf("thresholds = %+v", cfg.Classifier)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ITINERA_HTTP_ADDR", ":9090")
	t.Setenv("ITINERA_AI_ENABLED", "true")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("ITINERA_AI_TIMEOUT", "5s")
	t.Setenv("ITINERA_CLASSIFIER_TYPE_A_MIN_SIGNALS", "3")
	t.Setenv("MAPS_API_KEY", "m")

	cfg, err := load(viper.New(), false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" || !cfg.AI.Enabled || cfg.AI.GeminiKey != "k" || cfg.Maps.APIKey != "m" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.AI.Timeout != 5*time.Second || cfg.Classifier.TypeAMinSignals != 3 {
		t.Fatalf("timeout=%s minSignals=%d", cfg.AI.Timeout, cfg.Classifier.TypeAMinSignals)
	}
}

func TestLoadRejectsAIWithoutKey(t *testing.T) {
	t.Setenv("ITINERA_AI_ENABLED", "true")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ITINERA_AI_GEMINI_KEY", "")
	if _, err := load(viper.New(), false); err == nil {
		t.Fatal("expected error when AI is enabled without a key")
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("ITINERA_PLANNER_TIMEZONE", "Mars/Olympus")
	if _, err := load(viper.New(), false); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
