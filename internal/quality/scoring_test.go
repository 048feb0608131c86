package quality

import (
	"testing"

	"github.com/aquasafi/aquasafi-backend/pkg/config"
)

func defaultQualityConfig() config.QualityConfig {
	return config.QualityConfig{
		PHMin:            6.5,
		PHMax:            8.5,
		PHPenalty:        20,
		TurbidityMax:     5,
		TurbidityPenalty: 15,
		ChlorineMin:      0.2,
		ChlorineMax:      4.0,
		ChlorinePenalty:  10,
		EColiPenalty:     30,
		SafeThreshold:    70,
	}
}

func f(v float64) *float64 { return &v }

func TestScore(t *testing.T) {
	cfg := defaultQualityConfig()

	tests := []struct {
		name     string
		sample   Sample
		score    float64
		safe     bool
	}{
		{
			name:   "perfect sample",
			sample: Sample{PHLevel: f(7.2), Turbidity: f(2.1), ChlorineLevel: f(0.8)},
			score:  100,
			safe:   true,
		},
		{
			name:   "nothing measured",
			sample: Sample{},
			score:  100,
			safe:   true,
		},
		{
			name:   "acidic water",
			sample: Sample{PHLevel: f(5.9)},
			score:  80,
			safe:   true,
		},
		{
			name:   "alkaline water",
			sample: Sample{PHLevel: f(9.1)},
			score:  80,
			safe:   true,
		},
		{
			name:   "boundary ph is in range",
			sample: Sample{PHLevel: f(6.5)},
			score:  100,
			safe:   true,
		},
		{
			name:   "cloudy water",
			sample: Sample{Turbidity: f(7.5)},
			score:  85,
			safe:   true,
		},
		{
			name:   "under-chlorinated",
			sample: Sample{ChlorineLevel: f(0.05)},
			score:  90,
			safe:   true,
		},
		{
			name:   "e-coli alone drops below threshold",
			sample: Sample{EColiPresence: true},
			score:  70,
			safe:   true,
		},
		{
			name: "everything wrong",
			sample: Sample{
				PHLevel:       f(5.0),
				Turbidity:     f(12),
				ChlorineLevel: f(0.0),
				EColiPresence: true,
			},
			score: 25,
			safe:  false,
		},
		{
			name: "bad sample from the field",
			sample: Sample{
				PHLevel:       f(9.2),
				Turbidity:     f(8.0),
				EColiPresence: true,
			},
			score: 35,
			safe:  false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(cfg, tc.sample)
			if got.Score != tc.score {
				t.Fatalf("expected score %.0f, got %.0f", tc.score, got.Score)
			}
			if got.IsSafe != tc.safe {
				t.Fatalf("expected safe=%v, got %v", tc.safe, got.IsSafe)
			}
		})
	}
}

func TestScoreFloorsAtZero(t *testing.T) {
	cfg := defaultQualityConfig()
	cfg.EColiPenalty = 95

	got := Score(cfg, Sample{PHLevel: f(5.0), EColiPresence: true})
	if got.Score != 0 {
		t.Fatalf("expected floored score 0, got %.0f", got.Score)
	}
	if got.IsSafe {
		t.Fatal("expected unsafe verdict")
	}
}
