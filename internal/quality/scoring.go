package quality

import (
	"github.com/aquasafi/aquasafi-backend/pkg/config"
)

// Sample carries the measured values feeding the score. Nil means the
// parameter was not measured and contributes no penalty.
type Sample struct {
	PHLevel       *float64
	Turbidity     *float64
	ChlorineLevel *float64
	EColiPresence bool
}

// Result is the derived verdict for a sample.
type Result struct {
	Score  float64
	IsSafe bool
}

// Score applies the additive-penalty policy: start at 100, subtract a
// fixed penalty per out-of-range parameter, floor at 0. E-coli presence
// is the single heaviest penalty.
func Score(cfg config.QualityConfig, sample Sample) Result {
	score := 100.0

	if sample.PHLevel != nil {
		if *sample.PHLevel < cfg.PHMin || *sample.PHLevel > cfg.PHMax {
			score -= float64(cfg.PHPenalty)
		}
	}
	if sample.Turbidity != nil && *sample.Turbidity > cfg.TurbidityMax {
		score -= float64(cfg.TurbidityPenalty)
	}
	if sample.ChlorineLevel != nil {
		if *sample.ChlorineLevel < cfg.ChlorineMin || *sample.ChlorineLevel > cfg.ChlorineMax {
			score -= float64(cfg.ChlorinePenalty)
		}
	}
	if sample.EColiPresence {
		score -= float64(cfg.EColiPenalty)
	}

	if score < 0 {
		score = 0
	}
	return Result{
		Score:  score,
		IsSafe: score >= float64(cfg.SafeThreshold),
	}
}
