package summary

import "fmt"

// Level classifies a percentage against watermarks.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Watermark is a low/high threshold pair.
type Watermark struct {
	Low  float64 `json:"low" mapstructure:"low"`
	High float64 `json:"high" mapstructure:"high"`
}

// Classify returns low below Low, high at or above High and medium between.
func (w Watermark) Classify(pct float64) Level {
	switch {
	case pct < w.Low:
		return LevelLow
	case pct >= w.High:
		return LevelHigh
	default:
		return LevelMedium
	}
}

// Validate checks that the pair is ordered and within 0..100.
func (w Watermark) Validate() error {
	if w.Low < 0 || w.High > 100 || w.Low > w.High {
		return fmt.Errorf("invalid watermark %v..%v", w.Low, w.High)
	}
	return nil
}

// Watermarks holds one threshold pair per metric.
type Watermarks struct {
	Statements Watermark `json:"statements" mapstructure:"statements"`
	Functions  Watermark `json:"functions" mapstructure:"functions"`
	Branches   Watermark `json:"branches" mapstructure:"branches"`
	Lines      Watermark `json:"lines" mapstructure:"lines"`
}

// DefaultWatermarks uses 50 and 80 for every metric.
func DefaultWatermarks() Watermarks {
	w := Watermark{Low: 50, High: 80}
	return Watermarks{Statements: w, Functions: w, Branches: w, Lines: w}
}

// Validate checks every pair.
func (w Watermarks) Validate() error {
	for name, pair := range map[string]Watermark{
		"statements": w.Statements,
		"functions":  w.Functions,
		"branches":   w.Branches,
		"lines":      w.Lines,
	} {
		if err := pair.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
