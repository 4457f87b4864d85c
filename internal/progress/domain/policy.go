package domain

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidPolicy = errors.New("invalid analytics policy")

// Policy holds the thresholds used by the analytics components.
type Policy struct {
	Consistency ConsistencyPolicy `yaml:"consistency"`
	Volatility  VolatilityPolicy  `yaml:"volatility"`
	Trend       TrendPolicy       `yaml:"trend"`
	Prediction  PredictionPolicy  `yaml:"prediction"`
}

// ConsistencyPolicy sets score weights and level cut-offs.
type ConsistencyPolicy struct {
	RateWeight float64 `yaml:"rate_weight"`
	Excellent  int     `yaml:"excellent"`
	Good       int     `yaml:"good"`
	Fair       int     `yaml:"fair"`
}

// VolatilityPolicy sets standard deviation bounds for volatility buckets.
type VolatilityPolicy struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
}

// TrendPolicy sets the slope, in rate points per week, that counts as a trend.
type TrendPolicy struct {
	SlopeThreshold float64 `yaml:"slope_threshold"`
}

// PredictionPolicy bounds goal prediction confidence.
type PredictionPolicy struct {
	LowConfidence int `yaml:"low_confidence"`
	MinConfidence int `yaml:"min_confidence"`
	MaxConfidence int `yaml:"max_confidence"`
}

// DefaultPolicy returns the built-in thresholds.
func DefaultPolicy() Policy {
	return Policy{
		Consistency: ConsistencyPolicy{
			RateWeight: 0.7,
			Excellent:  85,
			Good:       70,
			Fair:       50,
		},
		Volatility: VolatilityPolicy{
			Low:    10,
			Medium: 25,
		},
		Trend: TrendPolicy{
			SlopeThreshold: 2,
		},
		Prediction: PredictionPolicy{
			LowConfidence: 10,
			MinConfidence: 5,
			MaxConfidence: 95,
		},
	}
}

// Validate checks that the thresholds are ordered and in range.
func (p Policy) Validate() error {
	c := p.Consistency
	if c.RateWeight < 0 || c.RateWeight > 1 {
		return fmt.Errorf("%w: consistency.rate_weight must be within [0, 1]", ErrInvalidPolicy)
	}
	if !(c.Excellent > c.Good && c.Good > c.Fair && c.Fair >= 0 && c.Excellent <= 100) {
		return fmt.Errorf("%w: consistency levels must satisfy 100 >= excellent > good > fair >= 0", ErrInvalidPolicy)
	}
	if p.Volatility.Low <= 0 || p.Volatility.Medium <= p.Volatility.Low {
		return fmt.Errorf("%w: volatility bounds must satisfy 0 < low < medium", ErrInvalidPolicy)
	}
	if p.Trend.SlopeThreshold < 0 {
		return fmt.Errorf("%w: trend.slope_threshold must not be negative", ErrInvalidPolicy)
	}
	pr := p.Prediction
	if !(pr.MinConfidence >= 0 && pr.MinConfidence <= pr.MaxConfidence && pr.MaxConfidence <= 100) {
		return fmt.Errorf("%w: prediction confidence bounds must satisfy 0 <= min <= max <= 100", ErrInvalidPolicy)
	}
	if pr.LowConfidence < 0 || pr.LowConfidence > 100 {
		return fmt.Errorf("%w: prediction.low_confidence must be within [0, 100]", ErrInvalidPolicy)
	}
	return nil
}

// ParsePolicy decodes YAML over the defaults, so omitted keys keep their
// built-in values.
func ParsePolicy(data []byte) (Policy, error) {
	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse analytics policy: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

// LoadPolicy reads a YAML policy file. An empty path yields the defaults.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read analytics policy: %w", err)
	}
	return ParsePolicy(data)
}
