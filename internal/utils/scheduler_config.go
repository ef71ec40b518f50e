package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/studyplan-backend/internal/logger"
)

// SchedulerConfig holds the tunable knobs of the plan generation engine.
// Everything has a working default; a YAML file pointed to by
// SCHEDULER_CONFIG_PATH overrides individual fields.
type SchedulerConfig struct {
	Match    MatchConfig    `yaml:"match"`
	Duration DurationConfig `yaml:"duration"`
	Day      DayConfig      `yaml:"day"`
}

type MatchConfig struct {
	ExactCategoryScore   int `yaml:"exact_category_score"`
	ContentContainsScore int `yaml:"content_contains_score"`
	SlotContainsScore    int `yaml:"slot_contains_score"`
	TypeOnlyScore        int `yaml:"type_only_score"`
	DefaultRangeStart    int `yaml:"default_range_start"`
	DefaultRangeEnd      int `yaml:"default_range_end"`
}

type DurationConfig struct {
	MinutesPerPage       float64 `yaml:"minutes_per_page"`
	FallbackEpisodeMin   int     `yaml:"fallback_episode_minutes"`
	BeginnerFactor       float64 `yaml:"beginner_factor"`
	AdvancedFactor       float64 `yaml:"advanced_factor"`
	WeaknessFactor       float64 `yaml:"weakness_factor"`
	StrategyFactor       float64 `yaml:"strategy_factor"`
	ReviewFactor         float64 `yaml:"review_factor"`
	ReviewOfReviewFactor float64 `yaml:"review_of_review_factor"`
}

type DayConfig struct {
	StartTime  string `yaml:"start_time"`
	MaxEndTime string `yaml:"max_end_time"`
}

func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Match: MatchConfig{
			ExactCategoryScore:   100,
			ContentContainsScore: 50,
			SlotContainsScore:    30,
			TypeOnlyScore:        10,
			DefaultRangeStart:    1,
			DefaultRangeEnd:      10,
		},
		Duration: DurationConfig{
			MinutesPerPage:       3,
			FallbackEpisodeMin:   30,
			BeginnerFactor:       1.2,
			AdvancedFactor:       0.85,
			WeaknessFactor:       1.2,
			StrategyFactor:       1.05,
			ReviewFactor:         0.4,
			ReviewOfReviewFactor: 0.25,
		},
		Day: DayConfig{StartTime: "06:00", MaxEndTime: "23:59"},
	}
}

// LoadSchedulerConfig reads the YAML override file when present and folds it
// over the defaults. A missing file is not an error; a malformed one is.
func LoadSchedulerConfig(path string, log *logger.Logger) (SchedulerConfig, error) {
	cfg := DefaultSchedulerConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if log != nil {
				log.Debug("Scheduler config file not found, using defaults", "path", path)
			}
			return cfg, nil
		}
		return cfg, fmt.Errorf("read scheduler config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse scheduler config: %w", err)
	}
	if log != nil {
		log.Info("Loaded scheduler config overrides", "path", path)
	}
	return cfg, nil
}
