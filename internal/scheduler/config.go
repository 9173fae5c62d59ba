package scheduler

import (
	"errors"
	"time"
)

var ErrInvalidConfig = errors.New("scheduler requires db, logger, clock, and rating service")

// Config controls the refresh loop's interval and batch sizes.
type Config struct {
	RunInterval        time.Duration
	JobTimeout         time.Duration
	RatingStaleAfter   time.Duration
	MaxRatingBatchSize int
}

func DefaultConfig() Config {
	return Config{
		RunInterval:        time.Minute,
		JobTimeout:         2 * time.Minute,
		RatingStaleAfter:   24 * time.Hour,
		MaxRatingBatchSize: 25,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.RatingStaleAfter <= 0 {
		c.RatingStaleAfter = defaults.RatingStaleAfter
	}
	if c.MaxRatingBatchSize <= 0 {
		c.MaxRatingBatchSize = defaults.MaxRatingBatchSize
	}
	return c
}
