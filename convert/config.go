package convert

import (
	"github.com/jsphweid/mmlcodec/constants"
	"github.com/jsphweid/mmlcodec/logger"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/tuning"
)

type Config struct {
	Players  int
	Split    model.Split
	Compress bool
	// Budgets are the character limits for melody, chord1 and chord2.
	Budgets [3]int
	Tuning  tuning.Params
	Logger  logger.Printer
}

type Option func(*Config)

func WithPlayers(n int) Option {
	return func(c *Config) {
		c.Players = n
	}
}

func WithSplit(split model.Split) Option {
	return func(c *Config) {
		c.Split = split
	}
}

func WithCompress(compress bool) Option {
	return func(c *Config) {
		c.Compress = compress
	}
}

func WithBudgets(melody, chord1, chord2 int) Option {
	return func(c *Config) {
		c.Budgets = [3]int{melody, chord1, chord2}
	}
}

func WithTuning(p tuning.Params) Option {
	return func(c *Config) {
		c.Tuning = p
	}
}

func WithLogger(log logger.Printer) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func defaultConfig() *Config {
	return &Config{
		Players:  1,
		Split:    model.Parallel,
		Compress: true,
		Budgets:  [3]int{constants.MelodyBudget, constants.Chord1Budget, constants.Chord2Budget},
		Tuning:   tuning.Default(),
		Logger:   logger.Nop(),
	}
}
