package cmd

import (
	"github.com/jsphweid/mmlcodec/constants"
	"github.com/jsphweid/mmlcodec/convert"
	"github.com/jsphweid/mmlcodec/logger"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	players  int
	split    string
	compress bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "mmlcodec",
	Short: "MIDI to three-part MML",
	Long:  `Converts MIDI files into budgeted melody/chord1/chord2 MML scores and back.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel == "" {
			return nil
		}
		lvl, ok := logger.ParseLevel(logLevel)
		if !ok {
			return errors.Errorf("unknown log level %q", logLevel)
		}
		logger.SetLevel(lvl)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&players, "players", "p", 1, "number of players to split the piece between")
	flags.StringVar(&split, "split", "parallel", "ensemble split: parallel or sequential")
	flags.BoolVar(&compress, "compress", true, "search resolutions and simplification levels to fit the budgets")
	flags.StringVar(&logLevel, "log-level", "", "DEBUG, INFO, WARN or FATAL (default from LOG_LEVEL)")
}

// conversionOptions turns the persistent flags into convert options.
func conversionOptions() ([]convert.Option, error) {
	s, err := model.ParseSplit(split)
	if err != nil {
		return nil, err
	}
	if players < 1 || players > constants.MaxPlayers {
		return nil, errors.Errorf("players must be between 1 and %d", constants.MaxPlayers)
	}
	return []convert.Option{
		convert.WithPlayers(players),
		convert.WithSplit(s),
		convert.WithCompress(compress),
		convert.WithLogger(logger.GetLogger()),
	}, nil
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
