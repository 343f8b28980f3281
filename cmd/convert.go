package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/mmlcodec/convert"
	"github.com/jsphweid/mmlcodec/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var convertOutput string

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "write the score here instead of stdout")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <file.mid>",
	Short: "Converts a MIDI file to an MML score",
	Long:  `Converts a MIDI file to an MML score, keeping every part within its character budget.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := convertFile(args[0])
		if err != nil {
			return err
		}
		if convertOutput == "" {
			fmt.Print(text)
			return nil
		}
		return errors.Wrap(os.WriteFile(convertOutput, []byte(text), 0644), "writing score")
	},
}

func convertFile(path string) (string, error) {
	opts, err := conversionOptions()
	if err != nil {
		return "", err
	}
	src, err := midi.ReadSource(path)
	if err != nil {
		return "", err
	}
	s, _, err := convert.Convert(src, opts...)
	if err != nil {
		return "", errors.Wrapf(err, "converting %s", path)
	}
	return s.Format(), nil
}
