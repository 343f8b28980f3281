package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/mmlcodec/convert"
	"github.com/jsphweid/mmlcodec/midi"
	"github.com/jsphweid/mmlcodec/score"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	decodeOutput string
	decodePPQ    int
)

func init() {
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "out.mid", "MIDI file to write")
	decodeCmd.Flags().IntVar(&decodePPQ, "ppq", 0, "ticks per quarter of the output (default: the score's)")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <score.mml>",
	Short: "Decodes an MML score back to MIDI",
	Long:  `Decodes an MML score back to MIDI`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dat, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrap(err, "reading score")
		}
		s, err := score.Parse(string(dat))
		if err != nil {
			return err
		}
		rec, err := convert.Reconstruct(s, decodePPQ)
		if err != nil {
			return err
		}

		f, err := os.Create(decodeOutput)
		if err != nil {
			return errors.Wrap(err, "creating output")
		}
		defer f.Close()
		if err := midi.Write(f, rec.Tracks, rec.Tempos, rec.PPQ); err != nil {
			return err
		}
		fmt.Printf("wrote %d tracks, %d ticks to %s\n", len(rec.Tracks), rec.TotalTicks, decodeOutput)
		return nil
	},
}
