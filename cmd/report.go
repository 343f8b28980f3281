package cmd

import (
	"fmt"

	"github.com/jsphweid/mmlcodec/convert"
	"github.com/jsphweid/mmlcodec/midi"
	"github.com/jsphweid/mmlcodec/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <file.mid>",
	Short: "Reports how each part was fitted to its budget",
	Long:  `Reports how each part was fitted to its budget`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(args[0])
	},
}

func report(path string) error {
	opts, err := conversionOptions()
	if err != nil {
		return err
	}
	src, err := midi.ReadSource(path)
	if err != nil {
		return err
	}
	_, r, err := convert.Convert(src, opts...)
	if err != nil {
		return errors.Wrapf(err, "converting %s", path)
	}

	fmt.Printf("%-6s %-7s %11s %5s %5s %8s %6s %15s %s\n",
		"player", "part", "chars", "spq", "level", "fidelity", "notes", "ticks", "truncated")
	var fidelities []float64
	for _, p := range r.Parts {
		fmt.Printf("%-6d %-7s %5d/%-5d %5d %5d %8.3f %6d %7d/%-7d %v\n",
			p.Player, p.Part, p.Length, p.Budget, p.StepsPerQuarter, p.Level,
			p.Fidelity, p.Notes, p.RetainedTicks, p.SourceTicks, p.Truncated)
		if p.Notes > 0 {
			fidelities = append(fidelities, p.Fidelity)
		}
	}
	fmt.Printf("mean fidelity: %.3f\n", util.Mean(fidelities))
	return nil
}
