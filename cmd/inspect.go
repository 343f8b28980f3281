package cmd

import (
	"fmt"

	"github.com/jsphweid/mmlcodec/convert"
	"github.com/jsphweid/mmlcodec/midi"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/pool"
	"github.com/jsphweid/mmlcodec/sample"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/jsphweid/mmlcodec/voice"
	"github.com/spf13/cobra"
)

var (
	previewFrom  int
	previewNotes int
)

func init() {
	inspectCmd.Flags().IntVar(&previewFrom, "from", -1, "also print a short MML preview starting at this tick")
	inspectCmd.Flags().IntVar(&previewNotes, "notes", 10, "notes per track in the preview")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Shows how a MIDI file's tracks are classified",
	Long:  `Shows how a MIDI file's tracks are classified`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func printTracks(role string, tracks []model.Track) {
	for _, t := range tracks {
		s := voice.TrackStats(t)
		fmt.Printf("%-8s %-20s notes=%-5d avgPitch=%6.2f overlap=%.2f percussion=%v\n",
			role, t.Name, s.NoteCount, s.AvgPitch, s.OverlapRatio, s.Percussion)
	}
}

func inspect(path string) error {
	src, err := midi.ReadSource(path)
	if err != nil {
		return err
	}
	fmt.Printf("ppq: %d\n", src.PPQ)
	fmt.Printf("bpm: %.2f (written as t%d)\n", src.BPM, convert.Tempo(src.BPM))
	fmt.Printf("end tick: %d\n", src.EndTick())

	p := tuning.Default()
	cls, err := voice.Classify(src.Tracks, src.PPQ, p)
	if err != nil {
		return err
	}
	fmt.Printf("separated: %v\n", cls.Separated)
	printTracks("melody", cls.Melody)
	printTracks("harmony", cls.Harmony)

	pools := pool.Build(cls, p)
	fmt.Printf("pools: melody=%d upper=%d lower=%d\n", len(pools.Melody), len(pools.Upper), len(pools.Lower))

	if previewFrom < 0 {
		return nil
	}
	ex := sample.Excerpt(src, previewFrom, previewNotes)
	s, _, err := convert.Convert(ex, convert.WithCompress(false))
	if err != nil {
		return err
	}
	fmt.Print(s.Format())
	return nil
}
