package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/mmlcodec/constants"
	"github.com/jsphweid/mmlcodec/convert"
	"github.com/jsphweid/mmlcodec/logger"
	"github.com/jsphweid/mmlcodec/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var (
	listenPort  int
	listenBPM   float64
	listenPause time.Duration
)

func init() {
	listenCmd.Flags().IntVar(&listenPort, "port", 0, "MIDI input port number")
	listenCmd.Flags().Float64Var(&listenBPM, "bpm", constants.DefaultBPM, "tempo used to quantize what is played")
	listenCmd.Flags().DurationVar(&listenPause, "pause", 750*time.Millisecond, "quiet time before the preview is redrawn")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Previews MML for what is played on a MIDI input",
	Long:  `Records notes from a MIDI input and prints the encoded score whenever playing pauses. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := conversionOptions()
		if err != nil {
			return err
		}
		defer gomidi.CloseDriver()
		in, err := gomidi.InPort(listenPort)
		if err != nil {
			return errors.Wrapf(err, "can't open MIDI input %d", listenPort)
		}

		rec := midi.NewRecorder(constants.DefaultPPQ, listenBPM)
		var last int32
		preview := func() {
			src := rec.Source(atomic.LoadInt32(&last))
			s, _, err := convert.Convert(src, opts...)
			if err != nil {
				logger.Debugf("preview: %v", err)
				return
			}
			fmt.Println(s.Format())
		}
		debounced := debounce.New(listenPause)

		stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
			var ch, key, vel uint8
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				atomic.StoreInt32(&last, timestampms)
				rec.NoteStart(key, vel, timestampms)
			case msg.GetNoteEnd(&ch, &key):
				atomic.StoreInt32(&last, timestampms)
				rec.NoteEnd(key, timestampms)
			default:
				return
			}
			debounced(preview)
		})
		if err != nil {
			return err
		}
		defer stop()

		logger.Infof("listening on %s", in)
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		<-interrupt
		return nil
	},
}
