package cmd

import (
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/jsphweid/mmlcodec/constants"
	"github.com/jsphweid/mmlcodec/file"
	"github.com/jsphweid/mmlcodec/logger"
	"github.com/jsphweid/mmlcodec/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var batchWorkers int

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel conversions (default: CPUs - 1)")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch [maxNum]",
	Short: "Converts every MIDI file under MEDIA_PATH",
	Long:  `Converts every MIDI file under MEDIA_PATH into OUTPUT_PATH, with a manifest.tsv mapping outputs to inputs.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxNum int
		if len(args) == 1 {
			arg1, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(err, "maxNum")
			}
			maxNum = arg1
		}
		return runBatch(maxNum)
	},
}

func runBatch(maxNum int) error {
	outDir := constants.GetOutputDir()
	if err := util.RecreateOutputDir(outDir); err != nil {
		return err
	}
	paths, err := util.GatherAllMidiPaths(constants.GetMediaDir(), maxNum)
	if err != nil {
		return err
	}
	jobs := file.CreateJobs(paths, outDir)

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(len(jobs)),
		mpb.PrependDecorators(
			decor.Name("Converting: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.EwmaETA(decor.ET_STYLE_GO, 60),
		),
	)

	w := batchWorkers
	if w <= 0 {
		w = util.Max(runtime.NumCPU()-1, 2)
	}

	queue := make(chan file.Job, len(jobs))
	results := make(chan error, len(jobs))
	var wg sync.WaitGroup
	for i := 0; i < w; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				text, err := convertFile(job.Input)
				if err == nil {
					err = os.WriteFile(job.Output, []byte(text), 0644)
				}
				results <- errors.Wrap(err, job.Input)
			}
		}()
	}
	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	go func() {
		wg.Wait()
		close(results)
	}()

	var failed int
	for err := range results {
		bar.Increment()
		if err != nil {
			failed++
			logger.Warnf("%v", err)
		}
	}
	p.Wait()

	manifest, err := file.WriteManifest(jobs, outDir)
	if err != nil {
		return err
	}
	logger.Infof("converted %d of %d files, manifest at %s", len(jobs)-failed, len(jobs), manifest)
	return nil
}
