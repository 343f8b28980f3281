package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Job is one batch conversion: a source file and where its score goes.
type Job struct {
	Num    uint32
	Input  string
	Output string
}

// CreateJobs gives every input a unique output name under outDir.
func CreateJobs(paths []string, outDir string) []Job {
	res := make([]Job, len(paths))
	for i, v := range paths {
		res[i] = Job{
			Num:    uint32(i),
			Input:  v,
			Output: filepath.Join(outDir, uuid.New().String()+".mml"),
		}
	}
	return res
}

// WriteManifest records which output came from which input, one tab
// separated line per job.
func WriteManifest(jobs []Job, outDir string) (string, error) {
	var sb strings.Builder
	for _, j := range jobs {
		fmt.Fprintf(&sb, "%d\t%s\t%s\n", j.Num, filepath.Base(j.Output), j.Input)
	}
	path := filepath.Join(outDir, "manifest.tsv")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", errors.Wrap(err, "writing manifest")
	}
	return path, nil
}
