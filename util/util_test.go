package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntegerHelpers(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, RoundDiv(5, 2))
	assert.Equal(2, RoundDiv(7, 4))
	assert.Equal(0, RoundDiv(7, 0))
	assert.Equal(3, CeilDiv(7, 3))
	assert.Equal(2, CeilDiv(6, 3))
	assert.Equal(10, Clamp(12, 1, 10))
	assert.Equal(1, Clamp(-3, 1, 10))
	assert.Equal(4, Abs(-4))
}

func TestMeanAndSum(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(6, Sum([]int{1, 2, 3}))
	assert.Equal(2.0, Mean([]int{1, 2, 3}))
	assert.Equal(0.0, Mean([]float64{}))
}

func TestGetKeysSorted(t *testing.T) {
	assert.Equal(t, []int{1, 5, 9}, GetKeys(map[int]bool{9: true, 1: true, 5: false}))
}

func TestGatherAllMidiPaths(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0777))
	for _, name := range []string{"b.mid", "a.MIDI", "notes.txt", "nested/c.mid"} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0666))
	}

	all, err := GatherAllMidiPaths(dir, 0)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.MIDI"),
		filepath.Join(dir, "b.mid"),
		filepath.Join(dir, "nested", "c.mid"),
	}, all)

	some, err := GatherAllMidiPaths(dir, 2)
	assert.NoError(t, err)
	assert.Len(t, some, 2)
}

func TestRecreateOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	assert.NoError(t, os.MkdirAll(dir, 0777))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "old.mml"), []byte("x"), 0666))

	assert.NoError(t, RecreateOutputDir(dir))
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
