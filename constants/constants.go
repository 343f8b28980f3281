package constants

import "os"

func GetOutputDir() string {
	path := os.Getenv("OUTPUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}

	panic("MEDIA_PATH environment variable is not set!")
}

// GetDynamoEndpoint returns "" when the score cache is disabled.
func GetDynamoEndpoint() string {
	return os.Getenv("DYNAMO_ENDPOINT")
}

func GetDynamoTable() string {
	table := os.Getenv("DYNAMO_TABLE")
	if table != "" {
		return table
	}
	return "mmlcodec-scores"
}

// Character budgets per part. Clients reject anything longer.
const (
	MelodyBudget = 1200
	Chord1Budget = 800
	Chord2Budget = 500
)

const DefaultPPQ = 480

const (
	DefaultBPM = 120
	MinBPM     = 32
	MaxBPM     = 255
)

const (
	MinVolume     = 1
	MaxVolume     = 15
	DefaultVolume = 10
)

// MML octave of MIDI pitch 60 is 4.
const (
	MinOctave     = 0
	MaxOctave     = 8
	DefaultOctave = 4
)

const MaxPlayers = 8

const ServerAddr = ":8080"
