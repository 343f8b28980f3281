// Package tuning holds the empirically tuned weights used by the codec.
// The values have no physical meaning; only their relative order matters
// (what wins ties, what dominates a score). Every component receives a
// Params value explicitly.
package tuning

import "github.com/jsphweid/mmlcodec/model"

type Params struct {
	// voice classification
	SeparationMinOverlap float64
	SeparationMinNotes   int
	SeparationVoices     int
	MelodyPitchWeight    float64
	MelodyMonoWeight     float64
	MelodyBusyWeight     float64
	SupportMaxDistance   float64
	SupportMaxOverlap    float64
	SupportMinNotes      int
	SupportMinRatio      float64
	MaxSupportTracks     int
	MaxHarmonyTracks     int
	MonophonicMaxOverlap float64
	OverlapPenalty       float64
	OverlapBeatWeight    float64
	PitchDistanceWeight  float64
	IdleGapWeight        float64
	IdleGapCapBeats      float64
	EmptyBucketCost      float64

	// pool rebalancing
	RebalanceMinNotes int
	UpperPercentile   float64
	EchoPercentile    float64

	// simplifier
	MelodyShortRun  int
	HarmonyShortRun int
	MaxLevel        int

	// fidelity
	ReferenceStepsPerQuarter int
	MonoReferenceMaxOverlap  float64
	ExactScore               float64
	SemitoneScore            float64
	WholeToneScore           float64
	ThirdScore               float64
	FifthScore               float64
	FarScore                 float64
	RestMismatchScore        float64
	BothRestScore            float64
	TransitionBonus          float64
	LeapExactBonus           float64
	LeapNearBonus            float64
	LeapFarPenalty           float64
	EarlyFraction            float64
	EarlyMinQuarters         int
	EarlyMaxQuarters         int

	// candidate ranking
	MelodyResolutions     []int
	HarmonyResolutions    []int
	FixedStepsPerQuarter  int
	LevelPenalty          float64
	ResolutionBonus       float64
	CoverageBonus         float64
	EarlyWeight           float64
	EarlyWeightCompressed float64
	OverflowPenalty       float64

	// sequential ensemble cuts
	CutActiveWeight   float64
	BarAlignBonus     float64
	BeatAlignBonus    float64
	EdgeAlignBonus    float64
	CutDistanceWeight float64
	CutWindowBars     int
	OnsetCost         float64
	ReleaseCost       float64
	SustainCost       float64
	ComplexityBlend   float64
	MinSegmentDivisor int
	BeatsPerBar       int
}

func Default() Params {
	return Params{
		SeparationMinOverlap: 0.55,
		SeparationMinNotes:   64,
		SeparationVoices:     3,
		MelodyPitchWeight:    1.2,
		MelodyMonoWeight:     25,
		MelodyBusyWeight:     4,
		SupportMaxDistance:   7,
		SupportMaxOverlap:    0.45,
		SupportMinNotes:      8,
		SupportMinRatio:      0.2,
		MaxSupportTracks:     2,
		MaxHarmonyTracks:     3,
		MonophonicMaxOverlap: 0.35,
		OverlapPenalty:       1000,
		OverlapBeatWeight:    50,
		PitchDistanceWeight:  1.6,
		IdleGapWeight:        0.75,
		IdleGapCapBeats:      8,
		EmptyBucketCost:      12,

		RebalanceMinNotes: 24,
		UpperPercentile:   95,
		EchoPercentile:    98.5,

		MelodyShortRun:  1,
		HarmonyShortRun: 2,
		MaxLevel:        3,

		ReferenceStepsPerQuarter: 96,
		MonoReferenceMaxOverlap:  0.35,
		ExactScore:               2,
		SemitoneScore:            1.45,
		WholeToneScore:           1.05,
		ThirdScore:               0.4,
		FifthScore:               -0.25,
		FarScore:                 -0.85,
		RestMismatchScore:        -1.2,
		BothRestScore:            0.35,
		TransitionBonus:          0.15,
		LeapExactBonus:           0.2,
		LeapNearBonus:            0.08,
		LeapFarPenalty:           -0.12,
		EarlyFraction:            0.35,
		EarlyMinQuarters:         64,
		EarlyMaxQuarters:         192,

		MelodyResolutions:     []int{16, 8, 4, 2, 1},
		HarmonyResolutions:    []int{8, 4, 2, 1},
		FixedStepsPerQuarter:  8,
		LevelPenalty:          0.08,
		ResolutionBonus:       0.01,
		CoverageBonus:         0.25,
		EarlyWeight:           0.15,
		EarlyWeightCompressed: 0.35,
		OverflowPenalty:       3,

		CutActiveWeight:   10,
		BarAlignBonus:     3,
		BeatAlignBonus:    1,
		EdgeAlignBonus:    1.5,
		CutDistanceWeight: 1,
		CutWindowBars:     2,
		OnsetCost:         4,
		ReleaseCost:       1.8,
		SustainCost:       0.2,
		ComplexityBlend:   0.5,
		MinSegmentDivisor: 4,
		BeatsPerBar:       4,
	}
}

// Resolutions returns the candidate steps-per-quarter for a role, richest first.
func (p Params) Resolutions(mode model.Mode) []int {
	if mode == model.Melody {
		return p.MelodyResolutions
	}
	return p.HarmonyResolutions
}

// ShortRunThreshold is the longest run (in steps) the simplifier collapses at level.
func (p Params) ShortRunThreshold(mode model.Mode, level int) int {
	if level <= 0 {
		return 0
	}
	if mode == model.Melody {
		return p.MelodyShortRun * level
	}
	return p.HarmonyShortRun * level
}
