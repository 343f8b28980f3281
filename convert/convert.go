// Package convert runs the whole codec: voice classification, pooling, the
// optional ensemble split and the per-part budget search.
package convert

import (
	"math"

	"github.com/jsphweid/mmlcodec/constants"
	"github.com/jsphweid/mmlcodec/ensemble"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/jsphweid/mmlcodec/pool"
	"github.com/jsphweid/mmlcodec/sample"
	"github.com/jsphweid/mmlcodec/score"
	"github.com/jsphweid/mmlcodec/search"
	"github.com/jsphweid/mmlcodec/tuning"
	"github.com/jsphweid/mmlcodec/util"
	"github.com/jsphweid/mmlcodec/voice"
	"github.com/pkg/errors"
)

// Report describes every rendered part, in player then part order.
type Report struct {
	Parts []model.PartReport
}

// Truncated reports whether any part lost material to its budget.
func (r Report) Truncated() bool {
	for _, p := range r.Parts {
		if p.Truncated {
			return true
		}
	}
	return false
}

type pipeline struct {
	cfg   *Config
	ppq   int
	tempo int
}

// Tempo rounds bpm into the range the notation accepts.
func Tempo(bpm float64) int {
	if bpm <= 0 {
		return constants.DefaultBPM
	}
	return util.Clamp(int(math.Round(bpm)), constants.MinBPM, constants.MaxBPM)
}

// Volume maps the average velocity of a pool onto 1..15.
func Volume(notes []model.NoteEvent) int {
	if len(notes) == 0 {
		return constants.DefaultVolume
	}
	v := voice.Stats(notes, false).AvgVelocity
	return util.Clamp(int(math.Round(v*constants.MaxVolume)), constants.MinVolume, constants.MaxVolume)
}

func Convert(src model.Source, opts ...Option) (*score.Score, Report, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.Players = util.Clamp(cfg.Players, 1, constants.MaxPlayers)

	pl := &pipeline{cfg: cfg, ppq: src.PPQ, tempo: Tempo(src.BPM)}
	if pl.ppq <= 0 {
		pl.ppq = constants.DefaultPPQ
	}

	cls, err := voice.Classify(src.Tracks, pl.ppq, cfg.Tuning)
	if err != nil {
		return nil, Report{}, errors.Wrap(err, "classifying tracks")
	}
	pools := pool.Build(cls, cfg.Tuning)
	total := endTick(pools.Melody, pools.Upper, pools.Lower)

	s := &score.Score{Meta: score.Meta{
		TotalTicks: total,
		PPQ:        pl.ppq,
		Players:    cfg.Players,
		Split:      cfg.Split,
		BPM:        pl.tempo,
	}}
	var report Report

	cfg.Logger.Infof("converting %d tracks: %d ticks at ppq %d, %d player(s), %s split",
		len(src.Tracks), total, pl.ppq, cfg.Players, cfg.Split)

	switch {
	case cfg.Players == 1:
		s.Meta.Split = model.Parallel
		parts := pl.renderPlayer(pools, total, true)
		pl.add(s, &report, parts, total)
	case cfg.Split == model.Sequential:
		all := pool.Merge(append(append([]model.Track{}, cls.Melody...), cls.Harmony...))
		cuts := ensemble.Boundaries(all, total, pl.ppq, cfg.Players, cfg.Tuning)
		for _, seg := range ensemble.Segments(cuts, total) {
			cfg.Logger.Debugf("player %d: ticks %d-%d", seg.Index+1, seg.Start, seg.End)
			parts := pl.renderPlayer(segmentPools(cls, seg, cfg.Tuning), seg.Ticks(), false)
			pl.add(s, &report, parts, seg.Ticks())
		}
	default:
		all := pool.Merge(append(append([]model.Track{}, cls.Melody...), cls.Harmony...))
		for _, a := range ensemble.Distribute(all, cfg.Players, pl.ppq, cfg.Tuning, estimator{pl}) {
			assigned := pool.Pools{Melody: a.Melody, Upper: a.Chord1, Lower: a.Chord2}
			parts := pl.renderPlayer(assigned, total, false)
			pl.add(s, &report, parts, total)
		}
	}
	return s, report, nil
}

// segmentPools builds the pools of one sequential segment from the classified
// tracks, so rebalancing only sees that segment's notes.
func segmentPools(cls voice.Classification, seg model.Segment, p tuning.Params) pool.Pools {
	return pool.Build(voice.Classification{
		Melody:    sample.Slice(cls.Melody, seg.Start, seg.End),
		Harmony:   sample.Slice(cls.Harmony, seg.Start, seg.End),
		Upper:     sample.Slice(cls.Upper, seg.Start, seg.End),
		Lower:     sample.Slice(cls.Lower, seg.Start, seg.End),
		Separated: cls.Separated,
	}, p)
}

func endTick(pools ...[]model.NoteEvent) int {
	var end int
	for _, notes := range pools {
		for _, n := range notes {
			end = util.Max(end, n.End())
		}
	}
	return end
}

func (pl *pipeline) request(notes []model.NoteEvent, mode model.Mode, forcedEnd int) search.Request {
	return search.Request{
		Notes:      notes,
		Mode:       mode,
		Budget:     pl.cfg.Budgets[mode],
		PPQ:        pl.ppq,
		Tempo:      pl.tempo,
		Volume:     Volume(notes),
		CarryTempo: mode == model.Melody,
		Compress:   pl.cfg.Compress,
		ForcedEnd:  forcedEnd,
		Tuning:     pl.cfg.Tuning,
		Logger:     pl.cfg.Logger,
	}
}

// renderPlayer searches all three parts of one player. A single player keeps
// the longest prefix of the piece instead of the best summary.
func (pl *pipeline) renderPlayer(pools pool.Pools, ticks int, strict bool) [3]model.EncodedPart {
	var parts [3]model.EncodedPart
	for _, mode := range model.Modes {
		req := pl.request(pools.For(mode), mode, ticks)
		req.StrictPrefix = strict
		parts[mode] = search.Run(req)
	}
	if pl.cfg.Compress {
		parts = ensemble.Align(parts)
	}
	return parts
}

func (pl *pipeline) add(s *score.Score, report *Report, parts [3]model.EncodedPart, ticks int) {
	player := len(s.Players)
	s.Players = append(s.Players, score.Player{
		Ticks:  ticks,
		Melody: parts[model.Melody].Text,
		Chord1: parts[model.Upper].Text,
		Chord2: parts[model.Lower].Text,
	})
	for _, mode := range model.Modes {
		part := parts[mode]
		report.Parts = append(report.Parts, model.PartReport{
			Player:          player + 1,
			Part:            mode.PartName(),
			Length:          part.Len(),
			Budget:          pl.cfg.Budgets[mode],
			StepsPerQuarter: part.StepsPerQuarter,
			Level:           part.Level,
			Fidelity:        part.Fidelity,
			Notes:           part.NoteEventCount,
			RetainedTicks:   part.RetainedEndTicks,
			SourceTicks:     part.SourceEndTicks,
			Truncated:       part.Truncated,
		})
		if part.Truncated {
			pl.cfg.Logger.Warnf("player %d %s truncated to %d chars (%d of %d ticks kept)",
				player+1, mode.PartName(), part.Len(), part.RetainedEndTicks, part.SourceEndTicks)
		}
	}
}

// estimator dry-runs the search at the fixed resolution to predict how many
// notes a slot keeps as chord1 or chord2.
type estimator struct {
	pl *pipeline
}

func (e estimator) Retained(notes []model.NoteEvent, mode model.Mode) int {
	req := e.pl.request(notes, mode, 0)
	req.Compress = false
	req.CarryTempo = false
	req.Logger = nil
	return search.Run(req).NoteEventCount
}
