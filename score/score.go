// Package score reads and writes the text score: a #META header, then one
// #PLAYER line and one MML@melody,chord1,chord2; block per player.
package score

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/mmlcodec/constants"
	"github.com/jsphweid/mmlcodec/model"
	"github.com/pkg/errors"
)

var ErrMalformedScore = errors.New("malformed score")

type Meta struct {
	TotalTicks int
	PPQ        int
	Players    int
	Split      model.Split
	BPM        int
}

type Player struct {
	Ticks  int
	Melody string
	Chord1 string
	Chord2 string
}

func (p Player) Parts() [3]string {
	return [3]string{p.Melody, p.Chord1, p.Chord2}
}

type Score struct {
	Meta    Meta
	Players []Player
}

func (s *Score) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#META totalTicks=%d ppq=%d players=%d split=%s bpm=%d\n",
		s.Meta.TotalTicks, s.Meta.PPQ, s.Meta.Players, s.Meta.Split, s.Meta.BPM)
	for i, p := range s.Players {
		fmt.Fprintf(&sb, "#PLAYER %d ticks=%d\n", i+1, p.Ticks)
		fmt.Fprintf(&sb, "MML@%s,%s,%s;\n", p.Melody, p.Chord1, p.Chord2)
	}
	return sb.String()
}

func defaultMeta() Meta {
	return Meta{PPQ: constants.DefaultPPQ, BPM: constants.DefaultBPM, Split: model.Parallel}
}

// Parse reads a score. A bare MML@...; block without header lines is
// accepted with default meta. Blocks may span several lines.
func Parse(text string) (*Score, error) {
	s := &Score{Meta: defaultMeta()}
	pendingTicks := -1
	var block strings.Builder
	inBlock := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !inBlock {
			switch {
			case line == "":
				continue
			case strings.HasPrefix(line, "#META"):
				if err := parseMeta(line, &s.Meta); err != nil {
					return nil, err
				}
				continue
			case strings.HasPrefix(line, "#PLAYER"):
				fields := keyValues(line)
				if v, ok := fields["ticks"]; ok {
					n, err := strconv.Atoi(v)
					if err != nil {
						return nil, errors.Wrapf(ErrMalformedScore, "player ticks %q", v)
					}
					pendingTicks = n
				}
				continue
			}
			idx := strings.Index(strings.ToUpper(line), "MML@")
			if idx < 0 {
				continue
			}
			line = line[idx+len("MML@"):]
			inBlock = true
		}

		end := strings.IndexByte(line, ';')
		if end < 0 {
			block.WriteString(line)
			continue
		}
		block.WriteString(line[:end])
		p, err := parseBlock(block.String())
		if err != nil {
			return nil, err
		}
		p.Ticks = pendingTicks
		s.Players = append(s.Players, p)
		pendingTicks = -1
		block.Reset()
		inBlock = false
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading score")
	}
	if inBlock {
		return nil, errors.Wrap(ErrMalformedScore, "unterminated MML block")
	}
	if len(s.Players) == 0 {
		return nil, errors.Wrap(ErrMalformedScore, "no MML block")
	}
	if s.Meta.Players == 0 {
		s.Meta.Players = len(s.Players)
	}
	return s, nil
}

func parseBlock(body string) (Player, error) {
	parts := strings.Split(body, ",")
	if len(parts) != 3 {
		return Player{}, errors.Wrapf(ErrMalformedScore, "block has %d parts, want 3", len(parts))
	}
	return Player{
		Melody: strings.TrimSpace(parts[0]),
		Chord1: strings.TrimSpace(parts[1]),
		Chord2: strings.TrimSpace(parts[2]),
	}, nil
}

func keyValues(line string) map[string]string {
	res := map[string]string{}
	for _, f := range strings.Fields(line) {
		if k, v, ok := strings.Cut(f, "="); ok {
			res[k] = v
		}
	}
	return res
}

func parseMeta(line string, m *Meta) error {
	for k, v := range keyValues(line) {
		if k == "split" {
			split, err := model.ParseSplit(v)
			if err != nil {
				return errors.Wrap(ErrMalformedScore, err.Error())
			}
			m.Split = split
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(ErrMalformedScore, "meta %s=%q", k, v)
		}
		switch k {
		case "totalTicks":
			m.TotalTicks = n
		case "ppq":
			m.PPQ = n
		case "players":
			m.Players = n
		case "bpm":
			m.BPM = n
		}
	}
	return nil
}
