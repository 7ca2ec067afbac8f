package sheet

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tenpin/tenpin/pkg/bowling"
)

// Format selects how a sheet is decoded.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// FormatFor picks the sheet format from the file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Game is one named roll sequence on a sheet.
type Game struct {
	Name  string `yaml:"name"`
	Rolls []int  `yaml:"rolls"`
}

// Sheet is the parsed content of one sheet file.
type Sheet struct {
	Path  string `yaml:"-"`
	Games []Game `yaml:"games"`
}

// Result is the scored outcome of one Game.
type Result struct {
	// Sheet is the path of the sheet the game came from, empty for sheets
	// not read from a file.
	Sheet string
	Name  string

	// Rolls holds the rolls the game accepted. When Err is set this stops
	// short of the sheet's roll list.
	Rolls []int

	Score    int
	Complete bool
	Frames   []bowling.Frame

	// Err is non-nil if a roll was rejected. Score covers the rolls
	// accepted before it.
	Err error
}

// Load reads and parses the sheet at path, choosing the format from its
// extension.
func Load(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sheet: open: %w", err)
	}
	defer f.Close()

	s, err := Parse(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Parse decodes a sheet from r.
func Parse(r io.Reader, format Format) (*Sheet, error) {
	var (
		s   *Sheet
		err error
	)
	switch format {
	case FormatYAML:
		s, err = parseYAML(r)
	case FormatText:
		s, err = parseText(r)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

func parseYAML(r io.Reader) (*Sheet, error) {
	s := &Sheet{}
	if err := yaml.NewDecoder(r).Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return s, nil
}

func parseText(r io.Reader) (*Sheet, error) {
	s := &Sheet{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name := fmt.Sprintf("game-%d", lineNo)
		if before, after, ok := strings.Cut(line, ":"); ok {
			name = strings.TrimSpace(before)
			line = after
		}

		rolls, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		s.Games = append(s.Games, Game{Name: name, Rolls: rolls})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return s, nil
}

// validate checks that every game has a unique, non-empty name.
func validate(s *Sheet) error {
	seen := make(map[string]bool, len(s.Games))
	for i, g := range s.Games {
		if g.Name == "" {
			return fmt.Errorf("games[%d]: name is required", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("games[%d]: duplicate name %q", i, g.Name)
		}
		seen[g.Name] = true
	}
	return nil
}

// Score plays every game on the sheet through a bowling.Game and returns
// one Result per game in sheet order.
func (s *Sheet) Score(strict bool) []Result {
	var opts []bowling.Option
	if strict {
		opts = append(opts, bowling.WithStrictFrames())
	}

	out := make([]Result, 0, len(s.Games))
	for _, sg := range s.Games {
		g := bowling.NewGame(opts...)
		res := Result{Sheet: s.Path, Name: sg.Name}
		for i, pins := range sg.Rolls {
			if err := g.Roll(pins); err != nil {
				res.Err = fmt.Errorf("game %q roll %d: %w", sg.Name, i+1, err)
				break
			}
		}
		res.Rolls = g.Rolls()
		res.Score = g.Score()
		res.Complete = g.Complete()
		res.Frames = g.Frames()
		out = append(out, res)
	}
	return out
}
