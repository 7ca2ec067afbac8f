package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/tenpin/tenpin/scorer/internal/sheet"
)

// Metric names written by Write.
const (
	MetricGameScore      = "tenpin_game_score"
	MetricGameRolls      = "tenpin_game_rolls"
	MetricGameComplete   = "tenpin_game_complete"
	MetricGameFrameScore = "tenpin_game_frame_score"
	MetricSheetErrors    = "tenpin_sheet_errors"
)

// Families converts results into Prometheus metric families, ordered by
// metric name. Families with no samples are omitted.
func Families(results []sheet.Result) []*dto.MetricFamily {
	score := gaugeFamily(MetricGameScore, "Total score of the game so far.")
	rolls := gaugeFamily(MetricGameRolls, "Number of rolls accepted for the game.")
	complete := gaugeFamily(MetricGameComplete, "1 if the tenth frame and its bonus balls have been rolled.")
	frames := gaugeFamily(MetricGameFrameScore, "Score of each resolved frame, bonus included.")
	errs := gaugeFamily(MetricSheetErrors, "Number of games with a rejected roll.")

	var errCount float64
	for _, r := range results {
		src, game := label("sheet", sheetName(r.Sheet)), label("game", r.Name)
		score.Metric = append(score.Metric, gauge(float64(r.Score), src, game))
		rolls.Metric = append(rolls.Metric, gauge(float64(len(r.Rolls)), src, game))
		complete.Metric = append(complete.Metric, gauge(boolValue(r.Complete), src, game))

		for _, f := range r.Frames {
			if !f.Resolved {
				continue
			}
			frames.Metric = append(frames.Metric,
				gauge(float64(f.Score), src, game, label("frame", strconv.Itoa(f.Number))))
		}

		if r.Err != nil {
			errCount++
		}
	}
	errs.Metric = append(errs.Metric, gauge(errCount))

	out := make([]*dto.MetricFamily, 0, 5)
	for _, mf := range []*dto.MetricFamily{complete, frames, rolls, score, errs} {
		if len(mf.Metric) > 0 {
			out = append(out, mf)
		}
	}
	return out
}

// Write encodes results to w in the Prometheus text format.
func Write(w io.Writer, results []sheet.Result) error {
	for _, mf := range Families(results) {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("export: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile atomically replaces path with the exposition of results.
func WriteFile(path string, results []sheet.Result) error {
	var buf bytes.Buffer
	if err := Write(&buf, results); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("export: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("export: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("export: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export: rename: %w", err)
	}
	return nil
}

func gaugeFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: ptr(name),
		Help: ptr(help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

func gauge(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{
		Label: labels,
		Gauge: &dto.Gauge{Value: ptr(v)},
	}
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: ptr(name), Value: ptr(value)}
}

// sheetName is the cleaned sheet path. Base names alone collide when two
// directories hold sheets with the same file name.
func sheetName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func ptr[T any](v T) *T { return &v }
