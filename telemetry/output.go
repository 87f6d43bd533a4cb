// Package telemetry records per-frame sampling statistics and timings and
// writes them as CSV.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/sparks/config"
)

// csvFile appends gocsv rows to a file, writing the header once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func createCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{f: f}, nil
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		c.headerWritten = true
		return gocsv.Marshal(records, c.f)
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir     string
	frames  *csvFile
	samples *csvFile
	perf    *csvFile
}

// NewOutputManager creates the output directory and files.
// Returns nil if dir is empty (output disabled); all methods accept a nil
// manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.frames, err = createCSV(dir, "frames.csv"); err != nil {
		return nil, err
	}
	if om.samples, err = createCSV(dir, "samples.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.perf, err = createCSV(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteFrames writes per-effect frame rows to frames.csv.
func (om *OutputManager) WriteFrames(rows []FrameStats) error {
	if om == nil || len(rows) == 0 {
		return nil
	}
	if err := om.frames.write(rows); err != nil {
		return fmt.Errorf("writing frames: %w", err)
	}
	return nil
}

// WriteSamples writes modifier sample summaries to samples.csv.
func (om *OutputManager) WriteSamples(rows []SampleStats) error {
	if om == nil || len(rows) == 0 {
		return nil
	}
	if err := om.samples.write(rows); err != nil {
		return fmt.Errorf("writing samples: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame int) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(frame)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, c := range []*csvFile{om.frames, om.samples, om.perf} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CurvePoint is one offline sample and the value a modifier derives from it.
type CurvePoint struct {
	Index  int     `csv:"index"`
	Sample float32 `csv:"sample"`
	Value  float32 `csv:"value"`
}

// WriteCurve writes offline samples and their derived values as CSV.
// values may be nil, in which case the samples are repeated.
func WriteCurve(w io.Writer, samples, values []float32) error {
	points := make([]CurvePoint, len(samples))
	for i, v := range samples {
		points[i] = CurvePoint{Index: i, Sample: v, Value: v}
		if i < len(values) {
			points[i].Value = values[i]
		}
	}
	if err := gocsv.Marshal(points, w); err != nil {
		return fmt.Errorf("writing curve: %w", err)
	}
	return nil
}
