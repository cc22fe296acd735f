package playback

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"VoltSentinel/internal/model"
)

// Column headers of the recorded current log.
const (
	colTimestamp = "Timestamp"
	colCurrent   = "Current (A)"
)

// ErrEmptyDataset is returned when the source contains a header but no rows.
var ErrEmptyDataset = errors.New("dataset contains no readings")

// Load parses the recorded current log CSV into an ordered reading sequence.
func Load(path string) ([]model.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	tsIdx, curIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case colTimestamp:
			tsIdx = i
		case colCurrent:
			curIdx = i
		}
	}
	if tsIdx < 0 || curIdx < 0 {
		return nil, fmt.Errorf("dataset missing required columns %q and %q", colTimestamp, colCurrent)
	}

	var readings []model.Reading
	for line := 2; ; line++ {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row at line %d: %w", line, err)
		}
		current, err := strconv.ParseFloat(strings.TrimSpace(row[curIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse current at line %d: %w", line, err)
		}
		readings = append(readings, model.Reading{
			Timestamp: strings.TrimSpace(row[tsIdx]),
			Current:   current,
		})
	}

	if len(readings) == 0 {
		return nil, ErrEmptyDataset
	}
	return readings, nil
}
