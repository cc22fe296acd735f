package playback

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"VoltSentinel/internal/model"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestLoad_ParsesReadings(t *testing.T) {
	path := writeDataset(t, "Timestamp,Current (A)\n12:00:00,0.10\n12:00:01,0.35\n12:00:02,0.05\n")

	readings, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(readings))
	}
	if readings[1].Timestamp != "12:00:01" || readings[1].Current != 0.35 {
		t.Errorf("unexpected second reading: %+v", readings[1])
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_EmptyDataset(t *testing.T) {
	path := writeDataset(t, "Timestamp,Current (A)\n")
	if _, err := Load(path); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestLoad_MalformedCurrent(t *testing.T) {
	path := writeDataset(t, "Timestamp,Current (A)\n12:00:00,not-a-number\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for non-numeric current")
	}
}

func TestLoad_MissingColumns(t *testing.T) {
	path := writeDataset(t, "Time,Amps\n12:00:00,0.1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func testReadings() []model.Reading {
	return []model.Reading{
		{Timestamp: "12:00:00", Current: 0.10},
		{Timestamp: "12:00:01", Current: 0.35},
		{Timestamp: "12:00:02", Current: 0.05},
		{Timestamp: "12:00:03", Current: 0.40},
		{Timestamp: "12:00:04", Current: 0.20},
	}
}

func TestReplaySource_CyclicCursor(t *testing.T) {
	readings := testReadings()
	src, err := NewReplaySource(readings, 220, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const ticks = 12
	for i := 0; i < ticks; i++ {
		sample := src.Next()
		want := readings[i%len(readings)].Timestamp
		if sample.Timestamp != want {
			t.Errorf("tick %d: expected timestamp %s, got %s", i, want, sample.Timestamp)
		}
	}
	if pos := src.Position(); pos != ticks%len(readings) {
		t.Errorf("expected cursor %d after %d ticks, got %d", ticks%len(readings), ticks, pos)
	}
}

func TestReplaySource_Conversion(t *testing.T) {
	src, err := NewReplaySource([]model.Reading{{Timestamp: "12:00:00", Current: 0.35}}, 220, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := src.Next()
	second := src.Next() // single reading, cursor wraps back to the same index
	if math.Abs(first.Voltage-255) > 1e-9 {
		t.Errorf("expected 255V for 0.35A at base 220 gain 100, got %.2f", first.Voltage)
	}
	if first.Voltage != second.Voltage {
		t.Errorf("conversion not deterministic: %.4f vs %.4f", first.Voltage, second.Voltage)
	}
}

func TestReplaySource_SnapshotClamps(t *testing.T) {
	readings := testReadings()
	src, err := NewReplaySource(readings, 220, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := src.Snapshot(100)
	if len(all) != len(readings) {
		t.Fatalf("expected snapshot clamped to %d, got %d", len(readings), len(all))
	}

	tail := src.Snapshot(2)
	if len(tail) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(tail))
	}
	if tail[0].Timestamp != "12:00:03" || tail[1].Timestamp != "12:00:04" {
		t.Errorf("expected last two readings, got %s and %s", tail[0].Timestamp, tail[1].Timestamp)
	}

	if pos := src.Position(); pos != 0 {
		t.Errorf("snapshot must not move the cursor, got position %d", pos)
	}
}

func TestReplaySource_EmptyRejected(t *testing.T) {
	if _, err := NewReplaySource(nil, 220, 100); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestSyntheticSource_Bounds(t *testing.T) {
	src := NewSyntheticSource(220, 10)
	if !src.Synthetic() {
		t.Fatal("expected Synthetic() to be true")
	}
	for i := 0; i < 100; i++ {
		s := src.Next()
		if s.Voltage < 210 || s.Voltage > 230 {
			t.Fatalf("voltage %.2f outside 220±10", s.Voltage)
		}
		if s.Current < 0 || s.Current >= syntheticMaxCurrent {
			t.Fatalf("current %.3f outside [0, %.1f)", s.Current, syntheticMaxCurrent)
		}
	}
	if got := len(src.Snapshot(5)); got != 5 {
		t.Errorf("expected 5 generated bootstrap samples, got %d", got)
	}
}
