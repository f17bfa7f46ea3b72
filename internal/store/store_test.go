package store

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"mudsim/internal/fluid"
)

func testResult() *fluid.Result {
	return &fluid.Result{
		Frames: []fluid.Frame{
			{
				Time:      0,
				Cond:      fluid.Condition{Depth: 3000, Pressure: 5000, Temperature: 120, PH: 7},
				Alpha:     0,
				Params:    fluid.NewHerschelBulkley(5, 0.02, 0.7),
				ShearRate: 0, ShearStress: 5, Viscosity: fluid.UndefinedViscosity(),
			},
			{
				Time:      1,
				Cond:      fluid.Condition{Depth: 3000, Pressure: 5000, Temperature: 120, PH: 7},
				Alpha:     0.044,
				Params:    fluid.NewHerschelBulkley(5.176, 0.0213, 0.7),
				ShearRate: 100, ShearStress: 5.71, Viscosity: fluid.NewViscosity(0.0571),
			},
		},
		Metrics: map[string]float64{"stability": 85.5},
		Steps:   1,
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStoreSaveLoad(t *testing.T) {
	st := openTestStore(t)

	runID, err := st.Save("baseline", "exponential", "linear", 1.0, 200, 100, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != "baseline" {
		t.Errorf("expected preset baseline, got %q", meta.Preset)
	}
	if meta.Dt != 1.0 || meta.Horizon != 200 || meta.RefShearRate != 100 {
		t.Errorf("unexpected run settings: %+v", meta)
	}
	if meta.Metrics["stability"] != 85.5 {
		t.Errorf("expected stability 85.5, got %g", meta.Metrics["stability"])
	}
}

func TestStoreFramesRoundTrip(t *testing.T) {
	st := openTestStore(t)

	result := testResult()
	runID, err := st.Save("baseline", "exponential", "linear", 1.0, 200, 100, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}

	if frames[0].Viscosity.Defined() {
		t.Error("undefined viscosity lost in round trip")
	}
	if !frames[1].Viscosity.Defined() || frames[1].Viscosity.PaS() != 0.0571 {
		t.Errorf("defined viscosity lost in round trip: %v", frames[1].Viscosity)
	}
	if frames[1].Params != result.Frames[1].Params {
		t.Errorf("params mismatch: %+v != %+v", frames[1].Params, result.Frames[1].Params)
	}
	if frames[1].Cond != result.Frames[1].Cond {
		t.Errorf("condition mismatch: %+v != %+v", frames[1].Cond, result.Frames[1].Cond)
	}
}

func TestStoreList(t *testing.T) {
	st := openTestStore(t)

	if _, err := st.Save("baseline", "exponential", "linear", 1, 200, 100, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save("hpht", "euler", "power", 0.5, 100, 100, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	metas, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(metas))
	}
}

func TestStoreDelete(t *testing.T) {
	st := openTestStore(t)

	runID, err := st.Save("baseline", "exponential", "linear", 1, 200, 100, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := st.Delete(runID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := st.Load(runID); err == nil {
		t.Error("expected error loading a deleted run")
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("expected no frames after delete, got %d", len(frames))
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	result := testResult()

	meta := RunMeta{ID: "abc", Preset: "baseline", Metrics: result.Metrics}
	if err := ExportJSON(&buf, meta, result.Frames); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(data.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(data.Frames))
	}
	if data.Frames[0].Viscosity != nil {
		t.Error("undefined viscosity should export as null")
	}
	if data.Frames[1].Viscosity == nil || *data.Frames[1].Viscosity != 0.0571 {
		t.Error("defined viscosity exported wrong")
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, testResult().Frames); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "t,alpha,temperature") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	// Undefined viscosity is an empty trailing cell.
	if !strings.HasSuffix(lines[1], ",") {
		t.Errorf("expected empty viscosity cell, got %q", lines[1])
	}
}
