package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"mudsim/internal/fluid"
)

// ExportData is the stable serialized form of a run: the frame field
// set (t, α, τ₀, K, n, reference-shear sample) any consumer can rely
// on.
type ExportData struct {
	Meta   RunMeta       `json:"meta"`
	Frames []ExportFrame `json:"frames"`
}

type ExportFrame struct {
	Time        float64  `json:"t"`
	Alpha       float64  `json:"alpha"`
	Temperature float64  `json:"temperature"`
	Pressure    float64  `json:"pressure"`
	Depth       float64  `json:"depth"`
	PH          float64  `json:"ph"`
	YieldStress float64  `json:"yield_stress"`
	Consistency float64  `json:"consistency"`
	FlowIndex   float64  `json:"flow_index"`
	ShearRate   float64  `json:"shear_rate"`
	ShearStress float64  `json:"shear_stress"`
	Viscosity   *float64 `json:"viscosity"` // null when undefined
}

func exportFrame(f fluid.Frame) ExportFrame {
	ef := ExportFrame{
		Time:        f.Time,
		Alpha:       f.Alpha,
		Temperature: f.Cond.Temperature,
		Pressure:    f.Cond.Pressure,
		Depth:       f.Cond.Depth,
		PH:          f.Cond.PH,
		YieldStress: f.Params.YieldStress,
		Consistency: f.Params.Consistency,
		FlowIndex:   f.Params.FlowIndex,
		ShearRate:   f.ShearRate,
		ShearStress: f.ShearStress,
	}
	if f.Viscosity.Defined() {
		v := f.Viscosity.PaS()
		ef.Viscosity = &v
	}
	return ef
}

// ExportJSON writes a run as indented JSON.
func ExportJSON(w io.Writer, meta RunMeta, frames []fluid.Frame) error {
	data := ExportData{
		Meta:   meta,
		Frames: make([]ExportFrame, len(frames)),
	}
	for i, f := range frames {
		data.Frames[i] = exportFrame(f)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes the frame sequence as CSV. Undefined viscosity
// becomes an empty cell, never a fake number.
func ExportCSV(w io.Writer, frames []fluid.Frame) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"t", "alpha", "temperature", "yield_stress", "consistency", "flow_index", "shear_rate", "shear_stress", "viscosity"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		visc := ""
		if f.Viscosity.Defined() {
			visc = strconv.FormatFloat(f.Viscosity.PaS(), 'g', -1, 64)
		}
		record := []string{
			strconv.FormatFloat(f.Time, 'g', -1, 64),
			strconv.FormatFloat(f.Alpha, 'g', -1, 64),
			strconv.FormatFloat(f.Cond.Temperature, 'g', -1, 64),
			strconv.FormatFloat(f.Params.YieldStress, 'g', -1, 64),
			strconv.FormatFloat(f.Params.Consistency, 'g', -1, 64),
			strconv.FormatFloat(f.Params.FlowIndex, 'g', -1, 64),
			strconv.FormatFloat(f.ShearRate, 'g', -1, 64),
			strconv.FormatFloat(f.ShearStress, 'g', -1, 64),
			visc,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
