package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run       RunMetadata    `json:"run"`
	Bodies    []string       `json:"bodies"`
	Times     []float64      `json:"times"`
	Positions [][][3]float64 `json:"positions"`
}

func newExportData(meta RunMetadata, trace *Trace) ExportData {
	data := ExportData{
		Run:       meta,
		Bodies:    trace.Bodies,
		Times:     trace.Times,
		Positions: make([][][3]float64, len(trace.Positions)),
	}
	for i, row := range trace.Positions {
		data.Positions[i] = make([][3]float64, len(row))
		for b, p := range row {
			data.Positions[i][b] = [3]float64(p)
		}
	}
	return data
}

func ExportJSON(w io.Writer, meta RunMetadata, trace *Trace) error {
	return WriteJSON(w, newExportData(meta, trace))
}

func ExportJSONFile(path string, meta RunMetadata, trace *Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ExportJSON(f, meta, trace)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
