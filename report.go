package markovx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Report is the serializable result of any markovx computation.
type Report struct {
	Kind      string             `json:"kind" yaml:"kind"`
	Name      string             `json:"name" yaml:"name"`
	Version   string             `json:"version,omitempty" yaml:"version,omitempty"`
	Rows      []string           `json:"rows,omitempty" yaml:"rows,omitempty"`
	Columns   []string           `json:"columns,omitempty" yaml:"columns,omitempty"`
	Matrix    [][]float64        `json:"matrix,omitempty" yaml:"matrix,omitempty"`
	Values    map[string]float64 `json:"values,omitempty" yaml:"values,omitempty"`
	Text      string             `json:"text,omitempty" yaml:"text,omitempty"`
	Timestamp time.Time          `json:"timestamp" yaml:"timestamp"`
}

// Report kinds.
const (
	KindDiceWin    = "dice-win"
	KindDiceTie    = "dice-tie"
	KindBoard      = "board"
	KindOccupancy  = "occupancy"
	KindCorrection = "correction"
)

// Validate checks that the report has a kind and name and that the matrix
// matches its labels.
func (r Report) Validate() error {
	if r.Kind == "" {
		return errors.New("report kind is required")
	}
	if r.Name == "" {
		return errors.New("report name is required")
	}
	if len(r.Rows) > 0 && len(r.Rows) != len(r.Matrix) {
		return fmt.Errorf("%d row labels for %d rows", len(r.Rows), len(r.Matrix))
	}
	for i, row := range r.Matrix {
		if len(r.Columns) > 0 && len(row) != len(r.Columns) {
			return fmt.Errorf("row %d has %d entries for %d columns", i, len(row), len(r.Columns))
		}
	}
	return nil
}

// ReportPersister stores reports by name.
type ReportPersister interface {
	Save(ctx context.Context, report Report) error
	Load(ctx context.Context, name string) (Report, error)
}

// MatrixReport captures a matrix with row and column labels.
func MatrixReport(kind, name string, rows, cols []string, m mat.Matrix) Report {
	r, c := m.Dims()
	data := make([][]float64, r)
	for i := 0; i < r; i++ {
		data[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			data[i][j] = m.At(i, j)
		}
	}
	return Report{
		Kind:      kind,
		Name:      name,
		Rows:      rows,
		Columns:   cols,
		Matrix:    data,
		Timestamp: time.Now().UTC(),
	}
}
