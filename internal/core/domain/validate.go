package domain

import (
	"fmt"
	"math"
)

// Validate checks the explanation against the document contract.
// Every violation wraps ErrInvalidDocument. Edges pointing at unknown
// nodes are tolerated; renderers skip them.
func (e *Explanation) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDocument)
	}
	if e.DatasetInfo.Name == "" {
		return fmt.Errorf("%w: datasetInfo.name is required", ErrInvalidDocument)
	}
	if len(e.Steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", ErrInvalidDocument)
	}
	for i, s := range e.Steps {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%w: step %d: %s", ErrInvalidDocument, i+1, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	if s.StepNumber <= 0 {
		return fmt.Errorf("stepNumber must be positive, got %d", s.StepNumber)
	}
	if s.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.VisualData.validate()
}

func (v VisualData) validate() error {
	switch v.Type {
	case VisualFlow:
		seen := make(map[string]bool, len(v.Nodes))
		for _, n := range v.Nodes {
			if n.ID == "" {
				return fmt.Errorf("node id is required")
			}
			if seen[n.ID] {
				return fmt.Errorf("duplicate node id %q", n.ID)
			}
			seen[n.ID] = true
			if !inPercentRange(n.X) || !inPercentRange(n.Y) {
				return fmt.Errorf("node %q position outside 0-100", n.ID)
			}
		}
	case VisualChart:
		for _, p := range v.ChartData {
			if !finite(p.X) || !finite(p.Y) {
				return fmt.Errorf("chart point is not a finite number")
			}
		}
		if c := v.ChartConfig; c != nil {
			if !validDomain(c.XDomain) || !validDomain(c.YDomain) {
				return fmt.Errorf("chart domain min exceeds max")
			}
		}
	case VisualMatrix:
		if !IsRectangular(v.Matrix) {
			return fmt.Errorf("matrix rows have differing lengths")
		}
	default:
		return fmt.Errorf("unknown visual type %q", v.Type)
	}
	return nil
}

// IsRectangular reports whether every row of m has the same length.
// An empty matrix is rectangular.
func IsRectangular(m [][]MatrixCell) bool {
	for _, row := range m {
		if len(row) != len(m[0]) {
			return false
		}
	}
	return true
}

func inPercentRange(v *float64) bool {
	return v == nil || (*v >= 0 && *v <= 100)
}

func validDomain(d *[2]float64) bool {
	return d == nil || (finite(d[0]) && finite(d[1]) && d[0] <= d[1])
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
