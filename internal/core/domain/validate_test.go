package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func validExplanation() *Explanation {
	return &Explanation{
		Name:     "K-Means",
		Category: "无监督学习",
		Summary:  "Clusters points around centroids.",
		DatasetInfo: DatasetInfo{
			Name:        "Iris",
			Description: "Flower measurements",
			Fields:      []string{"petal length", "petal width"},
			SampleCount: "150",
		},
		UseCases: []string{"customer segmentation"},
		Steps: []Step{
			{
				StepNumber: 1,
				Title:      "Initialise centroids",
				KeyTerms:   []string{"centroid"},
				VisualData: VisualData{
					Type:      VisualChart,
					ChartData: []ChartPoint{{X: 1, Y: 2}, {X: 3, Y: 4, Group: "A"}},
				},
			},
			{
				StepNumber: 2,
				Title:      "Assign",
				VisualData: VisualData{
					Type:  VisualFlow,
					Nodes: []NodeData{{ID: "a", Label: "A", X: ptr(10), Y: ptr(90)}, {ID: "b", Label: "B"}},
					Edges: []EdgeData{{From: "a", To: "b"}, {From: "a", To: "missing"}},
				},
			},
			{
				StepNumber: 3,
				Title:      "Distances",
				VisualData: VisualData{
					Type:   VisualMatrix,
					Matrix: [][]MatrixCell{{{Value: 0.1}, {Value: 0.9}}, {{Value: 0.5}, {Value: 0.2}}},
				},
			},
		},
	}
}

func TestExplanation_Validate_OK(t *testing.T) {
	require.NoError(t, validExplanation().Validate())
}

func TestExplanation_Validate_Nil(t *testing.T) {
	var e *Explanation
	assert.ErrorIs(t, e.Validate(), ErrInvalidDocument)
}

func TestExplanation_Validate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *Explanation)
	}{
		{"missing name", func(e *Explanation) { e.Name = "" }},
		{"missing dataset name", func(e *Explanation) { e.DatasetInfo.Name = "" }},
		{"no steps", func(e *Explanation) { e.Steps = nil }},
		{"zero step number", func(e *Explanation) { e.Steps[0].StepNumber = 0 }},
		{"missing title", func(e *Explanation) { e.Steps[1].Title = "" }},
		{"unknown visual type", func(e *Explanation) { e.Steps[0].VisualData.Type = "PIE" }},
		{"empty visual type", func(e *Explanation) { e.Steps[0].VisualData.Type = "" }},
		{"duplicate node id", func(e *Explanation) { e.Steps[1].VisualData.Nodes[1].ID = "a" }},
		{"empty node id", func(e *Explanation) { e.Steps[1].VisualData.Nodes[1].ID = "" }},
		{"node out of range", func(e *Explanation) { e.Steps[1].VisualData.Nodes[0].X = ptr(120) }},
		{"ragged matrix", func(e *Explanation) {
			e.Steps[2].VisualData.Matrix[1] = e.Steps[2].VisualData.Matrix[1][:1]
		}},
		{"inverted domain", func(e *Explanation) {
			e.Steps[0].VisualData.ChartConfig = &ChartConfig{XDomain: &[2]float64{5, 1}}
		}},
		{"nan point", func(e *Explanation) { e.Steps[0].VisualData.ChartData[0].X = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExplanation()
			tt.mutate(e)
			err := e.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDocument))
		})
	}
}

func TestExplanation_Validate_EmptyMatrixAllowed(t *testing.T) {
	e := validExplanation()
	e.Steps[2].VisualData.Matrix = nil
	assert.NoError(t, e.Validate())
}

func TestExplanation_Validate_NonSequentialStepNumbers(t *testing.T) {
	e := validExplanation()
	e.Steps[0].StepNumber = 7
	e.Steps[1].StepNumber = 3
	assert.NoError(t, e.Validate())
}

func TestIsRectangular(t *testing.T) {
	assert.True(t, IsRectangular(nil))
	assert.True(t, IsRectangular([][]MatrixCell{{}, {}}))
	assert.False(t, IsRectangular([][]MatrixCell{{{}}, {}}))
}

func TestExplanation_StepAt(t *testing.T) {
	e := validExplanation()
	assert.Equal(t, 3, e.StepCount())

	s, ok := e.StepAt(1)
	require.True(t, ok)
	assert.Equal(t, "Assign", s.Title)

	_, ok = e.StepAt(3)
	assert.False(t, ok)
	_, ok = e.StepAt(-1)
	assert.False(t, ok)

	var nilDoc *Explanation
	assert.Equal(t, 0, nilDoc.StepCount())
}
