package genai

import (
	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
)

func str(desc string) *driven.Schema {
	return &driven.Schema{Type: driven.SchemaString, Description: desc}
}

func num(desc string) *driven.Schema {
	return &driven.Schema{Type: driven.SchemaNumber, Description: desc}
}

func boolean() *driven.Schema {
	return &driven.Schema{Type: driven.SchemaBoolean}
}

func arrayOf(items *driven.Schema, desc string) *driven.Schema {
	return &driven.Schema{Type: driven.SchemaArray, Items: items, Description: desc}
}

func object(props map[string]*driven.Schema, order []string, required ...string) *driven.Schema {
	return &driven.Schema{
		Type:             driven.SchemaObject,
		Properties:       props,
		PropertyOrdering: order,
		Required:         required,
	}
}

func enum(values ...string) *driven.Schema {
	return &driven.Schema{Type: driven.SchemaString, Enum: values}
}

func visualDataSchema() *driven.Schema {
	node := object(map[string]*driven.Schema{
		"id":    str(""),
		"label": str(""),
		"type": enum(string(domain.NodeInput), string(domain.NodeProcess),
			string(domain.NodeOutput), string(domain.NodeOperation)),
		"x":         num("Relative X position 0-100"),
		"y":         num("Relative Y position 0-100"),
		"highlight": boolean(),
	}, []string{"id", "label", "type", "x", "y", "highlight"}, "id", "label")

	edge := object(map[string]*driven.Schema{
		"from":   str("source node id"),
		"to":     str("target node id"),
		"label":  str(""),
		"active": boolean(),
	}, []string{"from", "to", "label", "active"}, "from", "to")

	point := object(map[string]*driven.Schema{
		"x":         num(""),
		"y":         num(""),
		"group":     str(""),
		"highlight": boolean(),
	}, []string{"x", "y", "group", "highlight"}, "x", "y")

	chartConfig := object(map[string]*driven.Schema{
		"xAxisLabel": str(""),
		"yAxisLabel": str(""),
		"showLine":   boolean(),
		"xDomain":    arrayOf(num(""), "[min, max] fixed range"),
		"yDomain":    arrayOf(num(""), "[min, max] fixed range"),
	}, []string{"xAxisLabel", "yAxisLabel", "showLine", "xDomain", "yDomain"})

	cell := object(map[string]*driven.Schema{
		"value":     num(""),
		"label":     str(""),
		"highlight": boolean(),
	}, []string{"value", "label", "highlight"}, "value")

	return object(map[string]*driven.Schema{
		"type":        enum(string(domain.VisualFlow), string(domain.VisualChart), string(domain.VisualMatrix)),
		"nodes":       arrayOf(node, ""),
		"edges":       arrayOf(edge, ""),
		"chartData":   arrayOf(point, ""),
		"chartConfig": chartConfig,
		"matrix":      arrayOf(arrayOf(cell, ""), "rows of equal length"),
	}, []string{"type", "nodes", "edges", "chartData", "chartConfig", "matrix"}, "type")
}

// ExplanationSchema is DocumentShape as a structured-output schema.
func ExplanationSchema() *driven.Schema {
	dataset := object(map[string]*driven.Schema{
		"name":         str("Name of the example dataset or business data log"),
		"description":  str("Brief description of the data context"),
		"fields":       arrayOf(str(""), "Feature names"),
		"sampleCount":  str("Size of the dataset"),
		"distribution": str("Description of data characteristics"),
	}, []string{"name", "description", "fields", "sampleCount", "distribution"},
		"name", "description", "fields", "sampleCount", "distribution")

	step := object(map[string]*driven.Schema{
		"stepNumber":  {Type: driven.SchemaInteger},
		"title":       str(""),
		"description": str("Detailed explanation in Markdown"),
		"keyTerms":    arrayOf(str(""), "2-3 key terms relevant to this step"),
		"visualData":  visualDataSchema(),
	}, []string{"stepNumber", "title", "description", "keyTerms", "visualData"},
		"stepNumber", "title", "description", "visualData")

	return object(map[string]*driven.Schema{
		"name":        str(""),
		"category":    str(""),
		"summary":     str(""),
		"datasetInfo": dataset,
		"useCases":    arrayOf(str(""), "3-5 real-world usage scenarios"),
		"steps":       arrayOf(step, ""),
	}, []string{"name", "category", "summary", "datasetInfo", "useCases", "steps"},
		"name", "category", "summary", "datasetInfo", "useCases", "steps")
}
