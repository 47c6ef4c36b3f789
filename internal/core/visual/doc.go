// Package visual maps step visualisation payloads to renderer-neutral
// scene models.
//
// A scene is a pure function of one domain.VisualData value: positioned
// flow nodes and edges, a scatter chart with an optional regression
// line, or a heatmap grid. Surfaces (terminal, HTTP) draw scenes and
// feed primitive clicks back through Scene.Click.
//
// Dispatch over the payload type is closed: Render handles FLOW, CHART
// and MATRIX and returns an EmptyScene for anything else.
package visual
