package main

import (
	"github.com/Feresey/onto2db/graph"
	"github.com/Feresey/onto2db/tracker"
)

type CSVConverter struct{}

// ConvertTrace строки (классификатор, таблица) в порядке появления классификаторов.
func (w *CSVConverter) ConvertTrace(g *graph.Graph, tr *tracker.Tracker) [][]string {
	res := [][]string{{"classifier", "table"}}
	traces := tr.TraceMap()
	for _, classifier := range tr.Classifiers() {
		for _, t := range traces[classifier] {
			res = append(res, []string{classifier, g.Node(t.Target).Name})
		}
	}
	return res
}
