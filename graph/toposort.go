package graph

import (
	"errors"
	"sort"
)

var ErrCycle = errors.New("the graph contains a cycle")

// TopologicalSort упорядочивает узлы так, что таблицы, на которые ссылаются,
// идут раньше ссылающихся. Среди готовых узлов сохраняется порядок добавления.
func (g *Graph) TopologicalSort() ([]*Node, error) {
	// map[ссылающаяся_таблица]количество_неразрешенных_ссылок
	inDegrees := make(map[NodeID]int, len(g.order))
	// map[таблица]таблицы_которые_на_нее_ссылаются
	referencedBy := make(map[NodeID][]NodeID, len(g.order))
	for _, id := range g.order {
		inDegrees[id] = 0
	}
	for _, id := range g.order {
		refs := make(map[NodeID]struct{})
		for _, p := range g.nodes[id].Properties {
			ref := p.Col().References
			if ref == 0 || ref == id {
				// ссылка сама на себя не считается циклом
				continue
			}
			if _, ok := refs[ref]; ok {
				continue
			}
			refs[ref] = struct{}{}
			inDegrees[id]++
			referencedBy[ref] = append(referencedBy[ref], id)
		}
	}

	result := make([]*Node, 0, len(g.order))
	queue := make([]NodeID, 0, len(g.order))
	for _, id := range g.order {
		if inDegrees[id] == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		result = append(result, g.nodes[id])

		var enqueue []NodeID
		for _, neighbor := range referencedBy[id] {
			inDegrees[neighbor]--
			if inDegrees[neighbor] == 0 {
				enqueue = append(enqueue, neighbor)
			}
		}
		// sorted order
		sort.Slice(enqueue, func(i, j int) bool { return enqueue[i] < enqueue[j] })
		queue = append(queue, enqueue...)
	}

	if len(result) != len(g.order) {
		return nil, ErrCycle
	}
	return result, nil
}
