package graph

import "strings"

// Extent описывает, какие строки таблицы принадлежат классификатору.
// Альтернативы объединяются через OR, условия внутри альтернативы через AND.
// Альтернатива без условий означает все строки таблицы.
type Extent struct {
	Classifier   string
	Alternatives []Predicate
}

type Predicate []Condition

// Condition проверка дискриминатора.
// Flag: булева колонка равна TRUE. Иначе колонка равна метке Label.
type Condition struct {
	Column string
	Label  string
	Flag   bool
	// Lookup заполняется, когда перечисление заменено таблицей-справочником.
	Lookup *LookupJoin
}

type LookupJoin struct {
	Node        NodeID
	KeyColumn   string
	LabelColumn string
}

func (c Condition) String() string {
	if c.Flag {
		return c.Column + " = TRUE"
	}
	return c.Column + " = '" + c.Label + "'"
}

func (p Predicate) String() string {
	parts := make([]string, 0, len(p))
	for _, c := range p {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " AND ")
}

func (e Extent) clone() Extent {
	res := Extent{
		Classifier:   e.Classifier,
		Alternatives: make([]Predicate, 0, len(e.Alternatives)),
	}
	for _, alt := range e.Alternatives {
		res.Alternatives = append(res.Alternatives, alt.With())
	}
	return res
}

// With возвращает копию предиката с условиями conds в начале.
func (p Predicate) With(conds ...Condition) Predicate {
	res := make(Predicate, 0, len(conds)+len(p))
	res = append(res, conds...)
	for _, c := range p {
		if c.Lookup != nil {
			l := *c.Lookup
			c.Lookup = &l
		}
		res = append(res, c)
	}
	return res
}

// Extent returns the extent for the classifier or nil.
func (n *Node) Extent(classifier string) *Extent {
	for i := range n.Extents {
		if n.Extents[i].Classifier == classifier {
			return &n.Extents[i]
		}
	}
	return nil
}

// MergeExtent добавляет альтернативы к экстенту классификатора.
func (n *Node) MergeExtent(e Extent) {
	if cur := n.Extent(e.Classifier); cur != nil {
		cur.Alternatives = append(cur.Alternatives, e.clone().Alternatives...)
		return
	}
	n.Extents = append(n.Extents, e.clone())
}

// Conditions вызывает fn для каждого условия всех экстентов узла.
func (n *Node) Conditions(fn func(c *Condition)) {
	for i := range n.Extents {
		for j := range n.Extents[i].Alternatives {
			alt := n.Extents[i].Alternatives[j]
			for k := range alt {
				fn(&alt[k])
			}
		}
	}
}
