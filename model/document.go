package model

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Document это файловое представление модели. JSON тоже читается, так как
// это подмножество YAML.
type Document struct {
	Classes            []ClassDoc             `yaml:"classes" json:"classes"`
	Enumerations       []EnumerationDoc       `yaml:"enumerations" json:"enumerations"`
	Generalizations    []GeneralizationDoc    `yaml:"generalizations" json:"generalizations"`
	GeneralizationSets []GeneralizationSetDoc `yaml:"generalizationSets" json:"generalizationSets"`
	Relations          []RelationDoc          `yaml:"relations" json:"relations"`
}

type ClassDoc struct {
	Name       string         `yaml:"name" json:"name"`
	Stereotype string         `yaml:"stereotype" json:"stereotype"`
	Abstract   bool           `yaml:"abstract" json:"abstract"`
	Attributes []AttributeDoc `yaml:"attributes" json:"attributes"`
}

type AttributeDoc struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	// Cardinality в виде "1", "0..1", "0..*", "2..5". Пустая строка означает "1".
	Cardinality string `yaml:"cardinality" json:"cardinality"`
}

type EnumerationDoc struct {
	Name     string   `yaml:"name" json:"name"`
	Literals []string `yaml:"literals" json:"literals"`
}

type GeneralizationDoc struct {
	General  string `yaml:"general" json:"general"`
	Specific string `yaml:"specific" json:"specific"`
}

type GeneralizationSetDoc struct {
	Name        string   `yaml:"name" json:"name"`
	General     string   `yaml:"general" json:"general"`
	Specifics   []string `yaml:"specifics" json:"specifics"`
	Disjoint    bool     `yaml:"disjoint" json:"disjoint"`
	Complete    bool     `yaml:"complete" json:"complete"`
	Categorizer string   `yaml:"categorizer" json:"categorizer"`
}

type RelationDoc struct {
	Name              string `yaml:"name" json:"name"`
	Source            string `yaml:"source" json:"source"`
	Target            string `yaml:"target" json:"target"`
	SourceCardinality string `yaml:"sourceCardinality" json:"sourceCardinality"`
	TargetCardinality string `yaml:"targetCardinality" json:"targetCardinality"`
}

func Load(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if xerrors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, xerrors.Errorf("decode model: %w", err)
	}
	return &doc, nil
}

// ParseMultiplicity разбирает границы вида "0..*".
func ParseMultiplicity(s string) (Multiplicity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Multiplicity{Lower: 1, Upper: 1}, nil
	}
	lowerStr, upperStr, isRange := strings.Cut(s, "..")
	if !isRange {
		upperStr = lowerStr
	}
	lower, err := parseBound(lowerStr)
	if err != nil {
		return Multiplicity{}, xerrors.Errorf("lower bound of %q: %w", s, err)
	}
	if lower == Many {
		// "*" это "0..*"
		lower = 0
	}
	upper, err := parseBound(upperStr)
	if err != nil {
		return Multiplicity{}, xerrors.Errorf("upper bound of %q: %w", s, err)
	}
	if upper != Many && upper < lower {
		return Multiplicity{}, xerrors.Errorf("wrong multiplicity %q: upper bound less than lower", s)
	}
	return Multiplicity{Lower: lower, Upper: upper}, nil
}

func parseBound(s string) (int, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "*", "n", "N":
		return Many, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, xerrors.Errorf("negative bound %d", v)
	}
	return v, nil
}

// Build связывает имена документа в объекты модели.
func (d *Document) Build() (Model, error) {
	m := &memModel{
		classes: make(map[string]*docClass, len(d.Classes)),
	}

	enums := make(map[string][]string, len(d.Enumerations))
	for _, e := range d.Enumerations {
		if _, ok := enums[e.Name]; ok {
			return nil, xerrors.Errorf("duplicate enumeration %q", e.Name)
		}
		enums[e.Name] = e.Literals
	}

	for _, cd := range d.Classes {
		if cd.Name == "" {
			return nil, xerrors.New("class without name")
		}
		if _, ok := m.classes[cd.Name]; ok {
			return nil, xerrors.Errorf("duplicate class %q", cd.Name)
		}
		c := &docClass{
			name:       cd.Name,
			stereotype: strings.TrimSpace(cd.Stereotype),
			abstract:   cd.Abstract,
		}
		for _, ad := range cd.Attributes {
			mult, err := ParseMultiplicity(ad.Cardinality)
			if err != nil {
				return nil, xerrors.Errorf("attribute %s.%s: %w", cd.Name, ad.Name, err)
			}
			c.attributes = append(c.attributes, Attribute{
				Name:     ad.Name,
				Type:     ad.Type,
				Lower:    mult.Lower,
				Upper:    mult.Upper,
				Literals: enums[ad.Type],
			})
		}
		m.classes[cd.Name] = c
		m.order = append(m.order, c)
	}

	gens := make(map[[2]string]Generalization, len(d.Generalizations))
	addGen := func(general, specific string) (Generalization, error) {
		key := [2]string{general, specific}
		if g, ok := gens[key]; ok {
			return g, nil
		}
		gc, err := m.class(general)
		if err != nil {
			return Generalization{}, xerrors.Errorf("generalization general: %w", err)
		}
		sc, err := m.class(specific)
		if err != nil {
			return Generalization{}, xerrors.Errorf("generalization specific: %w", err)
		}
		g := Generalization{General: gc, Specific: sc}
		gens[key] = g
		m.generalizations = append(m.generalizations, g)
		gc.children = append(gc.children, sc)
		sc.parents = append(sc.parents, gc)
		return g, nil
	}

	for _, gd := range d.Generalizations {
		if _, err := addGen(gd.General, gd.Specific); err != nil {
			return nil, err
		}
	}

	for _, sd := range d.GeneralizationSets {
		set := GeneralizationSet{
			Name:     sd.Name,
			Disjoint: sd.Disjoint,
			Complete: sd.Complete,
		}
		if sd.Categorizer != "" {
			cat, err := m.class(sd.Categorizer)
			if err != nil {
				return nil, xerrors.Errorf("categorizer of set %q: %w", sd.Name, err)
			}
			set.Categorizer = cat
		}
		for _, specific := range sd.Specifics {
			g, err := addGen(sd.General, specific)
			if err != nil {
				return nil, xerrors.Errorf("set %q: %w", sd.Name, err)
			}
			set.Generalizations = append(set.Generalizations, g)
		}
		m.sets = append(m.sets, set)
	}

	for _, rd := range d.Relations {
		src, err := m.class(rd.Source)
		if err != nil {
			return nil, xerrors.Errorf("relation %q source: %w", rd.Name, err)
		}
		tgt, err := m.class(rd.Target)
		if err != nil {
			return nil, xerrors.Errorf("relation %q target: %w", rd.Name, err)
		}
		sm, err := ParseMultiplicity(rd.SourceCardinality)
		if err != nil {
			return nil, xerrors.Errorf("relation %q: %w", rd.Name, err)
		}
		tm, err := ParseMultiplicity(rd.TargetCardinality)
		if err != nil {
			return nil, xerrors.Errorf("relation %q: %w", rd.Name, err)
		}
		m.relations = append(m.relations, Relation{
			Name:       rd.Name,
			Source:     src,
			Target:     tgt,
			SourceMult: sm,
			TargetMult: tm,
		})
	}

	return m, nil
}

type memModel struct {
	classes         map[string]*docClass
	order           []*docClass
	relations       []Relation
	generalizations []Generalization
	sets            []GeneralizationSet
}

func (m *memModel) class(name string) (*docClass, error) {
	c, ok := m.classes[name]
	if !ok {
		return nil, xerrors.Errorf("unknown class %q", name)
	}
	return c, nil
}

func (m *memModel) AllClasses() []Class {
	res := make([]Class, 0, len(m.order))
	for _, c := range m.order {
		res = append(res, c)
	}
	return res
}

func (m *memModel) AllRelations() []Relation                   { return m.relations }
func (m *memModel) AllGeneralizations() []Generalization       { return m.generalizations }
func (m *memModel) AllGeneralizationSets() []GeneralizationSet { return m.sets }
