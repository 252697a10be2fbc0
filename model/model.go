package model

// Model это входная концептуальная модель. Ядро ее только читает.
type Model interface {
	AllClasses() []Class
	AllRelations() []Relation
	AllGeneralizations() []Generalization
	AllGeneralizationSets() []GeneralizationSet
}

// Class описывает классификатор концептуальной модели.
// Стереотипы наружу не выходят: ядро спрашивает только о природе класса.
type Class interface {
	Name() string
	Attributes() []Attribute
	Parents() []Class
	Children() []Class

	// IsUltimateSortal возвращает true для классов, которые сами дают
	// принцип идентичности (kind, collective, quantity, relator, ...).
	IsUltimateSortal() bool
	IsSortal() bool
	// IsAbstract возвращает true для классов без собственных экземпляров.
	IsAbstract() bool
}

// Many это верхняя граница "*".
const Many = -1

type Attribute struct {
	Name string
	// Type имя типа данных (string, int, date, ...) или имя перечисления.
	Type  string
	Lower int
	Upper int
	// Literals заполнены, если Type это перечисление.
	Literals []string
}

func (a Attribute) IsEnumeration() bool { return len(a.Literals) != 0 }

func (a Attribute) IsMultivalued() bool { return a.Upper == Many || a.Upper > 1 }

type Multiplicity struct {
	Lower int
	Upper int
}

// Relation бинарная ассоциация.
type Relation struct {
	Name   string
	Source Class
	Target Class
	// SourceMult кратность на стороне Source.
	SourceMult Multiplicity
	TargetMult Multiplicity
}

type Generalization struct {
	General  Class
	Specific Class
}

type GeneralizationSet struct {
	Name            string
	Disjoint        bool
	Complete        bool
	Categorizer     Class
	Generalizations []Generalization
}
