package graph

// Property колонка будущей таблицы. Реализации: *Field и *EnumField.
type Property interface {
	Col() *Column
	Clone() Property

	property()
}

// Column общие данные обоих вариантов Property.
type Column struct {
	Name string
	// Attribute имя атрибута концептуальной модели, из которого получена колонка.
	Attribute string
	Nullable  bool
	Type      DataType
	// Identifier отмечает первичный ключ.
	Identifier bool
	// References ссылка внешнего ключа, 0 если колонка не внешний ключ.
	References NodeID
	// Discriminator колонка добавлена при подъеме подклассов.
	Discriminator bool
	// Origins классификаторы, которые внесли колонку.
	Origins []string
	// Default значение по умолчанию в виде абстрактного литерала ("false", ...).
	Default string
}

func (c *Column) IsForeignKey() bool { return c.References != 0 }

// Origin первый классификатор колонки.
func (c *Column) Origin() string {
	if len(c.Origins) == 0 {
		return ""
	}
	return c.Origins[0]
}

func (c *Column) HasOrigin(name string) bool {
	for _, o := range c.Origins {
		if o == name {
			return true
		}
	}
	return false
}

func (c Column) clone() Column {
	c.Origins = append([]string(nil), c.Origins...)
	return c
}

type Field struct {
	Column
}

func (f *Field) Col() *Column { return &f.Column }

func (f *Field) Clone() Property { return &Field{Column: f.Column.clone()} }

func (*Field) property() {}

// EnumField колонка-перечисление с упорядоченным списком меток.
type EnumField struct {
	Column
	Labels []string
}

func (f *EnumField) Col() *Column { return &f.Column }

func (f *EnumField) Clone() Property {
	return &EnumField{
		Column: f.Column.clone(),
		Labels: append([]string(nil), f.Labels...),
	}
}

func (*EnumField) property() {}

func NewField(name string, typ DataType, nullable bool, origins ...string) *Field {
	return &Field{Column: Column{
		Name:      name,
		Attribute: name,
		Type:      typ,
		Nullable:  nullable,
		Origins:   origins,
	}}
}

func NewEnumField(name string, labels []string, nullable bool, origins ...string) *EnumField {
	return &EnumField{
		Column: Column{
			Name:      name,
			Attribute: name,
			Type:      Enum,
			Nullable:  nullable,
			Origins:   origins,
		},
		Labels: labels,
	}
}

// MaxLabelLength длина самой длинной метки.
func (f *EnumField) MaxLabelLength() int {
	var res int
	for _, l := range f.Labels {
		if len(l) > res {
			res = len(l)
		}
	}
	return res
}
