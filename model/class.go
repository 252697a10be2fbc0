package model

import "strings"

// Стереотипы OntoUML, которые сами несут принцип идентичности.
var ultimateSortals = map[string]struct{}{
	"kind":       {},
	"collective": {},
	"quantity":   {},
	"relator":    {},
	"mode":       {},
	"quality":    {},
	"type":       {},
	"event":      {},
	"situation":  {},
}

var sortals = map[string]struct{}{
	"subkind":             {},
	"role":                {},
	"phase":               {},
	"historicalrole":      {},
	"historicalrolephase": {},
}

var nonSortals = map[string]struct{}{
	"category":            {},
	"mixin":               {},
	"rolemixin":           {},
	"phasemixin":          {},
	"historicalrolemixin": {},
}

type docClass struct {
	name       string
	stereotype string
	abstract   bool
	attributes []Attribute
	parents    []Class
	children   []Class
}

func (c *docClass) Name() string            { return c.name }
func (c *docClass) Attributes() []Attribute { return c.attributes }
func (c *docClass) Parents() []Class        { return c.parents }
func (c *docClass) Children() []Class       { return c.children }

func (c *docClass) String() string { return c.name }

func (c *docClass) st() string { return strings.ToLower(c.stereotype) }

// Класс без стереотипа и без родителей считается kind.
func (c *docClass) IsUltimateSortal() bool {
	if c.stereotype == "" {
		return len(c.parents) == 0
	}
	_, ok := ultimateSortals[c.st()]
	return ok
}

func (c *docClass) IsSortal() bool {
	if c.stereotype == "" {
		return true
	}
	if c.IsUltimateSortal() {
		return true
	}
	_, ok := sortals[c.st()]
	return ok
}

func (c *docClass) IsAbstract() bool {
	if c.abstract {
		return true
	}
	_, ok := nonSortals[c.st()]
	return ok
}
