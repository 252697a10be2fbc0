package graph

import (
	"strconv"
	"strings"
)

type TypeKind int

const (
	TypeUndefined TypeKind = iota
	TypeString
	TypeInteger
	TypeLong
	TypeFloat
	TypeDouble
	TypeDate
	TypeDateTime
	TypeBoolean
	TypeEnumeration
)

const DefaultStringLength = 255

// DataType абстрактный тип колонки. Диалект сам решает, во что его превратить.
type DataType struct {
	Kind TypeKind
	// Length только для строк.
	Length int
}

var (
	String   = DataType{Kind: TypeString, Length: DefaultStringLength}
	Integer  = DataType{Kind: TypeInteger}
	Long     = DataType{Kind: TypeLong}
	Float    = DataType{Kind: TypeFloat}
	Double   = DataType{Kind: TypeDouble}
	Date     = DataType{Kind: TypeDate}
	DateTime = DataType{Kind: TypeDateTime}
	Boolean  = DataType{Kind: TypeBoolean}
	Enum     = DataType{Kind: TypeEnumeration}
)

func StringOf(length int) DataType { return DataType{Kind: TypeString, Length: length} }

func (d DataType) String() string {
	switch d.Kind {
	case TypeString:
		return "string(" + strconv.Itoa(d.Length) + ")"
	case TypeInteger:
		return "integer"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeDate:
		return "date"
	case TypeDateTime:
		return "datetime"
	case TypeBoolean:
		return "boolean"
	case TypeEnumeration:
		return "enumeration"
	default:
		return "undefined"
	}
}

// ParseDataType понимает имена примитивных типов модели. Неизвестное имя
// становится строкой.
func ParseDataType(name string) DataType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int", "integer", "short", "byte":
		return Integer
	case "long", "bigint":
		return Long
	case "float":
		return Float
	case "double", "real", "decimal", "number":
		return Double
	case "date":
		return Date
	case "datetime", "timestamp", "time":
		return DateTime
	case "boolean", "bool":
		return Boolean
	default:
		return String
	}
}
