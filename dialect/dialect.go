package dialect

import (
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Feresey/onto2db/graph"
)

// Dialect строка данных о синтаксисе одной СУБД. Новая СУБД это новая строка
// в Dialects, а не новый тип.
type Dialect struct {
	DBMS DBMS
	// Types шаблоны типов. Для строк "%d" заменяется длиной.
	Types map[graph.TypeKind]string

	// Identity ключевое слово автоинкремента первичного ключа.
	Identity string
	// IdentityBeforeNotNull ключевое слово ставится перед NOT NULL.
	IdentityBeforeNotNull bool
	// IdentityType заменяет тип первичного ключа (SERIAL).
	IdentityType string

	// InlineEnum перечисление пишется как ENUM(...), иначе строка с CHECK.
	InlineEnum bool

	True  string
	False string

	MaxIdentifier int
	Quote         func(name string) string

	Driver      string
	URL         string
	DefaultPort int
}

func quoteWith(open, close string) func(string) string {
	return func(name string) string { return open + name + close }
}

var Dialects = map[DBMS]Dialect{
	H2: {
		DBMS: H2,
		Types: map[graph.TypeKind]string{
			graph.TypeString:   "VARCHAR(%d)",
			graph.TypeInteger:  "INTEGER",
			graph.TypeLong:     "BIGINT",
			graph.TypeFloat:    "REAL",
			graph.TypeDouble:   "DOUBLE",
			graph.TypeDate:     "DATE",
			graph.TypeDateTime: "TIMESTAMP",
			graph.TypeBoolean:  "BOOLEAN",
		},
		Identity:      "IDENTITY",
		InlineEnum:    true,
		True:          "TRUE",
		False:         "FALSE",
		MaxIdentifier: 256,
		Quote:         quoteWith(`"`, `"`),
		Driver:        "org.h2.Driver",
		URL:           "jdbc:h2:tcp://%s:%d/%s",
		DefaultPort:   9092,
	},
	MySQL: {
		DBMS: MySQL,
		Types: map[graph.TypeKind]string{
			graph.TypeString:   "VARCHAR(%d)",
			graph.TypeInteger:  "INT",
			graph.TypeLong:     "BIGINT",
			graph.TypeFloat:    "FLOAT",
			graph.TypeDouble:   "DOUBLE",
			graph.TypeDate:     "DATE",
			graph.TypeDateTime: "DATETIME",
			graph.TypeBoolean:  "TINYINT(1)",
		},
		Identity:      "AUTO_INCREMENT",
		InlineEnum:    true,
		True:          "TRUE",
		False:         "FALSE",
		MaxIdentifier: 64,
		Quote:         quoteWith("`", "`"),
		Driver:        "com.mysql.cj.jdbc.Driver",
		URL:           "jdbc:mysql://%s:%d/%s",
		DefaultPort:   3306,
	},
	Oracle: {
		DBMS: Oracle,
		Types: map[graph.TypeKind]string{
			graph.TypeString:   "VARCHAR2(%d)",
			graph.TypeInteger:  "NUMBER(10)",
			graph.TypeLong:     "NUMBER(19)",
			graph.TypeFloat:    "BINARY_FLOAT",
			graph.TypeDouble:   "BINARY_DOUBLE",
			graph.TypeDate:     "DATE",
			graph.TypeDateTime: "TIMESTAMP",
			graph.TypeBoolean:  "CHAR(1)",
		},
		Identity:              "GENERATED ALWAYS AS IDENTITY",
		IdentityBeforeNotNull: true,
		True:                  "'1'",
		False:                 "'0'",
		MaxIdentifier:         128,
		Quote:                 quoteWith(`"`, `"`),
		Driver:                "oracle.jdbc.OracleDriver",
		URL:                   "jdbc:oracle:thin:@%s:%d:%s",
		DefaultPort:           1521,
	},
	Postgre: {
		DBMS: Postgre,
		Types: map[graph.TypeKind]string{
			graph.TypeString:   "VARCHAR(%d)",
			graph.TypeInteger:  "INTEGER",
			graph.TypeLong:     "BIGINT",
			graph.TypeFloat:    "REAL",
			graph.TypeDouble:   "DOUBLE PRECISION",
			graph.TypeDate:     "DATE",
			graph.TypeDateTime: "TIMESTAMP",
			graph.TypeBoolean:  "BOOLEAN",
		},
		IdentityType:  "SERIAL",
		True:          "TRUE",
		False:         "FALSE",
		MaxIdentifier: 63,
		Quote: func(name string) string {
			return pgx.Identifier{name}.Sanitize()
		},
		Driver:      "org.postgresql.Driver",
		URL:         "jdbc:postgresql://%s:%d/%s",
		DefaultPort: 5432,
	},
	SQLServer: {
		DBMS: SQLServer,
		Types: map[graph.TypeKind]string{
			graph.TypeString:   "VARCHAR(%d)",
			graph.TypeInteger:  "INT",
			graph.TypeLong:     "BIGINT",
			graph.TypeFloat:    "REAL",
			graph.TypeDouble:   "FLOAT",
			graph.TypeDate:     "DATE",
			graph.TypeDateTime: "DATETIME2",
			graph.TypeBoolean:  "BIT",
		},
		Identity:      "IDENTITY(1,1)",
		True:          "1",
		False:         "0",
		MaxIdentifier: 128,
		Quote:         quoteWith("[", "]"),
		Driver:        "com.microsoft.sqlserver.jdbc.SQLServerDriver",
		URL:           "jdbc:sqlserver://%s:%d;databaseName=%s",
		DefaultPort:   1433,
	},
	Generic: {
		DBMS: Generic,
		Types: map[graph.TypeKind]string{
			graph.TypeString:   "VARCHAR(%d)",
			graph.TypeInteger:  "INTEGER",
			graph.TypeLong:     "BIGINT",
			graph.TypeFloat:    "FLOAT",
			graph.TypeDouble:   "DOUBLE PRECISION",
			graph.TypeDate:     "DATE",
			graph.TypeDateTime: "TIMESTAMP",
			graph.TypeBoolean:  "BOOLEAN",
		},
		True:          "TRUE",
		False:         "FALSE",
		MaxIdentifier: 128,
		Quote:         quoteWith(`"`, `"`),
	},
}

// reserved слова, которые нельзя использовать как имя без кавычек.
var reserved = map[string]struct{}{
	"ALL": {}, "AND": {}, "AS": {}, "BY": {}, "CHECK": {}, "COLUMN": {}, "COMMENT": {},
	"CONSTRAINT": {}, "CREATE": {}, "CURRENT": {}, "DATE": {}, "DEFAULT": {}, "DELETE": {},
	"DESC": {}, "DISTINCT": {}, "END": {}, "FOREIGN": {}, "FROM": {}, "GROUP": {},
	"HAVING": {}, "IN": {}, "INDEX": {}, "INSERT": {}, "INTO": {}, "IS": {}, "KEY": {},
	"LEVEL": {}, "LIMIT": {}, "MODE": {}, "NOT": {}, "NULL": {}, "NUMBER": {}, "OF": {},
	"ON": {}, "OR": {}, "ORDER": {}, "PRIMARY": {}, "REFERENCES": {}, "ROW": {}, "ROWS": {},
	"SELECT": {}, "SESSION": {}, "SIZE": {}, "TABLE": {}, "TO": {}, "UNION": {},
	"UNIQUE": {}, "UPDATE": {}, "USER": {}, "VALUE": {}, "VALUES": {}, "WHERE": {},
}

// Ident возвращает имя, при необходимости в кавычках.
func (d Dialect) Ident(name string) string {
	if _, ok := reserved[strings.ToUpper(name)]; ok {
		return d.Quote(name)
	}
	return name
}

// Literal значение по умолчанию в синтаксисе СУБД.
func (d Dialect) Literal(value string) string {
	switch strings.ToLower(value) {
	case "true":
		return d.True
	case "false":
		return d.False
	}
	return StringLiteral(value)
}

func StringLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
