package dialect

import (
	"strings"

	"github.com/Feresey/onto2db/errs"
)

// DBMS целевая СУБД.
type DBMS int

const (
	H2 DBMS = iota
	MySQL
	Oracle
	Postgre
	SQLServer
	// Generic схема без привязки к конкретной СУБД.
	Generic
)

var dbmsNames = map[DBMS]string{
	H2:        "H2",
	MySQL:     "MYSQL",
	Oracle:    "ORACLE",
	Postgre:   "POSTGRE",
	SQLServer: "SQLSERVER",
	Generic:   "GENERIC_SCHEMA",
}

func (d DBMS) String() string {
	if name, ok := dbmsNames[d]; ok {
		return name
	}
	return "UNDEFINED"
}

func (d DBMS) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DBMS) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	switch name {
	case "POSTGRES", "POSTGRESQL":
		name = "POSTGRE"
	case "GENERIC":
		name = "GENERIC_SCHEMA"
	}
	for dbms, n := range dbmsNames {
		if n == name {
			*d = dbms
			return nil
		}
	}
	return errs.Config("undefined target DBMS: %q", string(text))
}
