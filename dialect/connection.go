package dialect

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"

	"github.com/Feresey/onto2db/errs"
)

type ConnectionOptions struct {
	Host         string
	Port         int
	DatabaseName string
	User         string
	Password     string
}

// Connection печатает настройки подключения для Ontop (.properties).
func Connection(dbms DBMS, opts ConnectionOptions) (string, error) {
	if dbms == Generic {
		return "", errs.Config("It is not possible to make connection properties for GENERIC database.")
	}
	d, ok := Dialects[dbms]
	if !ok {
		return "", xerrors.Errorf("undefined dialect: %s", dbms)
	}
	host := opts.Host
	if host == "" {
		host = "localhost"
	}
	port := opts.Port
	if port == 0 {
		port = d.DefaultPort
	}

	var sb strings.Builder
	err := tpl.ExecuteTemplate(&sb, "connection", struct {
		URL      string
		Driver   string
		User     string
		Password string
	}{
		URL:      fmt.Sprintf(d.URL, host, port, opts.DatabaseName),
		Driver:   d.Driver,
		User:     opts.User,
		Password: opts.Password,
	})
	if err != nil {
		return "", xerrors.Errorf("execute template: %w", err)
	}
	return sb.String(), nil
}
