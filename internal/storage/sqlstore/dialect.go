package sqlstore

import (
	"strconv"
	"strings"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

func (d dialect) String() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

func (d dialect) driverName() string {
	if d == dialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

func (d dialect) gooseName() string {
	if d == dialectPostgres {
		return "pgx"
	}
	return "sqlite3"
}

// parseDSN picks the dialect from a DATABASE_URL value. postgres:// and
// postgresql:// URLs are passed to pgx unchanged; anything else is a SQLite
// path, optionally written as sqlite:///path.
func parseDSN(url string) (dialect, string) {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return dialectPostgres, url
	}

	path := url
	if rest, ok := strings.CutPrefix(path, "sqlite:///"); ok {
		path = rest
	} else if rest, ok := strings.CutPrefix(path, "sqlite://"); ok {
		path = rest
	}
	return dialectSQLite, path
}

// rebind rewrites ? placeholders as $n for postgres.
func (d dialect) rebind(query string) string {
	if d != dialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
