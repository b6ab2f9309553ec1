package querybuilder

import (
	"fmt"
	"strings"
)

type ColumnType string

const (
	ColumnInteger ColumnType = "integer"
	ColumnFloat   ColumnType = "float"
	ColumnText    ColumnType = "text"
	ColumnBoolean ColumnType = "boolean"
)

type ColumnDef struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func (d Dialect) typeName(t ColumnType) (string, error) {
	switch d {
	case DialectPostgres:
		switch t {
		case ColumnInteger:
			return "BIGINT", nil
		case ColumnFloat:
			return "DOUBLE PRECISION", nil
		case ColumnText:
			return "TEXT", nil
		case ColumnBoolean:
			return "BOOLEAN", nil
		}
	case DialectSQLite:
		switch t {
		case ColumnInteger, ColumnBoolean:
			return "INTEGER", nil
		case ColumnFloat:
			return "REAL", nil
		case ColumnText:
			return "TEXT", nil
		}
	default:
		return "", fmt.Errorf("unsupported dialect %q", d)
	}
	return "", fmt.Errorf("unsupported column type %q", t)
}

// CreateTable renders a CREATE TABLE statement. Non-nullable columns are NOT NULL.
func CreateTable(dialect Dialect, table string, columns []ColumnDef, primaryKey ...string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("create table name is required")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("create table columns are required")
	}

	var buf strings.Builder
	buf.WriteString("CREATE TABLE ")
	buf.WriteString(table)
	buf.WriteString(" (")
	for i, col := range columns {
		typeName, err := dialect.typeName(col.Type)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", col.Name, err)
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(col.Name)
		buf.WriteString(" ")
		buf.WriteString(typeName)
		if !col.Nullable {
			buf.WriteString(" NOT NULL")
		}
	}
	if len(primaryKey) > 0 {
		for _, key := range primaryKey {
			if !hasColumn(columns, key) {
				return "", fmt.Errorf("primary key column %s is not defined", key)
			}
		}
		buf.WriteString(", PRIMARY KEY (")
		buf.WriteString(strings.Join(primaryKey, ", "))
		buf.WriteString(")")
	}
	buf.WriteString(")")

	return buf.String(), nil
}

func DropTable(table string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("drop table name is required")
	}
	return "DROP TABLE IF EXISTS " + table, nil
}

// TableExists renders the catalog lookup for the dialect; the single bind is the table name.
func TableExists(dialect Dialect, table string) (string, []any, error) {
	switch dialect {
	case DialectPostgres:
		return Select("COUNT(1)").
			From("information_schema.tables").
			Where(Expr("table_schema = current_schema()"), Eq("table_name", table)).
			ToSQL()
	case DialectSQLite:
		return Select("COUNT(1)").
			From("sqlite_master").
			Where(Eq("type", "table"), Eq("name", table)).
			ToSQL()
	default:
		return "", nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func hasColumn(columns []ColumnDef, name string) bool {
	for _, col := range columns {
		if col.Name == name {
			return true
		}
	}
	return false
}
