package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds a single-row insert from the db-tagged fields of model.
func InsertModel(table string, model any, conflictColumns ...string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		OnConflictDoNothing(conflictColumns...).
		ToSQL()
}

// UpdateModel sets every db-tagged field of model except the match columns,
// which become equality conditions. Extra conditions are appended after them.
func UpdateModel(table string, model any, matchColumns []string, extra ...Condition) (string, []any, error) {
	if len(matchColumns) == 0 {
		return "", nil, fmt.Errorf("update match columns are required")
	}
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}

	match := make(map[string]any, len(matchColumns))
	builder := Update(table)
	for i, col := range cols {
		if containsColumn(matchColumns, col) {
			match[col] = vals[i]
			continue
		}
		builder.Set(col, vals[i])
	}
	for _, col := range matchColumns {
		value, ok := match[col]
		if !ok {
			return "", nil, fmt.Errorf("match column %s is not a model column", col)
		}
		builder.Where(Eq(col, value))
	}
	builder.Where(extra...)
	return builder.ToSQL()
}

// ColumnsFromModel describes the db-tagged fields of model for table creation.
func ColumnsFromModel(model any) ([]ColumnDef, error) {
	value, err := structValue(model)
	if err != nil {
		return nil, err
	}

	typ := value.Type()
	out := make([]ColumnDef, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		col, ok := columnName(field)
		if !ok {
			continue
		}
		colType, nullable, err := columnTypeOf(field.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		out = append(out, ColumnDef{Name: col, Type: colType, Nullable: nullable})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("model has no db columns")
	}
	return out, nil
}

// ColumnNames lists the db column names of model in field order.
func ColumnNames(model any) ([]string, error) {
	cols, _, err := columnsAndValuesFromModel(model)
	return cols, err
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value, err := structValue(model)
	if err != nil {
		return nil, nil, err
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		col, ok := columnName(typ.Field(i))
		if !ok {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}

func structValue(model any) (reflect.Value, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("model must be struct")
	}
	return value, nil
}

func columnName(field reflect.StructField) (string, bool) {
	if field.PkgPath != "" {
		return "", false
	}
	tag := strings.TrimSpace(field.Tag.Get("db"))
	if tag == "" || tag == "-" {
		return "", false
	}
	col := strings.TrimSpace(strings.Split(tag, ",")[0])
	if col == "" || col == "-" {
		return "", false
	}
	return col, true
}

func columnTypeOf(typ reflect.Type) (ColumnType, bool, error) {
	nullable := false
	for typ.Kind() == reflect.Pointer {
		nullable = true
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.Bool:
		return ColumnBoolean, nullable, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ColumnInteger, nullable, nil
	case reflect.Float32, reflect.Float64:
		return ColumnFloat, nullable, nil
	case reflect.String:
		return ColumnText, nullable, nil
	default:
		return "", false, fmt.Errorf("unsupported field type %s", typ)
	}
}

func containsColumn(cols []string, col string) bool {
	for _, c := range cols {
		if c == col {
			return true
		}
	}
	return false
}
