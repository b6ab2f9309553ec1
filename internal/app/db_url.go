package app

import (
	"net/url"
	"path/filepath"
	"strings"
)

const sqliteScheme = "sqlite://"

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}

// sqliteDSN accepts "sqlite://path", "file:path?opts" or a bare path.
func sqliteDSN(raw string) string {
	dsn := strings.TrimSpace(raw)
	if strings.HasPrefix(dsn, sqliteScheme) {
		dsn = strings.TrimPrefix(dsn, sqliteScheme)
	}
	if dsn == "" {
		return ":memory:"
	}
	return dsn
}

func sqliteDBName(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		path = path[:idx]
	}
	if path == "" || path == ":memory:" {
		return "memory"
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
