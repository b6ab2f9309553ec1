package app

import (
	"regexp"
	"strings"
)

const maxTracedStatementLength = 512

var (
	statementWhitespace = regexp.MustCompile(`\s+`)
	// Puuid batches expand into long placeholder lists such as "IN (?, ?, ?, ...)" or "($1, $2, ...)".
	placeholderList = regexp.MustCompile(`\((?:\s*(?:\?|\$\d+)\s*,){3,}\s*(?:\?|\$\d+)\s*\)`)
)

// traceStatement renders a statement for span attributes: one line, placeholder lists
// collapsed, capped in length.
func traceStatement(statement string) string {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return statement
	}

	statement = statementWhitespace.ReplaceAllString(statement, " ")
	statement = placeholderList.ReplaceAllStringFunc(statement, func(list string) string {
		return "(" + strings.TrimSpace(strings.SplitN(list[1:], ",", 2)[0]) + ", ...)"
	})
	if len(statement) <= maxTracedStatementLength {
		return statement
	}
	return statement[:maxTracedStatementLength] + "..."
}
