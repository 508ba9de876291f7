package database

import (
	"regexp"
	"strings"
)

var (
	commentRegex = regexp.MustCompile(`(?m)^\s*--.*$`)
	stringRegex  = regexp.MustCompile(`'(?:[^']|'')*'|"(?:[^"]|"")*"`)
	dollarRegex  = regexp.MustCompile(`(?s)\$\$.*?\$\$`)
)

// ParseSQLStatements splits a script on semicolons that are not inside a
// quoted string or a dollar-quoted body.
func ParseSQLStatements(sql string) []string {
	sql = commentRegex.ReplaceAllString(sql, "")

	protected := make(map[int]bool)
	for _, re := range []*regexp.Regexp{stringRegex, dollarRegex} {
		for _, match := range re.FindAllStringIndex(sql, -1) {
			for i := match[0]; i < match[1]; i++ {
				protected[i] = true
			}
		}
	}

	statements := make([]string, 0, strings.Count(sql, ";")+1)
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" && !strings.HasPrefix(stmt, "/*") {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i, char := range sql {
		if char == ';' && !protected[i] {
			flush()
			continue
		}
		current.WriteRune(char)
	}
	flush()

	return statements
}
