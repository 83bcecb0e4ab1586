package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/artpar/recordmap/core/coltype"
)

// ColumnDescription is one row of a DESCRIBE <table> result: the declared
// type text, nullability, key role and extra attributes of a single column.
type ColumnDescription struct {
	Field string
	Type  string
	Null  string
	Key   string
	Extra string
}

var (
	// Longest alternatives first: leftmost-first alternation would match
	// "datetime" as "date" and "timestamp" as "time".
	temporalRe = regexp.MustCompile(`^(datetime|timestamp|date|time|year)`)
	decimalRe  = regexp.MustCompile(`^(decimal|numeric|float|double|real)(?:\((\d+),\s*(\d+)\))?`)
	integerRe  = regexp.MustCompile(`^((?:big|medium|small|tiny)?int(?:eger)?)(?:\((\d+)\))?`)
	enumRe     = regexp.MustCompile(`^enum\((.*)\)`)
	textRe     = regexp.MustCompile(`^((?:var)?char|(?:tiny|medium|long)?text)(?:\((\d+)\))?`)
	bareRe     = regexp.MustCompile(`^([a-z]+)`)
)

// FromDescription derives a Schema from introspected column descriptions.
// Unrecognized type text never fails: such columns get the registry's
// fallback descriptor.
func FromDescription(rows []ColumnDescription, reg *coltype.Registry) *Schema {
	if reg == nil {
		reg = coltype.Default()
	}

	s := &Schema{Columns: make(map[string]coltype.Type, len(rows))}
	for _, row := range rows {
		s.Columns[row.Field] = descriptorFor(row, reg)
		if strings.EqualFold(row.Key, "PRI") {
			s.Primaries = append(s.Primaries, row.Field)
		}
		if strings.Contains(strings.ToLower(row.Extra), "auto_increment") {
			s.Autoincrement = row.Field
		}
	}
	s.Loaded = len(s.Columns) > 0
	return s
}

// descriptorFor classifies one declared type string and dispatches to the
// matching registry factory with the parsed attributes.
func descriptorFor(row ColumnDescription, reg *coltype.Registry) coltype.Type {
	declared := strings.ToLower(strings.TrimSpace(row.Type))
	attrs := coltype.Attrs{
		Unsigned: strings.Contains(declared, "unsigned"),
		Nullable: strings.EqualFold(row.Null, "YES"),
	}

	if m := temporalRe.FindStringSubmatch(declared); m != nil {
		return reg.New(m[1], attrs)
	}

	if m := decimalRe.FindStringSubmatch(declared); m != nil {
		attrs.Size, _ = strconv.Atoi(m[2])
		attrs.Precision, _ = strconv.Atoi(m[3])
		return reg.New(m[1], attrs)
	}

	if m := integerRe.FindStringSubmatch(declared); m != nil {
		attrs.Size, _ = strconv.Atoi(m[2])
		// tinyint(1) holds a boolean by convention.
		if m[1] == "tinyint" && attrs.Size == 1 {
			return reg.New("BOOL", attrs)
		}
		return reg.New(m[1], attrs)
	}

	if m := enumRe.FindStringSubmatch(declared); m != nil {
		attrs.Options = splitEnumOptions(m[1])
		return reg.New("ENUM", attrs)
	}

	if m := textRe.FindStringSubmatch(declared); m != nil {
		attrs.Size, _ = strconv.Atoi(m[2])
		return reg.New(m[1], attrs)
	}

	if m := bareRe.FindStringSubmatch(declared); m != nil {
		return reg.New(m[1], attrs)
	}
	return reg.New(declared, attrs)
}

// splitEnumOptions parses the body of enum('a','b','it''s') into its values.
func splitEnumOptions(body string) []string {
	var options []string
	var cur strings.Builder
	inQuote := false

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\'' && inQuote && i+1 < len(body) && body[i+1] == '\'':
			cur.WriteByte('\'')
			i++
		case c == '\'':
			if inQuote {
				options = append(options, cur.String())
				cur.Reset()
			}
			inQuote = !inQuote
		case inQuote:
			cur.WriteByte(c)
		}
	}
	return options
}
