package coltype

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Integer handles the int family (tinyint through bigint).
type Integer struct {
	name     string
	size     int
	unsigned bool
}

// NewInteger creates an integer descriptor.
func NewInteger(name string, attrs Attrs) Integer {
	return Integer{name: name, size: attrs.Size, unsigned: attrs.Unsigned}
}

func (t Integer) Name() string { return t.name }

func (t Integer) Normalize(raw any) any {
	if raw == nil {
		return nil
	}
	if i, ok := toInt64(raw); ok {
		return i
	}
	return raw
}

func (t Integer) Format(v any) any  { return v }
func (t Integer) Prepare(v any) any { return v }

func (t Integer) Compare(a, b any) bool {
	ai, aok := toInt64(a)
	bi, bok := toInt64(b)
	if aok && bok {
		return ai == bi
	}
	return identityEqual(a, b)
}

// Decimal handles decimal, numeric, float, double and real columns.
type Decimal struct {
	name      string
	size      int
	precision int
	unsigned  bool
}

// NewDecimal creates a decimal descriptor.
func NewDecimal(name string, attrs Attrs) Decimal {
	return Decimal{name: name, size: attrs.Size, precision: attrs.Precision, unsigned: attrs.Unsigned}
}

func (t Decimal) Name() string { return t.name }

func (t Decimal) Normalize(raw any) any {
	if raw == nil {
		return nil
	}
	if f, ok := toFloat64(raw); ok {
		return f
	}
	return raw
}

// Format renders the value with the declared precision, the way the
// database echoes a decimal column back (e.g. 3 -> "3.00" for decimal(10,2)).
func (t Decimal) Format(v any) any {
	f, ok := toFloat64(v)
	if !ok {
		return v
	}
	if t.precision > 0 {
		return strconv.FormatFloat(f, 'f', t.precision, 64)
	}
	return f
}

func (t Decimal) Prepare(v any) any { return v }

func (t Decimal) Compare(a, b any) bool {
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		return af == bf
	}
	return identityEqual(a, b)
}

// Text handles char, varchar and the text family.
type Text struct {
	name string
	size int
}

// NewText creates a text descriptor.
func NewText(name string, attrs Attrs) Text {
	return Text{name: name, size: attrs.Size}
}

func (t Text) Name() string { return t.name }

func (t Text) Normalize(raw any) any {
	if raw == nil {
		return nil
	}
	if s, ok := toString(raw); ok {
		return s
	}
	return raw
}

func (t Text) Format(v any) any  { return v }
func (t Text) Prepare(v any) any { return v }

func (t Text) Compare(a, b any) bool {
	as, aok := toString(a)
	bs, bok := toString(b)
	if aok && bok {
		return as == bs
	}
	return identityEqual(a, b)
}

// Enum handles enum columns. Membership in the option set is not enforced
// here; the database rejects out-of-set values on write.
type Enum struct {
	options []string
}

// NewEnum creates an enum descriptor.
func NewEnum(attrs Attrs) Enum {
	return Enum{options: attrs.Options}
}

func (t Enum) Name() string { return "ENUM" }

// Options returns the declared option set.
func (t Enum) Options() []string { return t.options }

func (t Enum) Normalize(raw any) any {
	if raw == nil {
		return nil
	}
	if s, ok := toString(raw); ok {
		return s
	}
	return raw
}

func (t Enum) Format(v any) any  { return v }
func (t Enum) Prepare(v any) any { return v }

func (t Enum) Compare(a, b any) bool {
	as, aok := toString(a)
	bs, bok := toString(b)
	if aok && bok {
		return as == bs
	}
	return identityEqual(a, b)
}

// TemporalKind selects the layout a Temporal descriptor speaks.
type TemporalKind int

const (
	KindDate TemporalKind = iota
	KindTime
	KindDateTime
	KindTimestamp
	KindYear
)

func (k TemporalKind) layout() string {
	switch k {
	case KindDate:
		return "2006-01-02"
	case KindTime:
		return "15:04:05"
	case KindYear:
		return "2006"
	default:
		return "2006-01-02 15:04:05"
	}
}

func (k TemporalKind) name() string {
	switch k {
	case KindDate:
		return "DATE"
	case KindTime:
		return "TIME"
	case KindTimestamp:
		return "TIMESTAMP"
	case KindYear:
		return "YEAR"
	default:
		return "DATETIME"
	}
}

// Temporal handles date, time, datetime, timestamp and year columns.
// Stored form is time.Time; Prepare emits the database's string layout.
type Temporal struct {
	kind TemporalKind
}

// NewTemporal creates a temporal descriptor.
func NewTemporal(kind TemporalKind) Temporal {
	return Temporal{kind: kind}
}

func (t Temporal) Name() string { return t.kind.name() }

func (t Temporal) Normalize(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		return v
	case []byte:
		return t.Normalize(string(v))
	case string:
		for _, layout := range []string{t.kind.layout(), "2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00", "2006-01-02"} {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts
			}
		}
	}
	return raw
}

func (t Temporal) Format(v any) any {
	if ts, ok := v.(time.Time); ok {
		return ts.Format(t.kind.layout())
	}
	return v
}

func (t Temporal) Prepare(v any) any {
	if ts, ok := v.(time.Time); ok {
		return ts.Format(t.kind.layout())
	}
	return v
}

func (t Temporal) Compare(a, b any) bool {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Equal(bt)
	}
	// One side may still hold the string encoding.
	return identityEqual(t.Normalize(a), t.Normalize(b))
}

// Boolean handles tinyint(1) columns under the usual convention.
type Boolean struct{}

func (t Boolean) Name() string { return "BOOL" }

func (t Boolean) Normalize(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case bool:
		return v
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	case []byte:
		return t.Normalize(string(v))
	default:
		if i, ok := toInt64(raw); ok {
			return i != 0
		}
	}
	return raw
}

func (t Boolean) Format(v any) any { return v }

func (t Boolean) Prepare(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return v
}

func (t Boolean) Compare(a, b any) bool {
	return identityEqual(t.Normalize(a), t.Normalize(b))
}

// UUID handles uuid columns. Stored form is the canonical lowercase string.
type UUID struct{}

func (t UUID) Name() string { return "UUID" }

func (t UUID) Normalize(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case uuid.UUID:
		return v.String()
	case []byte:
		return t.Normalize(string(v))
	case string:
		if id, err := uuid.Parse(v); err == nil {
			return id.String()
		}
	}
	return raw
}

func (t UUID) Format(v any) any  { return v }
func (t UUID) Prepare(v any) any { return v }

func (t UUID) Compare(a, b any) bool {
	return identityEqual(t.Normalize(a), t.Normalize(b))
}

// Unknown is the fallback for column types the registry does not recognize.
// All conversions are identity and comparison is reference equality, so
// introspection of an unfamiliar column never fails outright.
type Unknown struct {
	name string
}

// NewUnknown creates a fallback descriptor carrying the unrecognized name.
func NewUnknown(name string) Unknown {
	if name == "" {
		name = "UNKNOWN"
	}
	return Unknown{name: strings.ToUpper(name)}
}

func (t Unknown) Name() string          { return t.name }
func (t Unknown) Normalize(raw any) any { return raw }
func (t Unknown) Format(v any) any      { return v }
func (t Unknown) Prepare(v any) any     { return v }
func (t Unknown) Compare(a, b any) bool { return identityEqual(a, b) }
