package schema

import (
	"errors"
	"testing"

	"github.com/artpar/recordmap/core/coltype"
)

func TestFromDescription(t *testing.T) {
	rows := []ColumnDescription{
		{Field: "id", Type: "int(11) unsigned", Null: "NO", Key: "PRI", Extra: "auto_increment"},
		{Field: "name", Type: "varchar(255)", Null: "YES"},
		{Field: "price", Type: "decimal(10,2)", Null: "YES"},
		{Field: "role", Type: "enum('admin','member')", Null: "NO"},
		{Field: "active", Type: "tinyint(1)", Null: "NO"},
		{Field: "created", Type: "datetime", Null: "YES"},
		{Field: "shape", Type: "geometry", Null: "YES"},
	}

	s := FromDescription(rows, coltype.Default())

	if !s.Loaded {
		t.Fatal("schema should be loaded")
	}
	if len(s.Columns) != 7 {
		t.Fatalf("columns = %d, want 7", len(s.Columns))
	}
	if len(s.Primaries) != 1 || s.Primaries[0] != "id" {
		t.Errorf("primaries = %v, want [id]", s.Primaries)
	}
	if s.Autoincrement != "id" {
		t.Errorf("autoincrement = %q, want id", s.Autoincrement)
	}

	wantNames := map[string]string{
		"id":      "INT",
		"name":    "VARCHAR",
		"price":   "DECIMAL",
		"role":    "ENUM",
		"active":  "BOOL",
		"created": "DATETIME",
		"shape":   "GEOMETRY",
	}
	for col, want := range wantNames {
		typ, ok := s.Column(col)
		if !ok {
			t.Errorf("column %q missing", col)
			continue
		}
		if typ.Name() != want {
			t.Errorf("column %q type = %s, want %s", col, typ.Name(), want)
		}
	}

	// Unfamiliar types fall back rather than failing.
	if _, ok := s.Columns["shape"].(coltype.Unknown); !ok {
		t.Errorf("shape should be the Unknown fallback, got %T", s.Columns["shape"])
	}
}

// Each temporal keyword must classify as its own kind: "datetime" and
// "timestamp" share prefixes with "date" and "time", and a misclassified
// datetime column would render values truncated to the shorter layout.
func TestFromDescriptionTemporalKinds(t *testing.T) {
	rows := []ColumnDescription{
		{Field: "d", Type: "date", Null: "YES"},
		{Field: "t", Type: "time", Null: "YES"},
		{Field: "dt", Type: "datetime", Null: "YES"},
		{Field: "ts", Type: "timestamp", Null: "YES"},
		{Field: "y", Type: "year", Null: "YES"},
	}

	s := FromDescription(rows, coltype.Default())

	wantNames := map[string]string{
		"d":  "DATE",
		"t":  "TIME",
		"dt": "DATETIME",
		"ts": "TIMESTAMP",
		"y":  "YEAR",
	}
	for col, want := range wantNames {
		typ, ok := s.Column(col)
		if !ok {
			t.Errorf("column %q missing", col)
			continue
		}
		if typ.Name() != want {
			t.Errorf("column %q type = %s, want %s", col, typ.Name(), want)
		}
	}

	// A datetime value keeps its time of day through normalize and format.
	dt, _ := s.Column("dt")
	stored := dt.Normalize("2026-08-31 13:45:09")
	if got := dt.Format(stored); got != "2026-08-31 13:45:09" {
		t.Errorf("datetime format = %v, want 2026-08-31 13:45:09", got)
	}
	if got := dt.Prepare(stored); got != "2026-08-31 13:45:09" {
		t.Errorf("datetime prepare = %v, want 2026-08-31 13:45:09", got)
	}
}

func TestFromDescriptionEnumOptions(t *testing.T) {
	rows := []ColumnDescription{
		{Field: "state", Type: "enum('on','off','it''s')", Null: "NO"},
	}

	s := FromDescription(rows, coltype.Default())
	enum, ok := s.Columns["state"].(coltype.Enum)
	if !ok {
		t.Fatalf("state is %T, want Enum", s.Columns["state"])
	}

	got := enum.Options()
	want := []string{"on", "off", "it's"}
	if len(got) != len(want) {
		t.Fatalf("options = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("option[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFromDescriptionCompositeKey(t *testing.T) {
	rows := []ColumnDescription{
		{Field: "org", Type: "int(11)", Null: "NO", Key: "PRI"},
		{Field: "user", Type: "int(11)", Null: "NO", Key: "PRI"},
		{Field: "note", Type: "text", Null: "YES"},
	}

	s := FromDescription(rows, coltype.Default())
	if len(s.Primaries) != 2 || s.Primaries[0] != "org" || s.Primaries[1] != "user" {
		t.Errorf("primaries = %v, want [org user]", s.Primaries)
	}
	if s.Autoincrement != "" {
		t.Errorf("autoincrement = %q, want none", s.Autoincrement)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		wantErr error
	}{
		{
			name:    "no columns",
			schema:  &Schema{},
			wantErr: ErrNoColumns,
		},
		{
			name: "primary not declared",
			schema: &Schema{
				Columns:   map[string]coltype.Type{"a": coltype.NewText("TEXT", coltype.Attrs{})},
				Primaries: []string{"id"},
			},
			wantErr: ErrBadPrimary,
		},
		{
			name: "autoincrement not declared",
			schema: &Schema{
				Columns:       map[string]coltype.Type{"a": coltype.NewText("TEXT", coltype.Attrs{})},
				Autoincrement: "id",
			},
			wantErr: ErrBadAutoincrement,
		},
		{
			name: "valid",
			schema: &Schema{
				Columns:   map[string]coltype.Type{"id": coltype.NewInteger("INT", coltype.Attrs{})},
				Primaries: []string{"id"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				if !tt.schema.Loaded {
					t.Error("Loaded should be set after validation")
				}
				if !tt.schema.Valid() {
					t.Error("Valid should report true")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate error = %v, want %v", err, tt.wantErr)
			}
			if tt.schema.Valid() {
				t.Error("Valid should report false")
			}
		})
	}
}
