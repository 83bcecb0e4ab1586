package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/artpar/recordmap/core/schema"
)

const usersDecl = `
table: users
columns:
  id:   {type: int, size: 11}
  name: {type: varchar, size: 255}
primaries: [id]
autoincrement: id
`

const ordersDecl = `
table: orders
columns:
  id:    {type: int, size: 11}
  total: {type: decimal, size: 10, precision: 2}
primaries: [id]
`

func newTestHolder(t *testing.T) (*Holder, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "users.yaml", usersDecl)

	h, err := NewHolder(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder failed: %v", err)
	}
	t.Cleanup(h.Stop)
	return h, dir
}

func TestHolderLoadsDeclarations(t *testing.T) {
	h, _ := newTestHolder(t)

	decl, ok := h.Declaration("users")
	if !ok {
		t.Fatal("users declaration not loaded")
	}
	if decl.Autoincrement != "id" {
		t.Errorf("autoincrement = %q, want id", decl.Autoincrement)
	}
	if _, ok := h.Declaration("orders"); ok {
		t.Error("orders should not exist yet")
	}
}

func TestHolderReload(t *testing.T) {
	h, dir := newTestHolder(t)

	var notified map[string]schema.Declaration
	h.OnChange(func(decls map[string]schema.Declaration) { notified = decls })

	writeFile(t, dir, "orders.yaml", ordersDecl)
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if _, ok := h.Declaration("orders"); !ok {
		t.Error("orders declaration missing after reload")
	}
	if notified == nil {
		t.Fatal("OnChange callback not invoked")
	}
	if len(notified) != 2 {
		t.Errorf("notified tables = %d, want 2", len(notified))
	}
}

func TestHolderReloadKeepsOldOnFailure(t *testing.T) {
	h, dir := newTestHolder(t)

	writeFile(t, dir, "broken.yaml", "table: ''\ncolumns: {}\n")
	if err := h.Reload(); err == nil {
		t.Fatal("reload of an invalid declaration should fail")
	}

	// The previous declarations survive a failed reload.
	if _, ok := h.Declaration("users"); !ok {
		t.Error("users declaration lost after failed reload")
	}
}

func TestHolderRejectsDuplicateTables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", usersDecl)
	writeFile(t, dir, "b.yaml", usersDecl)

	if _, err := NewHolder(dir, zerolog.Nop()); err == nil {
		t.Fatal("duplicate table declarations should fail")
	}
}

func TestHolderMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")
	if _, err := NewHolder(missing, zerolog.Nop()); err == nil {
		t.Fatal("a missing models directory should fail")
	}
	if err := os.MkdirAll(missing, 0o755); err != nil {
		t.Fatal(err)
	}
	h, err := NewHolder(missing, zerolog.Nop())
	if err != nil {
		t.Fatalf("empty directory should load: %v", err)
	}
	h.Stop()
	if len(h.Get()) != 0 {
		t.Errorf("declarations = %d, want 0", len(h.Get()))
	}
}
