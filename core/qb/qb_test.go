package qb

import (
	"reflect"
	"testing"
)

func TestSelect(t *testing.T) {
	q := Select("users", map[string]any{"id": 16}, nil)

	if q.Text != "SELECT * FROM `users` WHERE `id` = ?" {
		t.Errorf("text = %q", q.Text)
	}
	if !reflect.DeepEqual(q.Args, []any{16}) {
		t.Errorf("args = %v", q.Args)
	}
}

func TestSelectColumnsAndCompositePredicate(t *testing.T) {
	q := Select("users", map[string]any{"org": 1, "user": 2}, []string{"org", "user"})

	if q.Text != "SELECT `org`, `user` FROM `users` WHERE `org` = ? AND `user` = ?" {
		t.Errorf("text = %q", q.Text)
	}
	if !reflect.DeepEqual(q.Args, []any{1, 2}) {
		t.Errorf("args = %v", q.Args)
	}
}

func TestSelectNoPredicate(t *testing.T) {
	q := Select("users", nil, nil)

	if q.Text != "SELECT * FROM `users`" {
		t.Errorf("text = %q", q.Text)
	}
	if len(q.Args) != 0 {
		t.Errorf("args = %v, want none", q.Args)
	}
}

func TestInsert(t *testing.T) {
	q := Insert("users", map[string]any{"name": "john", "age": 30}, false)

	// Columns come out sorted, so the statement is deterministic.
	if q.Text != "INSERT INTO `users` (`age`, `name`) VALUES (?, ?)" {
		t.Errorf("text = %q", q.Text)
	}
	if !reflect.DeepEqual(q.Args, []any{30, "john"}) {
		t.Errorf("args = %v", q.Args)
	}
}

func TestInsertReplace(t *testing.T) {
	q := Insert("users", map[string]any{"id": 5}, true)

	if q.Text != "REPLACE INTO `users` (`id`) VALUES (?)" {
		t.Errorf("text = %q", q.Text)
	}
}

func TestUpdate(t *testing.T) {
	q := Update("users", map[string]any{"name": "bob"}, map[string]any{"id": 3})

	if q.Text != "UPDATE `users` SET `name` = ? WHERE `id` = ?" {
		t.Errorf("text = %q", q.Text)
	}
	if !reflect.DeepEqual(q.Args, []any{"bob", 3}) {
		t.Errorf("args = %v", q.Args)
	}
}

func TestDelete(t *testing.T) {
	q := Delete("users", map[string]any{"id": 3})

	if q.Text != "DELETE FROM `users` WHERE `id` = ?" {
		t.Errorf("text = %q", q.Text)
	}
	if !reflect.DeepEqual(q.Args, []any{3}) {
		t.Errorf("args = %v", q.Args)
	}
}

func TestDescribe(t *testing.T) {
	q := Describe("users")

	if q.Text != "DESCRIBE `users`" {
		t.Errorf("text = %q", q.Text)
	}
}

func TestIdentifierQuoting(t *testing.T) {
	q := Select("odd`name", map[string]any{"we`ird": 1}, nil)

	if q.Text != "SELECT * FROM `odd``name` WHERE `we``ird` = ?" {
		t.Errorf("text = %q", q.Text)
	}
}
