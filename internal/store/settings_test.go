package store

import "testing"

func TestSettingsGetMissingReturnsEmpty(t *testing.T) {
	ss := NewSettingsStore(openTestDB(t))

	value, err := ss.Get("nope")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if value != "" {
		t.Errorf("value = %q, want empty", value)
	}
}

func TestSettingsSetGetUpsert(t *testing.T) {
	ss := NewSettingsStore(openTestDB(t))

	if err := ss.Set("brewday-checklist-1", `{"checked":["prep-sanitize"]}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ss.Set("brewday-checklist-1", `{"checked":[]}`); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	value, err := ss.Get("brewday-checklist-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != `{"checked":[]}` {
		t.Errorf("value = %q, want upserted value", value)
	}

	all, err := ss.GetAll()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 setting, got %d", len(all))
	}
}

func TestSettingsDelete(t *testing.T) {
	ss := NewSettingsStore(openTestDB(t))

	if err := ss.Set("key", "value"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ss.Delete("key"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	value, err := ss.Get("key")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "" {
		t.Errorf("expected deleted key to read empty, got %q", value)
	}
}
