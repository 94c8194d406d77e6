package checklist

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/tmackey/wortwatch/internal/model"
)

type memStore struct {
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(key string) (string, error) { return s.data[key], nil }
func (s *memStore) Set(key, value string) error {
	s.data[key] = value
	return nil
}

func paleAle() *model.Recipe {
	return &model.Recipe{
		Name: "House Pale",
		Fermentables: []model.Fermentable{
			{Name: "Pale Malt", AmountKg: 5},
			{Name: "Crystal 60", AmountKg: 0.3},
		},
		Hops: []model.Hop{
			{Name: "Magnum", AmountGrams: 20, Use: model.HopUseBoil, TimeMinutes: 60},
			{Name: "Citra", AmountGrams: 50, Use: model.HopUseDryHop},
		},
	}
}

func newTestManager() (*Manager, *memStore) {
	store := newMemStore()
	return NewManager(store, slog.Default()), store
}

func TestGenerateStableIDs(t *testing.T) {
	a := Generate(paleAle())
	b := Generate(paleAle())
	if len(a) != len(b) {
		t.Fatalf("generation not deterministic: %d vs %d items", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("item %d id differs: %q vs %q", i, a[i].ID, b[i].ID)
		}
	}
}

func TestGenerateIngredientItems(t *testing.T) {
	items := Generate(paleAle())

	ids := make(map[string]model.ChecklistItem)
	for _, it := range items {
		ids[it.ID] = it
	}

	ferm, ok := ids["ferm-0"]
	if !ok {
		t.Fatal("missing ferm-0")
	}
	if !strings.Contains(ferm.Text, "Pale Malt") || ferm.Category != model.ChecklistPrep {
		t.Errorf("ferm-0 = %+v", ferm)
	}

	boilHop, ok := ids["hop-0"]
	if !ok {
		t.Fatal("missing hop-0")
	}
	if boilHop.Category != model.ChecklistBoil {
		t.Errorf("boil hop category = %q", boilHop.Category)
	}

	dryHop, ok := ids["hop-1"]
	if !ok {
		t.Fatal("missing hop-1")
	}
	if dryHop.Category != model.ChecklistPostBoil {
		t.Errorf("dry hop category = %q", dryHop.Category)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	m, _ := newTestManager()
	r := paleAle()

	items, err := m.Toggle(42, r, "ferm-0")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !findItem(t, items, "ferm-0").Checked {
		t.Fatal("item not checked after toggle")
	}

	// A fresh load against the same store must see the checked state.
	reloaded, err := m.Load(42, r)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !findItem(t, reloaded, "ferm-0").Checked {
		t.Error("checked state lost across reload")
	}
	if findItem(t, reloaded, "ferm-1").Checked {
		t.Error("unrelated item checked")
	}
}

func TestRecipeEditDropsOrphanedState(t *testing.T) {
	m, _ := newTestManager()
	r := paleAle()

	if _, err := m.Toggle(1, r, "hop-1"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	// Remove the second hop: hop-1 no longer exists in the generated set.
	edited := paleAle()
	edited.Hops = edited.Hops[:1]

	items, err := m.Load(1, edited)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, it := range items {
		if it.ID == "hop-1" {
			t.Error("orphaned item survived recipe edit")
		}
	}
}

func TestCustomItemsSurviveRecipeEdit(t *testing.T) {
	m, _ := newTestManager()
	r := paleAle()

	items, err := m.AddCustom(1, r, "Borrow propane tank")
	if err != nil {
		t.Fatalf("AddCustom: %v", err)
	}
	var customID string
	for _, it := range items {
		if it.Category == model.ChecklistCustom {
			customID = it.ID
		}
	}
	if customID == "" {
		t.Fatal("custom item not added")
	}

	edited := paleAle()
	edited.Hops = nil
	edited.Fermentables = edited.Fermentables[:1]

	reloaded, err := m.Load(1, edited)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	custom := findItem(t, reloaded, customID)
	if custom.Text != "Borrow propane tank" {
		t.Errorf("custom item text = %q", custom.Text)
	}
}

func TestRemoveCustomOnlyRemovesCustoms(t *testing.T) {
	m, _ := newTestManager()
	r := paleAle()

	items, _ := m.AddCustom(1, r, "Extra step")
	var customID string
	for _, it := range items {
		if it.Category == model.ChecklistCustom {
			customID = it.ID
		}
	}

	if _, err := m.RemoveCustom(1, r, "ferm-0"); err == nil {
		t.Error("removing a generated item should fail")
	}
	after, err := m.RemoveCustom(1, r, customID)
	if err != nil {
		t.Fatalf("RemoveCustom: %v", err)
	}
	for _, it := range after {
		if it.ID == customID {
			t.Error("custom item still present after removal")
		}
	}
}

func TestResetAllUnchecksEverything(t *testing.T) {
	m, _ := newTestManager()
	r := paleAle()

	m.Toggle(1, r, "ferm-0")
	m.Toggle(1, r, "prep-sanitize")
	m.AddCustom(1, r, "Extra")

	items, err := m.ResetAll(1, r)
	if err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	for _, it := range items {
		if it.Checked {
			t.Errorf("item %s still checked after reset", it.ID)
		}
	}
	// Customs are kept, just unchecked.
	hasCustom := false
	for _, it := range items {
		if it.Category == model.ChecklistCustom {
			hasCustom = true
		}
	}
	if !hasCustom {
		t.Error("reset dropped custom items")
	}
}

func TestCorruptSavedDataRegenerates(t *testing.T) {
	m, store := newTestManager()
	r := paleAle()

	store.data[StorageKey(9)] = "{not json"

	items, err := m.Load(9, r)
	if err != nil {
		t.Fatalf("Load with corrupt data: %v", err)
	}
	if len(items) != len(Generate(r)) {
		t.Errorf("corrupt data did not degrade to fresh list: %d items", len(items))
	}
}

func TestToggleUnknownItem(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.Toggle(1, paleAle(), "nope"); err == nil {
		t.Error("toggling an unknown item should fail")
	}
}

func findItem(t *testing.T, items []model.ChecklistItem, id string) model.ChecklistItem {
	t.Helper()
	for _, it := range items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %q not found", id)
	return model.ChecklistItem{}
}
