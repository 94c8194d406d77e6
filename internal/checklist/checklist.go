// Package checklist generates brew-day checklists from a recipe and
// persists their checked state in a key-value store. The item list itself
// is regenerated from the recipe on every load; only the checked flags
// and custom items are persisted, merged back in by item ID.
package checklist

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tmackey/wortwatch/internal/model"
)

// Store is the key-value backend for saved checklist state. Get returns
// an empty string for a missing key.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// StorageKey returns the store key for a batch's checklist.
func StorageKey(batchID int64) string {
	return fmt.Sprintf("brewday-checklist-%d", batchID)
}

// staticSteps are the fixed-position checklist entries present for every
// recipe. IDs are stable so saved check-state survives reloads.
var staticSteps = []model.ChecklistItem{
	{ID: "prep-sanitize", Text: "Sanitize fermenter, airlock, and transfer gear", Category: model.ChecklistPrep},
	{ID: "prep-water", Text: "Measure and treat brewing water", Category: model.ChecklistPrep},
	{ID: "prep-yeast", Text: "Take yeast out of the fridge / prepare starter", Category: model.ChecklistPrep},
	{ID: "mash-strike", Text: "Heat strike water", Category: model.ChecklistMash},
	{ID: "mash-in", Text: "Mash in and stabilize temperature", Category: model.ChecklistMash},
	{ID: "mash-sparge", Text: "Sparge and collect pre-boil volume", Category: model.ChecklistMash},
	{ID: "boil-start", Text: "Bring wort to a rolling boil", Category: model.ChecklistBoil},
	{ID: "postboil-chill", Text: "Chill wort to pitching temperature", Category: model.ChecklistPostBoil},
	{ID: "postboil-gravity", Text: "Take original gravity reading", Category: model.ChecklistPostBoil},
	{ID: "postboil-pitch", Text: "Transfer to fermenter and pitch yeast", Category: model.ChecklistPostBoil},
	{ID: "postboil-cleanup", Text: "Clean kettle and equipment", Category: model.ChecklistPostBoil},
}

// Generate builds the canonical checklist for a recipe. Ingredient items
// get IDs derived from their structural position (ferm-0, hop-2, ...), so
// reordering or removing an ingredient invalidates its saved state by
// design.
func Generate(r *model.Recipe) []model.ChecklistItem {
	var items []model.ChecklistItem

	for _, s := range staticSteps {
		if s.Category == model.ChecklistPrep {
			items = append(items, s)
		}
	}
	for i, f := range r.Fermentables {
		items = append(items, model.ChecklistItem{
			ID:       fmt.Sprintf("ferm-%d", i),
			Text:     fmt.Sprintf("Weigh and mill %.2f kg %s", f.AmountKg, f.Name),
			Category: model.ChecklistPrep,
		})
	}
	for i, h := range r.Hops {
		items = append(items, model.ChecklistItem{
			ID:       fmt.Sprintf("hop-%d", i),
			Text:     hopStepText(h),
			Category: hopStepCategory(h),
		})
	}
	for _, s := range staticSteps {
		if s.Category != model.ChecklistPrep {
			items = append(items, s)
		}
	}
	return items
}

func hopStepText(h model.Hop) string {
	switch h.Use {
	case model.HopUseDryHop:
		return fmt.Sprintf("Set aside %.0f g %s for dry hopping", h.AmountGrams, h.Name)
	case model.HopUseWhirlpool:
		return fmt.Sprintf("Measure %.0f g %s for whirlpool", h.AmountGrams, h.Name)
	default:
		return fmt.Sprintf("Measure %.0f g %s (%d min addition)", h.AmountGrams, h.Name, h.TimeMinutes)
	}
}

func hopStepCategory(h model.Hop) model.ChecklistCategory {
	switch h.Use {
	case model.HopUseDryHop, model.HopUseWhirlpool:
		return model.ChecklistPostBoil
	case model.HopUseMash, model.HopUseFirstWort:
		return model.ChecklistMash
	default:
		return model.ChecklistBoil
	}
}

// Merge overlays saved state onto a freshly generated list: generated
// items take their checked flag from a saved item with the same ID, and
// saved custom items are appended verbatim. Saved non-custom items whose
// ID no longer exists are dropped.
func Merge(generated, saved []model.ChecklistItem) []model.ChecklistItem {
	checked := make(map[string]bool, len(saved))
	for _, s := range saved {
		if s.Category != model.ChecklistCustom {
			checked[s.ID] = s.Checked
		}
	}

	merged := make([]model.ChecklistItem, 0, len(generated))
	for _, g := range generated {
		if c, ok := checked[g.ID]; ok {
			g.Checked = c
		}
		merged = append(merged, g)
	}
	for _, s := range saved {
		if s.Category == model.ChecklistCustom {
			merged = append(merged, s)
		}
	}
	return merged
}

// Manager loads and mutates per-batch checklists against a Store. A
// failed persist is logged and otherwise swallowed; the in-memory list
// stays authoritative for the caller.
type Manager struct {
	store  Store
	logger *slog.Logger
}

func NewManager(store Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Load returns the merged checklist for a batch. Missing or corrupt saved
// data degrades to the freshly generated list.
func (m *Manager) Load(batchID int64, r *model.Recipe) ([]model.ChecklistItem, error) {
	generated := Generate(r)

	raw, err := m.store.Get(StorageKey(batchID))
	if err != nil {
		return nil, fmt.Errorf("load checklist: %w", err)
	}
	if raw == "" {
		return generated, nil
	}

	var saved []model.ChecklistItem
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		m.logger.Warn("corrupt saved checklist, regenerating", "batch_id", batchID, "error", err)
		return generated, nil
	}
	return Merge(generated, saved), nil
}

// Toggle flips an item's checked flag and persists the full list.
func (m *Manager) Toggle(batchID int64, r *model.Recipe, itemID string) ([]model.ChecklistItem, error) {
	items, err := m.Load(batchID, r)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].ID == itemID {
			items[i].Checked = !items[i].Checked
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("checklist item %q not found", itemID)
	}
	m.save(batchID, items)
	return items, nil
}

// AddCustom appends a user-written item and persists the full list.
// Custom items survive recipe edits because Merge carries them verbatim.
func (m *Manager) AddCustom(batchID int64, r *model.Recipe, text string) ([]model.ChecklistItem, error) {
	items, err := m.Load(batchID, r)
	if err != nil {
		return nil, err
	}
	items = append(items, model.ChecklistItem{
		ID:       "custom-" + uuid.NewString(),
		Text:     text,
		Category: model.ChecklistCustom,
	})
	m.save(batchID, items)
	return items, nil
}

// RemoveCustom deletes a custom item and persists the full list.
// Generated items cannot be removed, only unchecked.
func (m *Manager) RemoveCustom(batchID int64, r *model.Recipe, itemID string) ([]model.ChecklistItem, error) {
	items, err := m.Load(batchID, r)
	if err != nil {
		return nil, err
	}
	for i, it := range items {
		if it.ID == itemID {
			if it.Category != model.ChecklistCustom {
				return nil, fmt.Errorf("item %q is not a custom item", itemID)
			}
			items = append(items[:i], items[i+1:]...)
			m.save(batchID, items)
			return items, nil
		}
	}
	return nil, fmt.Errorf("checklist item %q not found", itemID)
}

// ResetAll unchecks every item, keeping custom items in place, and
// persists the full list.
func (m *Manager) ResetAll(batchID int64, r *model.Recipe) ([]model.ChecklistItem, error) {
	items, err := m.Load(batchID, r)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Checked = false
	}
	m.save(batchID, items)
	return items, nil
}

func (m *Manager) save(batchID int64, items []model.ChecklistItem) {
	data, err := json.Marshal(items)
	if err != nil {
		m.logger.Warn("marshal checklist", "batch_id", batchID, "error", err)
		return
	}
	if err := m.store.Set(StorageKey(batchID), string(data)); err != nil {
		m.logger.Warn("persist checklist", "batch_id", batchID, "error", err)
	}
}
