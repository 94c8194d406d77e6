package model

// ChecklistCategory groups brew-day checklist items by stage.
type ChecklistCategory string

const (
	ChecklistPrep     ChecklistCategory = "prep"
	ChecklistMash     ChecklistCategory = "mash"
	ChecklistBoil     ChecklistCategory = "boil"
	ChecklistPostBoil ChecklistCategory = "post-boil"
	ChecklistCustom   ChecklistCategory = "custom"
)

// ChecklistItem is one entry on a batch's brew-day checklist. Generated
// items carry stable IDs derived from their structural position in the
// recipe (ferm-0, hop-2, ...); custom items carry generated unique IDs
// and survive recipe edits.
type ChecklistItem struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Checked  bool              `json:"checked"`
	Category ChecklistCategory `json:"category"`
}
