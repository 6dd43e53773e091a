package models

type DraftSource string

const (
	SourceText    DraftSource = "text"
	SourceImage   DraftSource = "image"
	SourceManual  DraftSource = "manual"
	SourceLibrary DraftSource = "library"
)

// AnalyzeDraft is a transient, user-editable candidate meal. It exists from
// the moment analysis (or manual creation) returns until the user discards or
// confirms it, and is never persisted as-is. Multiple drafts may coexist, one
// per in-flight input.
type AnalyzeDraft struct {
	DraftID      string      `json:"draftId"`
	MenuName     string      `json:"menuName"`
	OriginalText string      `json:"originalText"`
	Items        []FoodItem  `json:"items"`
	Totals       Macro       `json:"totals"`
	Source       DraftSource `json:"source"`
	Warnings     []string    `json:"warnings"`
	PhotoURL     string      `json:"photoUrl,omitempty"`
}

// Clone returns a deep copy so callers never alias the registry's slices.
func (d AnalyzeDraft) Clone() AnalyzeDraft {
	d.Items = CloneFoodItems(d.Items)
	if d.Warnings != nil {
		w := make([]string, len(d.Warnings))
		copy(w, d.Warnings)
		d.Warnings = w
	}
	return d
}
