package monday

import (
	"encoding/json"
	"os"
)

// ColumnMap names the board column ids a declaration's fields land in.
// The ids are board-specific; defaults match the production boards and
// can be overridden from configuration without code edits.
type ColumnMap struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Property    string `json:"property"`
	City        string `json:"city"`
	IssueType   string `json:"issue_type"`
	Urgency     string `json:"urgency"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
	Reference   string `json:"reference"`
}

// Board pairs a board id with its column layout.
type Board struct {
	ID      string
	Columns ColumnMap
}

func defaultDeclarationColumns() ColumnMap {
	return ColumnMap{
		Email:       "email",
		Phone:       "phone",
		Property:    "text_property",
		City:        "text_city",
		IssueType:   "text_issue",
		Urgency:     "dropdown_urgency",
		Status:      "status",
		SubmittedAt: "date4",
		Reference:   "text_ref",
	}
}

func defaultTechColumns() ColumnMap {
	return ColumnMap{
		Property:    "text_property",
		IssueType:   "text_issue",
		Urgency:     "dropdown_urgency",
		Status:      "status",
		SubmittedAt: "date4",
		Reference:   "text_ref",
	}
}

// loadColumns merges a JSON override from the given env var over the
// defaults. Unknown keys are ignored; a malformed override keeps the
// defaults.
func loadColumns(envKey string, defaults ColumnMap) ColumnMap {
	raw := os.Getenv(envKey)
	if raw == "" {
		return defaults
	}
	cols := defaults
	if err := json.Unmarshal([]byte(raw), &cols); err != nil {
		return defaults
	}
	return cols
}

// NewDeclarationBoard builds the tenant-declaration board config.
func NewDeclarationBoard(boardID string) Board {
	return Board{ID: boardID, Columns: loadColumns("MONDAY_COLUMN_MAP", defaultDeclarationColumns())}
}

// NewTechBoard builds the technician-report board config.
func NewTechBoard(boardID string) Board {
	return Board{ID: boardID, Columns: loadColumns("MONDAY_TECH_COLUMN_MAP", defaultTechColumns())}
}
