package models

import "time"

// Student is a learner enrolled in a hafalan/tilawah class.
type Student struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Photo     string    `db:"photo" json:"photo"`
	GroupName string    `db:"group_name" json:"group_name"`
	Grade     *string   `db:"grade" json:"grade,omitempty"`
	Teacher   string    `db:"teacher" json:"teacher"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilterState is the transient filter selection of a browsing session.
// SelectedGrades holds class labels matched against Student.Group and
// SelectedGroups holds teacher labels matched against Student.Teacher.
type StudentFilterState struct {
	SearchTerm     string   `json:"search_term"`
	SelectedGrades []string `json:"selected_grades"`
	SelectedGroups []string `json:"selected_groups"`
	ShowFilters    bool     `json:"show_filters"`
}

// ToggleGrade adds grade to the selection or removes it when already present.
func (s StudentFilterState) ToggleGrade(grade string) StudentFilterState {
	s.SelectedGrades = toggle(s.SelectedGrades, grade)
	return s
}

// ToggleGroup adds a teacher label to the selection or removes it when already present.
func (s StudentFilterState) ToggleGroup(group string) StudentFilterState {
	s.SelectedGroups = toggle(s.SelectedGroups, group)
	return s
}

// Reset clears search and selections. Panel visibility is preserved.
func (s StudentFilterState) Reset() StudentFilterState {
	return StudentFilterState{ShowFilters: s.ShowFilters}
}

func toggle(values []string, value string) []string {
	out := make([]string, 0, len(values)+1)
	found := false
	for _, v := range values {
		if v == value {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, value)
	}
	return out
}

// StudentFacets lists the distinct filter values present in a roster.
type StudentFacets struct {
	Grades []string `json:"grades"`
	Groups []string `json:"groups"`
}
