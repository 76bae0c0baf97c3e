package models

import "time"

// ProgressType distinguishes the two tracked tracks.
type ProgressType string

const (
	ProgressTypeHafalan ProgressType = "hafalan"
	ProgressTypeTilawah ProgressType = "tilawah"
)

// Valid reports whether t is a known progress type.
func (t ProgressType) Valid() bool {
	return t == ProgressTypeHafalan || t == ProgressTypeTilawah
}

// HafalanProgress is the memorization summary row of a student.
type HafalanProgress struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	TotalSurah int       `db:"total_surah" json:"total_surah"`
	LastSurah  *string   `db:"last_surah" json:"last_surah"`
	Percentage int       `db:"percentage" json:"percentage"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// TilawahProgress is the recitation summary row of a student.
type TilawahProgress struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	Jilid      *string   `db:"jilid" json:"jilid"`
	Page       *int      `db:"page" json:"page"`
	Percentage int       `db:"percentage" json:"percentage"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ProgressEntry is one logged session. The meaning of SurahOrJilid and
// AyatOrPage depends on Type.
type ProgressEntry struct {
	ID           string       `db:"id" json:"id"`
	StudentID    string       `db:"student_id" json:"student_id"`
	Date         time.Time    `db:"date" json:"date"`
	Type         ProgressType `db:"type" json:"type"`
	SurahOrJilid *string      `db:"surah_or_jilid" json:"surah_or_jilid"`
	AyatOrPage   *string      `db:"ayat_or_page" json:"ayat_or_page"`
	Notes        *string      `db:"notes" json:"notes"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// HafalanSummary is the hafalan view attached to a roster entry.
type HafalanSummary struct {
	Total      int    `json:"total"`
	LastSurah  string `json:"lastSurah"`
	Percentage int    `json:"percentage"`
}

// TilawahSummary is the tilawah view attached to a roster entry.
type TilawahSummary struct {
	Jilid      string `json:"jilid"`
	Page       int    `json:"page"`
	Percentage int    `json:"percentage"`
}

// StudentWithProgress joins a student with both progress summaries.
type StudentWithProgress struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Photo           string         `json:"photo"`
	Group           string         `json:"group"`
	Grade           string         `json:"grade,omitempty"`
	Teacher         string         `json:"teacher"`
	HafalanProgress HafalanSummary `json:"hafalanProgress"`
	TilawahProgress TilawahSummary `json:"tilawahProgress"`
}

// NewStudentWithProgress joins the rows, substituting zero values for absent summaries.
func NewStudentWithProgress(student Student, hafalan *HafalanProgress, tilawah *TilawahProgress) StudentWithProgress {
	view := StudentWithProgress{
		ID:      student.ID,
		Name:    student.Name,
		Photo:   student.Photo,
		Group:   student.GroupName,
		Teacher: student.Teacher,
	}
	if student.Grade != nil {
		view.Grade = *student.Grade
	}
	if hafalan != nil {
		view.HafalanProgress = HafalanSummary{
			Total:      hafalan.TotalSurah,
			LastSurah:  deref(hafalan.LastSurah),
			Percentage: hafalan.Percentage,
		}
	}
	if tilawah != nil {
		view.TilawahProgress = TilawahSummary{
			Jilid:      deref(tilawah.Jilid),
			Percentage: tilawah.Percentage,
		}
		if tilawah.Page != nil {
			view.TilawahProgress.Page = *tilawah.Page
		}
	}
	return view
}

// SubmitOutcome reports both phases of recording a progress entry: the
// append of the entry itself and the recompute of the matching summary.
type SubmitOutcome struct {
	Entry          ProgressEntry    `json:"entry"`
	EntrySaved     bool             `json:"entry_saved"`
	SummaryUpdated bool             `json:"summary_updated"`
	SummaryError   string           `json:"summary_error,omitempty"`
	Hafalan        *HafalanProgress `json:"hafalan,omitempty"`
	Tilawah        *TilawahProgress `json:"tilawah,omitempty"`
}

// Saved reports whether the entry was persisted, regardless of the summary.
func (o *SubmitOutcome) Saved() bool {
	return o != nil && o.EntrySaved
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
