package progress

import (
	"strings"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
)

// ApplyFilters keeps the students matching every active predicate of state:
// name search, grade (class) selection and teacher selection. Empty
// predicates match everything. Input order is preserved and the input slice
// is not modified.
func ApplyFilters(students []models.StudentWithProgress, state models.StudentFilterState) []models.StudentWithProgress {
	search := strings.ToLower(state.SearchTerm)
	grades := toSet(state.SelectedGrades)
	teachers := toSet(state.SelectedGroups)

	result := make([]models.StudentWithProgress, 0, len(students))
	for _, student := range students {
		if search != "" && !strings.Contains(strings.ToLower(student.Name), search) {
			continue
		}
		if len(grades) > 0 {
			if _, ok := grades[student.Group]; !ok {
				continue
			}
		}
		if len(teachers) > 0 {
			if _, ok := teachers[student.Teacher]; !ok {
				continue
			}
		}
		result = append(result, student)
	}
	return result
}

// Facets collects the distinct class and teacher labels of a roster in order
// of first appearance.
func Facets(students []models.StudentWithProgress) models.StudentFacets {
	facets := models.StudentFacets{Grades: []string{}, Groups: []string{}}
	seenGrades := map[string]struct{}{}
	seenTeachers := map[string]struct{}{}
	for _, student := range students {
		if _, ok := seenGrades[student.Group]; !ok {
			seenGrades[student.Group] = struct{}{}
			facets.Grades = append(facets.Grades, student.Group)
		}
		if _, ok := seenTeachers[student.Teacher]; !ok {
			seenTeachers[student.Teacher] = struct{}{}
			facets.Groups = append(facets.Groups, student.Teacher)
		}
	}
	return facets
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
