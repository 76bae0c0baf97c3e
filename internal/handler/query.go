package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
)

// filterStateFromQuery reads search, grade and teacher selections. grade and
// teacher are repeated parameters (?teacher=a&teacher=b); values are taken
// whole because labels such as "Hasan, S.Pd" contain commas.
func filterStateFromQuery(c *gin.Context) models.StudentFilterState {
	return models.StudentFilterState{
		SearchTerm:     strings.TrimSpace(c.Query("search")),
		SelectedGrades: queryList(c, "grade"),
		SelectedGroups: queryList(c, "teacher"),
	}
}

func queryList(c *gin.Context, key string) []string {
	var values []string
	seen := make(map[string]struct{})
	for _, raw := range c.QueryArray(key) {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}
