package progress

import (
	"sort"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
)

// RankByProgress returns a copy of students ordered for the leaderboard:
// hafalan percentage descending, then rank of the last memorized surah
// descending. Students tied on both keys keep their relative order.
func RankByProgress(students []models.StudentWithProgress) []models.StudentWithProgress {
	ranked := make([]models.StudentWithProgress, len(students))
	copy(ranked, students)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].HafalanProgress, ranked[j].HafalanProgress
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		return RankOf(a.LastSurah) > RankOf(b.LastSurah)
	})
	return ranked
}
