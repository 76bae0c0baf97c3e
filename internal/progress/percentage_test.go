package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestHafalanPercentage(t *testing.T) {
	assert.Equal(t, 0, HafalanPercentage(0))
	assert.Equal(t, 50, HafalanPercentage(57))
	assert.Equal(t, 1, HafalanPercentage(1))
	assert.Equal(t, 100, HafalanPercentage(114))
	assert.Equal(t, 100, HafalanPercentage(115))
	assert.Equal(t, 100, HafalanPercentage(1000))

	prev := HafalanPercentage(0)
	for x := 1; x <= 300; x++ {
		got := HafalanPercentage(x)
		assert.GreaterOrEqual(t, got, prev, "not monotonic at %d", x)
		if x >= TotalSurahs {
			assert.Equal(t, 100, got)
		}
		prev = got
	}
}

func TestTilawahPercentage(t *testing.T) {
	assert.Equal(t, 0, TilawahPercentage(0))
	assert.Equal(t, 50, TilawahPercentage(50))
	assert.Equal(t, 99, TilawahPercentage(99))
	for p := 100; p < 400; p += 7 {
		assert.Equal(t, 100, TilawahPercentage(p))
	}
}

func TestRecordHafalanEntrySameSurahDoesNotIncrement(t *testing.T) {
	prev := &models.HafalanProgress{ID: "h1", StudentID: "s1", TotalSurah: 3, LastSurah: strPtr("Al-Ikhlas")}

	same := RecordHafalanEntry(prev, "s1", "Al-Ikhlas")
	assert.Equal(t, 3, same.TotalSurah)
	require.NotNil(t, same.LastSurah)
	assert.Equal(t, "Al-Ikhlas", *same.LastSurah)
	assert.Equal(t, HafalanPercentage(3), same.Percentage)
	assert.Equal(t, "h1", same.ID)

	next := RecordHafalanEntry(prev, "s1", "Al-Falaq")
	assert.Equal(t, 4, next.TotalSurah)
	assert.Equal(t, "Al-Falaq", *next.LastSurah)
	assert.Equal(t, 4, HafalanPercentage(4))
	assert.Equal(t, HafalanPercentage(4), next.Percentage)

	assert.Equal(t, 3, prev.TotalSurah, "previous summary must not be mutated")
	assert.Equal(t, "Al-Ikhlas", *prev.LastSurah)
}

func TestRecordHafalanEntryIsCaseSensitive(t *testing.T) {
	prev := &models.HafalanProgress{StudentID: "s1", TotalSurah: 1, LastSurah: strPtr("An-Nas")}
	next := RecordHafalanEntry(prev, "s1", "an-nas")
	assert.Equal(t, 2, next.TotalSurah)
}

func TestRecordHafalanEntryWithoutPrevious(t *testing.T) {
	next := RecordHafalanEntry(nil, "s1", "An-Nas")
	assert.Equal(t, "s1", next.StudentID)
	assert.Equal(t, 1, next.TotalSurah)
	assert.Equal(t, "An-Nas", *next.LastSurah)
	assert.Equal(t, 1, next.Percentage)

	nullLast := RecordHafalanEntry(&models.HafalanProgress{StudentID: "s1"}, "s1", "")
	assert.Equal(t, 1, nullLast.TotalSurah)
}

func TestRecordTilawahEntryOverwritesWithoutMonotonicity(t *testing.T) {
	prev := &models.TilawahProgress{ID: "t1", StudentID: "s1", Jilid: strPtr("3"), Page: intPtr(80), Percentage: 80}

	next := RecordTilawahEntry(prev, "s1", "3", 20)
	assert.Equal(t, "t1", next.ID)
	assert.Equal(t, "3", *next.Jilid)
	assert.Equal(t, 20, *next.Page)
	assert.Equal(t, 20, next.Percentage)
	assert.Equal(t, 80, *prev.Page)

	fresh := RecordTilawahEntry(nil, "s2", "1", 150)
	assert.Equal(t, "s2", fresh.StudentID)
	assert.Equal(t, 100, fresh.Percentage)
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 12, ParsePage("12"))
	assert.Equal(t, 12, ParsePage(" 12-15 "))
	assert.Equal(t, 0, ParsePage("abc"))
	assert.Equal(t, 0, ParsePage(""))
}
