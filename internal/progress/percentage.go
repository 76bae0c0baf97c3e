package progress

import (
	"math"
	"strconv"
	"strings"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
)

// PagesPerJilid is the page count assumed for every tilawah volume.
// Real volumes differ in length, so tilawah percentages are approximate.
const PagesPerJilid = 100

const maxPercentage = 100

// HafalanPercentage converts a memorized surah count to a 0-100 percentage.
// Negative counts are not rejected.
func HafalanPercentage(totalSurah int) int {
	return boundedPercentage(totalSurah, TotalSurahs)
}

// TilawahPercentage converts the current page of a jilid to a 0-100
// percentage. The jilid itself does not influence the result.
func TilawahPercentage(page int) int {
	return boundedPercentage(page, PagesPerJilid)
}

func boundedPercentage(value, total int) int {
	pct := int(math.Round(float64(value) / float64(total) * 100))
	if pct > maxPercentage {
		return maxPercentage
	}
	return pct
}

// RecordHafalanEntry applies a newly logged surah to the previous summary.
// The count only grows when surah differs from the last recorded one, so
// repeated sessions on the same surah do not inflate it.
func RecordHafalanEntry(previous *models.HafalanProgress, studentID, surah string) models.HafalanProgress {
	next := models.HafalanProgress{StudentID: studentID}
	lastSurah := ""
	hasLast := false
	if previous != nil {
		next = *previous
		if next.StudentID == "" {
			next.StudentID = studentID
		}
		if previous.LastSurah != nil {
			lastSurah = *previous.LastSurah
			hasLast = true
		}
	}

	if !hasLast || lastSurah != surah {
		next.TotalSurah++
	}
	name := surah
	next.LastSurah = &name
	next.Percentage = HafalanPercentage(next.TotalSurah)
	return next
}

// RecordTilawahEntry overwrites the jilid and page of the previous summary.
// Pages may move backwards; the summary mirrors whatever was logged last.
func RecordTilawahEntry(previous *models.TilawahProgress, studentID, jilid string, page int) models.TilawahProgress {
	next := models.TilawahProgress{StudentID: studentID}
	if previous != nil {
		next = *previous
		if next.StudentID == "" {
			next.StudentID = studentID
		}
	}

	volume := jilid
	current := page
	next.Jilid = &volume
	next.Page = &current
	next.Percentage = TilawahPercentage(page)
	return next
}

// ParsePage reads the leading integer of a free-form page field such as
// "12" or "12-15". Anything without leading digits yields 0.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	page, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	return page
}
