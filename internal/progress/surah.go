package progress

// TotalSurahs is the number of chapters in the mushaf.
const TotalSurahs = 114

// surahNames lists every surah in mushaf order; index+1 is its rank.
// Memorization conventionally starts from An-Nas and works backwards, so a
// higher rank means a student is further along the usual path.
var surahNames = [TotalSurahs]string{
	"Al-Fatihah", "Al-Baqarah", "Ali Imran", "An-Nisa", "Al-Maidah",
	"Al-An'am", "Al-A'raf", "Al-Anfal", "At-Taubah", "Yunus",
	"Hud", "Yusuf", "Ar-Ra'd", "Ibrahim", "Al-Hijr",
	"An-Nahl", "Al-Isra", "Al-Kahf", "Maryam", "Taha",
	"Al-Anbiya", "Al-Hajj", "Al-Mu'minun", "An-Nur", "Al-Furqan",
	"Asy-Syu'ara", "An-Naml", "Al-Qasas", "Al-Ankabut", "Ar-Rum",
	"Luqman", "As-Sajdah", "Al-Ahzab", "Saba", "Fatir",
	"Yasin", "As-Saffat", "Sad", "Az-Zumar", "Ghafir",
	"Fussilat", "Asy-Syura", "Az-Zukhruf", "Ad-Dukhan", "Al-Jasiyah",
	"Al-Ahqaf", "Muhammad", "Al-Fath", "Al-Hujurat", "Qaf",
	"Adz-Dzariyat", "At-Tur", "An-Najm", "Al-Qamar", "Ar-Rahman",
	"Al-Waqi'ah", "Al-Hadid", "Al-Mujadilah", "Al-Hasyr", "Al-Mumtahanah",
	"As-Saff", "Al-Jumu'ah", "Al-Munafiqun", "At-Tagabun", "At-Talaq",
	"At-Tahrim", "Al-Mulk", "Al-Qalam", "Al-Haqqah", "Al-Ma'arij",
	"Nuh", "Al-Jinn", "Al-Muzzammil", "Al-Muddassir", "Al-Qiyamah",
	"Al-Insan", "Al-Mursalat", "An-Naba", "An-Nazi'at", "Abasa",
	"At-Takwir", "Al-Infitar", "Al-Mutaffifin", "Al-Insyiqaq", "Al-Buruj",
	"At-Tariq", "Al-A'la", "Al-Ghasyiyah", "Al-Fajr", "Al-Balad",
	"Asy-Syams", "Al-Lail", "Ad-Duha", "Asy-Syarh", "At-Tin",
	"Al-Alaq", "Al-Qadr", "Al-Bayyinah", "Az-Zalzalah", "Al-Adiyat",
	"Al-Qari'ah", "At-Takasur", "Al-Asr", "Al-Humazah", "Al-Fil",
	"Quraisy", "Al-Ma'un", "Al-Kausar", "Al-Kafirun", "An-Nasr",
	"Al-Masad", "Al-Ikhlas", "Al-Falaq", "An-Nas",
}

var surahRanks = func() map[string]int {
	ranks := make(map[string]int, TotalSurahs)
	for i, name := range surahNames {
		ranks[name] = i + 1
	}
	return ranks
}()

// RankOf returns the canonical rank (1-114) of a surah name, or 0 when the
// name is unknown. Matching is exact and case-sensitive.
func RankOf(name string) int {
	return surahRanks[name]
}

// IsKnownSurah reports whether name is in the rank table.
func IsKnownSurah(name string) bool {
	return RankOf(name) > 0
}

// Surah is one row of the catalogue.
type Surah struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
}

// Catalogue returns all surahs in rank order.
func Catalogue() []Surah {
	out := make([]Surah, TotalSurahs)
	for i, name := range surahNames {
		out[i] = Surah{Rank: i + 1, Name: name}
	}
	return out
}
