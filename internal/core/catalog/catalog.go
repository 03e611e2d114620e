// Package catalog holds the immutable NCTB curriculum chapter table. It is
// reference data loaded at startup; chapters are never created or destroyed
// at runtime.
package catalog

import (
	"sort"
	"strings"
)

// Chapter is one fixed curriculum entry.
type Chapter struct {
	ID            string `json:"id"`
	Name          string `json:"name"`         // Bengali display name
	EnglishName   string `json:"english_name"`
	OrdinalLabel  string `json:"chapter_ordinal"` // Bengali ordinal, e.g. "১ম অধ্যায়"
	ChapterNumber int    `json:"chapter_number"`
}

// chapters mirrors the NCTB Class 9-10 mathematics curriculum. Entries with
// the "_advanced" suffix are the Class 10 extensions of their base chapter.
var chapters = map[string]Chapter{
	"real_numbers":             {ID: "real_numbers", Name: "বাস্তব সংখ্যা", EnglishName: "Real Numbers", OrdinalLabel: "১ম অধ্যায়", ChapterNumber: 1},
	"sets_functions":           {ID: "sets_functions", Name: "সেট ও ফাংশন", EnglishName: "Sets and Functions", OrdinalLabel: "২য় অধ্যায়", ChapterNumber: 2},
	"algebraic_expressions":    {ID: "algebraic_expressions", Name: "বীজগাণিতিক রাশি", EnglishName: "Algebraic Expressions", OrdinalLabel: "৩য় অধ্যায়", ChapterNumber: 3},
	"indices_logarithms":       {ID: "indices_logarithms", Name: "সূচক ও লগারিদম", EnglishName: "Indices and Logarithms", OrdinalLabel: "৪র্থ অধ্যায়", ChapterNumber: 4},
	"linear_equations":         {ID: "linear_equations", Name: "এক চলকবিশিষ্ট সমীকরণ", EnglishName: "Linear Equations in One Variable", OrdinalLabel: "৫ম অধ্যায়", ChapterNumber: 5},
	"lines_angles_triangles":   {ID: "lines_angles_triangles", Name: "রেখা, কোণ ও ত্রিভুজ", EnglishName: "Lines, Angles and Triangles", OrdinalLabel: "৬ষ্ঠ অধ্যায়", ChapterNumber: 6},
	"practical_geometry":       {ID: "practical_geometry", Name: "ব্যবহারিক জ্যামিতি", EnglishName: "Practical Geometry", OrdinalLabel: "৭ম অধ্যায়", ChapterNumber: 7},
	"circles":                  {ID: "circles", Name: "বৃত্ত", EnglishName: "Circles", OrdinalLabel: "৮ম অধ্যায়", ChapterNumber: 8},
	"trigonometric_ratios":     {ID: "trigonometric_ratios", Name: "ত্রিকোণমিতিক অনুপাত", EnglishName: "Trigonometric Ratios", OrdinalLabel: "৯ম অধ্যায়", ChapterNumber: 9},
	"distance_height":          {ID: "distance_height", Name: "দূরত্ব ও উচ্চতা", EnglishName: "Distance and Height", OrdinalLabel: "১০ম অধ্যায়", ChapterNumber: 10},
	"algebraic_ratios":         {ID: "algebraic_ratios", Name: "বীজগাণিতিক অনুপাত ও সমানুপাত", EnglishName: "Algebraic Ratios and Proportions", OrdinalLabel: "১১শ অধ্যায়", ChapterNumber: 11},
	"simultaneous_equations":   {ID: "simultaneous_equations", Name: "দুই চলকবিশিষ্ট সরল সহসমীকরণ", EnglishName: "Simultaneous Linear Equations in Two Variables", OrdinalLabel: "১২শ অধ্যায়", ChapterNumber: 12},
	"finite_series":            {ID: "finite_series", Name: "সসীম ধারা", EnglishName: "Finite Series", OrdinalLabel: "১৩শ অধ্যায়", ChapterNumber: 13},
	"ratio_similarity_symmetry": {ID: "ratio_similarity_symmetry", Name: "অনুপাত, সদৃশতা ও প্রতিসমতা", EnglishName: "Ratio, Similarity and Symmetry", OrdinalLabel: "১৪শ অধ্যায়", ChapterNumber: 14},
	"area_theorems":            {ID: "area_theorems", Name: "ক্ষেত্রফল সম্পর্কিত উপপাদ্য ও সম্পাদ্য", EnglishName: "Area Related Theorems and Constructions", OrdinalLabel: "১৫শ অধ্যায়", ChapterNumber: 15},
	"mensuration":              {ID: "mensuration", Name: "পরিমিতি", EnglishName: "Mensuration", OrdinalLabel: "১৬শ অধ্যায়", ChapterNumber: 16},
	"statistics":               {ID: "statistics", Name: "পরিসংখ্যান", EnglishName: "Statistics", OrdinalLabel: "১৭শ অধ্যায়", ChapterNumber: 17},
	"real_numbers_advanced":    {ID: "real_numbers_advanced", Name: "বাস্তব সংখ্যা (উন্নত)", EnglishName: "Real Numbers (Advanced)", OrdinalLabel: "১ম অধ্যায়", ChapterNumber: 1},
	"sets_functions_advanced":  {ID: "sets_functions_advanced", Name: "সেট ও ফাংশন (উন্নত)", EnglishName: "Sets and Functions (Advanced)", OrdinalLabel: "২য় অধ্যায়", ChapterNumber: 2},
	"trigonometry_advanced":    {ID: "trigonometry_advanced", Name: "ত্রিকোণমিতি (উন্নত)", EnglishName: "Trigonometry (Advanced)", OrdinalLabel: "৯ম অধ্যায়", ChapterNumber: 9},
}

// SupportedClassLevels lists the class levels this service serves.
var SupportedClassLevels = []int{9, 10}

// DefaultSubject is the subject of the bundled curriculum.
const DefaultSubject = "Mathematics"

// IsSupportedClass reports whether uploads for this class level are accepted.
func IsSupportedClass(classLevel int) bool {
	for _, c := range SupportedClassLevels {
		if c == classLevel {
			return true
		}
	}
	return false
}

// Get returns the catalog entry for a chapter id.
func Get(chapterID string) (Chapter, bool) {
	ch, ok := chapters[chapterID]
	return ch, ok
}

// ForClass returns the chapters a class level may access, sorted by chapter
// number. Class 9 excludes the advanced variants; Class 10 sees everything.
func ForClass(classLevel int) []Chapter {
	if !IsSupportedClass(classLevel) {
		return nil
	}
	out := make([]Chapter, 0, len(chapters))
	for id, ch := range chapters {
		if classLevel == 9 && strings.Contains(id, "advanced") {
			continue
		}
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChapterNumber != out[j].ChapterNumber {
			return out[i].ChapterNumber < out[j].ChapterNumber
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// IsValidForClass reports whether (chapterID, classLevel) is a legal
// combination. Invalid combinations fail ingestion before any file I/O
// completes.
func IsValidForClass(chapterID string, classLevel int) bool {
	if _, ok := chapters[chapterID]; !ok {
		return false
	}
	if classLevel == 9 && strings.Contains(chapterID, "advanced") {
		return false
	}
	return IsSupportedClass(classLevel)
}
