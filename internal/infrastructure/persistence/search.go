package persistence

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// foldSearch reduces text to the form stored in search_key: accents stripped,
// case folded and whitespace collapsed, so "Peña" matches "pena".
func foldSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(folded), " ")
}

// orderSearchKey indexes the customer name together with the SKUs and item names
func orderSearchKey(customer string, terms ...string) string {
	parts := make([]string, 0, len(terms)+1)
	parts = append(parts, customer)
	parts = append(parts, terms...)
	return foldSearch(strings.Join(parts, " "))
}

// applySearch narrows a query to rows whose search_key contains every word of term
func applySearch(query *gorm.DB, term string) *gorm.DB {
	for _, word := range strings.Fields(foldSearch(term)) {
		query = query.Where(`search_key LIKE ? ESCAPE '\'`, "%"+escapeLike(word)+"%")
	}
	return query
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
