package search

import (
	"strings"

	"realestate-marketplace/internal/models"
)

// keyword maps the phrases a user may type, in English or Arabic, onto the
// canonical catalog value.
type keyword struct {
	value   string
	phrases []string
}

// Earlier entries win when a query names more than one location or type.
var (
	locationKeywords = []keyword{
		{value: "New Cairo", phrases: []string{"new cairo", "التجمع"}},
		{value: "Maadi", phrases: []string{"maadi", "المعادي"}},
		{value: "Sheikh Zayed", phrases: []string{"sheikh zayed", "zayed", "زايد"}},
	}

	propertyTypeKeywords = []keyword{
		{value: "Apartment", phrases: []string{"apartment", "شقة"}},
		{value: "Villa", phrases: []string{"villa", "فيلا"}},
		{value: "Townhouse", phrases: []string{"townhouse", "تاون هاوس"}},
	}

	featureKeywords = []keyword{
		{value: "garden", phrases: []string{"garden", "حديقة"}},
		{value: "pool", phrases: []string{"pool", "مسبح"}},
		{value: "furnished", phrases: []string{"furnished", "مفروشة"}},
	}
)

const defaultLanguage = "en"

// Parse extracts location, property type and features from a free-text
// query. Whatever is left after removing the recognised phrases becomes Text.
func Parse(query, language string) models.ProcessedQuery {
	if language == "" {
		language = defaultLanguage
	}
	rest := strings.ToLower(query)

	out := models.ProcessedQuery{Language: language, Features: []string{}}
	out.Location, rest = matchFirst(locationKeywords, rest)
	out.PropertyType, rest = matchFirst(propertyTypeKeywords, rest)
	for _, kw := range featureKeywords {
		var matched bool
		if matched, rest = strip(kw, rest); matched {
			out.Features = append(out.Features, kw.value)
		}
	}
	out.Text = strings.Join(strings.Fields(rest), " ")
	return out
}

func matchFirst(table []keyword, text string) (string, string) {
	for _, kw := range table {
		if matched, rest := strip(kw, text); matched {
			return kw.value, rest
		}
	}
	return "", text
}

// strip removes every phrase of kw from text and reports whether any matched.
func strip(kw keyword, text string) (bool, string) {
	matched := false
	for _, phrase := range kw.phrases {
		if strings.Contains(text, phrase) {
			matched = true
			text = strings.ReplaceAll(text, phrase, " ")
		}
	}
	return matched, text
}
