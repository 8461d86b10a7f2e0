package dictionary

import "fmt"

// BuildLines renders the meanings as display lines, markup removed. An empty
// set of meanings still produces the introduction line.
func BuildLines(term string, meanings GroupedMeanings) []string {
	lines := []string{
		fmt.Sprintf("The word \"%s\" has the following meanings:", StripTags(term)),
		"",
	}
	for _, group := range meanings.groups {
		lines = append(lines, StripTags(group.Header))
		for _, pair := range group.Translations {
			lines = append(lines,
				"    -> Original: "+StripTags(pair.Source),
				"    Translation: "+StripTags(pair.Target),
				"",
			)
		}
	}
	return lines
}

// stripGroups returns the groups with markup removed from every string.
func stripGroups(meanings GroupedMeanings) []MeaningGroup {
	groups := make([]MeaningGroup, 0, meanings.Len())
	for _, group := range meanings.groups {
		pairs := make([]TranslationPair, 0, len(group.Translations))
		for _, pair := range group.Translations {
			pairs = append(pairs, TranslationPair{Source: StripTags(pair.Source), Target: StripTags(pair.Target)})
		}
		groups = append(groups, MeaningGroup{Header: StripTags(group.Header), Translations: pairs})
	}
	return groups
}
