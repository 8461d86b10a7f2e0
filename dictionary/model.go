package dictionary

import "time"

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type TranslationPair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type MeaningGroup struct {
	Header       string            `json:"header"`
	Translations []TranslationPair `json:"translations"`
}

// GroupedMeanings maps a meaning header to its translation pairs and
// iterates in first-seen header order.
type GroupedMeanings struct {
	index  map[string]int
	groups []MeaningGroup
}

func NewGroupedMeanings() GroupedMeanings {
	return GroupedMeanings{index: map[string]int{}}
}

// Put inserts the translations under header. A repeated header replaces the
// earlier list entirely and keeps its original position.
func (m *GroupedMeanings) Put(header string, translations []TranslationPair) {
	if m.index == nil {
		m.index = map[string]int{}
	}
	if i, ok := m.index[header]; ok {
		m.groups[i].Translations = translations
		return
	}
	m.index[header] = len(m.groups)
	m.groups = append(m.groups, MeaningGroup{Header: header, Translations: translations})
}

func (m GroupedMeanings) Get(header string) ([]TranslationPair, bool) {
	i, ok := m.index[header]
	if !ok {
		return nil, false
	}
	return m.groups[i].Translations, true
}

func (m GroupedMeanings) Len() int {
	return len(m.groups)
}

// Groups returns a copy of the groups in iteration order.
func (m GroupedMeanings) Groups() []MeaningGroup {
	groups := make([]MeaningGroup, len(m.groups))
	copy(groups, m.groups)
	return groups
}

type Lookup struct {
	ID       string         `json:"id"`
	Term     string         `json:"term"`
	From     string         `json:"from"`
	To       string         `json:"to"`
	Meanings []MeaningGroup `json:"meanings"`
	Lines    []string       `json:"lines"`
	grouped  GroupedMeanings
}

// Grouped returns the meanings as extracted, markup included.
func (l Lookup) Grouped() GroupedMeanings {
	return l.grouped
}
