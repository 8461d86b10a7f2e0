package dictionary

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

type status int

const (
	NotFound status = iota
	SyntacticallyIncorrect
	SemanticallyIncorrect
	ValidLookup
	InternalError
	ServiceUnavailable
	Unauthorized
	UpstreamError
)

type ExtractErrorKind int

const (
	MissingField ExtractErrorKind = iota
	TypeMismatch
	EmptyHits
	EmptyRoms
	InvalidJSON
)

var (
	ErrMissingField = &ExtractError{Kind: MissingField}
	ErrTypeMismatch = &ExtractError{Kind: TypeMismatch}
	ErrEmptyHits    = &ExtractError{Kind: EmptyHits}
	ErrEmptyRoms    = &ExtractError{Kind: EmptyRoms}
	ErrInvalidJSON  = &ExtractError{Kind: InvalidJSON}
)

// ExtractError reports a response body that does not have the documented
// dictionary shape.
type ExtractError struct {
	Kind     ExtractErrorKind
	Path     string
	Expected string
	Term     string
}

func (e *ExtractError) Error() string {
	var msg string
	switch e.Kind {
	case MissingField:
		msg = fmt.Sprintf("missing field %s", e.Path)
	case TypeMismatch:
		msg = fmt.Sprintf("field %s is not %s", e.Path, e.Expected)
	case EmptyHits:
		msg = fmt.Sprintf("no hits at %s", e.Path)
	case EmptyRoms:
		msg = fmt.Sprintf("no entries at %s", e.Path)
	case InvalidJSON:
		msg = "response is not valid JSON"
	default:
		msg = "unexpected response shape"
	}
	if e.Term == "" {
		return "invalid dictionary response: " + msg
	}
	return fmt.Sprintf("invalid dictionary response for %q: %s", e.Term, msg)
}

// Is matches any ExtractError of the same kind, so the Err* values work as
// sentinels with errors.Is.
func (e *ExtractError) Is(target error) bool {
	var t *ExtractError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func (e *ExtractError) status() status {
	if e.Kind == InvalidJSON {
		return SyntacticallyIncorrect
	}
	return SemanticallyIncorrect
}

// ParseResponse parses a raw response body and extracts its meanings.
func ParseResponse(body []byte, term string) (GroupedMeanings, error) {
	if !gjson.ValidBytes(body) {
		return GroupedMeanings{}, &ExtractError{Kind: InvalidJSON, Term: term}
	}
	return ExtractMeanings(gjson.ParseBytes(body), term)
}

// ExtractMeanings walks root[0].hits[0].roms[0].arabs and groups every
// translation under its header. Hits and roms past the first are ignored.
func ExtractMeanings(root gjson.Result, term string) (GroupedMeanings, error) {
	x := extractor{term: term}

	first, err := x.index(root, "", 0)
	if err != nil {
		return GroupedMeanings{}, err
	}
	hits, err := x.array(first, "[0]", "hits")
	if err != nil {
		return GroupedMeanings{}, err
	}
	if len(hits.Array()) == 0 {
		return GroupedMeanings{}, x.fail(EmptyHits, "[0].hits", "")
	}
	hit, err := x.index(hits, "[0].hits", 0)
	if err != nil {
		return GroupedMeanings{}, err
	}
	roms, err := x.array(hit, "[0].hits[0]", "roms")
	if err != nil {
		return GroupedMeanings{}, err
	}
	if len(roms.Array()) == 0 {
		return GroupedMeanings{}, x.fail(EmptyRoms, "[0].hits[0].roms", "")
	}
	rom, err := x.index(roms, "[0].hits[0].roms", 0)
	if err != nil {
		return GroupedMeanings{}, err
	}
	arabs, err := x.array(rom, "[0].hits[0].roms[0]", "arabs")
	if err != nil {
		return GroupedMeanings{}, err
	}

	meanings := NewGroupedMeanings()
	for i, arab := range arabs.Array() {
		path := "[0].hits[0].roms[0].arabs" + indexPath(i)
		header, err := x.str(arab, path, "header")
		if err != nil {
			return GroupedMeanings{}, err
		}
		translations, err := x.array(arab, path, "translations")
		if err != nil {
			return GroupedMeanings{}, err
		}
		pairs := make([]TranslationPair, 0, len(translations.Array()))
		for j, translation := range translations.Array() {
			tPath := path + ".translations" + indexPath(j)
			source, err := x.str(translation, tPath, "source")
			if err != nil {
				return GroupedMeanings{}, err
			}
			target, err := x.str(translation, tPath, "target")
			if err != nil {
				return GroupedMeanings{}, err
			}
			pairs = append(pairs, TranslationPair{Source: source, Target: target})
		}
		meanings.Put(header, pairs)
	}
	return meanings, nil
}

type extractor struct {
	term string
}

func (x extractor) fail(kind ExtractErrorKind, path, expected string) error {
	return &ExtractError{Kind: kind, Path: path, Expected: expected, Term: x.term}
}

func (x extractor) field(obj gjson.Result, path, name string) (gjson.Result, error) {
	if !obj.IsObject() {
		return gjson.Result{}, x.fail(TypeMismatch, displayPath(path), "an object")
	}
	value := obj.Get(name)
	if !value.Exists() {
		return gjson.Result{}, x.fail(MissingField, path+"."+name, "")
	}
	return value, nil
}

func (x extractor) array(obj gjson.Result, path, name string) (gjson.Result, error) {
	value, err := x.field(obj, path, name)
	if err != nil {
		return gjson.Result{}, err
	}
	if !value.IsArray() {
		return gjson.Result{}, x.fail(TypeMismatch, path+"."+name, "an array")
	}
	return value, nil
}

func (x extractor) str(obj gjson.Result, path, name string) (string, error) {
	value, err := x.field(obj, path, name)
	if err != nil {
		return "", err
	}
	if value.Type != gjson.String {
		return "", x.fail(TypeMismatch, path+"."+name, "a string")
	}
	return value.Str, nil
}

func (x extractor) index(arr gjson.Result, path string, i int) (gjson.Result, error) {
	if !arr.IsArray() {
		return gjson.Result{}, x.fail(TypeMismatch, displayPath(path), "an array")
	}
	elements := arr.Array()
	if i >= len(elements) {
		return gjson.Result{}, x.fail(MissingField, path+indexPath(i), "")
	}
	return elements[i], nil
}

func indexPath(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
