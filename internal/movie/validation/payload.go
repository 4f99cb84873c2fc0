package validation

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-json"

	"cinedex/internal/movie/models"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidTitle  = errors.New("title must be a string")
	ErrInvalidYear   = errors.New("release year is not an integer")
	ErrInvalidActors = errors.New("actors must be a string or a list of strings")
)

// Value holds one JSON field exactly as the client sent it. The API accepts
// releaseYear as a string or a number and actors as a string or an array, so
// decoding is deferred until the field is inspected.
type Value struct {
	raw json.RawMessage
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.raw = nil
		return nil
	}
	v.raw = append(v.raw[:0], data...)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw == nil {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// StringValue, IntValue and StringsValue build payload values for clients.
func StringValue(s string) Value {
	data, _ := json.Marshal(s)
	return Value{raw: data}
}

func IntValue(n int) Value {
	return Value{raw: json.RawMessage(strconv.Itoa(n))}
}

func StringsValue(items []string) Value {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return Value{raw: data}
}

// Present reports whether the value counts as supplied: absent, null, "",
// 0 and false do not; anything else (including an empty array) does.
func (v Value) Present() bool {
	if v.raw == nil {
		return false
	}
	if s, ok := v.Text(); ok {
		return s != ""
	}
	if n, ok := v.Number(); ok {
		return n != 0 && !math.IsNaN(n)
	}
	var b bool
	if json.Unmarshal(v.raw, &b) == nil {
		return b
	}
	return true
}

// Text returns the value when it is a JSON string.
func (v Value) Text() (string, bool) {
	if len(v.raw) == 0 || v.raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Number returns the value when it is a JSON number.
func (v Value) Number() (float64, bool) {
	if len(v.raw) == 0 {
		return 0, false
	}
	c := v.raw[0]
	if c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(v.raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// Strings returns the value when it is a JSON array of strings.
func (v Value) Strings() ([]string, bool) {
	if len(v.raw) == 0 || v.raw[0] != '[' {
		return nil, false
	}
	var items []string
	if err := json.Unmarshal(v.raw, &items); err != nil {
		return nil, false
	}
	if items == nil {
		items = []string{}
	}
	return items, true
}

// Payload is the JSON body accepted by create and update.
type Payload struct {
	Title       Value `json:"title"`
	ReleaseYear Value `json:"releaseYear"`
	Actors      Value `json:"actors"`
}

// CheckPresence is the API's presence-only rule. It does not look at the
// year's format; that is the form's job (see Validate and Strict).
func CheckPresence(p Payload) error {
	if !p.Title.Present() || !p.Actors.Present() || !p.ReleaseYear.Present() {
		return ErrMissingFields
	}
	return nil
}

// Normalize converts a payload that passed CheckPresence into fields: string
// actors are split and trimmed like the form does, arrays pass through, and
// the year is read as a leading integer ("2024abc" is 2024).
func Normalize(p Payload) (models.Fields, error) {
	title, ok := p.Title.Text()
	if !ok {
		return models.Fields{}, ErrInvalidTitle
	}
	year, err := parseYear(p.ReleaseYear)
	if err != nil {
		return models.Fields{}, err
	}
	actors, err := normalizeActors(p.Actors)
	if err != nil {
		return models.Fields{}, err
	}
	return models.Fields{Title: title, ReleaseYear: year, Actors: actors}, nil
}

// Strict runs the form rules against a JSON payload. Numbers are rendered as
// decimal text and actor arrays are joined the way the edit form shows them.
func Strict(p Payload) (models.Fields, FieldErrors) {
	return Validate(ToInput(p))
}

// ToInput renders a payload as the raw strings a form would hold.
func ToInput(p Payload) Input {
	var in Input
	if s, ok := p.Title.Text(); ok {
		in.Title = s
	}
	if s, ok := p.ReleaseYear.Text(); ok {
		in.ReleaseYear = s
	} else if n, ok := p.ReleaseYear.Number(); ok {
		in.ReleaseYear = strconv.FormatFloat(n, 'f', -1, 64)
	}
	if s, ok := p.Actors.Text(); ok {
		in.Actors = s
	} else if items, ok := p.Actors.Strings(); ok {
		in.Actors = JoinActors(items)
	}
	return in
}

// FromInput builds the JSON payload a client sends for a validated form.
func FromInput(fields models.Fields) Payload {
	return Payload{
		Title:       StringValue(fields.Title),
		ReleaseYear: IntValue(fields.ReleaseYear),
		Actors:      StringsValue(fields.Actors),
	}
}

func normalizeActors(v Value) ([]string, error) {
	if s, ok := v.Text(); ok {
		return SplitActors(s), nil
	}
	if items, ok := v.Strings(); ok {
		return items, nil
	}
	return nil, ErrInvalidActors
}

func parseYear(v Value) (int, error) {
	if s, ok := v.Text(); ok {
		return parseLeadingInt(s)
	}
	if n, ok := v.Number(); ok {
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, ErrInvalidYear
		}
		return fitInt32(math.Trunc(n))
	}
	return 0, ErrInvalidYear
}

// parseLeadingInt reads an optionally signed run of digits after leading
// whitespace and ignores whatever follows.
func parseLeadingInt(s string) (int, error) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, ErrInvalidYear
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, ErrInvalidYear
	}
	return fitInt32(n)
}

// Years are stored in a 32-bit column.
func fitInt32(n float64) (int, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, ErrInvalidYear
	}
	return int(n), nil
}
