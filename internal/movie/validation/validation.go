// Package validation turns raw movie input into normalized fields.
//
// Two entry points share one set of normalization rules:
//
//   - Validate runs the form rules (per-field messages, 4-digit year) used by
//     interactive clients before they call the API.
//   - CheckPresence + Normalize implement the API's presence-only contract;
//     Strict lets the API opt into the form rules instead.
//
// Everything here is pure and safe to call repeatedly.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/samber/lo"

	"cinedex/internal/movie/models"
)

// Field names match the JSON keys of the movie payload.
const (
	FieldTitle       = "title"
	FieldReleaseYear = "releaseYear"
	FieldActors      = "actors"
)

// Form messages shown next to the offending input.
const (
	MsgTitleRequired       = "Title is required"
	MsgReleaseYearRequired = "Release year is required"
	MsgReleaseYearFormat   = "Release year must be a 4-digit number"
	MsgActorsRequired      = "Actors are required"
)

// Input is the raw form: every field is whatever the user typed.
type Input struct {
	Title       string `json:"title"`
	ReleaseYear string `json:"releaseYear"`
	Actors      string `json:"actors"`
}

// FieldErrors maps a field name to its message. A nil or empty map means the
// input was valid.
type FieldErrors map[string]string

var yearPattern = regexp.MustCompile(`^\d{4}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("year4", func(fl validator.FieldLevel) bool {
			return yearPattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

type rule struct {
	field   string
	tag     string
	message string
	value   func(Input) string
}

// formRules run in order and every rule is evaluated. A later rule on the same
// field overwrites an earlier message, so a blank year reports the format
// message rather than the required one.
var formRules = []rule{
	{FieldTitle, "notblank", MsgTitleRequired, func(in Input) string { return in.Title }},
	{FieldReleaseYear, "notblank", MsgReleaseYearRequired, func(in Input) string { return in.ReleaseYear }},
	{FieldReleaseYear, "year4", MsgReleaseYearFormat, func(in Input) string { return in.ReleaseYear }},
	{FieldActors, "notblank", MsgActorsRequired, func(in Input) string { return in.Actors }},
}

// Validate applies the form rules to in. On success it returns the normalized
// fields and a nil FieldErrors; otherwise the zero Fields and every failing
// field's message. Nothing is normalized unless all rules pass.
func Validate(in Input) (models.Fields, FieldErrors) {
	v := instance()
	errs := FieldErrors{}
	for _, r := range formRules {
		if err := v.Var(r.value(in), r.tag); err != nil {
			errs[r.field] = r.message
		}
	}
	if len(errs) > 0 {
		return models.Fields{}, errs
	}

	year, err := strconv.Atoi(in.ReleaseYear)
	if err != nil {
		// unreachable: year4 guarantees four ASCII digits
		return models.Fields{}, FieldErrors{FieldReleaseYear: MsgReleaseYearFormat}
	}
	return models.Fields{
		Title:       in.Title,
		ReleaseYear: year,
		Actors:      SplitActors(in.Actors),
	}, nil
}

// SplitActors splits a comma-separated list and trims each name. Empty
// segments are kept: "A,,B" yields ["A", "", "B"].
func SplitActors(s string) []string {
	return lo.Map(strings.Split(s, ","), func(name string, _ int) string {
		return strings.TrimSpace(name)
	})
}

// JoinActors renders actors the way an edit form pre-fills them.
func JoinActors(actors []string) string {
	return strings.Join(actors, ", ")
}
