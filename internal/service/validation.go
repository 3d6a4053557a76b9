package service

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/atinyakov/LinkHub/internal/issue"
	"github.com/atinyakov/LinkHub/internal/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	hexColorPattern = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
	imageURLPattern = regexp.MustCompile(`^https?://i\.imgur\.com/[A-Za-z0-9]+\.(jpg|jpeg|png|gif|bmp)$`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

// passwordMaxLen is the bcrypt input limit.
const passwordMaxLen = 72

func validateRegister(req models.RegisterRequest) error {
	return asValidationIssue(validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.Password, validation.Required, validation.Length(8, passwordMaxLen)),
	))
}

// validateAccountUpdate checks only supplied fields; empty values mean
// "leave unchanged" and pass every rule.
func validateAccountUpdate(req models.AccountUpdateRequest) error {
	return asValidationIssue(validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Length(1, 100)),
		validation.Field(&req.Email, is.EmailFormat),
		validation.Field(&req.Password, validation.Length(8, passwordMaxLen)),
	))
}

func validatePageCreate(req models.PageCreateRequest) error {
	return asValidationIssue(validation.ValidateStruct(&req,
		validation.Field(&req.Slug, validation.Required, validation.Length(3, 64), validation.Match(slugPattern)),
		validation.Field(&req.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.FontColor, validation.Match(hexColorPattern)),
	))
}

func validatePageUpdate(req models.PageUpdateRequest) error {
	return asValidationIssue(validation.ValidateStruct(&req,
		validation.Field(&req.Slug, validation.NilOrNotEmpty, validation.Length(3, 64), validation.Match(slugPattern)),
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.FontColor, validation.NilOrNotEmpty, validation.Match(hexColorPattern)),
	))
}

// asValidationIssue turns ozzo field errors into a Validation issue with one
// "field: reason" detail per field, sorted by field name.
func asValidationIssue(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]string, 0, len(fields))
	for _, field := range fields {
		details = append(details, fmt.Sprintf("%s: %s", field, fieldErrs[field].Error()))
	}
	return issue.Validation(details...)
}

// checkBackground enforces that value is well-formed for the declared type.
// The color and image rules are exclusive: only the one matching the type runs.
func checkBackground(bgType, value string) (models.BackgroundType, error) {
	t, ok := models.ParseBackgroundType(bgType)
	if !ok {
		return "", issue.RuleViolation("Invalid background type",
			fmt.Sprintf("background type %q must be COLOR or IMAGE", bgType))
	}

	switch t {
	case models.BackgroundColor:
		if !hexColorPattern.MatchString(value) {
			return "", issue.RuleViolation("Invalid background value for color type",
				fmt.Sprintf("%q is not a #RGB or #RRGGBB color", value))
		}
	case models.BackgroundImage:
		if !imageURLPattern.MatchString(value) {
			return "", issue.RuleViolation("Invalid background value for image type",
				fmt.Sprintf("%q is not an i.imgur.com jpg, jpeg, png, gif or bmp URL", value))
		}
	}
	return t, nil
}
