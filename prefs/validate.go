// ABOUTME: Upload validation rules for user-provided alert sounds
// ABOUTME: Uses go-playground/validator with a custom notblank tag

package prefs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxAudioAssetBytes caps a single uploaded sound.
const MaxAudioAssetBytes = 5 * 1024 * 1024

const notBlankTag = "notblank"

// AudioUpload is the validated shape of an upload request.
type AudioUpload struct {
	Name     string `validate:"notblank"`
	MIMEType string `validate:"required,startswith=audio/"`
	Size     int64  `validate:"gt=0,max=5242880"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(notBlankTag, notBlankValidation)
	return v
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// toValidationError converts the first validator failure into a ValidationError.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		return &ValidationError{Field: "name", Reason: "a name is required"}
	case "MIMEType":
		return &ValidationError{Field: "mime_type", Reason: fmt.Sprintf("%q is not an audio type", fe.Value())}
	case "Size":
		if fe.Tag() == "max" {
			return &ValidationError{Field: "size", Reason: "file is larger than 5MB"}
		}
		return &ValidationError{Field: "size", Reason: "file is empty"}
	}
	return &ValidationError{Field: strings.ToLower(fe.Field()), Reason: fe.Tag()}
}
