package workspace

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxNameLength bounds project, folder, document and persona names.
const MaxNameLength = 255

// cleanName trims a user supplied name and validates it.
func cleanName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	err := validation.Validate(name,
		validation.Required.Error("must not be empty"),
		validation.RuneLength(1, MaxNameLength).Error(fmt.Sprintf("must be at most %d characters", MaxNameLength)),
	)
	if err != nil {
		return "", &ValidationError{Field: field, Message: err.Error()}
	}
	return name, nil
}

type personaInput struct {
	Title        string
	Description  string
	SystemPrompt string
}

func (in *personaInput) validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&in.SystemPrompt, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
