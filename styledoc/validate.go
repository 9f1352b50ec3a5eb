package styledoc

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/theme"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("component_name", func(fl validator.FieldLevel) bool {
			return theme.ValidName(fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

// Validate checks document structure and every component configuration.
// Field errors from all components are reported together.
func Validate(doc Document) error {
	var fields goerrors.ValidationErrors
	if err := validatorInstance().Struct(doc); err != nil {
		fields = append(fields, convertValidationError(err)...)
	}
	for i, component := range doc.Components {
		prefix := fmt.Sprintf("components[%d]", i)
		if component.Name != "" {
			prefix = "components." + component.Name
		}
		if err := composer.Validate(component.Config, component.Slotted); err != nil {
			rich, ok := ferrors.As(err)
			if !ok {
				fields = append(fields, goerrors.FieldError{Field: prefix, Message: err.Error()})
				continue
			}
			for _, field := range rich.ValidationErrors {
				field.Field = prefix + "." + field.Field
				fields = append(fields, field)
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	err := ferrors.WrapSentinel(ferrors.ErrDocumentInvalid, fmt.Sprintf("style document has %d problem(s)", len(fields)), nil)
	err.ValidationErrors = fields
	return err
}

// Parse decodes and validates a document tree.
func Parse(raw any) (Document, error) {
	doc, err := DecodeDocument(raw)
	if err != nil {
		return Document{}, err
	}
	if err := Validate(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func convertValidationError(err error) goerrors.ValidationErrors {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return goerrors.ValidationErrors{{Field: "document", Message: err.Error()}}
	}
	out := make(goerrors.ValidationErrors, 0, len(ves))
	for _, fe := range ves {
		field := yamlishFieldName(fe)
		out = append(out, goerrors.FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag()),
			Value:   fe.Value(),
		})
	}
	return out
}

func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
