package main

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-twcomposer/ferrors"
)

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %s\n\nSuggestion: %s", e.operation, e.context, describe(e.cause), e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// describe expands field errors so each problem lands on its own line.
func describe(err error) string {
	if err == nil {
		return ""
	}
	rich, ok := ferrors.As(err)
	if !ok || len(rich.ValidationErrors) == 0 {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString(rich.Message)
	for _, field := range rich.ValidationErrors {
		fmt.Fprintf(&b, "\n  - %s: %s", field.Field, field.Message)
	}
	return b.String()
}
