package ferrors

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestWrapSentinelPreservesIsAndMetadata(t *testing.T) {
	err := WrapSentinel(ErrComponentNotFound, "", map[string]any{
		MetaComponent: "button",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrComponentNotFound) {
		t.Fatalf("expected errors.Is to match sentinel")
	}
	rich, ok := As(err)
	if !ok {
		t.Fatalf("expected rich error")
	}
	if rich.Category != goerrors.CategoryNotFound {
		t.Fatalf("unexpected category: %s", rich.Category)
	}
	if rich.TextCode != TextCodeComponentNotFound {
		t.Fatalf("unexpected text code: %s", rich.TextCode)
	}
	if rich.Metadata == nil || rich.Metadata[MetaComponent] != "button" {
		t.Fatalf("expected metadata to include component")
	}
	if ErrComponentNotFound.Metadata != nil {
		t.Fatalf("expected sentinel metadata to stay untouched")
	}
}

func TestInvalidCarriesFieldErrors(t *testing.T) {
	err := Invalid("bad config", goerrors.ValidationErrors{
		{Field: "variants[0].name", Message: "name is required"},
	}, nil)
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected errors.Is to match ErrConfigInvalid")
	}
	if len(err.ValidationErrors) != 1 {
		t.Fatalf("expected one field error, got %d", len(err.ValidationErrors))
	}
	if err.TextCode != TextCodeConfigInvalid {
		t.Fatalf("unexpected text code: %s", err.TextCode)
	}
}

func TestWrapPlainErrorKeepsSource(t *testing.T) {
	source := errors.New("disk full")
	err := WrapExternal(source, TextCodeStoreWriteFailed, "write failed", nil)
	if !errors.Is(err, source) {
		t.Fatalf("expected wrapped error to unwrap to source")
	}
	if err.Category != goerrors.CategoryExternal {
		t.Fatalf("unexpected category: %s", err.Category)
	}
}
