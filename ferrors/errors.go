package ferrors

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	MetaComposer      = "composer"
	MetaComponent     = "component"
	MetaComponentNorm = "component_norm"
	MetaVariant       = "variant"
	MetaSlot          = "slot"
	MetaScope         = "scope"
	MetaStore         = "store"
	MetaAdapter       = "adapter"
	MetaDomain        = "domain"
	MetaTable         = "table"
	MetaOperation     = "operation"
	MetaPath          = "path"
	MetaFile          = "file"
)

const (
	TextCodeConfigInvalid            = "COMPOSER_CONFIG_INVALID"
	TextCodePropsInvalid             = "COMPOSER_PROPS_INVALID"
	TextCodeInvalidName              = "COMPONENT_NAME_REQUIRED"
	TextCodeComponentNotFound        = "COMPONENT_NOT_FOUND"
	TextCodeComponentExists          = "COMPONENT_ALREADY_REGISTERED"
	TextCodeComponentKindMismatch    = "COMPONENT_KIND_MISMATCH"
	TextCodeRegistryRequired         = "REGISTRY_REQUIRED"
	TextCodeResolverRequired         = "RESOLVER_REQUIRED"
	TextCodeStoreUnavailable         = "OVERRIDE_STORE_REQUIRED"
	TextCodeStoreRequired            = "STORE_REQUIRED"
	TextCodeScopeRequired            = "SCOPE_REQUIRED"
	TextCodeSnapshotRequired         = "SNAPSHOT_REQUIRED"
	TextCodePathRequired             = "PATH_REQUIRED"
	TextCodePathInvalid              = "PATH_INVALID"
	TextCodeOverrideTypeInvalid      = "OVERRIDE_TYPE_INVALID"
	TextCodePreferencesStoreRequired = "PREFERENCES_STORE_REQUIRED"
	TextCodeDocumentInvalid          = "STYLE_DOCUMENT_INVALID"
	TextCodeDocumentReadFailed       = "STYLE_DOCUMENT_READ_FAILED"
	TextCodeAdapterFailed            = "ADAPTER_FAILED"
	TextCodeStoreReadFailed          = "STORE_READ_FAILED"
	TextCodeStoreWriteFailed         = "STORE_WRITE_FAILED"
	TextCodeExtendFailed             = "COMPOSER_EXTEND_FAILED"
	TextCodeScopeResolveFailed       = "SCOPE_RESOLVE_FAILED"
)

var (
	ErrConfigInvalid            = newSentinel(goerrors.CategoryValidation, goerrors.CodeBadRequest, TextCodeConfigInvalid, "composer configuration is invalid")
	ErrInvalidName              = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeInvalidName, "component name required")
	ErrComponentNotFound        = newSentinel(goerrors.CategoryNotFound, goerrors.CodeNotFound, TextCodeComponentNotFound, "component not registered")
	ErrComponentExists          = newSentinel(goerrors.CategoryConflict, goerrors.CodeConflict, TextCodeComponentExists, "component already registered")
	ErrComponentKindMismatch    = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeComponentKindMismatch, "component kind does not match request")
	ErrRegistryRequired         = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeRegistryRequired, "registry is required")
	ErrResolverRequired         = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeResolverRequired, "theme resolver is required")
	ErrStoreUnavailable         = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeStoreUnavailable, "override store not configured")
	ErrStoreRequired            = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeStoreRequired, "store is required")
	ErrScopeRequired            = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeScopeRequired, "scope is required")
	ErrSnapshotRequired         = newSentinel(goerrors.CategoryInternal, goerrors.CodeInternal, TextCodeSnapshotRequired, "snapshot is required")
	ErrPathRequired             = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodePathRequired, "path is required")
	ErrPathInvalid              = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodePathInvalid, "path segment is not a map")
	ErrPreferencesStoreRequired = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodePreferencesStoreRequired, "preferences store is required")
	ErrDocumentInvalid          = newSentinel(goerrors.CategoryValidation, goerrors.CodeBadRequest, TextCodeDocumentInvalid, "style document is invalid")
)

func newSentinel(category goerrors.Category, code int, textCode, message string) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(textCode)
	if code != 0 {
		err.WithCode(code)
	}
	return err
}

func IsSentinel(err error) bool {
	return err == ErrConfigInvalid ||
		err == ErrInvalidName ||
		err == ErrComponentNotFound ||
		err == ErrComponentExists ||
		err == ErrComponentKindMismatch ||
		err == ErrRegistryRequired ||
		err == ErrResolverRequired ||
		err == ErrStoreUnavailable ||
		err == ErrStoreRequired ||
		err == ErrScopeRequired ||
		err == ErrSnapshotRequired ||
		err == ErrPathRequired ||
		err == ErrPathInvalid ||
		err == ErrPreferencesStoreRequired ||
		err == ErrDocumentInvalid
}

// WrapSentinel clones a sentinel so errors.Is keeps matching while metadata
// stays local to the returned error.
func WrapSentinel(sentinel *goerrors.Error, message string, meta map[string]any) *goerrors.Error {
	if sentinel == nil {
		return nil
	}
	if message == "" {
		message = sentinel.Message
	}
	err := goerrors.New(message, sentinel.Category).
		WithTextCode(sentinel.TextCode).
		WithCode(sentinel.Code).
		WithSeverity(sentinel.Severity)
	err.Source = sentinel
	if meta != nil {
		err.WithMetadata(meta)
	}
	return err
}

// Invalid builds a configuration error carrying field level details.
func Invalid(message string, fields goerrors.ValidationErrors, meta map[string]any) *goerrors.Error {
	err := WrapSentinel(ErrConfigInvalid, message, meta)
	err.ValidationErrors = fields
	return err
}

func Wrap(err error, category goerrors.Category, textCode, message string, meta map[string]any) *goerrors.Error {
	if err == nil {
		return nil
	}
	if IsSentinel(err) {
		if sentinel, ok := err.(*goerrors.Error); ok {
			return WrapSentinel(sentinel, "", meta)
		}
	}
	if rich, ok := err.(*goerrors.Error); ok {
		clone := rich.Clone()
		if clone.TextCode == "" && textCode != "" {
			clone.TextCode = textCode
		}
		if clone.Message == "" && message != "" {
			clone.Message = message
		}
		if meta != nil {
			clone.WithMetadata(meta)
		}
		return clone
	}
	if message == "" {
		message = err.Error()
	}
	wrapped := goerrors.New(message, category).WithTextCode(textCode)
	wrapped.Source = err
	if meta != nil {
		wrapped.WithMetadata(meta)
	}
	return wrapped
}

func New(category goerrors.Category, textCode, message string, meta map[string]any) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(textCode)
	if meta != nil {
		err.WithMetadata(meta)
	}
	return err
}

func NewBadInput(textCode, message string, meta map[string]any) *goerrors.Error {
	return New(goerrors.CategoryBadInput, textCode, message, meta)
}

func WrapBadInput(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryBadInput, textCode, message, meta)
}

func WrapOperation(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryOperation, textCode, message, meta)
}

func NewExternal(textCode, message string, meta map[string]any) *goerrors.Error {
	return New(goerrors.CategoryExternal, textCode, message, meta)
}

func WrapExternal(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryExternal, textCode, message, meta)
}

func As(err error) (*goerrors.Error, bool) {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich, true
	}
	return nil, false
}
