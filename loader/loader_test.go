package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-twcomposer/activity"
	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/registry"
	"github.com/goliatone/go-twcomposer/styledoc"
)

const stylesYAML = `
version: 1
components:
  button:
    description: Primary action
    base: [font-semibold, rounded]
    variants:
      size:
        sm: text-sm px-2
        lg: text-lg px-4
      intent:
        primary: bg-blue-500 text-white
        danger: bg-red-500 text-white
      disabled:
        true: opacity-50
    default_variants:
      size: sm
    compound_variants:
      - intent: primary
        disabled: true
        class: cursor-not-allowed
  card:
    base: rounded-lg
    slots:
      header: font-bold
      body: p-4
    variants:
      tone:
        info:
          header: text-blue-700
`

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecodeKeepsMappingOrder(t *testing.T) {
	tree, err := DecodeBytes([]byte("b: 1\na: [x, true]\nc:\n  z: null\n"))
	require.NoError(t, err)

	mapping, ok := tree.(styledoc.OrderedMap)
	require.True(t, ok, "expected ordered map, got %T", tree)
	require.Len(t, mapping, 3)
	assert.Equal(t, "b", mapping[0].Key)
	assert.Equal(t, 1, mapping[0].Value)
	assert.Equal(t, []any{"x", true}, mapping[1].Value)
	assert.Equal(t, styledoc.OrderedMap{{Key: "z", Value: nil}}, mapping[2].Value)
}

func TestDecodeResolvesAliasesAndMergeKeys(t *testing.T) {
	tree, err := DecodeBytes([]byte(`
shared: &shared
  a: one
  b: two
item:
  <<: *shared
  b: three
`))
	require.NoError(t, err)

	item, ok := tree.(styledoc.OrderedMap).Get("item")
	require.True(t, ok)
	assert.Equal(t, styledoc.OrderedMap{{Key: "a", Value: "one"}, {Key: "b", Value: "three"}}, item)
}

func TestDecodeEmptyAndBrokenInput(t *testing.T) {
	tree, err := DecodeBytes(nil)
	require.NoError(t, err)
	assert.Nil(t, tree)

	_, err = DecodeBytes([]byte("a: [unterminated"))
	require.Error(t, err)
	rich, ok := ferrors.As(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.TextCodeDocumentInvalid, rich.TextCode)

	_, err = Load(strings.NewReader(""))
	assert.True(t, errors.Is(err, ferrors.ErrDocumentInvalid))
}

func TestLoadFileBuildsOrderedComposers(t *testing.T) {
	path := writeFile(t, t.TempDir(), stylesYAML)

	reg, err := LoadRegistry(path, registry.WithComposerOptions(composer.WithMerger(noopMerger{})))
	require.NoError(t, err)

	resolved, ok := reg.Lookup("button")
	require.True(t, ok)
	assert.Equal(t, []string{"size", "intent", "disabled"}, resolved.VariantKeys())
	assert.Equal(t,
		"font-semibold rounded text-sm px-2 bg-blue-500 text-white opacity-50 cursor-not-allowed",
		resolved.Class(composer.With(composer.Values{"intent": "primary", "disabled": true})),
	)

	card, ok := reg.Lookup("card")
	require.True(t, ok)
	require.True(t, card.Slotted())
	slots := card.Slots.Strings(composer.With(composer.Values{"tone": "info"}))
	assert.Equal(t, "font-bold text-blue-700", slots["header"])
	assert.Equal(t, "rounded-lg", slots["base"])

	def, ok := reg.Get("button")
	require.True(t, ok)
	assert.Equal(t, "Primary action", def.Description)
}

func TestLoadFileReportsFieldErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
components:
  button:
    variants:
      size:
        sm: text-sm
    default_variants:
      tone: loud
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	rich, ok := ferrors.As(err)
	require.True(t, ok)
	assert.Equal(t, path, rich.Metadata[ferrors.MetaFile])
	require.NotEmpty(t, rich.ValidationErrors)
	assert.Equal(t, "components.button.default_variants.tone", rich.ValidationErrors[0].Field)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	rich, ok := ferrors.As(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.TextCodeDocumentReadFailed, rich.TextCode)

	_, err = LoadFile("")
	assert.True(t, errors.Is(err, ferrors.ErrPathRequired))
}

func TestReloadKeepsRegistryOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, stylesYAML)
	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	version := reg.Version()

	writeFile(t, dir, "components:\n  button:\n    bogus: true\n")
	_, err = Reload(reg, path)
	require.Error(t, err)
	assert.Equal(t, version, reg.Version())
	_, ok := reg.Lookup("card")
	assert.True(t, ok)
}

type recordingHook struct {
	mu     sync.Mutex
	events []activity.UpdateEvent
}

func (h *recordingHook) OnUpdate(_ context.Context, event activity.UpdateEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHook) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, stylesYAML)
	reg := registry.New(registry.WithComposerOptions(composer.WithMerger(noopMerger{})))
	hook := &recordingHook{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := Watch(ctx, path, reg, WithHook(hook), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	_, ok := reg.Lookup("card")
	require.True(t, ok, "initial load should populate the registry")

	writeFile(t, dir, "components:\n  badge:\n    base: rounded-full\n")

	require.Eventually(t, func() bool { return hook.count() > 0 }, 5*time.Second, 20*time.Millisecond)
	_, ok = reg.Lookup("badge")
	assert.True(t, ok)
	_, ok = reg.Lookup("card")
	assert.False(t, ok)

	hook.mu.Lock()
	event := hook.events[0]
	hook.mu.Unlock()
	assert.Equal(t, activity.ActionReload, event.Action)
	assert.Equal(t, w.Path(), event.Source)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWatchReportsBrokenEdits(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, stylesYAML)
	reg := registry.New()
	errs := make(chan error, 4)

	w, err := Watch(context.Background(), path, reg,
		WithDebounce(20*time.Millisecond),
		WithErrorHandler(func(err error) {
			select {
			case errs <- err:
			default:
			}
		}),
	)
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, dir, "components: [")

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("expected reload error")
	}
	_, ok := reg.Lookup("button")
	assert.True(t, ok)
}

func TestWatchStopsAndReleasesNotifierOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, stylesYAML)
	ctx, cancel := context.WithCancel(context.Background())

	w, err := Watch(ctx, path, registry.New())
	require.NoError(t, err)
	cancel()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("expected watcher to stop after cancel")
	}
	assert.Error(t, w.fs.Add(dir), "notifier should be closed")
	assert.NoError(t, w.Close())
}

func TestWatchRequiresValidInitialDocument(t *testing.T) {
	path := writeFile(t, t.TempDir(), "components: 3\n")
	_, err := Watch(context.Background(), path, registry.New())
	require.Error(t, err)

	_, err = Watch(context.Background(), path, nil)
	assert.True(t, errors.Is(err, ferrors.ErrRegistryRequired))
}

type noopMerger struct{}

func (noopMerger) Merge(classes string) string { return classes }
