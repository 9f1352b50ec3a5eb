// Package loader reads YAML style documents into registries.
//
// Mappings decode to styledoc.OrderedMap so variant declaration order in the
// file is the order classes are emitted in.
package loader

import (
	"bytes"
	"errors"
	"io"
	"os"

	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/registry"
	"github.com/goliatone/go-twcomposer/styledoc"
)

// Decode parses YAML into a generic tree of styledoc.OrderedMap, []any and
// scalars. An empty input decodes to nil.
func Decode(r io.Reader) (any, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, ferrors.WrapBadInput(err, ferrors.TextCodeDocumentInvalid, "style document is not valid yaml: "+err.Error(), nil)
	}
	return toTree(&node)
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (any, error) {
	return Decode(bytes.NewReader(data))
}

// Load decodes and validates a style document.
func Load(r io.Reader) (styledoc.Document, error) {
	tree, err := Decode(r)
	if err != nil {
		return styledoc.Document{}, err
	}
	if tree == nil {
		return styledoc.Document{}, ferrors.WrapSentinel(ferrors.ErrDocumentInvalid, "style document is empty", nil)
	}
	return styledoc.Parse(tree)
}

// LoadFile reads and validates the style document at path.
func LoadFile(path string) (styledoc.Document, error) {
	if path == "" {
		return styledoc.Document{}, ferrors.WrapSentinel(ferrors.ErrPathRequired, "style document path required", nil)
	}
	file, err := os.Open(path)
	if err != nil {
		return styledoc.Document{}, ferrors.Wrap(err, goerrors.CategoryNotFound, ferrors.TextCodeDocumentReadFailed, "", map[string]any{
			ferrors.MetaFile: path,
		})
	}
	defer file.Close()

	doc, err := Load(file)
	if err != nil {
		return styledoc.Document{}, withFile(err, path)
	}
	return doc, nil
}

// LoadRegistry builds a registry from the document at path.
func LoadRegistry(path string, options ...registry.Option) (*registry.Static, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	reg, err := registry.NewStatic(doc.Definitions(), options...)
	if err != nil {
		return nil, withFile(err, path)
	}
	return reg, nil
}

// Reload replaces every definition in reg with the document at path. The
// registry is untouched when the document fails to load.
func Reload(reg *registry.Static, path string) (styledoc.Document, error) {
	if reg == nil {
		return styledoc.Document{}, ferrors.WrapSentinel(ferrors.ErrRegistryRequired, "", nil)
	}
	doc, err := LoadFile(path)
	if err != nil {
		return styledoc.Document{}, err
	}
	if err := reg.Replace(doc.Definitions()); err != nil {
		return styledoc.Document{}, withFile(err, path)
	}
	return doc, nil
}

func withFile(err error, path string) error {
	rich, ok := ferrors.As(err)
	if !ok {
		return err
	}
	clone := rich.Clone()
	clone.WithMetadata(map[string]any{ferrors.MetaFile: path})
	return clone
}

func toTree(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return toTree(node.Content[0])
	case yaml.AliasNode:
		return toTree(node.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := toTree(child)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.MappingNode:
		return toMapping(node)
	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, ferrors.WrapBadInput(err, ferrors.TextCodeDocumentInvalid, "", map[string]any{
				"line": node.Line,
			})
		}
		return value, nil
	}
	return nil, nil
}

func toMapping(node *yaml.Node) (styledoc.OrderedMap, error) {
	out := make(styledoc.OrderedMap, 0, len(node.Content)/2)
	index := map[string]int{}
	put := func(key string, value any, override bool) {
		if at, ok := index[key]; ok {
			if override {
				out[at].Value = value
			}
			return
		}
		index[key] = len(out)
		out = append(out, styledoc.Entry{Key: key, Value: value})
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		value, err := toTree(valueNode)
		if err != nil {
			return nil, err
		}
		if keyNode.Tag == "!!merge" || keyNode.Value == "<<" {
			for _, merged := range mergeSources(value) {
				for _, entry := range merged {
					put(entry.Key, entry.Value, false)
				}
			}
			continue
		}
		put(keyNode.Value, value, true)
	}
	return out, nil
}

func mergeSources(value any) []styledoc.OrderedMap {
	switch typed := value.(type) {
	case styledoc.OrderedMap:
		return []styledoc.OrderedMap{typed}
	case []any:
		out := make([]styledoc.OrderedMap, 0, len(typed))
		for _, item := range typed {
			if mapping, ok := item.(styledoc.OrderedMap); ok {
				out = append(out, mapping)
			}
		}
		return out
	}
	return nil
}
