package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testStyles = `
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
        primary: bg-blue-500
        danger: bg-red-500
    default_variants:
      size: sm
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

func writeStyles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func executeCommand(args ...string) (string, error) {
	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}
