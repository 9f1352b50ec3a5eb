package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassCommand_DefaultsAndOverrides(t *testing.T) {
	path := writeStyles(t, testStyles)

	stdout, err := executeCommand("class", "button", "-f", path, "--set", "intent=primary", "--class", "w-full")
	require.NoError(t, err)
	require.Equal(t, "font-semibold rounded text-sm px-2 bg-blue-500 w-full\n", stdout)
}

func TestClassCommand_ResolvesConflicts(t *testing.T) {
	path := writeStyles(t, testStyles)

	stdout, err := executeCommand("class", "button", "-f", path, "--set", "size=lg", "--class", "px-8")
	require.NoError(t, err)
	require.Contains(t, stdout, "px-8")
	require.NotContains(t, stdout, "px-4")

	stdout, err = executeCommand("class", "button", "-f", path, "--no-merge", "--set", "size=lg", "--class", "px-8")
	require.NoError(t, err)
	require.Contains(t, stdout, "px-4 px-8")
}

func TestClassCommand_TraceJSON(t *testing.T) {
	path := writeStyles(t, testStyles)

	stdout, err := executeCommand("class", "button", "-f", path, "--trace", "--json", "--set", "intent=ghost")
	require.NoError(t, err)

	var payload classOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	require.Equal(t, "button", payload.Component)
	require.Equal(t, "sm (default)", payload.Variants["size"])
	require.Equal(t, "ghost (input, no classes)", payload.Variants["intent"])
}

func TestClassCommand_Errors(t *testing.T) {
	path := writeStyles(t, testStyles)

	_, err := executeCommand("class", "missing", "-f", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")

	_, err = executeCommand("class", "button", "-f", path, "--set", "size")
	require.Error(t, err)
	require.Contains(t, err.Error(), "variant=value")

	_, err = executeCommand("class", "button", "-f", path, "--log-level", "loud")
	require.Error(t, err)
	require.Contains(t, err.Error(), "configuring logger")
}

func TestSlotsCommand(t *testing.T) {
	path := writeStyles(t, testStyles)

	stdout, err := executeCommand("slots", "card", "-f", path, "--set", "tone=info")
	require.NoError(t, err)
	require.Contains(t, stdout, "base: rounded-lg\n")
	require.Contains(t, stdout, "body: p-4\n")
	require.Contains(t, stdout, "header: font-bold text-blue-700\n")

	stdout, err = executeCommand("slots", "button", "-f", path, "--json")
	require.NoError(t, err)
	var slots map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &slots))
	require.Equal(t, map[string]string{"base": "font-semibold rounded text-sm px-2"}, slots)
}
