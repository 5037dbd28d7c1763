package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeScript(t *testing.T, code string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.js")
	require.NoError(t, os.WriteFile(path, []byte(code), 0o644))
	return path
}

func TestParseCommand(t *testing.T) {
	out, _, err := run(t, "", "parse", "5px,10%  3EM")
	require.NoError(t, err)
	assert.Equal(t, "5px 10% 3em\n", out)
}

func TestParseCommandJSON(t *testing.T) {
	out, _, err := run(t, "", "parse", "--json", "2.5cm 4")
	require.NoError(t, err)

	var items []itemJSON
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, itemJSON{Text: "2.5cm", Value: 2.5, Unit: "cm", UnitType: 6}, items[0])
	assert.Equal(t, "number", items[1].Unit)
}

func TestParseCommandError(t *testing.T) {
	_, stderr, err := run(t, "", "parse", "1px,,2px")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SyntaxError")
	assert.Contains(t, stderr, "parse failed")
}

func TestEvalCommand(t *testing.T) {
	script := writeScript(t, `
		var l = createSVGLength();
		l.valueAsString = "3em";
		list.insertItemBefore(l, 1);
		list.removeItem(0);
	`)
	out, _, err := run(t, "", "eval", "--value", "5px 10%", script)
	require.NoError(t, err)
	assert.Equal(t, "3em 10%\n", out)
}

func TestEvalCommandStdinJSON(t *testing.T) {
	out, _, err := run(t, "list.getItem(0).value = 50; list.appendItem(createSVGLength());",
		"eval", "--json", "--name", "dx", "--value", "10%", "--viewport", "200x100", "-")
	require.NoError(t, err)

	var result evalResultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "dx", result.Attribute)
	assert.Equal(t, "25% 0", result.Value)
	assert.Equal(t, 2, result.Changes)
	assert.Len(t, result.Items, 2)
}

func TestEvalCommandReadOnly(t *testing.T) {
	script := writeScript(t, `list.clear();`)
	_, stderr, err := run(t, "", "eval", "--readonly", "--value", "1 2", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoModificationAllowedError")
	assert.Contains(t, stderr, "script error")
}

func TestEvalCommandBadFlags(t *testing.T) {
	script := writeScript(t, ``)

	_, _, err := run(t, "", "eval", "--direction", "diagonal", script)
	assert.Error(t, err)

	_, _, err = run(t, "", "eval", "--viewport", "100", script)
	assert.Error(t, err)

	_, _, err = run(t, "", "eval", "--value", "1 zz", script)
	assert.Error(t, err)

	_, _, err = run(t, "", "eval", filepath.Join(t.TempDir(), "missing.js"))
	assert.Error(t, err)
}

func TestEvalCommandVerboseLogsChanges(t *testing.T) {
	script := writeScript(t, `list.appendItem(createSVGLength());`)
	_, stderr, err := run(t, "", "-v", "eval", "--value", "1", script)
	require.NoError(t, err)
	assert.Contains(t, stderr, "attribute changed")
}
