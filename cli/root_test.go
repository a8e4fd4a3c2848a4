package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asaidimu/go-sysparm/core/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "sysparm.db")
}

type jsonResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func decodeData(t *testing.T, out string, target any) {
	t.Helper()
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, target))
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sysparm", cmd.Use)
	assert.Contains(t, cmd.Long, "encoded queries")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"save", "list", "show", "delete", "match"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Setenv(EnvDatabase, "")
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "sysparm.db", dbFlag.DefValue)
}

func TestDatabaseFromEnvironment(t *testing.T) {
	t.Setenv(EnvDatabase, "/tmp/elsewhere.db")
	cmd := NewRootCommand()
	assert.Equal(t, "/tmp/elsewhere.db", cmd.PersistentFlags().Lookup("db").DefValue)
}

func TestSaveCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	saveCmd, _, err := cmd.Find([]string{"save"})
	require.NoError(t, err)

	for _, name := range []string{"table", "eq", "neq", "contains", "starts-with", "order-by", "order-by-desc"} {
		assert.NotNil(t, saveCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "", "list", "--db", tempDB(t), "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSaveShowListDelete(t *testing.T) {
	db := tempDB(t)

	out, err := execute(t, "", "save", "open-p1", "--db", db, "--format", "json",
		"--table", "incident",
		"--eq", "active=true", "--eq", "priority=1",
		"--contains", "short_description=email",
		"--order-by-desc", "opened_at")
	require.NoError(t, err)

	var saved persistence.SavedFilter
	decodeData(t, out, &saved)
	assert.Equal(t, "open-p1", saved.Name)
	assert.Equal(t, "incident", saved.Table)
	assert.Equal(t, "active=true^priority=1^short_descriptionLIKEemailORDERBYDESCopened_at", saved.Query)
	assert.NotEmpty(t, saved.ID)

	_, err = execute(t, "", "save", "problems", "--db", db, "--table", "problem", "--neq", "state=closed")
	require.NoError(t, err)

	out, err = execute(t, "", "show", "open-p1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Query:")
	assert.Contains(t, out, saved.Query)

	out, err = execute(t, "", "list", "--db", db, "--format", "json")
	require.NoError(t, err)
	var all []persistence.SavedFilter
	decodeData(t, out, &all)
	require.Len(t, all, 2)
	assert.Equal(t, "open-p1", all[0].Name)
	assert.Equal(t, "state!=closed", all[1].Query)

	out, err = execute(t, "", "list", "--db", db, "--table", "problem")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "problems")
	assert.NotContains(t, out, "open-p1")

	out, err = execute(t, "", "delete", "open-p1", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "Deleted open-p1\n", out)

	_, err = execute(t, "", "show", "open-p1", "--db", db)
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrFilterNotFound)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestSaveReplacesExistingName(t *testing.T) {
	db := tempDB(t)

	out, err := execute(t, "", "save", "mine", "--db", db, "--format", "json", "--table", "incident", "--eq", "assigned_to=me")
	require.NoError(t, err)
	var first persistence.SavedFilter
	decodeData(t, out, &first)

	out, err = execute(t, "", "save", "mine", "--db", db, "--format", "json", "--table", "task", "--starts-with", "number=TASK")
	require.NoError(t, err)
	var second persistence.SavedFilter
	decodeData(t, out, &second)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "task", second.Table)
	assert.Equal(t, "numberSTARTSWITHTASK", second.Query)
}

func TestSaveErrors(t *testing.T) {
	db := tempDB(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no conditions", []string{"save", "empty", "--db", db, "--table", "incident"}, ExitCommandError},
		{"malformed pair", []string{"save", "bad", "--db", db, "--table", "incident", "--eq", "novalue"}, ExitCommandError},
		{"empty field", []string{"save", "bad", "--db", db, "--table", "incident", "--eq", "=x"}, ExitCommandError},
		{"missing table", []string{"save", "bad", "--db", db, "--eq", "a=b"}, ExitFailure},
		{"missing name", []string{"save", "--db", db, "--table", "incident", "--eq", "a=b"}, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, GetExitCode(err))
		})
	}

	out, err := execute(t, "", "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No saved filters.\n", out)
}

func TestDeleteMissing(t *testing.T) {
	_, err := execute(t, "", "delete", "ghost", "--db", tempDB(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrFilterNotFound)
}

func TestMatch(t *testing.T) {
	input := filepath.Join(t.TempDir(), "incidents.json")
	rows := `[
  {"number": "INC001", "state": "new", "priority": 2, "short_description": "Email outage"},
  {"number": "INC002", "state": "closed", "priority": 1, "short_description": "VPN outage"},
  {"number": "INC003", "state": "new", "priority": 1, "short_description": "Printer jam"}
]`
	require.NoError(t, os.WriteFile(input, []byte(rows), 0o600))

	out, err := execute(t, "", "match", "--input", input, "--format", "json",
		"--eq", "state=new", "--order-by", "priority")
	require.NoError(t, err)

	var result struct {
		Query string           `json:"query"`
		Count int              `json:"count"`
		Rows  []map[string]any `json:"rows"`
	}
	decodeData(t, out, &result)
	assert.Equal(t, "state=newORDERBYpriority", result.Query)
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "INC003", result.Rows[0]["number"])
	assert.Equal(t, "INC001", result.Rows[1]["number"])
}

func TestMatchFromStdinAsYAML(t *testing.T) {
	rows := `
- number: INC001
  short_description: Email outage
- number: INC002
  short_description: Printer jam
`
	out, err := execute(t, rows, "match", "--input", "-", "--format", "yaml", "--contains", "short_description=OUTAGE")
	require.NoError(t, err)

	var resp struct {
		Status string `yaml:"status"`
		Data   struct {
			Query string           `yaml:"query"`
			Count int              `yaml:"count"`
			Rows  []map[string]any `yaml:"rows"`
		} `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "short_descriptionLIKEOUTAGE", resp.Data.Query)
	assert.Equal(t, 1, resp.Data.Count)
	assert.Equal(t, "INC001", resp.Data.Rows[0]["number"])
}

func TestMatchWithoutConditions(t *testing.T) {
	out, err := execute(t, `[{"a": 1}, {"a": 2}]`, "match", "--input", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Query: EMPTY QUERY")
	assert.Contains(t, out, "Matched 2 row(s)")
}

func TestMatchWithoutConditionsStructured(t *testing.T) {
	out, err := execute(t, `[{"a": 1}]`, "match", "--input", "-", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Query *string `json:"query"`
		Count int     `json:"count"`
	}
	decodeData(t, out, &result)
	require.NotNil(t, result.Query)
	assert.Equal(t, "", *result.Query)
	assert.Equal(t, 1, result.Count)

	out, err = execute(t, `[{"a": 1}]`, "match", "--input", "-", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "query: \"\"")
	assert.NotContains(t, out, "EMPTY QUERY")
}

func TestMatchBadInput(t *testing.T) {
	_, err := execute(t, `{"not": "a list"}`, "match", "--input", "-")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "", "match", "--input", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
