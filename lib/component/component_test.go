package component

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"kbc-extractor/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const basicConfig = `{
	"parameters": {"print_rows": true, "debug": true},
	"image_parameters": {"region": "eu"},
	"storage": {"input": {"tables": [{"source": "in.c-main.b", "destination": "b.csv"}]}}
}`

func TestResolveDataDir(t *testing.T) {
	t.Setenv(DataDirEnv, "")
	require.Equal(t, DefaultDataDir, ResolveDataDir(""))

	t.Setenv(DataDirEnv, "/from/env")
	require.Equal(t, "/from/env", ResolveDataDir(""))
	require.Equal(t, "/explicit", ResolveDataDir("/explicit"))
}

func TestNew(t *testing.T) {
	dir := testutil.SetupDataDir(t, testutil.DataDirParams{Config: basicConfig})

	ci, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, DefaultAction, ci.Config.ActionName())
	require.True(t, ci.Config.Debug())
	require.Equal(t, true, ci.Config.Parameters["print_rows"])
	require.Equal(t, filepath.Join(dir, "out", "tables"), ci.TablesOutPath())
}

func TestNewLocalOverride(t *testing.T) {
	dir := testutil.SetupDataDir(t, testutil.DataDirParams{
		Config: basicConfig,
		Files: map[string]string{
			"config.local.json": `{action: "list", parameters: {print_rows: false}}`,
		},
	})

	ci, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "list", ci.Config.ActionName())
	require.Equal(t, false, ci.Config.Parameters["print_rows"])
}

func TestNewMissingConfig(t *testing.T) {
	dir := testutil.SetupDataDir(t, testutil.DataDirParams{})

	_, err := New(dir)
	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	require.Equal(t, ExitUserError, ExitCode(err))

	_, err = New(filepath.Join(dir, "does-not-exist"))
	require.ErrorAs(t, err, &userErr)
}

func TestValidateParameters(t *testing.T) {
	cfg := Config{
		Parameters:      map[string]any{"print_rows": true},
		ImageParameters: map[string]any{},
	}
	require.NoError(t, cfg.ValidateParameters("print_rows"))

	err := cfg.ValidateParameters("print_rows", "zeta", "alpha")
	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	require.Equal(t, "missing required configuration parameters: [alpha, zeta]", err.Error())

	err = cfg.ValidateImageParameters("region")
	require.ErrorAs(t, err, &userErr)
	require.Contains(t, err.Error(), "region")
}

func TestDecodeParameters(t *testing.T) {
	cfg := Config{Parameters: map[string]any{"print_rows": "yes"}}

	var params struct {
		PrintRows bool `json:"print_rows"`
	}
	err := cfg.DecodeParameters(&params)
	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
}

func TestInputTables(t *testing.T) {
	dir := testutil.SetupDataDir(t, testutil.DataDirParams{
		Config: basicConfig,
		Files: map[string]string{
			"in/tables/a.csv":          "id\n1\n",
			"in/tables/b.csv":          "id\n2\n",
			"in/tables/b.csv.manifest": `{"id": "in.c-main.b", "columns": ["id"], "primary_key": ["id"]}`,
			"in/tables/notes.txt":      "ignored",
		},
	})
	ci, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	tables, err := ci.InputTables()
	if err != nil {
		t.Fatal(err)
	}

	expected := []TableDefinition{
		{
			Name:     "b.csv",
			FullPath: filepath.Join(dir, "in", "tables", "b.csv"),
			Manifest: Manifest{Id: "in.c-main.b", Columns: []string{"id"}, PrimaryKey: []string{"id"}},
		},
		{
			Name:     "a.csv",
			FullPath: filepath.Join(dir, "in", "tables", "a.csv"),
		},
	}
	diff := cmp.Diff(expected, tables)
	if diff != "" {
		t.Fatal("unexpected input tables", diff)
	}
}

func TestInputTablesEmpty(t *testing.T) {
	ci := &Interface{DataDir: t.TempDir()}
	tables, err := ci.InputTables()
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, tables)
}

func TestWriteManifest(t *testing.T) {
	ci := &Interface{DataDir: t.TempDir()}

	table, err := ci.CreateOutTableDefinition("output.csv", true, []string{"row_number"})
	if err != nil {
		t.Fatal(err)
	}
	table.Manifest.Columns = []string{"name", "row_number"}
	err = ci.WriteManifest(table)
	if err != nil {
		t.Fatal(err)
	}

	buff, err := os.ReadFile(filepath.Join(ci.TablesOutPath(), "output.csv.manifest"))
	if err != nil {
		t.Fatal(err)
	}
	require.JSONEq(t, `{
		"incremental": true,
		"primary_key": ["row_number"],
		"columns": ["name", "row_number"],
		"delimiter": ",",
		"enclosure": "\""
	}`, string(buff))
}

func TestStateFile(t *testing.T) {
	dir := testutil.SetupDataDir(t, testutil.DataDirParams{
		Files: map[string]string{
			"in/state.json": `{"last_update": "2024-01-02T03:04:05Z"}`,
		},
	})
	ci := &Interface{DataDir: dir}

	state, err := ci.GetStateFile()
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "2024-01-02T03:04:05Z", state["last_update"])

	err = ci.WriteStateFile(State{"last_update": "2024-02-02T00:00:00Z"})
	if err != nil {
		t.Fatal(err)
	}
	require.JSONEq(t, `{"last_update": "2024-02-02T00:00:00Z"}`, testutil.ReadFile(t, dir, "out/state.json"))
}

func TestStateFileMissing(t *testing.T) {
	ci := &Interface{DataDir: t.TempDir()}
	state, err := ci.GetStateFile()
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, state)
}

func TestStateFileInvalid(t *testing.T) {
	dir := testutil.SetupDataDir(t, testutil.DataDirParams{
		Files: map[string]string{"in/state.json": `[1, 2`},
	})
	ci := &Interface{DataDir: dir}
	_, err := ci.GetStateFile()
	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
}

func TestStateFileNull(t *testing.T) {
	dir := testutil.SetupDataDir(t, testutil.DataDirParams{
		Files: map[string]string{"in/state.json": "null"},
	})
	ci := &Interface{DataDir: dir}

	state, err := ci.GetStateFile()
	if err != nil {
		t.Fatal(err)
	}
	require.NotNil(t, state)
	state["last_update"] = "2024-02-02T00:00:00Z"
	require.Len(t, state, 1)
}

func TestStateFileNotAnObject(t *testing.T) {
	for _, contents := range []string{`[1, 2]`, `"text"`, `42`} {
		dir := testutil.SetupDataDir(t, testutil.DataDirParams{
			Files: map[string]string{"in/state.json": contents},
		})
		ci := &Interface{DataDir: dir}
		_, err := ci.GetStateFile()
		var userErr *UserError
		require.ErrorAs(t, err, &userErr, contents)
	}
}

func TestExecute(t *testing.T) {
	called := ""
	actions := Actions{
		"run": func(ctx context.Context, ci *Interface) error {
			called = "run"
			return nil
		},
		"list": func(ctx context.Context, ci *Interface) error {
			called = "list"
			return errors.New("list failed")
		},
	}

	ci := &Interface{}
	err := ci.Execute(context.Background(), actions)
	require.NoError(t, err)
	require.Equal(t, "run", called)

	ci.Config.Action = "list"
	err = ci.Execute(context.Background(), actions)
	require.EqualError(t, err, "list failed")
	require.Equal(t, ExitApplicationError, ExitCode(err))

	ci.Config.Action = "sync"
	err = ci.Execute(context.Background(), actions)
	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	require.Equal(t, `unsupported action "sync", expected one of [list, run]`, err.Error())
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	wrapped := errors.Join(errors.New("context"), NewUserError("bad input"))
	require.Equal(t, ExitUserError, ExitCode(wrapped))
	require.Equal(t, ExitApplicationError, ExitCode(errors.New("boom")))
}
