package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"kbc-extractor/lib/telemetry"
)

// DataDirParams describes a component data folder to create for a test.
type DataDirParams struct {
	// relative path -> file contents, e.g. "in/tables/input.csv".
	Files map[string]string
	// if unspecified, no config.json is written.
	Config string
}

// SetupDataDir creates a data folder in a temporary directory and returns
// its path. Logging is switched to debug for the duration of the test.
func SetupDataDir(t testing.TB, params DataDirParams) string {
	telemetry.SetupForTesting(t)

	dir := t.TempDir()
	for _, sub := range []string{"in/tables", "out/tables"} {
		err := os.MkdirAll(filepath.Join(dir, sub), 0755)
		if err != nil {
			t.Fatal(err)
		}
	}

	files := map[string]string{}
	for k, v := range params.Files {
		files[k] = v
	}
	if params.Config != "" {
		files["config.json"] = params.Config
	}

	for rel, contents := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(path, []byte(contents), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// ReadFile reads a file relative to the data folder.
func ReadFile(t testing.TB, dataDir, rel string) string {
	buff, err := os.ReadFile(filepath.Join(dataDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return string(buff)
}
