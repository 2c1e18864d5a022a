package component

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kbc-extractor/lib/configutil"
)

const (
	DataDirEnv     = "KBC_DATADIR"
	DefaultDataDir = "/data"
)

// ResolveDataDir picks the data folder: explicit value, then $KBC_DATADIR,
// then /data.
func ResolveDataDir(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(DataDirEnv); env != "" {
		return env
	}
	return DefaultDataDir
}

// Interface gives access to the files of a component data folder.
type Interface struct {
	DataDir string
	Config  Config
}

func New(dataDir string) (*Interface, error) {
	info, err := os.Stat(dataDir)
	if err != nil {
		return nil, WrapUserError(err, fmt.Sprintf("data folder %s is not accessible", dataDir))
	}
	if !info.IsDir() {
		return nil, NewUserError("data folder %s is not a directory", dataDir)
	}

	cfg, err := configutil.ReadConfig[Config](filepath.Join(dataDir, "config.json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, NewUserError("configuration file not found in %s", dataDir)
	}
	if err != nil {
		return nil, WrapUserError(err, "invalid configuration file")
	}

	slog.Debug("loaded configuration", "data_dir", dataDir, "config", cfg.String())
	return &Interface{DataDir: dataDir, Config: cfg}, nil
}

func (ci *Interface) TablesInPath() string {
	return filepath.Join(ci.DataDir, "in", "tables")
}

func (ci *Interface) TablesOutPath() string {
	return filepath.Join(ci.DataDir, "out", "tables")
}

func (ci *Interface) ValidateParameters(required ...string) error {
	return ci.Config.ValidateParameters(required...)
}

func (ci *Interface) ValidateImageParameters(required ...string) error {
	return ci.Config.ValidateImageParameters(required...)
}
