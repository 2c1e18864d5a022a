package component

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type State map[string]any

func (ci *Interface) inStatePath() string {
	return filepath.Join(ci.DataDir, "in", "state.json")
}

func (ci *Interface) outStatePath() string {
	return filepath.Join(ci.DataDir, "out", "state.json")
}

// GetStateFile returns the state of the previous run. A missing or empty
// file, or a json null, yields an empty state.
func (ci *Interface) GetStateFile() (State, error) {
	buff, err := os.ReadFile(ci.inStatePath())
	if os.IsNotExist(err) {
		slog.Debug("state file not found, starting with empty state", "path", ci.inStatePath())
		return State{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(buff) == 0 {
		return State{}, nil
	}

	var decoded any
	err = json.Unmarshal(buff, &decoded)
	if err != nil {
		return nil, WrapUserError(err, fmt.Sprintf("state file %s is not valid json", ci.inStatePath()))
	}
	switch value := decoded.(type) {
	case nil:
		return State{}, nil
	case map[string]any:
		return State(value), nil
	}
	return nil, NewUserError("state file %s must contain a json object", ci.inStatePath())
}

func (ci *Interface) WriteStateFile(state State) error {
	err := os.MkdirAll(filepath.Dir(ci.outStatePath()), 0755)
	if err != nil {
		return err
	}
	if state == nil {
		state = State{}
	}
	buff, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(ci.outStatePath(), buff, 0644)
}
