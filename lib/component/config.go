package component

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type TableMapping struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Columns     []string `json:"columns,omitempty"`
}

type TablesStorage struct {
	Tables []TableMapping `json:"tables"`
}

type Storage struct {
	Input  TablesStorage `json:"input"`
	Output TablesStorage `json:"output"`
}

// Config is the content of <data>/config.json.
type Config struct {
	Parameters      map[string]any `json:"parameters"`
	ImageParameters map[string]any `json:"image_parameters"`
	Action          string         `json:"action"`
	Storage         Storage        `json:"storage"`
}

const DefaultAction = "run"

func (c Config) ActionName() string {
	if c.Action == "" {
		return DefaultAction
	}
	return c.Action
}

// Debug reports whether the `debug` parameter is set to true.
func (c Config) Debug() bool {
	debug, _ := c.Parameters["debug"].(bool)
	return debug
}

func missingKeys(values map[string]any, required []string) []string {
	var missing []string
	for _, key := range required {
		if _, ok := values[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// ValidateParameters fails with a *UserError listing every required
// parameter that is missing.
func (c Config) ValidateParameters(required ...string) error {
	missing := missingKeys(c.Parameters, required)
	if len(missing) > 0 {
		return NewUserError("missing required configuration parameters: [%s]", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateImageParameters is ValidateParameters for image_parameters.
func (c Config) ValidateImageParameters(required ...string) error {
	missing := missingKeys(c.ImageParameters, required)
	if len(missing) > 0 {
		return NewUserError("missing required image parameters: [%s]", strings.Join(missing, ", "))
	}
	return nil
}

// DecodeParameters decodes the parameters into `out` using its json tags.
func (c Config) DecodeParameters(out any) error {
	raw, err := json.Marshal(c.Parameters)
	if err != nil {
		return err
	}
	err = json.Unmarshal(raw, out)
	if err != nil {
		return WrapUserError(err, "invalid configuration parameters")
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("action=%s parameters=%d input_tables=%d", c.ActionName(), len(c.Parameters), len(c.Storage.Input.Tables))
}
