package component

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Manifest is the sidecar file (<table>.manifest) describing a table.
type Manifest struct {
	Id          string   `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Destination string   `json:"destination,omitempty"`
	Incremental bool     `json:"incremental"`
	PrimaryKey  []string `json:"primary_key"`
	Columns     []string `json:"columns,omitempty"`
	Delimiter   string   `json:"delimiter,omitempty"`
	Enclosure   string   `json:"enclosure,omitempty"`
}

type TableDefinition struct {
	Name     string
	FullPath string
	Manifest Manifest
}

func (t TableDefinition) ManifestPath() string {
	return t.FullPath + ".manifest"
}

func readManifest(path string) (Manifest, bool, error) {
	buff, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Manifest{}, false, nil
	}
	if err != nil {
		return Manifest{}, false, err
	}
	var manifest Manifest
	err = json.Unmarshal(buff, &manifest)
	if err != nil {
		return Manifest{}, false, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return manifest, true, nil
}

// InputTables lists the CSV tables in in/tables ordered by name. Tables
// listed in the storage mapping come first, in mapping order.
func (ci *Interface) InputTables() ([]TableDefinition, error) {
	dir := ci.TablesInPath()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	rank := map[string]int{}
	for i, mapping := range ci.Config.Storage.Input.Tables {
		if mapping.Destination != "" {
			rank[mapping.Destination] = i
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		if iok && jok {
			return ri < rj
		}
		return iok && !jok
	})

	tables := make([]TableDefinition, 0, len(names))
	for _, name := range names {
		def := TableDefinition{
			Name:     name,
			FullPath: filepath.Join(dir, name),
		}
		manifest, _, err := readManifest(def.ManifestPath())
		if err != nil {
			return nil, err
		}
		def.Manifest = manifest
		tables = append(tables, def)
	}
	return tables, nil
}

// CreateOutTableDefinition describes a table to be written to out/tables.
// The output directory is created if needed.
func (ci *Interface) CreateOutTableDefinition(name string, incremental bool, primaryKey []string) (TableDefinition, error) {
	err := os.MkdirAll(ci.TablesOutPath(), 0755)
	if err != nil {
		return TableDefinition{}, err
	}
	if primaryKey == nil {
		primaryKey = []string{}
	}
	return TableDefinition{
		Name:     name,
		FullPath: filepath.Join(ci.TablesOutPath(), name),
		Manifest: Manifest{
			Incremental: incremental,
			PrimaryKey:  primaryKey,
			Delimiter:   ",",
			Enclosure:   `"`,
		},
	}, nil
}

func (ci *Interface) WriteManifest(table TableDefinition) error {
	buff, err := json.MarshalIndent(table.Manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(table.ManifestPath(), buff, 0644)
}
