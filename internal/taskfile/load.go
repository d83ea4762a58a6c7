package taskfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/hdl-tools/logical/internal/model"
)

// Candidates lists the file names searched in the working directory, in
// order of preference.
var Candidates = []string{"tasks.yaml", "tasks.yml", "tasks.jsonc", "tasks.json", "tasks.hcl"}

// fileTarget is the on-disk shape of a target in YAML and JSON files.
// The target name is the map key.
type fileTarget struct {
	Description string            `json:"description" yaml:"description"`
	Command     []string          `json:"command" yaml:"command"`
	Deps        []string          `json:"deps" yaml:"deps"`
	Env         map[string]string `json:"env" yaml:"env"`
	Effects     string            `json:"effects" yaml:"effects"`
}

type fileTaskfile struct {
	Default string                 `json:"default" yaml:"default"`
	Targets map[string]*fileTarget `json:"targets" yaml:"targets"`
}

// Discover returns the first task file found in dir, or "" if there is
// none.
func Discover(dir string) (string, error) {
	for _, name := range Candidates {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return "", nil
}

// Load parses a task file. The format follows the extension: .yaml/.yml,
// .json/.jsonc (comments and trailing commas allowed) or .hcl.
// The result is not validated on its own; see Resolve.
func Load(path string) (*model.Taskfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return parseYAML(data, path)
	case ".json", ".jsonc":
		return parseJSONC(data, path)
	case ".hcl":
		return parseHCL(data, path)
	default:
		return nil, fmt.Errorf("unsupported task file format %q (valid: .yaml, .yml, .json, .jsonc, .hcl)", ext)
	}
}

func parseYAML(data []byte, path string) (*model.Taskfile, error) {
	var raw fileTaskfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return raw.toModel(path)
}

func parseJSONC(data []byte, path string) (*model.Taskfile, error) {
	// jsonc.ToJSON strips comments and trailing commas so that the
	// standard decoder can handle the rest.
	var raw fileTaskfile
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return raw.toModel(path)
}

func (f *fileTaskfile) toModel(path string) (*model.Taskfile, error) {
	tf := model.NewTaskfile()
	tf.Default = f.Default
	for name, ft := range f.Targets {
		if ft == nil {
			return nil, fmt.Errorf("%s: target %q has no body", path, name)
		}
		effect, err := model.ParseEffect(ft.Effects)
		if err != nil {
			return nil, fmt.Errorf("%s: target %q: %w", path, name, err)
		}
		tf.Add(&model.Target{
			Name:        name,
			Description: ft.Description,
			Command:     ft.Command,
			Deps:        ft.Deps,
			Env:         ft.Env,
			Effects:     effect,
		})
	}
	return tf, nil
}

// Resolve returns the built-in targets overlaid with the task file in dir
// (or explicit, when set) and validated as a whole. The second result is
// the path of the file used, or "" for built-ins only.
func Resolve(dir, explicit string) (*model.Taskfile, string, error) {
	tf := Builtin()

	path := explicit
	if path == "" {
		found, err := Discover(dir)
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	if path != "" {
		override, err := Load(path)
		if err != nil {
			return nil, path, err
		}
		tf.Merge(override)
	}

	if err := tf.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid task set: %w", err)
	}
	return tf, path, nil
}
