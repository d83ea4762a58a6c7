package taskfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/hdl-tools/logical/internal/model"
)

// hclTaskfile is the top-level structure of a tasks.hcl file:
//
//	default = "all"
//
//	target "test" {
//	  description = "Run the race detector"
//	  command     = ["go", "test", "-race", "./..."]
//	  env         = { CGO_ENABLED = 1 }
//	}
type hclTaskfile struct {
	Default string       `hcl:"default,optional"`
	Targets []*hclTarget `hcl:"target,block"`
}

type hclTarget struct {
	Name        string    `hcl:"name,label"`
	Description string    `hcl:"description,optional"`
	Command     []string  `hcl:"command,optional"`
	Deps        []string  `hcl:"deps,optional"`
	Effects     string    `hcl:"effects,optional"`
	Env         cty.Value `hcl:"env,optional"`
}

func parseHCL(data []byte, path string) (*model.Taskfile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var parsed hclTaskfile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	tf := model.NewTaskfile()
	tf.Default = parsed.Default
	for _, ht := range parsed.Targets {
		if _, dup := tf.Targets[ht.Name]; dup {
			return nil, fmt.Errorf("%s: target %q is defined twice", path, ht.Name)
		}
		effect, err := model.ParseEffect(ht.Effects)
		if err != nil {
			return nil, fmt.Errorf("%s: target %q: %w", path, ht.Name, err)
		}
		env, err := stringMap(ht.Env)
		if err != nil {
			return nil, fmt.Errorf("%s: target %q: env: %w", path, ht.Name, err)
		}
		tf.Add(&model.Target{
			Name:        ht.Name,
			Description: ht.Description,
			Command:     ht.Command,
			Deps:        ht.Deps,
			Env:         env,
			Effects:     effect,
		})
	}
	return tf, nil
}

// stringMap converts an HCL object or map into environment variables.
// Numbers and bools are converted to their string form.
func stringMap(v cty.Value) (map[string]string, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value must be known at load time")
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", ty.FriendlyName())
	}

	out := make(map[string]string, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		if ev.IsNull() {
			return nil, fmt.Errorf("%s: value must not be null", k.AsString())
		}
		sv, err := convert.Convert(ev, cty.String)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.AsString(), err)
		}
		out[k.AsString()] = sv.AsString()
	}
	return out, nil
}
