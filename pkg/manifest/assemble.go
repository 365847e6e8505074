package manifest

import (
	"maps"
	"slices"
)

// DefaultPlatform is the label appended to generated project descriptions.
const DefaultPlatform = "ForgeKit"

// DefaultScripts are added to a generated manifest when the base lacks them.
var DefaultScripts = Scripts{
	{Name: "dev", Command: "tsx watch src/index.ts"},
	{Name: "build", Command: "tsc -p tsconfig.json"},
	{Name: "start", Command: "node dist/index.js"},
	{Name: "lint", Command: "eslint . --ext .ts,.tsx"},
	{Name: "db:migrate", Command: "prisma migrate dev"},
	{Name: "db:push", Command: "prisma db push"},
	{Name: "db:generate", Command: "prisma generate"},
	{Name: "db:seed", Command: "prisma db seed"},
}

// Assembly is the output of Assemble.
type Assembly struct {
	Manifest *Manifest `json:"-"`
	// AddedDependencies lists runtime packages absent from the base manifest.
	AddedDependencies []string `json:"addedDependencies"`
	// AddedDevDependencies lists dev packages absent from the base manifest.
	AddedDevDependencies []string `json:"addedDevDependencies"`
	// AddedScripts lists default scripts filled in because the base lacked them.
	AddedScripts []string `json:"addedScripts"`
}

// AssembleOption configures Assemble.
type AssembleOption func(*assembleOptions)

type assembleOptions struct {
	platform string
	scripts  Scripts
}

// WithPlatform overrides the platform label used in the description.
// Empty labels are ignored.
func WithPlatform(label string) AssembleOption {
	return func(o *assembleOptions) {
		if label != "" {
			o.platform = label
		}
	}
}

// WithDefaultScripts replaces the default script table.
func WithDefaultScripts(scripts Scripts) AssembleOption {
	return func(o *assembleOptions) {
		o.scripts = slices.Clone(scripts)
	}
}

// Assemble builds the final manifest for projectName from base and a merge
// result. base is not modified; a nil base is treated as an empty manifest.
//
// Passthrough fields and the version are copied verbatim. The name is replaced
// with projectName and the description is set to
// "<projectName> - Generated by <platform>". Existing scripts are never
// overwritten; missing defaults are appended in table order.
func Assemble(base *Manifest, projectName string, merged MergeResult, opts ...AssembleOption) Assembly {
	o := &assembleOptions{platform: DefaultPlatform, scripts: DefaultScripts}
	for _, opt := range opts {
		opt(o)
	}

	if base == nil {
		base = &Manifest{}
	}

	out := base.Clone()
	out.Name = projectName
	out.Description = projectName + " - Generated by " + o.platform
	out.Dependencies = cloneDeps(merged.Dependencies)
	out.DevDependencies = cloneDeps(merged.DevDependencies)

	scripts, added := mergeScripts(base.Scripts, o.scripts)
	out.Scripts = scripts

	return Assembly{
		Manifest:             out,
		AddedDependencies:    addedKeys(base.Dependencies, out.Dependencies),
		AddedDevDependencies: addedKeys(base.DevDependencies, out.DevDependencies),
		AddedScripts:         added,
	}
}

// mergeScripts appends every default whose name is absent from base.
func mergeScripts(base, defaults Scripts) (Scripts, []string) {
	out := slices.Clone(base)
	if out == nil {
		out = Scripts{}
	}
	added := []string{}
	for _, d := range defaults {
		if out.Has(d.Name) {
			continue
		}
		out = append(out, d)
		added = append(added, d.Name)
	}
	return out, added
}

// addedKeys returns keys of merged missing from base, in ordinal order.
func addedKeys(base, merged map[string]string) []string {
	added := []string{}
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		if _, ok := base[k]; !ok {
			added = append(added, k)
		}
	}
	return added
}
