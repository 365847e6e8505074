package compose

import "github.com/dmitrymomot/forgekit/pkg/feature"

// FileContribution is a file mapping declared by a feature.
type FileContribution struct {
	Feature string `json:"feature"`
	feature.FileMapping
}

// SchemaContribution is a schema fragment declared by a feature.
type SchemaContribution struct {
	Feature string `json:"feature"`
	feature.SchemaMapping
}

// EnvContribution is an environment variable declared by a feature.
type EnvContribution struct {
	Feature string `json:"feature"`
	feature.EnvVar
}

// FileConflict reports two features writing different sources to one
// destination. The first declaration is kept.
type FileConflict struct {
	Destination string           `json:"destination"`
	Kept        FileContribution `json:"kept"`
	Dropped     FileContribution `json:"dropped"`
}

// EnvConflict reports an environment key declared with different defaults.
// The first declaration is kept.
type EnvConflict struct {
	Key     string          `json:"key"`
	Kept    EnvContribution `json:"kept"`
	Dropped EnvContribution `json:"dropped"`
}

// Contributions collects the non-dependency declarations of the selected
// features. Nothing is executed; callers scaffold from this list.
type Contributions struct {
	Files         []FileContribution   `json:"files"`
	Schemas       []SchemaContribution `json:"schemas"`
	EnvVars       []EnvContribution    `json:"envVars"`
	FileConflicts []FileConflict       `json:"fileConflicts"`
	EnvConflicts  []EnvConflict        `json:"envConflicts"`
}

// HasConflicts reports whether any file or env declaration was dropped.
func (c Contributions) HasConflicts() bool {
	return len(c.FileConflicts) > 0 || len(c.EnvConflicts) > 0
}

// Aggregate walks features in selection order and declarations in declared
// order. Identical repeats collapse silently. An env var stays required if
// any declaration requires it.
func Aggregate(features []feature.Feature) Contributions {
	out := Contributions{
		Files:         []FileContribution{},
		Schemas:       []SchemaContribution{},
		EnvVars:       []EnvContribution{},
		FileConflicts: []FileConflict{},
		EnvConflicts:  []EnvConflict{},
	}

	files := make(map[string]int)
	envs := make(map[string]int)
	schemas := make(map[feature.SchemaMapping]struct{})

	for _, f := range features {
		for _, m := range f.FileMappings {
			c := FileContribution{Feature: f.Slug, FileMapping: m}
			i, ok := files[m.Destination]
			if !ok {
				files[m.Destination] = len(out.Files)
				out.Files = append(out.Files, c)
				continue
			}
			if kept := out.Files[i]; kept.Source != m.Source || kept.Transform != m.Transform {
				out.FileConflicts = append(out.FileConflicts, FileConflict{
					Destination: m.Destination,
					Kept:        kept,
					Dropped:     c,
				})
			}
		}

		for _, s := range f.SchemaMappings {
			if _, ok := schemas[s]; ok {
				continue
			}
			schemas[s] = struct{}{}
			out.Schemas = append(out.Schemas, SchemaContribution{Feature: f.Slug, SchemaMapping: s})
		}

		for _, v := range f.EnvVars {
			c := EnvContribution{Feature: f.Slug, EnvVar: v}
			i, ok := envs[v.Key]
			if !ok {
				envs[v.Key] = len(out.EnvVars)
				out.EnvVars = append(out.EnvVars, c)
				continue
			}
			if v.Required {
				out.EnvVars[i].Required = true
			}
			if kept := out.EnvVars[i]; kept.Default != v.Default {
				out.EnvConflicts = append(out.EnvConflicts, EnvConflict{
					Key:     v.Key,
					Kept:    kept,
					Dropped: c,
				})
			}
		}
	}

	return out
}
