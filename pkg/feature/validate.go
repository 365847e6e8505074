package feature

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/dmitrymomot/forgekit/pkg/validator"
)

const MaxSlugLength = 64

var (
	slugPattern   = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)
	envKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
)

// ValidSlug reports whether s can be used as a feature or module slug.
func ValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}

// Validate checks a feature record. Failures match ErrInvalidFeature and
// carry validator.ValidationErrors.
func (f Feature) Validate() error {
	rules := []validator.Rule{
		validator.Required("slug", f.Slug),
		validator.MaxLen("slug", f.Slug, MaxSlugLength),
		validator.Matches("slug", f.Slug, slugPattern, "slug"),
		validator.Required("name", f.Name),
		validator.NonNegative("price", f.Price),
		validator.Unique("requires", f.Requires),
		validator.Unique("conflicts", f.Conflicts),
		validator.NotContains("conflicts", f.Conflicts, f.Slug),
	}
	if f.Tier != nil {
		rules = append(rules, validator.OneOf("tier", *f.Tier, Tiers))
	}
	for i, r := range f.Requires {
		rules = append(rules, validator.Matches(fmt.Sprintf("requires[%d]", i), r, slugPattern, "slug"))
	}
	for i, c := range f.Conflicts {
		rules = append(rules, validator.Matches(fmt.Sprintf("conflicts[%d]", i), c, slugPattern, "slug"))
	}
	for i, p := range f.NPMPackages {
		field := fmt.Sprintf("npm_packages[%d]", i)
		rules = append(rules,
			validator.Required(field+".name", p.Name),
			validator.ValidUTF8(field+".name", p.Name),
			validator.Required(field+".version", p.Version),
			validator.ValidUTF8(field+".version", p.Version),
		)
	}
	for i, m := range f.FileMappings {
		field := fmt.Sprintf("file_mappings[%d]", i)
		rules = append(rules,
			validator.RelativePath(field+".source", m.Source),
			validator.RelativePath(field+".destination", m.Destination),
		)
	}
	for i, m := range f.SchemaMappings {
		field := fmt.Sprintf("schema_mappings[%d]", i)
		rules = append(rules,
			validator.Required(field+".model", m.Model),
			validator.Required(field+".fragment", m.Fragment),
		)
	}
	for i, v := range f.EnvVars {
		rules = append(rules, validator.Matches(fmt.Sprintf("env_vars[%d].key", i), v.Key, envKeyPattern, "environment variable name"))
	}

	if err := validator.Apply(rules...); err != nil {
		return errors.Join(ErrInvalidFeature, err)
	}
	return nil
}

// Validate checks a module record. Failures match ErrInvalidModule.
func (m Module) Validate() error {
	err := validator.Apply(
		validator.Required("slug", m.Slug),
		validator.MaxLen("slug", m.Slug, MaxSlugLength),
		validator.Matches("slug", m.Slug, slugPattern, "slug"),
		validator.Required("name", m.Name),
		validator.NonNegative("display_order", m.DisplayOrder),
	)
	if err != nil {
		return errors.Join(ErrInvalidModule, err)
	}
	return nil
}
