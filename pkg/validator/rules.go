package validator

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Required fails when value is empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{Field: field, Message: "field is required", Code: "validation.required"},
	}
}

func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) <= max
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
			Code:    "validation.max_length",
		},
	}
}

// Matches fails when value is empty or does not match re.
func Matches(field, value string, re *regexp.Regexp, description string) Rule {
	return Rule{
		Check: func() bool {
			return value != "" && re.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be a valid %s", description),
			Code:    "validation.pattern",
		},
	}
}

// ValidUTF8 fails when value is not valid UTF-8.
func ValidUTF8(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return utf8.ValidString(value)
		},
		Error: ValidationError{Field: field, Message: "must be valid UTF-8", Code: "validation.utf8"},
	}
}

func NonNegative[T ~int | ~int32 | ~int64 | ~float64](field string, value T) Rule {
	return Rule{
		Check: func() bool {
			return value >= 0
		},
		Error: ValidationError{Field: field, Message: "must not be negative", Code: "validation.non_negative"},
	}
}

func OneOf[T comparable](field string, value T, options []T) Rule {
	return Rule{
		Check: func() bool {
			for _, o := range options {
				if value == o {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %v", options),
			Code:    "validation.one_of",
		},
	}
}

// Unique fails when values contains duplicates.
func Unique(field string, values []string) Rule {
	return Rule{
		Check: func() bool {
			seen := make(map[string]struct{}, len(values))
			for _, v := range values {
				if _, ok := seen[v]; ok {
					return false
				}
				seen[v] = struct{}{}
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "must not contain duplicates", Code: "validation.unique"},
	}
}

// NotContains fails when values contains v.
func NotContains(field string, values []string, v string) Rule {
	return Rule{
		Check: func() bool {
			for _, x := range values {
				if x == v {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not reference %q", v),
			Code:    "validation.not_contains",
		},
	}
}

// RelativePath fails for empty, absolute or parent-escaping slash paths.
func RelativePath(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" || strings.HasPrefix(value, "/") || strings.Contains(value, "\\") {
				return false
			}
			clean := path.Clean(value)
			return clean != ".." && !strings.HasPrefix(clean, "../")
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a relative path inside the project",
			Code:    "validation.relative_path",
		},
	}
}
