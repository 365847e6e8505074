package logger

import (
	"log/slog"
	"time"
)

// Error returns an empty Attr for nil errors, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// CompositionID records the identifier of one composition request.
func CompositionID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("composition_id", id)
}

// Target records the template variant, e.g. "backend".
func Target(name string) slog.Attr {
	return slog.String("target", name)
}

func Project(name string) slog.Attr {
	return slog.String("project", name)
}

// Features records selected feature slugs.
func Features(slugs []string) slog.Attr {
	return slog.Any("features", slugs)
}

func Package(name string) slog.Attr {
	return slog.String("package", name)
}

// Conflict groups a resolved version clash.
func Conflict(pkg, selected string, alternatives, namespaces []string) slog.Attr {
	return slog.Group("conflict",
		slog.String("package", pkg),
		slog.String("selected", selected),
		slog.Any("alternatives", alternatives),
		slog.Any("namespaces", namespaces),
	)
}

// Feature records a single feature slug.
func Feature(slug string) slog.Attr {
	return slog.String("feature", slug)
}
