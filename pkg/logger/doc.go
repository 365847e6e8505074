// Package logger builds log/slog loggers for ForgeKit services and tools.
//
// New applies functional options over JSON-at-info defaults and wraps the
// handler in a LogHandlerDecorator, which copies request-scoped values from
// the context onto every record:
//
//	log := logger.New(
//		logger.WithEnvironment("production", "forgekit"),
//		logger.WithContextValue("composition_id", compose.IDContextKey{}),
//	)
//	log.InfoContext(ctx, "composition completed", logger.Target("backend"), logger.Duration(d))
//
// Attribute helpers (Target, Project, Features, Package, Conflict, Error and
// friends) keep key names consistent across packages.
package logger
