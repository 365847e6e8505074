// Package cli implements the forgekit command line tool.
//
// Commands:
//
//	forgekit compose   compose a package.json for a feature selection
//	forgekit check     print the compatibility report of a selection
//	forgekit features  list catalog features
//	forgekit catalog   migrate or import the PostgreSQL catalog
//
// Configuration comes from FORGE_* and PG_* environment variables, optionally
// loaded from dotenv files given with --env-file.
package cli
