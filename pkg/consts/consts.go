package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultConfigFile is the optional gatekeeper config read from the repo root
	DefaultConfigFile = "gatekeeper.yaml"

	// DefaultFrameworkConfig is the migration framework's own config file, used
	// to locate the migrations directory
	DefaultFrameworkConfig = "migrate.ini"

	// DefaultGeneratorBin is the migration CLI used to derive SQL for a revision range
	DefaultGeneratorBin = "migrate"

	// DefaultLinterBin is the SQL linter candidate files are piped through
	DefaultLinterBin = "squawk"

	// EnvDatabaseURL is the connection string variable the generator reads
	EnvDatabaseURL = "DATABASE_URL"

	// PlaceholderDSN is injected when EnvDatabaseURL is unset. The generator only
	// plans SQL, it never connects, but it refuses to start without a DSN.
	PlaceholderDSN = "postgresql://localhost:5432/postgres"

	// VersionsDir is the subdirectory of script_location holding migration files
	VersionsDir = "versions"
)
