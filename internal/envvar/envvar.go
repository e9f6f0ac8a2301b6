package envvar

const (
	// CascadeEnv is the environment variable used to determine the environment
	CascadeEnv = "CASCADE_ENV"

	// CascadeProjectDir is the environment variable used to override the project directory
	CascadeProjectDir = "CASCADE_PROJECT_DIR"

	// CascadeLogFile is the environment variable used to override the log file location
	CascadeLogFile = "CASCADE_LOG_FILE"
)
