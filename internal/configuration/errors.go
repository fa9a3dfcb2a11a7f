package configuration

import "errors"

var (
	errEmptySourceName     = errors.New("configuration: source name must not be empty")
	errEmptySourceDir      = errors.New("configuration: source dir must not be empty")
	errDuplicateName       = errors.New("configuration: duplicate source name")
	errNoSources           = errors.New("configuration: at least one source is required")
	errEmptyBackupRoot     = errors.New("configuration: backup_root_dir must not be empty")
	errEmptyVersionName    = errors.New("configuration: version_name must not be empty when versioned")
	errInvalidCompareChain = errors.New("configuration: compare_method chain is invalid")
)
