// Package configuration implements the external configuration record
// consumed by internal/job, per spec.md §6's field table: strict YAML
// decoding, per-field validation, and default fallbacks for the fields
// the spec marks optional. Grounded on the teacher's
// pkg/synchronization/configuration.go, which separates a raw decoded
// struct from an EnsureValid pass applied once after load and once more
// after merging session defaults; this package collapses that to a
// single EnsureValid since there is no session/global split here.
package configuration

import (
	"fmt"

	"github.com/frontdown/frontdown/internal/comparator"
	"github.com/frontdown/frontdown/internal/decision"
	"github.com/frontdown/frontdown/internal/encoding"
	"github.com/frontdown/frontdown/internal/logging"
	"github.com/frontdown/frontdown/internal/plan"
)

// unlimited is the sentinel value for the two max-error fields meaning
// "never stop on errors of this kind".
const unlimited = -1

// Configuration is the closed, typed record spec.md §6 describes as
// "consumed, not defined" by the core pipeline. Unknown YAML keys are
// rejected by the strict decoder in Load.
type Configuration struct {
	Sources []Source `yaml:"sources"`

	BackupRootDir string    `yaml:"backup_root_dir"`
	Mode          plan.Mode `yaml:"mode"`

	Versioned             bool   `yaml:"versioned"`
	VersionName           string `yaml:"version_name"`
	CompareWithLastBackup bool   `yaml:"compare_with_last_backup"`
	CopyEmptyDirs         bool   `yaml:"copy_empty_dirs"`

	SaveActionfile bool `yaml:"save_actionfile"`
	OpenActionfile bool `yaml:"open_actionfile"`
	ApplyActions   bool `yaml:"apply_actions"`

	CompareMethod comparator.Chain `yaml:"compare_method"`

	SaveActionHTML           bool     `yaml:"save_actionhtml"`
	OpenActionHTML           bool     `yaml:"open_actionhtml"`
	ExcludeActionHTMLActions []string `yaml:"exclude_actionhtml_actions"`

	MaxScanningErrors int `yaml:"max_scanning_errors"`
	MaxBackupErrors   int `yaml:"max_backup_errors"`

	TargetDriveFullAction   decision.Policy `yaml:"target_drive_full_action"`
	SourceUnavailableAction decision.Policy `yaml:"source_unavailable_action"`

	LogLevel logging.Level `yaml:"log_level"`
}

// defaults returns a Configuration pre-populated with the fallbacks
// spec.md leaves implicit: a sensible comparator chain, unlimited error
// budgets turned into the documented -1 sentinel, and Abort as the safer
// default for both decision fields (never silently proceed on disk-full
// or a vanished source unless the operator opted in).
func defaults() Configuration {
	return Configuration{
		VersionName:             "%Y-%m-%d_%H-%M-%S",
		CompareMethod:           comparator.Chain{comparator.MethodModDate, comparator.MethodSize},
		MaxScanningErrors:       unlimited,
		MaxBackupErrors:         unlimited,
		TargetDriveFullAction:   decision.Abort,
		SourceUnavailableAction: decision.Abort,
		LogLevel:                logging.LevelInfo,
	}
}

// UnmarshalYAML applies defaults before decoding over them, so a
// configuration file that omits an optional field gets the documented
// fallback rather than Go's zero value (which for several fields here --
// empty string, 0 -- would be meaningfully wrong, e.g. max_backup_errors
// defaulting to "stop after zero errors").
func (c *Configuration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = defaults()
	type plain Configuration
	return unmarshal((*plain)(c))
}

// Load reads, strictly decodes, and validates a configuration file.
func Load(path string) (Configuration, error) {
	var c Configuration
	if err := encoding.LoadAndUnmarshalYAML(path, &c); err != nil {
		return Configuration{}, err
	}
	if err := c.EnsureValid(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

// EnsureValid checks cross-field invariants that a single field's own
// UnmarshalYAML cannot: non-empty source list, unique source names,
// mode-forced fields (hardlink forces versioned and
// compare_with_last_backup per spec.md §6), and rejection of the reserved
// "hash" compare method.
func (c *Configuration) EnsureValid() error {
	if len(c.Sources) == 0 {
		return errNoSources
	}
	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		if err := c.Sources[i].EnsureValid(); err != nil {
			return err
		}
		if seen[c.Sources[i].Name] {
			return fmt.Errorf("%w: %q", errDuplicateName, c.Sources[i].Name)
		}
		seen[c.Sources[i].Name] = true
	}

	if c.BackupRootDir == "" {
		return errEmptyBackupRoot
	}

	if !c.Mode.Valid() {
		return fmt.Errorf("configuration: mode %q is invalid", c.Mode)
	}

	if c.Mode == plan.ModeHardlink {
		c.Versioned = true
		c.CompareWithLastBackup = true
	}
	if c.Versioned && c.VersionName == "" {
		return errEmptyVersionName
	}

	for _, m := range c.CompareMethod {
		if m == comparator.MethodHash {
			return fmt.Errorf("%w: hash is not implemented", errInvalidCompareChain)
		}
	}

	if c.MaxScanningErrors < unlimited {
		return fmt.Errorf("configuration: max_scanning_errors must be -1 or >= 0")
	}
	if c.MaxBackupErrors < unlimited {
		return fmt.Errorf("configuration: max_backup_errors must be -1 or >= 0")
	}

	return nil
}

// ErrorBudgetExhausted reports whether count has exceeded limit, treating
// the unlimited sentinel as never exhausted.
func ErrorBudgetExhausted(count, limit int) bool {
	if limit == unlimited {
		return false
	}
	return count > limit
}
