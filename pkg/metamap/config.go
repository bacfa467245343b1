package metamap

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix, e.g. METAMAP_REFERENCE_SHEET
// or METAMAP_LOG_LEVEL.
const envPrefix = "METAMAP"

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"reference":  "reference_sheet",
	"workers":    "workers",
	"cache-size": "cache_size",
	"marker":     "unmatched_marker",
	"exclude":    "excluded_sheets",
	"log-format": "log.format",
	"log-level":  "log.level",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper, o Options) {
	v.SetDefault("reference_sheet", o.ReferenceSheet)
	v.SetDefault("smiles_columns", o.SmilesColumns)
	v.SetDefault("formula_column", o.FormulaColumn)
	v.SetDefault("name_column", o.NameColumn)
	v.SetDefault("reference_formula_column", o.ReferenceFormulaColumn)
	v.SetDefault("reference_name_column", o.ReferenceNameColumn)
	v.SetDefault("unmatched_marker", o.UnmatchedMarker)
	v.SetDefault("excluded_sheets", o.ExcludedSheets)
	v.SetDefault("create_backup", o.CreateBackup)
	v.SetDefault("backup_suffix", o.BackupSuffix)
	v.SetDefault("output", o.Output)
	v.SetDefault("output_suffix", o.OutputSuffix)
	v.SetDefault("workers", o.Workers)
	v.SetDefault("cache_size", o.CacheSize)
	v.SetDefault("min_formula_success_rate", o.MinFormulaSuccessRate)
	v.SetDefault("min_mapping_rate", o.MinMappingRate)
	v.SetDefault("log.level", o.Log.Level)
	v.SetDefault("log.format", o.Log.Format)
	v.SetDefault("log.output_paths", o.Log.OutputPaths)
}

// LoadOptions resolves the run options. Later sources win: defaults, the YAML
// file at configPath (optional), METAMAP_* environment variables, then flags
// explicitly set on the command line. The result is validated.
func LoadOptions(configPath string, flags *pflag.FlagSet) (Options, error) {
	v := newViper()
	setDefaults(v, DefaultOptions())

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Options{}, fmt.Errorf("config: failed to bind flag %q: %w", name, err)
				}
			}
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	if flags != nil {
		if noBackup, err := flags.GetBool("no-backup"); err == nil && noBackup {
			opts.CreateBackup = false
		}
		if verbose, err := flags.GetBool("verbose"); err == nil && verbose {
			opts.Log.Level = "debug"
		}
	}

	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("config: validation failed: %w", err)
	}
	return opts, nil
}
