package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"

	"github.com/liuxd6825/srcmapaudit/cmd/state"
	"github.com/liuxd6825/srcmapaudit/errext"
	"github.com/liuxd6825/srcmapaudit/errext/exitcodes"
	"github.com/liuxd6825/srcmapaudit/internal/audit/i18n"
	"github.com/liuxd6825/srcmapaudit/internal/report"
	"github.com/liuxd6825/srcmapaudit/lib/artifacts"
	"github.com/liuxd6825/srcmapaudit/lib/fsext"
)

// Config is the configuration of the check command. Every field can come from
// the config file, the environment or the CLI flags, in increasing priority.
type Config struct {
	Format       null.String `json:"format" envconfig:"SRCMAPAUDIT_FORMAT"`
	Output       null.String `json:"output" envconfig:"SRCMAPAUDIT_OUTPUT"`
	Locale       null.String `json:"locale" envconfig:"SRCMAPAUDIT_LOCALE"`
	ArtifactPath null.String `json:"artifactPath" envconfig:"SRCMAPAUDIT_ARTIFACT_PATH"`
	Audits       []string    `json:"audits" envconfig:"SRCMAPAUDIT_AUDITS"`
	NoFail       null.Bool   `json:"noFail" envconfig:"SRCMAPAUDIT_NO_FAIL"`
}

// stdioPath stands for stdin as an input and stdout as an output.
const stdioPath = "-"

func defaultConfig() Config {
	return Config{
		Format:       null.NewString(report.FormatText, false),
		Output:       null.NewString(stdioPath, false),
		Locale:       null.NewString(i18n.DefaultLocale, false),
		ArtifactPath: null.NewString(artifacts.DefaultSourceMapsPath, false),
		NoFail:       null.NewBool(false, false),
	}
}

// Apply the provided config on top of the current one, returning a new one.
// The provided config has priority over the current one, if a field is set.
func (c Config) Apply(cfg Config) Config {
	if cfg.Format.Valid {
		c.Format = cfg.Format
	}
	if cfg.Output.Valid {
		c.Output = cfg.Output
	}
	if cfg.Locale.Valid {
		c.Locale = cfg.Locale
	}
	if cfg.ArtifactPath.Valid {
		c.ArtifactPath = cfg.ArtifactPath
	}
	if len(cfg.Audits) > 0 {
		c.Audits = cfg.Audits
	}
	if cfg.NoFail.Valid {
		c.NoFail = cfg.NoFail
	}
	return c
}

// Validate checks the consolidated config.
func (c Config) Validate() error {
	var errs []error
	if _, err := report.New(c.Format.String, report.Options{}); err != nil {
		errs = append(errs, err)
	}
	if c.Output.String == "" {
		errs = append(errs, errors.New("output must not be empty, use - for stdout"))
	}
	for _, a := range c.Audits {
		if strings.TrimSpace(a) == "" {
			errs = append(errs, errors.New("audit ids must not be empty"))
			break
		}
	}
	return errors.Join(errs...)
}

func configFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringP("format", "f", report.FormatText,
		fmt.Sprintf("report `format`, one of %v", report.Formats()))
	flags.StringP("output", "o", stdioPath, "write the report to this `file` instead of stdout")
	flags.String("locale", i18n.DefaultLocale, "`locale` of titles and column labels")
	flags.String("artifact-path", artifacts.DefaultSourceMapsPath,
		"gjson `path` of the source map entries inside an artifacts object")
	flags.StringSlice("audit", nil, "only run the audit with this `id`, can be repeated")
	flags.Bool("no-fail", false, "exit with 0 even when some audits fail")
	return flags
}

// getConfig gets the configuration from the CLI flags.
func getConfig(flags *pflag.FlagSet) (Config, error) {
	audits, err := flags.GetStringSlice("audit")
	if err != nil {
		return Config{}, err
	}
	return Config{
		Format:       getNullString(flags, "format"),
		Output:       getNullString(flags, "output"),
		Locale:       getNullString(flags, "locale"),
		ArtifactPath: getNullString(flags, "artifact-path"),
		Audits:       audits,
		NoFail:       getNullBool(flags, "no-fail"),
	}, nil
}

// readDiskConfig reads the config file. A missing file is not an error
// unless its path was explicitly changed.
func readDiskConfig(gs *state.GlobalState) (Config, error) {
	path := gs.Flags.ConfigFilePath
	if cwd, err := gs.Getwd(); err == nil {
		path = fsext.Abs(cwd, path)
	}

	exists, err := fsext.Exists(gs.FS, path)
	if err != nil {
		return Config{}, err
	}
	if !exists {
		if gs.Flags.ConfigFilePath != gs.DefaultFlags.ConfigFilePath {
			return Config{}, fmt.Errorf("config file %s does not exist", path)
		}
		gs.Logger.WithField("path", path).Debug("No config file found")
		return Config{}, nil
	}

	data, err := fsext.ReadFile(gs.FS, path)
	if err != nil {
		return Config{}, fmt.Errorf("couldn't read config file %s: %w", path, err)
	}
	if artifacts.FormatFromFilename(path) == artifacts.FormatYAML {
		if data, err = yamlToJSON(data); err != nil {
			return Config{}, fmt.Errorf("couldn't parse config file %s: %w", path, err)
		}
	}

	var conf Config
	if err := json.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("couldn't parse config file %s: %w", path, err)
	}
	gs.Logger.WithField("path", path).Debug("Loaded config file")
	return conf, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}

// readEnvConfig reads the configuration from the environment.
func readEnvConfig(env map[string]string) (Config, error) {
	conf := Config{}
	err := envconfig.Process("", &conf, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	return conf, err
}

// getConsolidatedConfig assembles the final config from, in increasing
// priority: defaults, the config file, the environment and the CLI flags.
func getConsolidatedConfig(gs *state.GlobalState, cliConf Config) (Config, error) {
	fileConf, err := readDiskConfig(gs)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	envConf, err := readEnvConfig(gs.Env)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	conf := defaultConfig().Apply(fileConf).Apply(envConf).Apply(cliConf)
	if err := conf.Validate(); err != nil {
		return Config{}, errext.WithExitCodeIfNone(
			errext.WithHint(err, "check the config file, the SRCMAPAUDIT_* environment variables and the flags"),
			exitcodes.InvalidConfig,
		)
	}
	return conf, nil
}
