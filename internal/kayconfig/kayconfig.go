// Package kayconfig resolves process/VM tuning knobs from environment
// variables with flag overrides, the shape go-probe's gprobeConfig/
// makeConfigNode split uses (defaults, then environment, then explicit
// flags win) but scaled down to the handful of knobs a single-process
// REPL actually needs — no TOML file, no node.Config-sized struct.
package kayconfig

import (
	"flag"
	"os"
	"strconv"

	"github.com/keiv-fly/kayton-go/internal/kayerr"
)

// Config is every knob the CLI and harness read at startup.
type Config struct {
	// ScratchDir is the parent directory kayharness compiles units under.
	ScratchDir string
	// PluginDir is read from env and flags and validated, but cmd/kayton
	// does not pass it to the harness: load_plugin(name) looks for
	// "<name>.so" under ScratchDir/plugins.
	PluginDir string
	// GoBin is read from env and flags, but cmd/kayton does not pass it to
	// the harness, which always uses the "go" binary found on PATH.
	GoBin string
	// NoColor disables fatih/color output regardless of terminal
	// detection, matching a user's NO_COLOR convention.
	NoColor bool
}

const (
	envScratchDir = "KAYTON_SCRATCH_DIR"
	envPluginDir  = "KAYTON_PLUGIN_DIR"
	envGoBin      = "KAYTON_GO_BIN"
	envNoColor    = "KAYTON_NO_COLOR"
)

// Default returns the built-in defaults before env or flags are applied.
func Default() Config {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return Config{
		ScratchDir: dir + "/kayton",
		PluginDir:  dir + "/kayton/plugins",
		GoBin:      "",
		NoColor:    false,
	}
}

// FromEnv overlays environment variables onto a base Config, returning a
// copy. Unset variables leave the base value untouched.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := os.LookupEnv(envScratchDir); ok {
		cfg.ScratchDir = v
	}
	if v, ok := os.LookupEnv(envPluginDir); ok {
		cfg.PluginDir = v
	}
	if v, ok := os.LookupEnv(envGoBin); ok {
		cfg.GoBin = v
	}
	if v, ok := os.LookupEnv(envNoColor); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			cfg.NoColor = b
		}
	}
	return cfg
}

// RegisterFlags binds cfg's fields onto fs, so a caller can parse
// os.Args and have flags win over both defaults and environment. fs is
// taken as a parameter (rather than flag.CommandLine) so cmd/kayton can
// build one FlagSet per subcommand.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&cfg.ScratchDir, "scratch-dir", cfg.ScratchDir, "directory compiled units are built under")
	fs.StringVar(&cfg.PluginDir, "plugin-dir", cfg.PluginDir, "directory load_plugin(name) resolves names against")
	fs.StringVar(&cfg.GoBin, "go-bin", cfg.GoBin, "path to the go toolchain binary (default: $PATH)")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable coloured diagnostic output")
}

// Validate rejects a config the harness could not possibly run with.
func (cfg Config) Validate() error {
	if cfg.ScratchDir == "" {
		return kayerr.New(kayerr.Generic, "scratch dir must not be empty")
	}
	if cfg.PluginDir == "" {
		return kayerr.New(kayerr.Generic, "plugin dir must not be empty")
	}
	return nil
}

// Load resolves defaults, then environment, then flags parsed from args
// (without the leading program name), in that precedence order.
func Load(args []string) (Config, error) {
	cfg := FromEnv(Default())
	fs := flag.NewFlagSet("kayton", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, kayerr.Wrap(kayerr.Generic, err, "parsing flags")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
