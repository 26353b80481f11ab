package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/qsort_viz/src/session"
)

const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

const defaultConfigPath = "./local/qsviz.toml"

type RuntimeConfig struct {
	Mode       string
	RemoteAddr string
	ArraySize  int
	MinValue   float64
	MaxValue   float64
	Speed      time.Duration
	Seed       uint64
	HasSeed    bool
	Input      string // literal values from --input
	InputFile  string
	Play       bool // non-interactive: print every step and exit
	Color      bool
	ConfigPath string
}

func defaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Mode:       ModeLocal,
		ArraySize:  session.DefaultArraySize,
		MinValue:   session.DefaultMinValue,
		MaxValue:   session.DefaultMaxValue,
		Speed:      session.DefaultSpeed,
		Color:      true,
		ConfigPath: defaultConfigPath,
	}
}

var defaultRuntimeConfig = defaultConfig()

// FileConfig mirrors the optional TOML config file. Unset keys keep the
// defaults.
type FileConfig struct {
	ArraySize *int     `toml:"array_size"`
	MinValue  *float64 `toml:"min_value"`
	MaxValue  *float64 `toml:"max_value"`
	SpeedMS   *int64   `toml:"speed_ms"`
	Seed      *uint64  `toml:"seed"`
	TraceAddr string   `toml:"trace_addr"`
}

// loadFileConfig reads path. A missing file is not an error.
func loadFileConfig(path string) (FileConfig, bool, error) {
	var fc FileConfig
	if path == "" {
		return fc, false, nil
	}
	meta, err := toml.DecodeFile(path, &fc)
	if errors.Is(err, fs.ErrNotExist) {
		return fc, false, nil
	}
	if err != nil {
		return fc, false, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fc, true, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return fc, true, nil
}

func (fc FileConfig) apply(cfg RuntimeConfig) RuntimeConfig {
	if fc.ArraySize != nil {
		cfg.ArraySize = *fc.ArraySize
	}
	if fc.MinValue != nil {
		cfg.MinValue = *fc.MinValue
	}
	if fc.MaxValue != nil {
		cfg.MaxValue = *fc.MaxValue
	}
	if fc.SpeedMS != nil {
		cfg.Speed = time.Duration(*fc.SpeedMS) * time.Millisecond
	}
	if fc.Seed != nil {
		cfg.Seed, cfg.HasSeed = *fc.Seed, true
	}
	if fc.TraceAddr != "" {
		cfg.RemoteAddr = fc.TraceAddr
	}
	return cfg
}

const CONFIG_FLAG = "--config"
const SIZE_FLAG = "--size"
const SPEED_FLAG = "--speed"
const SEED_FLAG = "--seed"
const INPUT_FLAG = "--input"
const INPUT_FILE_FLAG = "--input-file"
const REMOTE_FLAG = "--remote"
const PLAY_FLAG = "--play"
const NO_COLOR_FLAG = "--no-color"

// valueFlags take an argument, either as the next arg or after '='.
var valueFlags = []string{CONFIG_FLAG, SIZE_FLAG, SPEED_FLAG, SEED_FLAG, INPUT_FLAG, INPUT_FILE_FLAG, REMOTE_FLAG}

// configPathFromArgs finds --config before the full parse so the file can be
// layered under the remaining flags.
func configPathFromArgs(args []string, fallback string) string {
	path := fallback
	for i := 0; i < len(args); i++ {
		if args[i] == CONFIG_FLAG && i+1 < len(args) {
			path = strings.TrimSpace(args[i+1])
			i++
			continue
		}
		if after, ok := strings.CutPrefix(args[i], CONFIG_FLAG+"="); ok {
			path = strings.TrimSpace(after)
		}
	}
	return path
}

func parseCLI(args []string, cfg RuntimeConfig) (RuntimeConfig, error) {
	runtimeCfg := cfg
	modeProvided := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case PLAY_FLAG:
			runtimeCfg.Play = true
			continue
		case NO_COLOR_FLAG:
			runtimeCfg.Color = false
			continue
		}

		name, value, matched := "", "", false
		for _, flag := range valueFlags {
			if arg == flag {
				if i+1 >= len(args) {
					return runtimeCfg, fmt.Errorf("missing value after %q", flag)
				}
				i++
				name, value, matched = flag, strings.TrimSpace(args[i]), true
				break
			}
			if after, ok := strings.CutPrefix(arg, flag+"="); ok {
				name, value, matched = flag, strings.TrimSpace(after), true
				break
			}
		}
		if matched {
			if err := applyFlag(&runtimeCfg, name, value); err != nil {
				return runtimeCfg, err
			}
			if name == REMOTE_FLAG && !modeProvided {
				runtimeCfg.Mode = ModeRemote
			}
			continue
		}

		normalized := strings.ToLower(strings.TrimSpace(arg))
		switch normalized {
		case ModeLocal, ModeRemote:
			if modeProvided {
				return runtimeCfg, fmt.Errorf("multiple modes provided: %q", arg)
			}
			runtimeCfg.Mode = normalized
			modeProvided = true
		default:
			return runtimeCfg, fmt.Errorf("unsupported argument %q", arg)
		}
	}

	if runtimeCfg.Mode == ModeRemote && runtimeCfg.RemoteAddr == "" {
		return runtimeCfg, fmt.Errorf("remote mode requires %s ADDR or trace_addr in %s", REMOTE_FLAG, runtimeCfg.ConfigPath)
	}
	if runtimeCfg.Input != "" && runtimeCfg.InputFile != "" {
		return runtimeCfg, fmt.Errorf("%s and %s are mutually exclusive", INPUT_FLAG, INPUT_FILE_FLAG)
	}
	if runtimeCfg.MinValue > runtimeCfg.MaxValue {
		return runtimeCfg, fmt.Errorf("min_value %g is greater than max_value %g", runtimeCfg.MinValue, runtimeCfg.MaxValue)
	}
	runtimeCfg.Speed = session.ClampSpeed(runtimeCfg.Speed)

	return runtimeCfg, nil
}

func applyFlag(cfg *RuntimeConfig, name, value string) error {
	switch name {
	case CONFIG_FLAG:
		cfg.ConfigPath = value
	case SIZE_FLAG:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", SIZE_FLAG, value, err)
		}
		if n < 1 || n > session.MaxArraySize {
			return fmt.Errorf("%s must be in [1, %d]", SIZE_FLAG, session.MaxArraySize)
		}
		cfg.ArraySize = n
	case SPEED_FLAG:
		d, err := parseSpeed(value)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", SPEED_FLAG, value, err)
		}
		cfg.Speed = d
	case SEED_FLAG:
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", SEED_FLAG, value, err)
		}
		cfg.Seed, cfg.HasSeed = seed, true
	case INPUT_FLAG:
		cfg.Input = value
	case INPUT_FILE_FLAG:
		cfg.InputFile = value
	case REMOTE_FLAG:
		if value == "" {
			return fmt.Errorf("%s requires an address", REMOTE_FLAG)
		}
		cfg.RemoteAddr = value
	}
	return nil
}

// parseSpeed accepts a Go duration ("250ms", "1s") or bare milliseconds.
func parseSpeed(value string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(value)
}

func printUsage(cfg RuntimeConfig) {
	fmt.Printf("Usage: go run ./cmd/visualizer [local|remote] [%s N] [%s DUR] [%s N] [%s VALUES | %s PATH] [%s ADDR] [%s] [%s] [%s PATH]\n",
		SIZE_FLAG,
		SPEED_FLAG,
		SEED_FLAG,
		INPUT_FLAG,
		INPUT_FILE_FLAG,
		REMOTE_FLAG,
		PLAY_FLAG,
		NO_COLOR_FLAG,
		CONFIG_FLAG,
	)
	fmt.Printf("No mode defaults to %q; remote mode sorts on a trace server.\n", cfg.Mode)
	fmt.Printf("Generated arrays default to %d values in [%g, %g].\n", cfg.ArraySize, cfg.MinValue, cfg.MaxValue)
	fmt.Printf("Playback speed defaults to %s, clamped to [%s, %s].\n", cfg.Speed, session.MinSpeed, session.MaxSpeed)
	fmt.Printf("Settings are read from %s when present; flags override them.\n", cfg.ConfigPath)
	fmt.Printf("%s plays every step to stdout and exits.\n", PLAY_FLAG)
}
