package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/danmuck/qsort_viz/cmd/internal/logcfg"
	logs "github.com/danmuck/smplog"
)

func main() {
	logs.Configure(logcfg.Load())

	cfg, err := loadRuntimeConfig(os.Args[1:])
	if err != nil {
		fmt.Printf("Error: %v\n\n", err)
		printUsage(defaultRuntimeConfig)
		os.Exit(1)
	}

	v := newVisualizer(&cfg, os.Stdout)
	values, source, err := v.initialValues()
	if err != nil {
		logs.Fatalf(err, "Failed to prepare input")
	}
	if err := v.load(values); err != nil {
		logs.Fatalf(err, "Failed to sort %s array", source)
	}
	logs.Printf("Loaded %s array: %d values, %d steps.\n", source, len(values), v.sess.Len())

	if cfg.Play || !isInteractiveReader(os.Stdin) {
		v.playAll()
		return
	}

	if err := runInteractiveSession(v, os.Stdin); err != nil {
		logs.Fatalf(err, "Interactive session failed")
	}
}

// loadRuntimeConfig layers defaults, the TOML file and CLI flags, in that order.
func loadRuntimeConfig(args []string) (RuntimeConfig, error) {
	base := defaultConfig()
	base.ConfigPath = configPathFromArgs(args, base.ConfigPath)

	fc, found, err := loadFileConfig(base.ConfigPath)
	if err != nil {
		return base, err
	}
	if found {
		logs.Debugf("loaded runtime config from %s", base.ConfigPath)
		base = fc.apply(base)
	}
	return parseCLI(args, base)
}

func runInteractiveSession(v *visualizer, input io.Reader) error {
	reader := getBufferedReader(input)
	clearTerminalIfInteractive(input)
	v.show()

	for {
		action, err := promptAction(reader, v.cfg)
		if errors.Is(err, errMenuExit) {
			logs.Println("Exited visualizer.")
			return nil
		}
		if err != nil {
			return err
		}

		clearTerminalIfInteractive(input)
		err = executeAction(v, action, reader)
		if errors.Is(err, errMenuBack) {
			v.show()
			continue
		}
		if err != nil {
			logs.Printf("\nAction %q failed: %v\n", action, err)
		}
	}
}

func executeAction(v *visualizer, action MenuAction, reader *bufio.Reader) error {
	switch action {
	case ActionNext:
		if !v.sess.Next() {
			logs.StatusWarn("Already at the last step.")
			logs.Printf("\n")
		}
		v.show()
	case ActionPrev:
		if !v.sess.Prev() {
			logs.StatusWarn("Already at the first step.")
			logs.Printf("\n")
		}
		v.show()
	case ActionFirst:
		v.sess.First()
		v.show()
	case ActionLast:
		v.sess.Last()
		v.show()
	case ActionShow:
		v.show()
	case ActionStats:
		v.printStats()
	case ActionPlay:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := v.play(ctx); err != nil {
			return err
		}
	case ActionGenerate:
		values, err := v.generate()
		if err != nil {
			return err
		}
		if err := v.load(values); err != nil {
			return err
		}
		v.show()
	case ActionInput:
		values, err := promptValues(reader)
		if err != nil {
			return err
		}
		if err := v.load(values); err != nil {
			return err
		}
		v.show()
	case ActionSpeed:
		raw, err := promptSpeed(reader, v.cfg.Speed.String())
		if err != nil {
			return err
		}
		d, err := parseSpeed(raw)
		if err != nil {
			return fmt.Errorf("invalid speed %q: %w", raw, err)
		}
		logs.Printf("Playback delay set to %s.\n", v.setSpeed(d))
	case ActionMode:
		prevMode, prevAddr := v.cfg.Mode, v.cfg.RemoteAddr
		if err := handleModeToggle(reader, v.cfg); err != nil {
			return err
		}
		// re-sort the current input under the new mode
		if err := v.load(v.sess.Input()); err != nil {
			v.cfg.Mode, v.cfg.RemoteAddr = prevMode, prevAddr
			return err
		}
		v.show()
	default:
		return fmt.Errorf("unsupported action: %s", action)
	}
	return nil
}

func clearTerminalIfInteractive(input io.Reader) {
	if !isInteractiveReader(input) {
		return
	}
	fmt.Print("\033[H\033[2J")
}
