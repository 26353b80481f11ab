package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/qsort_viz/src/session"
	"github.com/danmuck/qsort_viz/src/sorter"
	logs "github.com/danmuck/smplog"
)

type MenuAction string

const (
	ActionGenerate MenuAction = "generate"
	ActionInput    MenuAction = "input"
	ActionNext     MenuAction = "next"
	ActionPrev     MenuAction = "prev"
	ActionFirst    MenuAction = "first"
	ActionLast     MenuAction = "last"
	ActionPlay     MenuAction = "play"
	ActionSpeed    MenuAction = "speed"
	ActionShow     MenuAction = "show"
	ActionStats    MenuAction = "stats"
	ActionMode     MenuAction = "mode"
)

var errMenuBack = errors.New("menu back")
var errMenuExit = errors.New("menu exit")

func isInteractiveInput(r *os.File) bool {
	info, err := r.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func isInteractiveReader(input io.Reader) bool {
	file, ok := input.(*os.File)
	if !ok {
		// Non-file readers (e.g. buffered wrappers) are treated as interactive.
		return true
	}
	return isInteractiveInput(file)
}

func getBufferedReader(input io.Reader) *bufio.Reader {
	if reader, ok := input.(*bufio.Reader); ok {
		return reader
	}
	return bufio.NewReader(input)
}

// parseAction maps a menu choice to an action. An empty line steps forward.
func parseAction(choice string) (MenuAction, error) {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "", string(ActionNext), "n":
		return ActionNext, nil
	case string(ActionPrev), "p", "b":
		return ActionPrev, nil
	case string(ActionFirst), "f", "0":
		return ActionFirst, nil
	case string(ActionLast), "l", "$":
		return ActionLast, nil
	case string(ActionGenerate), "g", "gen":
		return ActionGenerate, nil
	case string(ActionInput), "i":
		return ActionInput, nil
	case string(ActionPlay), "pl":
		return ActionPlay, nil
	case string(ActionSpeed), "sp":
		return ActionSpeed, nil
	case string(ActionShow), "s":
		return ActionShow, nil
	case string(ActionStats), "st", "stat":
		return ActionStats, nil
	case string(ActionMode), "m":
		return ActionMode, nil
	case "e", "exit", "q", "quit":
		return "", errMenuExit
	}
	return "", fmt.Errorf("invalid action %q", choice)
}

func printMenu(cfg *RuntimeConfig) {
	modeLabel := cfg.Mode
	if cfg.Mode == ModeRemote {
		modeLabel = fmt.Sprintf("remote @ %s", cfg.RemoteAddr)
	}
	logs.Printf("\n")
	logs.Titlef("--[ qsort_viz | %s | %s ]--\n\n", modeLabel, cfg.Speed)
	logs.Menuf("  next 		(step forward, default)\n")
	logs.Menuf("  prev 		(step back)\n")
	logs.Menuf("  first / last 	(jump to either end)\n")
	logs.Menuf("  play 		(auto-advance, Ctrl+C stops)\n")
	logs.Printf("\n")
	logs.Menuf("  generate 	(new random array)\n")
	logs.Menuf("  input 	(enter your own values)\n")
	logs.Menuf("  speed 	(set playback delay)\n")
	logs.Printf("\n")
	logs.Menuf("  show 		(redraw current step)\n")
	logs.Menuf("  stats 	(trace summary)\n")
	logs.Menuf("  mode 		(toggle local / remote)\n")
	logs.Menuf("  exit\n")
	logs.Printf("\n")
	logs.DividerRune(0, '=')
}

func printActionHints() {
	logs.Divider(0)
	logs.Printf("\n")
	logs.KeyHint("n, enter", "next — step forward")
	logs.Printf("\n")
	logs.KeyHint("p, b", "prev — step back")
	logs.Printf("\n")
	logs.KeyHint("f, 0 / l, $", "first / last")
	logs.Printf("\n")
	logs.KeyHint("pl", "play — auto-advance to the end")
	logs.Printf("\n")
	logs.KeyHint("g, gen", "generate — new random array")
	logs.Printf("\n")
	logs.KeyHint("i", "input — enter your own values")
	logs.Printf("\n")
	logs.KeyHint("sp", "speed — playback delay")
	logs.Printf("\n")
	logs.KeyHint("s / st", "show / stats")
	logs.Printf("\n")
	logs.KeyHint("m", "mode — toggle local / remote")
	logs.Printf("\n")
	logs.KeyHint("e, q", "exit — quit")
	logs.Printf("\n")
}

func promptAction(reader *bufio.Reader, cfg *RuntimeConfig) (MenuAction, error) {
	for {
		printMenu(cfg)
		logs.Promptf("\nChoose action (default: %s): ", ActionNext)

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && strings.TrimSpace(line) == "" {
				return "", errMenuExit
			}
			if err != io.EOF {
				return "", fmt.Errorf("failed to read action: %w", err)
			}
		}

		action, err := parseAction(line)
		if errors.Is(err, errMenuExit) {
			return "", err
		}
		if err != nil {
			logs.Printf("%v.\n\n", err)
			printActionHints()
			continue
		}
		return action, nil
	}
}

// promptValues reads a list of numbers. Rejected input is reported and
// re-prompted; 'e' or EOF goes back.
func promptValues(reader *bufio.Reader) ([]float64, error) {
	for {
		logs.Prompt("\nEnter values separated by commas or spaces ('e' to go back): ")
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			if err == io.EOF {
				return nil, errMenuBack
			}
			return nil, fmt.Errorf("read values: %w", err)
		}
		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "e") {
			return nil, errMenuBack
		}
		values, parseErr := sorter.ParseValues(line)
		if parseErr != nil {
			logs.StatusWarn(parseErr.Error())
			logs.Printf("\n")
			continue
		}
		return values, nil
	}
}

// promptSpeed reads a playback delay such as "250ms", "1s" or "300".
func promptSpeed(reader *bufio.Reader, current string) (string, error) {
	logs.Promptf("\nPlayback delay %s-%s (current: %s, 'e' to go back): ", session.MinSpeed, session.MaxSpeed, current)
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
		if err == io.EOF {
			return "", errMenuBack
		}
		return "", fmt.Errorf("read speed: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" || strings.EqualFold(line, "e") {
		return "", errMenuBack
	}
	return line, nil
}

// promptRemoteAddress asks for a trace server address, offering the
// configured one as the default.
func promptRemoteAddress(reader *bufio.Reader, cfg RuntimeConfig) (string, error) {
	if cfg.RemoteAddr != "" {
		logs.Promptf("\nTrace server address (default: %s, 'e' to go back): ", cfg.RemoteAddr)
	} else {
		logs.Prompt("\nTrace server address (host:port, 'e' to go back): ")
	}
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
		if err == io.EOF {
			return "", errMenuBack
		}
		return "", fmt.Errorf("read remote address: %w", err)
	}
	addr := strings.TrimSpace(line)
	if strings.EqualFold(addr, "e") {
		return "", errMenuBack
	}
	if addr == "" {
		if cfg.RemoteAddr == "" {
			return "", errMenuBack
		}
		return cfg.RemoteAddr, nil
	}
	return addr, nil
}

// handleModeToggle switches between ModeLocal and ModeRemote.
func handleModeToggle(reader *bufio.Reader, cfg *RuntimeConfig) error {
	if cfg.Mode == ModeRemote {
		cfg.Mode = ModeLocal
		logs.Println("Switched to local mode.")
		return nil
	}
	addr, err := promptRemoteAddress(reader, *cfg)
	if err != nil {
		return err
	}
	cfg.Mode = ModeRemote
	cfg.RemoteAddr = addr
	logs.Printf("Switched to remote mode @ %s\n", addr)
	return nil
}
