// Command keyboard is an action plugin that types the recognised letter, or
// sends a keystroke, on macOS (AppleScript) and Linux (xdotool).
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/ayusman/kalam/internal/plugin"
)

// TypeConfig is the per-binding config of the type action.
type TypeConfig struct {
	Uppercase bool   `json:"uppercase"`
	Suffix    string `json:"suffix"`
}

// KeystrokeParams defines parameters for keystroke and shortcut actions.
type KeystrokeParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

// appleModifiers maps user-friendly modifier names to AppleScript equivalents.
var appleModifiers = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

// xdoModifiers maps the same names to xdotool key names.
var xdoModifiers = map[string]string{
	"command": "super",
	"cmd":     "super",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}
	writeResponse(handle(&req, runtime.GOOS, run))
}

// handle builds the command for req on goos and passes it to exec.
func handle(req *plugin.Request, goos string, exec func(name string, args ...string) error) error {
	var cmd []string
	var err error

	switch req.Action {
	case "type":
		var text string
		if text, err = typedText(req); err == nil {
			cmd, err = typeCommand(goos, text)
		}
	case "keystroke", "shortcut":
		var p KeystrokeParams
		if err = json.Unmarshal(req.Params, &p); err != nil {
			return fmt.Errorf("failed to parse params: %w", err)
		}
		if p.Key == "" {
			return fmt.Errorf("key is required")
		}
		cmd, err = keystrokeCommand(goos, p.Key, p.Modifiers)
	default:
		return fmt.Errorf("unknown action: %s", req.Action)
	}
	if err != nil {
		return fmt.Errorf("action %s failed: %w", req.Action, err)
	}
	return exec(cmd[0], cmd[1:]...)
}

// typedText returns the text the type action should produce.
func typedText(req *plugin.Request) (string, error) {
	if req.Letter == "" {
		return "", fmt.Errorf("letter is required")
	}

	var cfg TypeConfig
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return "", fmt.Errorf("failed to parse config: %w", err)
		}
	}

	text := req.Letter
	if cfg.Uppercase {
		text = strings.ToUpper(text)
	}
	return text + cfg.Suffix, nil
}

func typeCommand(goos, text string) ([]string, error) {
	switch goos {
	case "darwin":
		return []string{"osascript", "-e",
			fmt.Sprintf(`tell application "System Events" to keystroke %q`, text)}, nil
	case "linux":
		return []string{"xdotool", "type", "--", text}, nil
	}
	return nil, fmt.Errorf("unsupported platform %s", goos)
}

func keystrokeCommand(goos, key string, modifiers []string) ([]string, error) {
	switch goos {
	case "darwin":
		var mods []string
		for _, mod := range modifiers {
			if m, ok := appleModifiers[strings.ToLower(mod)]; ok {
				mods = append(mods, m)
			}
		}
		script := fmt.Sprintf(`tell application "System Events" to keystroke %q`, key)
		if len(mods) > 0 {
			script += fmt.Sprintf(" using {%s}", strings.Join(mods, ", "))
		}
		return []string{"osascript", "-e", script}, nil
	case "linux":
		combo := []string{}
		for _, mod := range modifiers {
			if m, ok := xdoModifiers[strings.ToLower(mod)]; ok {
				combo = append(combo, m)
			}
		}
		combo = append(combo, key)
		return []string{"xdotool", "key", strings.Join(combo, "+")}, nil
	}
	return nil, fmt.Errorf("unsupported platform %s", goos)
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func writeResponse(err error) {
	resp := plugin.Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
