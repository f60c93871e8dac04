package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects the progress view of the lower command.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var uiModes = map[string]uiMode{
	"":     uiModeAuto,
	"auto": uiModeAuto,
	"on":   uiModeOn,
	"off":  uiModeOff,
}

func readUIMode(value string) (uiMode, error) {
	if m, ok := uiModes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI reports whether the batch view replaces plain output. In
// auto mode a single unit never gets it.
func shouldUseTUI(mode uiMode, files int) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return files > 1 && isTerminal(os.Stdout)
}
