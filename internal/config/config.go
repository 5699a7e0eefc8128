package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Keymap struct {
	Normal map[string]string `toml:"normal"`
	Insert map[string]string `toml:"insert"`
}

type EditorOptions struct {
	TabWidth    int    `toml:"tab-width"`
	LineNumbers string `toml:"line-numbers"`
	FoldSymbol  string `toml:"fold-symbol"`
}

type Theme struct {
	Foreground                 string `toml:"foreground"`
	Background                 string `toml:"background"`
	StatuslineForeground       string `toml:"statusline-foreground"`
	StatuslineBackground       string `toml:"statusline-background"`
	LineNumberForeground       string `toml:"line-number-foreground"`
	LineNumberActiveForeground string `toml:"line-number-active-foreground"`
	SelectionForeground        string `toml:"selection-foreground"`
	SelectionBackground        string `toml:"selection-background"`
	FoldMarkerForeground       string `toml:"fold-marker-foreground"`
	FoldMarkerBackground       string `toml:"fold-marker-background"`
	SecondaryCursorForeground  string `toml:"secondary-cursor-foreground"`
	SecondaryCursorBackground  string `toml:"secondary-cursor-background"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:    4,
			LineNumbers: "absolute",
			FoldSymbol:  "…",
		},
		Theme: Theme{
			Foreground:                 "#B3B1AD",
			Background:                 "#0A0E14",
			StatuslineForeground:       "#B3B1AD",
			StatuslineBackground:       "#0F1419",
			LineNumberForeground:       "#3E4B59",
			LineNumberActiveForeground: "#B3B1AD",
			SelectionForeground:        "#B3B1AD",
			SelectionBackground:        "#27425A",
			FoldMarkerForeground:       "#E6B450",
			FoldMarkerBackground:       "#0A0E14",
			SecondaryCursorForeground:  "#0A0E14",
			SecondaryCursorBackground:  "#E6B450",
		},
		Keymap: Keymap{
			Normal: map[string]string{
				"h":         "move_left",
				"j":         "move_down",
				"k":         "move_up",
				"l":         "move_right",
				"left":      "move_left",
				"down":      "move_down",
				"up":        "move_up",
				"right":     "move_right",
				"home":      "line_start",
				"end":       "line_end",
				"i":         "enter_insert",
				"za":        "toggle_fold",
				"ctrl+d":    "add_cursor_below",
				"ctrl+u":    "add_cursor_above",
				"esc":       "clear_cursors",
				"ctrl+l":    "toggle_line_numbers",
				"x":         "delete_char",
				"backspace": "backspace",
				"ctrl+s":    "save",
				"ctrl+c":    "quit",
			},
			Insert: map[string]string{
				"esc":       "enter_normal",
				"left":      "move_left",
				"down":      "move_down",
				"up":        "move_up",
				"right":     "move_right",
				"home":      "line_start",
				"end":       "line_end",
				"backspace": "backspace",
				"enter":     "newline",
				"tab":       "indent",
				"ctrl+s":    "save",
			},
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.LineNumbers != "" {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	if userCfg.Editor.FoldSymbol != "" {
		cfg.Editor.FoldSymbol = userCfg.Editor.FoldSymbol
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap.Normal {
		cfg.Keymap.Normal[k] = v
	}
	for k, v := range userCfg.Keymap.Insert {
		cfg.Keymap.Insert[k] = v
	}
	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.StatuslineForeground != "" {
		dst.StatuslineForeground = src.StatuslineForeground
	}
	if src.StatuslineBackground != "" {
		dst.StatuslineBackground = src.StatuslineBackground
	}
	if src.LineNumberForeground != "" {
		dst.LineNumberForeground = src.LineNumberForeground
	}
	if src.LineNumberActiveForeground != "" {
		dst.LineNumberActiveForeground = src.LineNumberActiveForeground
	}
	if src.SelectionForeground != "" {
		dst.SelectionForeground = src.SelectionForeground
	}
	if src.SelectionBackground != "" {
		dst.SelectionBackground = src.SelectionBackground
	}
	if src.FoldMarkerForeground != "" {
		dst.FoldMarkerForeground = src.FoldMarkerForeground
	}
	if src.FoldMarkerBackground != "" {
		dst.FoldMarkerBackground = src.FoldMarkerBackground
	}
	if src.SecondaryCursorForeground != "" {
		dst.SecondaryCursorForeground = src.SecondaryCursorForeground
	}
	if src.SecondaryCursorBackground != "" {
		dst.SecondaryCursorBackground = src.SecondaryCursorBackground
	}
}

func ConfigDir() (string, error) {
	if v := os.Getenv("VEDIT_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "vedit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vedit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
