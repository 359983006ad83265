package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/inkwell/internal/app"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantDone bool
		wantCode int
		check    func(options) bool
	}{
		{"defaults", nil, false, 0, func(o options) bool { return o.file == "" && !o.preview }},
		{"file and script", []string{"-f", "a.txt", "-script", "s.json"}, false, 0, func(o options) bool {
			return o.file == "a.txt" && o.scriptPath == "s.json"
		}},
		{"positional file", []string{"notes.txt"}, false, 0, func(o options) bool { return o.file == "notes.txt" }},
		{"size", []string{"-width", "300", "-height", "90"}, false, 0, func(o options) bool {
			return o.width == 300 && o.height == 90
		}},
		{"version", []string{"-version"}, true, 0, nil},
		{"help", []string{"-h"}, true, 0, nil},
		{"bad flag", []string{"-nope"}, true, 2, nil},
		{"bad level", []string{"-log-level", "loud"}, true, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			opts, code, done := parseFlags(tt.args, &stdout, &stderr)
			if done != tt.wantDone || code != tt.wantCode {
				t.Fatalf("parseFlags() = code %d done %v, want %d %v", code, done, tt.wantCode, tt.wantDone)
			}
			if tt.check != nil && !tt.check(opts) {
				t.Errorf("parseFlags() = %+v", opts)
			}
		})
	}
}

func TestVersionOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	parseFlags([]string{"-v"}, &stdout, &stderr)
	if !strings.HasPrefix(stdout.String(), "inkwell dev") {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkwell.toml")
	if err := os.WriteFile(path, []byte("[layout]\nwidth = 100\nheight = 50\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(options{configPath: path, width: 250})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Layout.Width != 250 || cfg.Layout.Height != 50 {
		t.Errorf("layout = %dx%d, want 250x50", cfg.Layout.Width, cfg.Layout.Height)
	}
}

func TestApplyScriptWidthOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edit.json")
	src := `{"text": "Hello World", "width": 60, "ops": [{"op": "select", "anchor": 11, "active": 11}]}`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	application, err := app.New(app.Options{})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	defer application.Close()
	_, height := application.Document().Size()

	if err := applyScript(application, path); err != nil {
		t.Fatalf("applyScript() error = %v", err)
	}
	w, h := application.Document().Size()
	if w != 60 || h != height {
		t.Errorf("Size() = %dx%d, want 60x%d", w, h, height)
	}
	segs, _ := application.Document().Segments()
	if got := segs.Lines(); got != 2 {
		t.Errorf("Lines() = %d, want 2", got)
	}
}
