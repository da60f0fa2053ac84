package onboarding

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/moorebrett0/moodmeter/internal/config"
)

func TestRunWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moodmeter.yaml")
	in := strings.NewReader("Desk Cop\ny\n:9999\n123\nopenai\nGemini\n")
	var out bytes.Buffer

	ok, err := Run(in, &out, path)
	if err != nil || !ok {
		t.Fatalf("Run = %v, %v", ok, err)
	}
	if !strings.Contains(out.String(), "type claude, gemini") {
		t.Error("bad provider was not rejected")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Panel.Title != "Desk Cop" || !cfg.Web.Enabled || cfg.Web.Addr != ":9999" {
		t.Errorf("panel/web = %+v %+v", cfg.Panel, cfg.Web)
	}
	if cfg.Discord.ChannelID != "123" || cfg.AI.Provider != "gemini" {
		t.Errorf("discord/ai = %q %q", cfg.Discord.ChannelID, cfg.AI.Provider)
	}
}

func TestRunDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moodmeter.yaml")
	ok, err := Run(strings.NewReader("\n\n\n\n"), &bytes.Buffer{}, path)
	if err != nil || !ok {
		t.Fatalf("Run = %v, %v", ok, err)
	}
	data, _ := os.ReadFile(path)
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Panel.Title != "Performance Police" || cfg.Web.Enabled {
		t.Errorf("defaults not kept: %+v %+v", cfg.Panel, cfg.Web)
	}
}

func TestRunKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moodmeter.yaml")
	if err := os.WriteFile(path, []byte("web:\n  enabled: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ok, err := Run(strings.NewReader("x\n"), &bytes.Buffer{}, path)
	if err != nil || ok {
		t.Fatalf("Run = %v, %v", ok, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "web:\n  enabled: true\n" {
		t.Errorf("file rewritten: %q", data)
	}
}

func TestPrintStartup(t *testing.T) {
	var out bytes.Buffer
	PrintStartup(&out, []Check{{"monitor running", true}, {"discord connected", false}})
	got := out.String()
	if !strings.Contains(got, "✓ monitor running") || !strings.Contains(got, "✗ discord connected") {
		t.Errorf("checklist = %q", got)
	}
}
