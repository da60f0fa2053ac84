package onboarding

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/moorebrett0/moodmeter/internal/config"
)

// Run asks a few questions on in and writes a config file to path. Returns
// false without prompting when path already exists.
func Run(in io.Reader, out io.Writer, path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "  %s already exists, leaving it alone.\n", path)
		return false, nil
	}

	cfg := config.Default()
	reader := bufio.NewReader(in)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  let's set up moodmeter. press enter to keep the default.")
	fmt.Fprintln(out)

	cfg.Panel.Title = ask(reader, out, "panel title", cfg.Panel.Title)

	if askYesNo(reader, out, "serve the mood to a browser?", false) {
		cfg.Web.Enabled = true
		cfg.Web.Addr = ask(reader, out, "listen address", cfg.Web.Addr)
	}

	cfg.Discord.ChannelID = ask(reader, out, "discord channel id (blank skips discord)", "")

	for {
		p := ask(reader, out, "ai provider (claude, gemini, blank auto-detects)", "")
		p = strings.ToLower(p)
		if p == "" || p == "claude" || p == "gemini" {
			cfg.AI.Provider = p
			break
		}
		fmt.Fprintln(out, "  hmm, type claude, gemini or leave it blank")
	}

	if err := config.Write(path, cfg); err != nil {
		return false, err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  wrote %s\n", path)
	if cfg.Discord.ChannelID != "" {
		fmt.Fprintln(out, "  put DISCORD_BOT_TOKEN in .env to turn discord on")
	}
	fmt.Fprintln(out, "  put ANTHROPIC_API_KEY or GOOGLE_API_KEY in .env for remarks")
	fmt.Fprintln(out)
	return true, nil
}

// Check is one line of the startup checklist.
type Check struct {
	Label string
	OK    bool
}

// PrintStartup prints the startup checklist.
func PrintStartup(out io.Writer, checks []Check) {
	fmt.Fprintln(out, "  starting up...")
	for _, c := range checks {
		mark := "✓"
		if !c.OK {
			mark = "✗"
		}
		fmt.Fprintf(out, "  %s %s\n", mark, c.Label)
	}
	fmt.Fprintln(out)
}

func ask(r *bufio.Reader, out io.Writer, prompt, def string) string {
	if def != "" {
		fmt.Fprintf(out, "  %s [%s]\n  > ", prompt, def)
	} else {
		fmt.Fprintf(out, "  %s\n  > ", prompt)
	}
	line, _ := r.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func askYesNo(r *bufio.Reader, out io.Writer, prompt string, def bool) bool {
	d := "n"
	if def {
		d = "y"
	}
	switch strings.ToLower(ask(r, out, prompt+" (y/n)", d)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}
