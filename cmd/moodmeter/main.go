package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/moorebrett0/moodmeter/internal/config"
	"github.com/moorebrett0/moodmeter/internal/discord"
	"github.com/moorebrett0/moodmeter/internal/logging"
	"github.com/moorebrett0/moodmeter/internal/monitor"
	"github.com/moorebrett0/moodmeter/internal/mood"
	"github.com/moorebrett0/moodmeter/internal/narrator"
	"github.com/moorebrett0/moodmeter/internal/onboarding"
	"github.com/moorebrett0/moodmeter/internal/panel"
	"github.com/moorebrett0/moodmeter/internal/surface"
	"github.com/moorebrett0/moodmeter/internal/web"
)

var (
	configPath string
	headless   bool
)

var rootCmd = &cobra.Command{
	Use:   "moodmeter",
	Short: "A status panel that turns CPU, memory, disk, network and battery load into a mood",
	Long: `moodmeter samples host resource usage every few seconds, picks the mood
that matches the busiest resource, and shows it in a terminal panel. It can
also mirror the mood to Discord and to a browser over WebSocket.`,
	SilenceUsage: true,
	RunE:         runWidget,
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Take one sample, print the mood and exit",
	RunE:  runOnce,
}

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Print the mood table",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := mood.NewClassifier(mood.DefaultTable)
		if err != nil {
			return err
		}
		printTiers(cmd.OutOrStdout(), c)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := onboarding.Run(cmd.InOrStdin(), cmd.OutOrStdout(), configPath)
		return err
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML config file")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run without the terminal panel (web/discord/log only)")

	rootCmd.AddCommand(onceCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runWidget(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The panel owns the terminal, so console logging only runs headless.
	var console io.Writer
	if headless {
		console = os.Stderr
	}
	closeLog := setupLogging(cfg, console)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	classifier, err := mood.NewClassifier(mood.DefaultTable)
	if err != nil {
		return err
	}

	var (
		surfaces surface.Fanout
		p        *panel.Panel
	)
	if headless {
		surfaces = append(surfaces, surface.Func(logUpdate))
	} else {
		p = panel.NewPanel(panel.New(cfg.Panel.Title, cfg.Panel.Tick), tea.WithAltScreen(), tea.WithContext(ctx))
		surfaces = append(surfaces, p)
	}

	if cfg.Web.Enabled {
		srv := web.New(cfg.Web.Addr)
		surfaces = append(surfaces, srv)
		go func() {
			if err := srv.Run(ctx); err != nil {
				slog.Error("web: server stopped", "err", err)
			}
		}()
	}

	if cfg.Discord.Enabled() {
		bot, err := discord.NewBot(cfg.Discord.BotToken, cfg.Discord.ChannelID, cfg.Discord.AlertCooldown)
		if err != nil {
			return err
		}
		surfaces = append(surfaces, bot)
		go bot.Start(ctx)
	}

	var nar surface.Narrator
	if n := narrator.New(ctx, narratorConfig(cfg)); n != nil {
		nar = n
	}

	pipeline := surface.NewPipeline(classifier, nar, surfaces)
	sampler := monitor.NewSampler(monitor.HostSource(), samplerOptions(cfg))
	mon := monitor.New(sampler, cfg.Monitor.Interval, cfg.Monitor.Backoff, pipeline.Handle)
	go mon.Run(ctx)

	attrs := []any{"interval", cfg.Monitor.Interval, "web", cfg.Web.Enabled, "discord", cfg.Discord.Enabled()}
	if h, err := monitor.DescribeHost(ctx); err == nil {
		attrs = append(attrs, "host", h.Hostname, "platform", h.Platform)
	}
	slog.Info("moodmeter: started", attrs...)

	if p == nil {
		onboarding.PrintStartup(cmd.OutOrStdout(), []onboarding.Check{
			{Label: "monitor running", OK: true},
			{Label: "web serving " + cfg.Web.Addr, OK: cfg.Web.Enabled},
			{Label: "discord enabled", OK: cfg.Discord.Enabled()},
			{Label: "remarks enabled", OK: nar != nil},
		})
		<-ctx.Done()
		return nil
	}

	err = p.Run()
	stop()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	closeLog := setupLogging(cfg, os.Stderr)
	defer closeLog()

	sampler := monitor.NewSampler(monitor.HostSource(), samplerOptions(cfg))
	s, err := sampler.Sample(cmd.Context())
	if err != nil {
		return err
	}
	res := mood.Classify(s)

	out := cmd.OutOrStdout()
	if h, err := monitor.DescribeHost(cmd.Context()); err == nil {
		fmt.Fprintf(out, "host: %s\n", h)
	} else {
		slog.Debug("once: host info unavailable", "err", err)
	}
	fmt.Fprintln(out, res.String())
	fmt.Fprintf(out, "category: %s (%.1f%%)  animation: %s\n", res.Category, res.Value, res.Hint)
	fmt.Fprintln(out, monitor.FormatSample(s))
	return nil
}

func printTiers(w io.Writer, c *mood.Classifier) {
	for _, cat := range mood.Categories {
		fmt.Fprintf(w, "%s\n", cat)
		for _, t := range c.Tiers(cat) {
			fmt.Fprintf(w, "  %5.0f  %s %s\n", t.Threshold, t.Emoji, t.Message)
		}
	}
}

func logUpdate(u surface.Update) {
	attrs := []any{
		"category", u.Result.Category,
		"message", u.Result.Tier.Message,
		"hint", u.Result.Hint,
		"cpu", u.Sample.CPU, "ram", u.Sample.RAM, "disk", u.Sample.Disk,
		"network", u.Sample.Network, "battery", u.Sample.Battery,
	}
	if u.Remark != "" {
		attrs = append(attrs, "remark", u.Remark)
	}
	slog.Info("mood", attrs...)
}

func setupLogging(cfg *config.Config, console io.Writer) func() error {
	return logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    console,
	})
}

func samplerOptions(cfg *config.Config) monitor.Options {
	return monitor.Options{
		CPUWindow:     cfg.Monitor.CPUWindow,
		DiskPaths:     cfg.Monitor.DiskPaths,
		NetworkWindow: cfg.Monitor.NetworkWindow,
		NetworkScale:  cfg.Monitor.NetworkScale,
	}
}

func narratorConfig(cfg *config.Config) narrator.Config {
	return narrator.Config{
		ClaudeAPIKey: cfg.Claude.APIKey,
		ClaudeModel:  cfg.Claude.Model,
		GeminiAPIKey: cfg.Gemini.APIKey,
		GeminiModel:  cfg.Gemini.Model,
		Provider:     cfg.AI.Provider,
		MaxTokens:    cfg.AI.MaxTokens,
		Timeout:      cfg.AI.Timeout,
		RateLimit:    cfg.AI.RateLimit,
		RateWindow:   cfg.AI.RateWindow,
	}
}
