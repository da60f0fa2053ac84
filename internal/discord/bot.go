package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/moorebrett0/moodmeter/internal/surface"
)

// Bot is a rendering surface that mirrors the mood into Discord presence and
// posts alerts to one channel.
type Bot struct {
	session   *discordgo.Session
	channelID string

	updates chan surface.Update
	latest  atomic.Pointer[surface.Update]
	notify  notifier
}

// NewBot creates and configures a Discord bot (does not connect yet).
func NewBot(token, channelID string, alertCooldown time.Duration) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("invalid bot token: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		session:   session,
		channelID: channelID,
		updates:   make(chan surface.Update, 1),
		notify:    notifier{cooldown: alertCooldown},
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteractionCreate)
	return b, nil
}

// Show queues u for the bot's loop, replacing any update not yet handled.
func (b *Bot) Show(u surface.Update) {
	b.latest.Store(&u)
	for {
		select {
		case b.updates <- u:
			return
		default:
		}
		select {
		case <-b.updates:
		default:
		}
	}
}

// Start opens the Discord connection, registers slash commands and handles
// updates. Blocks until context is cancelled.
func (b *Bot) Start(ctx context.Context) {
	if err := b.session.Open(); err != nil {
		slog.Error("discord: failed to open session", "err", err)
		return
	}
	slog.Info("discord: connected", "user", b.session.State.User.Username)

	b.registerCommands()

	for {
		select {
		case <-ctx.Done():
			slog.Info("discord: shutting down")
			b.session.Close()
			return
		case u := <-b.updates:
			b.handle(u)
		}
	}
}

func (b *Bot) handle(u surface.Update) {
	a := b.notify.decide(u, time.Now())
	if a.presence {
		b.UpdatePresence(hintToPresence(u.Result.Hint), u.Result.String())
	}
	if a.alert {
		b.SendMessage(b.channelID, TemplateAlert(u))
		b.SendEmbed(b.channelID, StatusEmbed(u))
	}
}

// SendMessage sends a text message to a channel.
func (b *Bot) SendMessage(channelID, text string) {
	if text == "" {
		return
	}
	if _, err := b.session.ChannelMessageSend(channelID, text); err != nil {
		slog.Error("discord: send message failed", "err", err)
	}
}

// SendEmbed sends an embed to a channel.
func (b *Bot) SendEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		slog.Error("discord: send embed failed", "err", err)
	}
}

// UpdatePresence sets the bot's Discord status line.
func (b *Bot) UpdatePresence(status, activity string) {
	err := b.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: status,
		Activities: []*discordgo.Activity{
			{
				Name:  activity,
				State: activity,
				Type:  discordgo.ActivityTypeCustom,
			},
		},
	})
	if err != nil {
		slog.Debug("discord: update presence failed", "err", err)
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("discord: ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.ApplicationCommandData().Name != "mood" {
		return
	}

	resp := &discordgo.InteractionResponseData{Content: "No readings yet, give me a few seconds."}
	if u := b.latest.Load(); u != nil {
		resp = &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{StatusEmbed(*u)}}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: resp,
	})
	if err != nil {
		slog.Error("discord: respond failed", "err", err)
	}
}

func (b *Bot) registerCommands() {
	appID := b.session.State.User.ID
	cmd := &discordgo.ApplicationCommand{
		Name:        "mood",
		Description: "Show the computer's current mood and readings",
	}
	if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
		slog.Error("discord: failed to register command", "cmd", cmd.Name, "err", err)
	} else {
		slog.Info("discord: registered command", "cmd", cmd.Name)
	}
}
