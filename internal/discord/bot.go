package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/uksimracing/website/internal/config"
	"github.com/uksimracing/website/internal/httphelper"
	"github.com/uksimracing/website/internal/news"
	"github.com/uksimracing/website/internal/webhook"
	"github.com/uksimracing/website/pkg/log"
)

var (
	ErrDiscordConfig = errors.New("discord config invalid")
	ErrDiscordCreate = errors.New("failed to create discord session")
	ErrDiscordOpen   = errors.New("failed to open discord session")
	ErrRelayRejected = errors.New("relay rejected by website")
)

const (
	minRelayLength = 10
	relayTimeout   = 10 * time.Second
)

var (
	mentionTag = regexp.MustCompile(`<@[!&]?\d+>`)
	channelTag = regexp.MustCompile(`<#\d+>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Bot relays tagged guild messages into the website webhook and reports
// member counts.
type Bot struct {
	session *discordgo.Session
	isReady atomic.Bool

	permissions Permissions
	client      *http.Client
	conf        config.DiscordConfig
	secret      string
	siteURL     string
}

func NewBot(conf config.DiscordConfig, permissions Permissions, siteURL string, webhookSecret string) (*Bot, error) {
	if conf.Token == "" || conf.GuildID == "" {
		return nil, ErrDiscordConfig
	}

	client := httphelper.NewClient()
	client.Timeout = relayTimeout

	return &Bot{
		permissions: permissions,
		client:      client,
		conf:        conf,
		secret:      webhookSecret,
		siteURL:     strings.TrimRight(siteURL, "/"),
	}, nil
}

func (b *Bot) Start(_ context.Context) error {
	session, errNewSession := discordgo.New("Bot " + b.conf.Token)
	if errNewSession != nil {
		return errors.Join(errNewSession, ErrDiscordCreate)
	}

	session.UserAgent = "uksimracing-website (https://github.com/uksimracing/website)"
	session.Identify.Intents |= discordgo.IntentsGuildMessages
	session.Identify.Intents |= discordgo.IntentMessageContent
	session.AddHandler(b.onReady)
	session.AddHandler(b.onDisconnect)
	session.AddHandler(b.onMessageCreate)

	b.session = session

	if errSessionOpen := session.Open(); errSessionOpen != nil {
		return errors.Join(errSessionOpen, ErrDiscordOpen)
	}

	return nil
}

func (b *Bot) Close() {
	if b.session != nil {
		if errClose := b.session.Close(); errClose != nil {
			slog.Error("Failed to close discord session", log.ErrAttr(errClose))
		}
	}
}

func (b *Bot) onReady(session *discordgo.Session, _ *discordgo.Ready) {
	b.isReady.Store(true)
	slog.Info("Discord bot connected", slog.String("username", session.State.User.Username))
}

func (b *Bot) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	b.isReady.Store(false)
	slog.Info("Discord bot disconnected")
}

// triggered reports whether the message asks for a relay: a direct @mention
// of the bot, or one of the hash tags.
func (b *Bot) triggered(session *discordgo.Session, message *discordgo.MessageCreate) bool {
	for _, mentioned := range message.Mentions {
		if session.State.User != nil && mentioned.ID == session.State.User.ID {
			return true
		}
	}

	lowered := strings.ToLower(message.Content)

	return strings.Contains(lowered, "#news") || strings.Contains(lowered, "#website")
}

// cleanContent strips mention and channel markup plus the trigger tags, then
// collapses runs of whitespace.
func cleanContent(content string) string {
	cleaned := mentionTag.ReplaceAllString(content, "")
	cleaned = channelTag.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, "#news", "")
	cleaned = strings.ReplaceAll(cleaned, "#website", "")

	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(whitespace.ReplaceAllString(line, " "))
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (b *Bot) onMessageCreate(session *discordgo.Session, message *discordgo.MessageCreate) {
	if message.Author == nil || message.Author.Bot {
		return
	}

	if message.GuildID != b.conf.GuildID || !b.triggered(session, message) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
	defer cancel()

	var memberRoles []string
	if message.Member != nil {
		memberRoles = message.Member.Roles
	}

	allowed, errAllowed := b.permissions.HasCapability(ctx, message.Author.ID, CapabilityBotMentions, memberRoles)
	if errAllowed != nil {
		slog.Error("Failed to check mention permission", log.ErrAttr(errAllowed))

		return
	}

	if !allowed {
		slog.Debug("Ignoring mention from unauthorized member", slog.String("author", message.Author.Username))

		return
	}

	cleaned := cleanContent(message.Content)
	if len(cleaned) < minRelayLength {
		slog.Debug("Skipping short relay message", slog.Int("length", len(cleaned)))

		return
	}

	attachments := make([]string, 0, len(message.Attachments))
	for _, attachment := range message.Attachments {
		attachments = append(attachments, attachment.URL)
	}

	relay := news.IncomingMessage{
		Content:     cleaned,
		Author:      b.authorDisplay(session, message),
		MessageID:   message.ID,
		Attachments: attachments,
		Channel:     b.channelName(session, message.ChannelID),
	}

	if errRelay := b.relay(ctx, relay); errRelay != nil {
		slog.Error("Failed to relay message", log.ErrAttr(errRelay))
		b.react(message, "❌")

		return
	}

	b.react(message, "✅")
}

// authorDisplay formats the byline stored with relayed articles, e.g.
// "Dave in #announcements on 2 Jan 2006".
func (b *Bot) authorDisplay(session *discordgo.Session, message *discordgo.MessageCreate) string {
	name := message.Author.Username
	if message.Member != nil && message.Member.Nick != "" {
		name = message.Member.Nick
	}

	return fmt.Sprintf("%s in #%s on %s",
		name, b.channelName(session, message.ChannelID), time.Now().Format("2 Jan 2006"))
}

func (b *Bot) channelName(session *discordgo.Session, channelID string) string {
	channel, errChannel := session.State.Channel(channelID)
	if errChannel != nil {
		channel, errChannel = session.Channel(channelID)
	}

	if errChannel != nil || channel == nil {
		return "unknown"
	}

	return channel.Name
}

func (b *Bot) react(message *discordgo.MessageCreate, emoji string) {
	if errReact := b.session.MessageReactionAdd(message.ChannelID, message.ID, emoji); errReact != nil {
		slog.Warn("Failed to add reaction", log.ErrAttr(errReact))
	}
}

func (b *Bot) post(ctx context.Context, path string, payload any) error {
	body, errMarshal := json.Marshal(payload)
	if errMarshal != nil {
		return errors.Join(errMarshal, httphelper.ErrRequestCreate)
	}

	req, errReq := http.NewRequestWithContext(ctx, http.MethodPost, b.siteURL+path, bytes.NewReader(body))
	if errReq != nil {
		return errors.Join(errReq, httphelper.ErrRequestCreate)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhook.SecretHeader, b.secret)

	resp, errResp := b.client.Do(req)
	if errResp != nil {
		return errors.Join(errResp, httphelper.ErrRequestPerform)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d", ErrRelayRejected, resp.StatusCode)
	}

	return nil
}

func (b *Bot) relay(ctx context.Context, message news.IncomingMessage) error {
	return b.post(ctx, "/webhook/discord", message)
}

// PushMemberCount reports the guild's member count to the website stats
// endpoint. Called hourly by the scheduler.
func (b *Bot) PushMemberCount(ctx context.Context) error {
	if !b.isReady.Load() {
		return nil
	}

	guild, errGuild := b.session.GuildWithCounts(b.conf.GuildID)
	if errGuild != nil {
		return errors.Join(errGuild, httphelper.ErrRequestPerform)
	}

	count := guild.ApproximateMemberCount
	if count == 0 {
		count = guild.MemberCount
	}

	return b.post(ctx, "/api/stats", map[string]int{"memberCount": count})
}

// Notify posts a message to the configured notification channel. Used for
// one-shot community stream announcements.
func (b *Bot) Notify(content string) error {
	if !b.isReady.Load() || b.conf.NotifyChannelID == "" {
		return nil
	}

	if _, errSend := b.session.ChannelMessageSend(b.conf.NotifyChannelID, content); errSend != nil {
		return errors.Join(errSend, httphelper.ErrRequestPerform)
	}

	return nil
}
