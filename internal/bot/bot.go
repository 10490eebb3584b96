package bot

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/jusunglee/polonizacyja/internal/metrics"
	"github.com/jusunglee/polonizacyja/internal/transliteration"
	"github.com/samber/lo"
)

const (
	commandPolonize        = "polonize"
	commandPolonizeMessage = "Polonize message"

	// Discord rejects message content longer than this.
	maxMessageRunes = 2000
)

type Config struct {
	// GuildID registers commands to a single guild instead of globally.
	GuildID string
	// SuffixRules applies to every command; the bot has no option for it.
	SuffixRules transliteration.SuffixRules
}

type Bot struct {
	log     Logger
	session DiscordSession
	limiter *RateLimiter
	config  Config

	// Keyed by {polish exceptions, serbian soft consonants}.
	variants map[[2]bool]*transliteration.Transliterator
}

func New(log Logger, session DiscordSession, config Config) (*Bot, error) {
	variants := make(map[[2]bool]*transliteration.Transliterator, 4)
	for _, polish := range []bool{true, false} {
		for _, serbian := range []bool{true, false} {
			t, err := transliteration.New(transliteration.Options{
				PolishExceptions:      polish,
				SerbianSoftConsonants: serbian,
				SuffixRules:           config.SuffixRules,
			})
			if err != nil {
				return nil, fmt.Errorf("building transliterator: %w", err)
			}
			variants[[2]bool{polish, serbian}] = t
		}
	}

	return &Bot{
		log:      log,
		session:  session,
		limiter:  NewRateLimiter(),
		config:   config,
		variants: variants,
	}, nil
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        commandPolonize,
		Description: "Transliterate Cyrillic text into Polish-style Latin",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "text",
				Description: "Text to transliterate",
				Required:    true,
				MaxLength:   maxMessageRunes,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "serbian",
				Description: "Use ž š č h instead of ż sz cz ch",
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "polish_exceptions",
				Description: "Apply the д/р/л rules and word exceptions (default: true)",
			},
		},
	},
	{
		Name: commandPolonizeMessage,
		Type: discordgo.MessageApplicationCommand,
	},
}

func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.log.InfoContext(ctx, "connected to Discord", "username", r.User.Username)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening Discord connection: %w", err)
	}
	defer b.session.Close()

	if err := b.registerCommands(ctx); err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}

	b.log.InfoContext(ctx, "bot is running, press Ctrl+C to stop")

	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.limiter.Forget()
		case <-ctx.Done():
			b.log.Info("shutdown signal received")
			return nil
		}
	}
}

func (b *Bot) registerCommands(ctx context.Context) error {
	guildID := b.config.GuildID
	if guildID != "" {
		b.log.InfoContext(ctx, "registering commands to guild", "guild_id", guildID)
		_, err := b.session.ApplicationCommandBulkOverwrite(b.session.GetUserID(), "", []*discordgo.ApplicationCommand{})
		if err != nil {
			b.log.WarnContext(ctx, "failed to clear global commands", "error", err)
		} else {
			b.log.InfoContext(ctx, "cleared global commands")
		}
	} else {
		b.log.InfoContext(ctx, "registering commands globally (may take up to 1 hour to propagate)")
	}

	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.GetUserID(), guildID, commands)
	if err != nil {
		return fmt.Errorf("bulk overwrite commands: %w", err)
	}
	b.log.InfoContext(ctx, "registered commands", "count", len(commands))
	return nil
}

type handlerResult struct {
	Response  string
	Ephemeral bool
	Err       error
}

type userError struct {
	Err error
}

func (e *userError) Error() string {
	return e.Err.Error()
}

func (e *userError) Unwrap() error {
	return e.Err
}

func newUserError(err error) *userError {
	return &userError{Err: err}
}

func userFailure(msg string) handlerResult {
	return handlerResult{Response: msg, Ephemeral: true, Err: newUserError(errors.New(msg))}
}

func (b *Bot) handleInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.handleCommand(i)
}

func (b *Bot) handleCommand(i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	data := i.ApplicationCommandData()
	log := b.log.With("command", data.Name, "channel_id", i.ChannelID)

	var result handlerResult
	switch {
	case !b.limiter.Allow(interactionUserID(i)):
		metrics.RateLimitHits.WithLabelValues("bot").Inc()
		result = userFailure("Slow down! You can use this command 5 times per minute.")
	case data.Name == commandPolonize:
		result = b.handlePolonize(data)
	case data.Name == commandPolonizeMessage:
		result = b.handlePolonizeMessage(data)
	default:
		result = handlerResult{Response: "Unknown command.", Ephemeral: true, Err: fmt.Errorf("unknown command %q", data.Name)}
	}

	b.respond(ctx, log, i, result)

	if result.Err == nil {
		return
	}
	if _, ok := errors.AsType[*userError](result.Err); ok {
		log.WarnContext(ctx, "user error", "error", result.Err)
	} else {
		log.ErrorContext(ctx, "command failed", "error", result.Err)
	}
}

func (b *Bot) handlePolonize(data discordgo.ApplicationCommandInteractionData) handlerResult {
	text := getStringOption(data.Options, "text")
	if text == "" {
		return userFailure("Give me some text to polonize.")
	}
	polish := getBoolOption(data.Options, "polish_exceptions", true)
	serbian := getBoolOption(data.Options, "serbian", false)
	return b.transliterate(text, polish, serbian)
}

func (b *Bot) handlePolonizeMessage(data discordgo.ApplicationCommandInteractionData) handlerResult {
	var msg *discordgo.Message
	if data.Resolved != nil {
		msg = data.Resolved.Messages[data.TargetID]
	}
	if msg == nil || msg.Content == "" {
		return userFailure("That message has no text to polonize.")
	}
	return b.transliterate(msg.Content, true, false)
}

func (b *Bot) transliterate(text string, polish, serbian bool) handlerResult {
	t := b.variants[[2]bool{polish, serbian}]
	metrics.ObserveTransliteration("bot", metrics.Variant(polish, serbian), len(text))
	out := t.String(text)
	if out == "" {
		return userFailure("Nothing to polonize.")
	}
	return handlerResult{Response: truncate(out, maxMessageRunes)}
}

func (b *Bot) respond(ctx context.Context, log Logger, i *discordgo.InteractionCreate, result handlerResult) {
	resp := &discordgo.InteractionResponseData{
		Content:         result.Response,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if result.Ephemeral {
		resp.Flags = discordgo.MessageFlagsEphemeral
	}
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: resp,
	})
	if err != nil {
		log.ErrorContext(ctx, "responding to interaction", "error", err)
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func getStringOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	opt, ok := lo.Find(options, func(o *discordgo.ApplicationCommandInteractionDataOption) bool {
		return o.Name == name && o.Type == discordgo.ApplicationCommandOptionString
	})
	if !ok {
		return ""
	}
	return opt.StringValue()
}

func getBoolOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string, def bool) bool {
	opt, ok := lo.Find(options, func(o *discordgo.ApplicationCommandInteractionDataOption) bool {
		return o.Name == name && o.Type == discordgo.ApplicationCommandOptionBoolean
	})
	if !ok {
		return def
	}
	return opt.BoolValue()
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
