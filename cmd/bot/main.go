package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/jusunglee/polonizacyja/internal/bot"
	"github.com/jusunglee/polonizacyja/internal/envsetup"
	"github.com/jusunglee/polonizacyja/internal/health"
	"github.com/jusunglee/polonizacyja/internal/logger"
	"github.com/jusunglee/polonizacyja/internal/transliteration"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"golang.org/x/sync/errgroup"
)

const envFile = ".env"

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	if envsetup.NeedsSetup(envFile) && os.Getenv("DISCORD_TOKEN") == "" {
		ok, err := envsetup.Run(envFile)
		if err != nil {
			return fmt.Errorf("running setup wizard: %w", err)
		}
		if !ok {
			return errors.New("setup cancelled")
		}
	}
	_ = godotenv.Load(envFile)

	fs := ff.NewFlagSet("polonizacyja-bot")
	var (
		discordToken = fs.StringLong("discord-token", "", "Discord bot token")
		guildID      = fs.StringLong("guild-id", "", "Register commands to this guild only")
		healthPort   = fs.Int64Long("health-port", 8081, "Port for /health and /metrics")
		suffixRules  = fs.StringEnumLong("suffix-rules", "Word-final suffix reductions", "minimal", "extended")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	if *discordToken == "" {
		return errors.New("discord-token is required")
	}
	rules, err := transliteration.ParseSuffixRules(*suffixRules)
	if err != nil {
		return err
	}

	log := logger.New()

	session, err := discordgo.New("Bot " + *discordToken)
	if err != nil {
		return fmt.Errorf("creating Discord session: %w", err)
	}

	b, err := bot.New(bot.NewLogger(log), bot.NewDiscordSession(session), bot.Config{
		GuildID:     *guildID,
		SuffixRules: rules,
	})
	if err != nil {
		return fmt.Errorf("creating bot: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthServer := health.New(int(*healthPort), nil)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(ctx, "starting health server", "port", *healthPort)
		return healthServer.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return healthServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return b.Run(ctx)
	})

	return g.Wait()
}
