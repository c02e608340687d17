package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/gin-gonic/gin"

	"github.com/d20tracker/d20-api/internal/auth/telegram"
	"github.com/d20tracker/d20-api/internal/clients/dndsu"
	"github.com/d20tracker/d20-api/internal/clients/srd"
	"github.com/d20tracker/d20-api/internal/config"
	"github.com/d20tracker/d20-api/internal/engine"
	"github.com/d20tracker/d20-api/internal/errors"
	v1 "github.com/d20tracker/d20-api/internal/handlers/api/v1"
	"github.com/d20tracker/d20-api/internal/orchestrators/bestiary"
	"github.com/d20tracker/d20-api/internal/orchestrators/campaign"
	"github.com/d20tracker/d20-api/internal/orchestrators/encounter"
	"github.com/d20tracker/d20-api/internal/pkg/clock"
	"github.com/d20tracker/d20-api/internal/pkg/idgen"
	redisclient "github.com/d20tracker/d20-api/internal/redis"
	"github.com/d20tracker/d20-api/internal/repositories/campaigns"
	"github.com/d20tracker/d20-api/internal/repositories/character"
	"github.com/d20tracker/d20-api/internal/repositories/encounters"
	"github.com/d20tracker/d20-api/internal/repositories/templates"
)

// app holds the wired dependency graph of the server
type app struct {
	redis  redisclient.Client
	bus    events.EventBus
	router *gin.Engine
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	rc, err := redisclient.Connect(ctx, &redisclient.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}

	clk := clock.New()

	campaignRepo, err := campaigns.NewRedis(&campaigns.RedisConfig{Client: rc, Clock: clk})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create campaign repository")
	}
	characterRepo, err := character.NewRedis(&character.RedisConfig{Client: rc})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character repository")
	}
	encounterRepo, err := encounters.NewRedis(&encounters.RedisConfig{Client: rc, Clock: clk})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create encounter repository")
	}
	templateRepo, err := templates.NewRedis(&templates.RedisConfig{Client: rc})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create template repository")
	}

	rosterBuilder, err := engine.NewRosterBuilder(&engine.RosterBuilderConfig{Roller: dice.DefaultRoller})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create roster builder")
	}

	bus := events.NewBus()
	for _, eventType := range []string{
		encounter.EventEncounterStarted,
		encounter.EventEncounterTurnAdvance,
		encounter.EventEncounterFinished,
		encounter.EventParticipantHPChanged,
	} {
		bus.SubscribeFunc(eventType, 0, logEvent)
	}

	encounterService, err := encounter.NewOrchestrator(&encounter.Config{
		EncounterRepo: encounterRepo,
		CampaignRepo:  campaignRepo,
		CharacterRepo: characterRepo,
		TemplateRepo:  templateRepo,
		RosterBuilder: rosterBuilder,
		EventBus:      bus,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create encounter orchestrator")
	}

	campaignService, err := campaign.NewOrchestrator(&campaign.Config{
		CampaignRepo:  campaignRepo,
		CharacterRepo: characterRepo,
		Clock:         clk,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create campaign orchestrator")
	}

	srdClient, err := srd.New(&srd.Config{BaseURL: cfg.SRDBaseURL, CacheTTL: cfg.SRDCacheTTL})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create SRD client")
	}
	dndsuClient, err := dndsu.New(&dndsu.Config{BaseURL: cfg.DndSuURL})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create dnd.su client")
	}

	bestiaryService, err := bestiary.NewOrchestrator(&bestiary.Config{
		CampaignRepo: campaignRepo,
		TemplateRepo: templateRepo,
		Bestiary:     dndsuClient,
		SRD:          srdClient,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bestiary orchestrator")
	}

	verifier, err := telegram.NewVerifier(&telegram.Config{
		BotToken: cfg.BotToken,
		MaxAge:   cfg.InitDataMaxAge,
		Clock:    clk,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create initData verifier")
	}

	handler, err := v1.NewHandler(&v1.HandlerConfig{
		EncounterService: encounterService,
		CampaignService:  campaignService,
		BestiaryService:  bestiaryService,
		Verifier:         verifier,
		RequestIDs:       idgen.NewUUID("req"),
		BotUsername:      cfg.BotUsername,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create handler")
	}

	return &app{redis: rc, bus: bus, router: handler.Router()}, nil
}

// Close releases the Redis connection pool and drops event subscriptions
func (a *app) Close() {
	a.bus.ClearAll()
	if err := a.redis.Close(); err != nil {
		slog.Warn("Failed to close redis client", "error", err)
	}
}

func logEvent(ctx context.Context, event events.Event) error {
	slog.InfoContext(ctx, "Encounter event", "event_type", event.Type())
	return nil
}
