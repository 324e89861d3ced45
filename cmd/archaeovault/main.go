package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/archaeovault/archaeovault/internal/agent"
	"github.com/archaeovault/archaeovault/internal/cache"
	"github.com/archaeovault/archaeovault/internal/gateway"
	"github.com/archaeovault/archaeovault/internal/governance"
	"github.com/archaeovault/archaeovault/internal/observability"
	"github.com/archaeovault/archaeovault/internal/sources"
	"github.com/archaeovault/archaeovault/internal/store"
	"github.com/archaeovault/archaeovault/internal/workflow"
	"github.com/archaeovault/archaeovault/pkg/config"
)

func main() {
	observability.PrintBanner()
	observability.InitializeTerminal()

	// Route all log output through the terminal mutex so it never
	// interrupts the dashboard's cursor save/restore sequence.
	log.SetOutput(observability.NewTermWriter())

	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := observability.NewLogger()

	// Step cache: Redis when configured, in-process otherwise.
	var stepCache cache.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			log.Fatalf("failed to connect to redis at %s: %v", cfg.Cache.Addr, err)
		}
		defer redisCache.Close()
		stepCache = redisCache
	default:
		stepCache = cache.NewMemoryCache()
	}

	runStore, err := store.NewRunStore(cfg.Store.Path)
	if err != nil {
		log.Fatalf("failed to open run store: %v", err)
	}
	defer runStore.Close()

	// Fetch policy: keep the crawler away from anything link-local or
	// loopback so a hostile reference URL cannot probe the host.
	policy := governance.NewDefaultPolicyEngine()
	policy.DenyHost("localhost")
	policy.DenyHost("127.0.0.1")
	policy.DenyHost("169.254.169.254")
	_ = policy.DenyTarget(`^file://`)

	sourceRegistry := sources.NewRegistry(policy, logger)
	browser := sources.NewBrowserSource()
	defer browser.Close()
	sourceRegistry.Register(browser)
	sourceRegistry.Register(sources.NewScraperSource(browser))
	if searchSource, err := sources.NewSearchSource(); err != nil {
		log.Printf("Warning: failed to initialize search source: %v", err)
	} else {
		sourceRegistry.Register(searchSource)
	}

	// Initialize LLM (using default enabled provider)
	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var model llms.Model
	switch pName {
	case "anthropic":
		opts := []anthropic.Option{
			anthropic.WithToken(pCfg.APIKey),
			anthropic.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(pCfg.BaseURL))
		}
		model, err = anthropic.New(opts...)
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		model, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}
	if err != nil {
		log.Fatal(err)
	}

	reasoner := agent.NewReasoner(model, agent.ReasonerConfig{
		ModelName:   pCfg.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	}, logger)

	prompts := agent.NewPromptManager(cfg.App.PromptsDir)

	agents := agent.NewRegistry()
	agents.Register(agent.NewArtifactAgent(reasoner, prompts))
	agents.Register(agent.NewDatingAgent(reasoner, prompts))
	agents.Register(agent.NewCivilizationAgent(reasoner, prompts, sourceRegistry))
	agents.Register(agent.NewExcavationAgent(reasoner, prompts))
	agents.Register(agent.NewReportAgent(reasoner, prompts))
	agents.Register(agent.NewResearchAgent(reasoner, prompts, sourceRegistry))

	graphs := workflow.DefaultDefinitions()
	if cfg.App.WorkflowsFile != "" {
		f, err := os.Open(cfg.App.WorkflowsFile)
		if err != nil {
			log.Fatalf("failed to open workflows file: %v", err)
		}
		graphs, err = workflow.LoadDefinitions(f)
		f.Close()
		if err != nil {
			log.Fatalf("failed to load workflows: %v", err)
		}
	}

	executor := workflow.NewExecutor(agents, stepCache,
		time.Duration(cfg.AI.CacheTTL)*time.Second, logger)
	coordinator := workflow.NewCoordinator(graphs, executor,
		time.Duration(cfg.AI.RetryDelayMS)*time.Millisecond, runStore, logger)

	// Gateways
	httpCfg := cfg.GetHTTPConfig()
	var gateways []gateway.Messenger
	if httpCfg.Enabled {
		gateways = append(gateways, gateway.NewHTTPGateway(httpCfg.Addr, coordinator, runStore))
	}
	if tgCfg, ok := cfg.GetTelegramConfig(); ok {
		tg, err := gateway.NewTelegramGateway(tgCfg.Token, coordinator)
		if err != nil {
			log.Fatalf("failed to start telegram gateway: %v", err)
		}
		gateways = append(gateways, tg)
	}
	if len(gateways) == 0 {
		log.Fatal("no gateway enabled in config")
	}

	for _, gw := range gateways {
		gw := gw
		go func() {
			if err := gw.Start(); err != nil {
				log.Printf("\033[91m[ FAIL ] GATEWAY CRITICAL ERROR: %v\033[0m", err)
				stop()
			}
		}()
	}

	// Start Live Resource Dashboard (1-second updates)
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.PrintLiveStatus()
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
				logger.LogHeartbeat()
			}
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	for _, gw := range gateways {
		if err := gw.Stop(); err != nil {
			log.Printf("gateway shutdown error: %v", err)
		}
	}

	// Reset terminal aesthetics
	observability.CleanupTerminal()

	// Give a short time for final logs/syncs
	time.Sleep(500 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] VAULT SEALED. GOODBYE.\033[0m")
}
