package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hopefund/internal/campaign"
	"hopefund/internal/catalog"
	"hopefund/internal/config"
	"hopefund/internal/contact"
	"hopefund/internal/db"
	"hopefund/internal/debounce"
	"hopefund/internal/donation"
	mcpserver "hopefund/internal/mcp"
	"hopefund/internal/newsletter"
	"hopefund/internal/stats"

	"github.com/mark3labs/mcp-go/server"
	"go.mongodb.org/mongo-driver/mongo"
)

//go:embed static
var staticFS embed.FS

// backend is the storage the handlers are wired to for the selected source.
type backend struct {
	campaigns   campaign.Source
	tally       donation.Tally
	donations   donation.Store
	subscribers newsletter.Store
	messages    contact.Store
	stats       stats.Source
	close       func(context.Context) error
}

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	level, _ := cfg.SlogLevel()

	// Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// Root context, cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open %s campaign source: %v", cfg.CampaignSource, err)
	}

	// Wire dependencies
	statsSvc := stats.NewService(be.stats, logger)
	campaignSvc := campaign.NewService(be.campaigns, cfg.LoadTimeout)
	campaignHandler := campaign.NewHandler(campaignSvc, statsSvc, logger)

	processor := &donation.TestProcessor{DeclineAbove: cfg.PaymentDeclineAbove}
	donationSvc := donation.NewService(campaignSvc, processor, be.donations, be.tally, logger)
	donationHandler := donation.NewHandler(donationSvc, logger)

	newsletterHandler := newsletter.NewHandler(newsletter.NewService(be.subscribers, logger), logger)
	contactHandler := contact.NewHandler(contact.NewService(be.messages, logger), logger)

	// Create MCP server
	mcpSrv := mcpserver.NewServer(campaignSvc, statsSvc)

	// HTTP router
	mux := http.NewServeMux()

	// Static files
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to get static fs: %v", err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	// REST API endpoints
	mux.HandleFunc("GET /api/campaigns", campaignHandler.ListCampaigns)
	mux.HandleFunc("GET /api/campaigns/{id}", campaignHandler.GetCampaign)
	mux.HandleFunc("GET /api/stats", campaignHandler.GetStats)

	// HTMX Web UI
	mux.HandleFunc("GET /", campaignHandler.HomePage)
	mux.HandleFunc("GET /causes", campaignHandler.CausesPage)
	mux.HandleFunc("GET /fragments/campaigns", campaignHandler.CampaignsFragment)
	mux.HandleFunc("GET /campaigns/{id}", campaignHandler.CampaignPage)
	mux.HandleFunc("GET /campaigns/{id}/donate", donationHandler.DonateForm)
	mux.HandleFunc("POST /campaigns/{id}/donate", donationHandler.Donate)
	mux.HandleFunc("GET /thank-you", donationHandler.ThankYou)
	mux.HandleFunc("POST /newsletter", newsletterHandler.Subscribe)
	mux.HandleFunc("GET /contact", contactHandler.Page)
	mux.HandleFunc("POST /contact", contactHandler.Send)

	// MCP endpoint (HTTP transport)
	// MCP uses POST for requests and GET for SSE streams
	mcpHTTP := server.NewStreamableHTTPServer(mcpSrv)
	mux.Handle("POST /mcp", mcpHTTP)
	mux.Handle("GET /mcp", mcpHTTP)
	mux.Handle("DELETE /mcp", mcpHTTP)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()

		logger.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		if be.close != nil {
			if err := be.close(shutdownCtx); err != nil {
				logger.Error("backend close error", "error", err)
			}
		}
	}()

	logger.Info("server starting", "port", cfg.Port, "source", cfg.CampaignSource)
	logger.Info("endpoints available",
		"web", "http://localhost:"+cfg.Port,
		"api", "http://localhost:"+cfg.Port+"/api",
		"mcp", "http://localhost:"+cfg.Port+"/mcp",
	)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}

	logger.Info("server stopped")
}

// openBackend builds the campaign source and stores for cfg.CampaignSource.
// The file source keeps watching its catalog until ctx is done.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.CampaignSource {
	case config.SourceFile:
		src, err := catalog.OpenFile(cfg.CatalogPath, logger, catalog.WithDelay(cfg.LoadDelay))
		if err != nil {
			return nil, err
		}
		go func() {
			if err := src.Watch(ctx, debounce.RealClock); err != nil {
				logger.Warn("catalog watcher stopped", "error", err)
			}
		}()
		logger.Info("serving campaigns from catalog file", "path", cfg.CatalogPath, "loaded_at", src.LoadedAt())
		return memoryBackend(src), nil

	case config.SourceMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		logger.Info("connecting to MongoDB", "uri", cfg.MongoURI)
		database, err := db.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to MongoDB")
		return mongoBackend(connectCtx, database, logger), nil

	default:
		src, err := catalog.NewDemo(time.Now(), cfg.LoadDelay)
		if err != nil {
			return nil, err
		}
		return memoryBackend(src), nil
	}
}

func memoryBackend(src campaign.Source) *backend {
	return &backend{
		campaigns:   src,
		donations:   donation.NewMemoryStore(),
		subscribers: newsletter.NewMemoryStore(),
		messages:    contact.NewMemoryStore(),
		stats:       stats.Static(stats.Demo),
	}
}

func mongoBackend(ctx context.Context, database *mongo.Database, logger *slog.Logger) *backend {
	campaignRepo := campaign.NewRepo(database)
	if err := campaignRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure campaign indexes", "error", err)
	}
	donationStore := donation.NewMongoStore(database)
	if err := donationStore.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure donation indexes", "error", err)
	}
	contactRepo := contact.NewRepo(database)
	if err := contactRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure contact indexes", "error", err)
	}

	// Active campaigns are counted live; the other figures stay at the demo values.
	liveStats := stats.SourceFunc(func(ctx context.Context) (stats.Statistics, error) {
		n, err := campaignRepo.CountActive(ctx, time.Now())
		if err != nil {
			return stats.Statistics{}, err
		}
		st := stats.Demo
		st.ActiveCampaigns = n
		return st, nil
	})

	return &backend{
		campaigns:   campaignRepo,
		tally:       campaignRepo,
		donations:   donationStore,
		subscribers: newsletter.NewRepo(database),
		messages:    contactRepo,
		stats:       liveStats,
		close: func(ctx context.Context) error {
			return db.Close(ctx, database)
		},
	}
}
