package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/icdtuning/workshop-backend/internal/auth"
	"github.com/icdtuning/workshop-backend/internal/config"
	"github.com/icdtuning/workshop-backend/internal/db"
	"github.com/icdtuning/workshop-backend/internal/gateway"
	"github.com/icdtuning/workshop-backend/internal/handlers"
	"github.com/icdtuning/workshop-backend/internal/middleware"
	"github.com/icdtuning/workshop-backend/internal/models"
	"github.com/icdtuning/workshop-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}
	cfg := config.Load()

	ctx := context.Background()
	store, err := db.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Info("Connected to MongoDB")

	gw := buildGateway(cfg)

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	jobService := services.NewJobService(store.Jobs, store.Users)
	invoiceService := services.NewInvoiceService(store.Jobs, store.Invoices)

	authHandler := handlers.NewAuthHandler(authService, store.Users)
	jobHandler := handlers.NewJobHandler(jobService, store.Jobs, store.Notes, gw)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, store.Invoices, store.Jobs, gw)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	mux := newRouter(authMiddleware, authHandler, jobHandler, invoiceHandler)

	rateLimiter := middleware.NewRateLimitMiddleware()

	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = rateLimiter.RateLimit(300, 60)(handler)
	handler = middleware.CORS(cfg.CORSOrigins)(handler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		log.Infof("HTTP server listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP shutdown error: %v", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Errorf("MongoDB disconnect error: %v", err)
	}
}

// newRouter builds the route table. Manager-only routes are gated through the
// role middleware; per-job mechanic access rules stay in the handlers because
// they depend on the job being fetched first.
func newRouter(authMiddleware *middleware.AuthMiddleware, authHandler *handlers.AuthHandler, jobHandler *handlers.JobHandler, invoiceHandler *handlers.InvoiceHandler) *http.ServeMux {
	requireManager := authMiddleware.RequireRole(models.RoleManager)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/me", authHandler.Me)
	mux.Handle("GET /api/mechanics", requireManager(http.HandlerFunc(authHandler.Mechanics)))

	mux.HandleFunc("POST /api/jobs", jobHandler.Create)
	mux.HandleFunc("GET /api/jobs", jobHandler.List)
	mux.HandleFunc("GET /api/jobs/{id}", jobHandler.Get)
	mux.HandleFunc("PATCH /api/jobs/{id}", jobHandler.Update)
	mux.HandleFunc("POST /api/jobs/{id}/photos", jobHandler.AddPhoto)
	mux.HandleFunc("POST /api/jobs/{id}/notes", jobHandler.AddNote)
	mux.HandleFunc("GET /api/jobs/{id}/notes", jobHandler.ListNotes)
	mux.Handle("POST /api/jobs/{id}/send-confirmation", requireManager(http.HandlerFunc(jobHandler.SendConfirmation)))
	mux.HandleFunc("GET /api/stats", jobHandler.Stats)

	mux.Handle("POST /api/invoices", requireManager(http.HandlerFunc(invoiceHandler.Create)))
	mux.Handle("GET /api/invoices/job/{job_id}", requireManager(http.HandlerFunc(invoiceHandler.ListByJob)))
	mux.Handle("GET /api/invoices/{id}/pdf", requireManager(http.HandlerFunc(invoiceHandler.PDF)))
	mux.Handle("POST /api/invoices/{id}/send", requireManager(http.HandlerFunc(invoiceHandler.Send)))
	mux.Handle("POST /api/export/google-sheets", requireManager(http.HandlerFunc(invoiceHandler.Export)))

	return mux
}

// buildGateway selects the notification/export gateway variant from
// configuration, falling back to the stub when the real one cannot start.
func buildGateway(cfg config.Config) gateway.Gateway {
	export := gateway.ExportConfig{
		SheetID:            cfg.SheetID,
		ServiceAccountJSON: cfg.ServiceAccountJSON,
	}

	switch cfg.GatewayDriver {
	case "mqtt":
		gw, err := gateway.NewMQTT(cfg.MQTTBroker, cfg.MQTTTopic, export)
		if err != nil {
			log.WithError(err).Warn("MQTT gateway unavailable, using stub")
			return gateway.NewStub(export)
		}
		return gw
	default:
		return gateway.NewStub(export)
	}
}
