package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"budgetwize-api/internal/clients"
	"budgetwize-api/internal/config"
	"budgetwize-api/internal/repository"
	"budgetwize-api/internal/service"
	"budgetwize-api/internal/transport/auth"
	"budgetwize-api/internal/transport/rest"
	"budgetwize-api/internal/transport/websocket"
	"budgetwize-api/internal/vault"
	"budgetwize-api/pkg/database/postgres"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

const demoUserID = "demo"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system env or defaults")
	}

	// top-level context which we can cancel on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.Load()

	// a missing or malformed encryption key is a deployment error;
	// refuse to boot rather than fail on the first bank link
	tokenVault, err := vault.New(cfg.EncryptionSecret)
	if err != nil {
		log.Fatalf("token vault init error: %v", err)
	}

	var db *sql.DB
	if !cfg.DemoMode {
		db = mustInitPostgres(cfg.Postgres)
		defer postgres.Close(db)
	}

	redisClient := mustInitRedis(cfg.Redis)
	defer redisClient.Close()

	storageClient, err := clients.NewLocalStorage(cfg.ExportDir, cfg.FilesPublicPrefix, cfg.ExternalURL)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	var s3Client *clients.S3Client
	if cfg.S3.Enabled {
		s3Client, err = clients.NewS3Client(ctx, clients.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			UseSSL:          cfg.S3.UseSSL,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
		})
		if err != nil {
			log.Fatalf("s3 init error: %v", err)
		}
	}

	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)
	wsClient := clients.NewWebSocketClient(wsHub)

	var (
		debtStore    service.DebtStore
		paymentStore service.PaymentStore
		itemStore    service.PlaidItemStore
		txStore      service.TransactionStore
		tokenFinder  auth.TokenFinder
	)
	if cfg.DemoMode {
		log.Println("DEMO_MODE enabled: using in-memory stores with sample data")
		memory := repository.NewSeededMemoryStore(demoUserID)
		debtStore = memory
		paymentStore = memory.PaymentRepository()
		itemStore = repository.NewMemoryPlaidItemStore()
		txStore = repository.NewMemoryTransactionStore()
		tokenFinder = auth.StaticTokenFinder{demoUserID: demoUserID}
	} else {
		debtStore = repository.NewDebtRepository(db)
		paymentStore = repository.NewPaymentRepository(db)
		itemStore = repository.NewPlaidItemRepository(db)
		txStore = repository.NewTransactionRepository(db)
		tokenFinder = repository.NewPersonalAccessTokenRepository(db)
	}

	var plaidGateway service.PlaidGateway
	if plaidClient, err := clients.NewPlaidClient(clients.PlaidConfig{
		ClientID:    cfg.Plaid.ClientID,
		Secret:      cfg.Plaid.Secret,
		Environment: cfg.Plaid.Environment,
		ClientName:  cfg.Plaid.ClientName,
	}); err != nil {
		log.Printf("plaid client disabled: %v", err)
	} else {
		plaidGateway = plaidClient
	}

	var llmGateway service.LLMGateway
	if geminiClient, err := clients.NewGeminiClient(clients.GeminiConfig{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	}); err != nil {
		log.Printf("gemini client disabled: %v", err)
	} else {
		llmGateway = geminiClient
	}

	debtSvc := service.NewDebtService(debtStore, redisClient)
	paymentSvc := service.NewPaymentService(paymentStore, debtSvc)
	calculatorSvc := service.NewCalculatorService()
	bankSvc := service.NewBankService(plaidGateway, tokenVault, itemStore, txStore, wsClient)
	chatSvc := service.NewChatService(llmGateway, bankSvc)
	exportSvc := service.NewExportService(debtSvc, redisClient, storageClient, s3Client, wsClient)

	tokenMiddleware := auth.TokenMiddleware(tokenFinder)

	handler := rest.NewHandler(debtSvc, paymentSvc, calculatorSvc, bankSvc, chatSvc, exportSvc)
	router := handler.InitRouterWithAuth(tokenMiddleware)

	// public root router with the protected router mounted underneath so
	// /files stays public while everything else requires a token
	root := chi.NewRouter()

	// public: serve generated plan files
	root.Get("/files/{file}", func(w http.ResponseWriter, r *http.Request) {
		file := chi.URLParam(r, "file")
		path := filepath.Join(storageClient.BaseDir, file)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "failed to access file", http.StatusInternalServerError)
			return
		}

		// prefer original filename in Content-Disposition (strip random prefix)
		orig := file
		if idx := strings.IndexByte(file, '_'); idx >= 0 {
			orig = file[idx+1:]
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", orig))

		http.ServeFile(w, r, path)
	})

	// protected websocket endpoint; the token middleware accepts
	// ?token= so browser clients can upgrade
	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.GetUserID(r.Context())
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		log.Printf("WS connected: user_id=%s", userID)
		wsHub.HandleWebSocket(w, r, userID)
	})

	root.Mount("/", router)

	corsHandler := withCORS(root)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on :%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	// delete generated plan files once their export status has expired
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := storageClient.CleanupOlderThan(30 * time.Minute); err != nil {
					log.Printf("storage cleanup error: %v", err)
				}
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("Shutdown signal received: %v", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server Shutdown error: %v", err)
		}

		cancel()

		if db != nil {
			postgres.Close(db)
		}
		redisClient.Close()

		log.Println("Shutdown complete")
	}
}

func mustInitPostgres(cfg config.PostgresConfig) *sql.DB {
	db, err := postgres.NewPostgresConnection(postgres.ConnectionInfo{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		DBName:   cfg.DBName,
		SSLMode:  cfg.SSLMode,
		Password: cfg.Password,
	})
	if err != nil {
		log.Fatalf("postgres init error: %v", err)
	}
	return db
}

func mustInitRedis(cfg config.RedisConfig) *clients.RedisClient {
	client, err := clients.NewRedisClient(clients.RedisConfig{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: time.Duration(cfg.DialTimeout) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		Prefix:      cfg.Prefix,
	})
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}
	return client
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")

			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
