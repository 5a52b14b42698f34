package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pool-ledger/internal/analysis"
	"pool-ledger/internal/handlers"
	"pool-ledger/internal/ledger"
	"pool-ledger/internal/storage"

	"github.com/joho/godotenv"
)

type config struct {
	port        string
	dbPath      string
	apiKey      string
	model       string
	defaultUser string
	seed        bool
}

func loadConfig(getenv func(string) string) config {
	cfg := config{
		port:        getenv("PORT"),
		dbPath:      getenv("DB_PATH"),
		apiKey:      getenv("GEMINI_API_KEY"),
		model:       getenv("GEMINI_MODEL"),
		defaultUser: getenv("DEFAULT_USER"),
	}
	if cfg.port == "" {
		cfg.port = "8080"
	}
	if cfg.dbPath == "" {
		cfg.dbPath = "pools.db"
	}
	if cfg.apiKey == "" {
		cfg.apiKey = getenv("API_KEY")
	}
	cfg.seed, _ = strconv.ParseBool(getenv("SEED_DEMO"))
	return cfg
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadConfig(os.Getenv)
	flag.BoolVar(&cfg.seed, "seed", cfg.seed, "load demo users and pools on startup")
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config) error {
	db, err := storage.NewDB(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	engine := ledger.NewEngine()
	if cfg.seed {
		if err := db.EnsureUsers(ledger.DemoUsers()); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		if err := engine.Load(ledger.DemoPools()); err != nil {
			return fmt.Errorf("failed to seed pools: %w", err)
		}
		log.Println("Loaded demo users and pools")
	}

	if err := ensureDefaultUser(db, cfg.defaultUser); err != nil {
		return err
	}

	var gen analysis.Generator
	if cfg.apiKey != "" {
		gen = analysis.NewGemini(cfg.apiKey, cfg.model)
	} else {
		log.Println("No Gemini API key configured, reason analysis returns mock data")
	}

	h := handlers.NewHandlers(engine, db, analysis.New(gen))
	srv := &http.Server{
		Addr:              ":" + cfg.port,
		Handler:           setupRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Pool ledger running at :%s", cfg.port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ensureDefaultUser creates a first user when the directory is empty, so a
// fresh install has an identity to act as.
func ensureDefaultUser(db *storage.DB, name string) error {
	if name == "" {
		return nil
	}
	count, err := db.UserCount()
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	user, err := db.CreateUser("", name, "")
	if err != nil {
		return fmt.Errorf("failed to create default user: %w", err)
	}
	log.Printf("Created default user %s with ID %s", user.Name, user.ID)
	return nil
}

func setupRouter(h *handlers.Handlers) http.Handler {
	mux := h.Router()
	return logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
