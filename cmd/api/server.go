package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eldieng/Fawsayni-Tech/internal/api/handlers/books"
	mw "github.com/eldieng/Fawsayni-Tech/internal/api/middlewares"
	"github.com/eldieng/Fawsayni-Tech/internal/api/router"
	"github.com/eldieng/Fawsayni-Tech/internal/auth"
	"github.com/eldieng/Fawsayni-Tech/internal/config"
	jwtutil "github.com/eldieng/Fawsayni-Tech/internal/security/jwt"
	"github.com/eldieng/Fawsayni-Tech/internal/security/password"
	"github.com/eldieng/Fawsayni-Tech/internal/storage"
	"github.com/eldieng/Fawsayni-Tech/internal/storage/disk"
	s3store "github.com/eldieng/Fawsayni-Tech/internal/storage/s3"
	"github.com/eldieng/Fawsayni-Tech/internal/store/backend"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	for _, w := range cfg.HardeningWarnings() {
		log.Printf("[Config] warning: %s", w)
	}
	log.Printf("[Config] %s", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := backend.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Printf("[Store] close: %v", err)
		}
	}()
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("store migrate: %v", err)
	}
	log.Printf("✅ Connected to %s store", db.Driver)

	images, err := openImages(ctx, cfg.Upload)
	if err != nil {
		log.Fatalf("uploads: %v", err)
	}

	var rdb *redis.Client
	if cfg.Limits.RedisURL != "" {
		rdb, err = connectRedis(ctx, cfg.Limits.RedisURL)
		if err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		defer rdb.Close()
		log.Println("✅ Connected to Redis")
	}

	tokens := jwtutil.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.ClockSkew)
	authH := auth.New(db.Users, password.NewHasher(cfg.Auth.Argon2), tokens)
	authH.AllowAdminSignup = cfg.Auth.AllowAdminSignup

	deps := router.Deps{
		Auth: authH,
		Books: &books.Handler{
			Books:          db.Books,
			Images:         &storage.Uploader{Store: images},
			EnforceOwner:   cfg.Auth.EnforceOwner,
			DefaultOwnerID: cfg.Auth.DefaultOwnerID,
		},
		Authn:  &mw.Authenticator{Tokens: tokens, Users: db.Users},
		Images: images,
	}

	var global *mw.FixedWindow
	if rdb != nil {
		global = mw.NewFixedWindow(rdb, cfg.Limits.RequestsPerMinute, time.Minute, mw.PerIPKey("rl"),
			"Trop de requêtes, veuillez réessayer plus tard")
		deps.AuthLimiter = mw.NewFixedWindow(rdb, cfg.Limits.LoginMaxAttempts, cfg.Limits.LoginWindow, mw.PerIPKey("auth"),
			"Trop de tentatives de connexion, veuillez réessayer plus tard")
	}

	handler := mw.Chain(
		router.Router(deps),
		mw.RequestID,
		mw.Recovery,
		mw.AccessLog,
		mw.CORS(cfg.HTTP.CORSOrigins),
		mw.SecurityHeaders,
		mw.HPP(mw.ListingParams),
		global.Middleware,
		mw.BodySizeLimit(cfg.HTTP.MaxBodySize),
		mw.Compression,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	errc := make(chan error, 1)
	go func() {
		log.Println("Server is running on port:", cfg.HTTP.Port)
		if cfg.HTTP.TLSCertFile != "" {
			errc <- server.ListenAndServeTLS(cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile)
			return
		}
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalln("Error starting server:", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url) // e.g. rediss://default:<token>@host:port
	if err != nil {
		return nil, err
	}
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = 500 * time.Millisecond
	opt.WriteTimeout = 500 * time.Millisecond
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func openImages(ctx context.Context, c config.UploadConfig) (storage.ImageStore, error) {
	if c.Backend == config.UploadS3 {
		s3c, err := s3store.NewClient(ctx, c.S3)
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Covers stored in bucket %q", c.S3.Bucket)
		return s3c, nil
	}
	d, err := disk.New(c.Dir)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Covers stored under %s", c.Dir)
	return d, nil
}
