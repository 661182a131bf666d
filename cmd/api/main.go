package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seralvarez/picstash/pkg/auth"
	"github.com/seralvarez/picstash/pkg/mailer"
	"github.com/seralvarez/picstash/pkg/store"
	"github.com/seralvarez/picstash/services/images"
	"github.com/seralvarez/picstash/services/users"
)

func main() {
	cfg, err := parseConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if cfg.DisplayVersion {
		fmt.Printf("API version: %s\n", version)
		return
	}

	logger := makeLogger(cfg.Env == "dev").Sugar()

	db, err := openDB(cfg)
	if err != nil {
		logger.Fatalf("cannot open db connection: %v", err)
	}
	storage := store.New(db)

	tokenizer := auth.NewTokenizer(
		cfg.Jwt.Secret,
		cfg.Jwt.Issuer,
		time.Duration(cfg.Jwt.ExpirationMinutes)*time.Minute,
	)

	var usersService users.Service
	usersService = &users.UsersService{Store: storage, Tokenizer: tokenizer}
	usersService = &users.ValidationMiddleware{Next: usersService}

	var imagesService images.Service
	imagesService = &images.ImagesService{Store: storage}
	imagesService = &images.ValidationMiddleware{Next: imagesService}
	imagesService = &images.AuthMiddleware{Next: imagesService}

	mailer := mailer.New(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.Sender)

	app := application{
		users:     usersService,
		images:    imagesService,
		tokenizer: tokenizer,
		mailer:    mailer,
		logger:    logger,
		config:    cfg,
	}

	err = app.serve()
	if err != nil {
		logger.Fatalw("shutting down server", "err", err)
	}
}

func openDB(cfg config) (*sqlx.DB, error) {
	// Create an empty connection pool, using the DSN from the config struct.
	db, err := sqlx.Open("postgres", cfg.Db.Dsn)
	if err != nil {
		return nil, err
	}
	// Set the maximum number of (in-use + idle) connections in the pool. Note
	// that passing a value less than or equal to 0 will mean there is no limit.
	db.SetMaxOpenConns(cfg.Db.MaxOpenConns)
	// Set the maximum number of idle connections in the pool and the maximum
	// idle timeout.
	db.SetMaxIdleConns(cfg.Db.MaxIdleConns)
	db.SetConnMaxIdleTime(time.Duration(cfg.Db.MaxIdleTime) * time.Minute)

	// Use PingContext() to establish a new connection to the database. If the
	// connection couldn't be established within the 5 second deadline, return
	// the error.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func makeLogger(dev bool) *zap.Logger {
	var zapLogger *zap.Logger
	if dev {
		config := zap.NewDevelopmentEncoderConfig()
		config.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncodeTime = zapcore.ISO8601TimeEncoder
		zapLogger = zap.New(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(config), os.Stdout, zap.DebugLevel,
			),
		)
	} else {
		config := zap.NewProductionEncoderConfig()
		config.EncodeTime = zapcore.ISO8601TimeEncoder
		zapLogger = zap.New(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(config), os.Stdout, zap.DebugLevel,
			),
		)
	}
	return zapLogger
}
