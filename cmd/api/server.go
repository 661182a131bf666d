package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/seralvarez/picstash/pkg/auth"
	"github.com/seralvarez/picstash/pkg/mailer"
	"github.com/seralvarez/picstash/services/images"
	"github.com/seralvarez/picstash/services/users"
)

type application struct {
	users     users.Service
	images    images.Service
	tokenizer *auth.Tokenizer
	mailer    mailer.Mailer
	logger    *zap.SugaredLogger
	bgTasks   sync.WaitGroup
	config    config
}

func (app *application) handler() http.Handler {
	router := mux.NewRouter()

	router.Methods(http.MethodPost).Path("/auth/register").HandlerFunc(app.registerHandler)
	router.Methods(http.MethodPost).Path("/auth/login").HandlerFunc(app.loginHandler)

	// The fixed my-images path must be registered before the {id} routes,
	// gorilla matches in registration order.
	router.Methods(http.MethodGet).Path("/images/my-images").HandlerFunc(app.listMyImagesHandler)
	router.Methods(http.MethodGet).Path("/images").HandlerFunc(app.publicGalleryHandler)
	router.Methods(http.MethodGet).Path("/images/{id}").HandlerFunc(app.getImageHandler)
	router.Methods(http.MethodGet).Path("/images/{id}/info").HandlerFunc(app.getImageInfoHandler)
	router.Methods(http.MethodPost).Path("/images").HandlerFunc(app.uploadImageHandler)
	router.Methods(http.MethodPut).Path("/images/{id}").HandlerFunc(app.updateImageHandler)
	router.Methods(http.MethodDelete).Path("/images/{id}").HandlerFunc(app.deleteImageHandler)

	router.Methods(http.MethodGet).Path("/healthcheck").HandlerFunc(app.healthcheckHandler)
	if app.config.Metrics.MetricsEndpoint != "" {
		router.Methods(http.MethodGet).Path(app.config.Metrics.MetricsEndpoint).Handler(promhttp.Handler())
	}

	router.NotFoundHandler = http.HandlerFunc(app.routeNotFoundHandler)
	router.MethodNotAllowedHandler = http.HandlerFunc(app.methodNotAllowedHandler)

	handler := app.authenticate(router)
	handler = app.metrics(handler)
	handler = app.enableCORS(handler)
	handler = app.recoverPanic(handler)
	handler = app.logging(handler)
	return handler
}

func (app *application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.Address, app.config.Port),
		Handler:      app.handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		app.logger.Infow("shutting down server", "signal", s.String())

		// Call Shutdown() on our server. Shutdown() will return nil if the
		// graceful shutdown was successful, or an error (which may happen
		// because of a problem closing the listeners, or because the shutdown
		// didn't complete before the 5-second context deadline is hit).
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)

		// Block until the background goroutines have finished, then relay the
		// shutdown outcome.
		app.bgTasks.Wait()

		shutdownError <- err
	}()

	app.logger.Infow("starting server",
		"addr", srv.Addr,
		"env", app.config.Env,
	)

	// Calling Shutdown() on our server will cause ListenAndServe() to
	// immediately return a http.ErrServerClosed error, which actually
	// indicates that the graceful shutdown has started.
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Infow("stopped server", "addr", srv.Addr)
	return nil
}

// The background() helper runs an arbitrary function in a goroutine tracked
// by the shutdown wait group.
func (app *application) background(fn func()) {
	app.bgTasks.Add(1)
	go func() {
		defer app.bgTasks.Done()
		fn()
	}()
}
