package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Financial-Times/go-logger/v2"
	"github.com/Financial-Times/pons-dictionary-lookup/dictionary"
	"github.com/Financial-Times/pons-dictionary-lookup/terminal"
	"github.com/gorilla/mux"
	cli "github.com/jawher/mow.cli"
	"github.com/joho/godotenv"
)

const appDescription = "Looks up a word in the PONS dictionary and lists its meanings with example translations"

const (
	lookupLogLevel = "WARN"
	serveLogLevel  = "INFO"
)

// usageError marks failures caused by the invocation rather than the lookup.
type usageError struct {
	err error
}

func (e usageError) Error() string {
	return e.err.Error()
}

func (e usageError) Unwrap() error {
	return e.err
}

type serverOptions struct {
	appSystemCode string
	appName       string
	port          string
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 128,
		},
	}
}

func main() {
	// A missing .env is fine when the variables come from the environment.
	_ = godotenv.Load()

	app := newApp(os.Stdout)
	if runErr := app.Run(os.Args); runErr != nil {
		fmt.Fprintf(os.Stderr, "App could not start, error=[%s]\n", runErr)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Cli {
	app := cli.App("pons-dictionary-lookup", appDescription)
	app.Spec = "[OPTIONS] [ARGS...]"

	appName := app.String(cli.StringOpt{
		Name:   "app-name",
		Value:  "PONS Dictionary Lookup",
		Desc:   "Application name",
		EnvVar: "APP_NAME",
	})
	apiKey := app.String(cli.StringOpt{
		Name:   "api-key",
		Desc:   "PONS API secret sent as X-Secret",
		EnvVar: "PONS_API_KEY",
	})
	apiURL := app.String(cli.StringOpt{
		Name:   "api-url",
		Value:  dictionary.DefaultBaseURL,
		Desc:   "PONS dictionary endpoint",
		EnvVar: "PONS_API_URL",
	})
	timeout := app.Int(cli.IntOpt{
		Name:   "http-timeout",
		Value:  15,
		Desc:   "Timeout in seconds for requests to the dictionary service",
		EnvVar: "HTTP_TIMEOUT",
	})
	logLevel := app.String(cli.StringOpt{
		Name:   "log-level",
		Desc:   "Log level (default WARN for lookups, INFO when serving)",
		EnvVar: "LOG_LEVEL",
	})
	plain := app.Bool(cli.BoolOpt{
		Name:   "plain",
		Value:  false,
		Desc:   "Print the meanings instead of opening the list view",
		EnvVar: "PLAIN_OUTPUT",
	})
	serve := app.Bool(cli.BoolOpt{
		Name:  "serve",
		Value: false,
		Desc:  "Serve dictionary lookups over HTTP instead of looking up a word",
	})
	appSystemCode := app.String(cli.StringOpt{
		Name:   "app-system-code",
		Value:  "pons-dictionary-lookup",
		Desc:   "System Code of the application",
		EnvVar: "APP_SYSTEM_CODE",
	})
	port := app.String(cli.StringOpt{
		Name:   "port",
		Value:  "8080",
		Desc:   "Port to listen on when serving",
		EnvVar: "APP_PORT",
	})
	args := app.Strings(cli.StringsArg{
		Name: "ARGS",
		Desc: "<input lang> [output lang] <word...>; languages are en, de or ru",
	})

	app.Action = func() {
		config := &dictionary.Config{
			APIKey:  *apiKey,
			BaseURL: *apiURL,
			Timeout: time.Duration(*timeout) * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		var err error
		if *serve {
			log := logger.NewUPPLogger(*appName, levelOrDefault(*logLevel, serveLogLevel))
			err = runServer(ctx, config, serverOptions{appSystemCode: *appSystemCode, appName: *appName, port: *port}, log)
		} else {
			log := logger.NewUPPLogger(*appName, levelOrDefault(*logLevel, lookupLogLevel))
			err = runLookup(ctx, *args, config, out, *plain, log)
		}
		stop()

		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			cli.Exit(exitCode(err))
		}
	}

	return app
}

func levelOrDefault(level string, fallback string) string {
	if level == "" {
		return fallback
	}
	return level
}

func exitCode(err error) int {
	var usageErr usageError
	if errors.As(err, &usageErr) {
		return 2
	}
	return 1
}

// runLookup resolves the languages and term from args, looks the term up and
// renders the resulting lines.
func runLookup(ctx context.Context, args []string, config *dictionary.Config, out io.Writer, plain bool, log *logger.UPPLogger) error {
	from, to, term, err := dictionary.ResolveLanguages(args)
	if err != nil {
		return usageError{err: err}
	}
	if err := config.Validate(); err != nil {
		return usageError{err: err}
	}

	lookups := dictionary.NewLookupService(config, newHTTPClient(config.Timeout), log)
	lookup, err := lookups.Lookup(ctx, from, to, term, "")
	if err != nil {
		return fmt.Errorf("Lookup of %q failed: %w", term, err)
	}

	if err := terminal.Render(lookup.Lines, out, plain); err != nil {
		return fmt.Errorf("could not render lookup: %w", err)
	}
	return nil
}

// runServer serves lookups and the admin endpoints until ctx is cancelled.
func runServer(ctx context.Context, config *dictionary.Config, opts serverOptions, log *logger.UPPLogger) error {
	if err := config.Validate(); err != nil {
		return usageError{err: err}
	}

	log.WithFields(map[string]interface{}{
		"PONS_API_URL": config.BaseURL,
		"HTTP_TIMEOUT": config.Timeout.String(),
	}).Infof("[Startup] %s is starting", opts.appName)
	log.Infof("System code: %s, App Name: %s, Port: %s", opts.appSystemCode, opts.appName, opts.port)

	lookups := dictionary.NewLookupService(config, newHTTPClient(config.Timeout), log)
	handler := dictionary.NewHandler(lookups, log)

	router := mux.NewRouter()
	handler.RegisterHandlers(router)
	serveMux := http.NewServeMux()
	handler.RegisterAdminHandlers(serveMux, router, opts.appSystemCode, opts.appName, appDescription)

	listener, err := net.Listen("tcp", ":"+opts.port)
	if err != nil {
		return fmt.Errorf("unable to listen on port %s: %w", opts.port, err)
	}
	server := &http.Server{
		Handler:           serveMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Stopping application")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down server cleanly: %w", err)
	}
	return nil
}
