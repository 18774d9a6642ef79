package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/client/config"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

// App is the interactive client. It owns the current route and a short
// navigation history; all domain work is delegated to the services.
type App struct {
	auth    services.AuthService
	profile services.ProfileService
	gallery services.GalleryService
	logger  logging.Logger

	reader *bufio.Reader
	out    io.Writer

	route   services.Route
	history []services.Route
	photo   services.PhotoSelection

	closeDB func() error
}

// NewApp opens the local database, wires the HTTP client and services and
// picks the start page: home when a full session is stored, the sign-up
// page otherwise.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	db, err := client.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	api := client.NewHTTPClient(cfg.ServerBaseURL, cfg.RequestTimeout, logger)
	repos := client.NewRepositories(db)
	store := services.NewSQLSessionStore(db, logger)
	guard := services.NewGuard(store, logger)

	start := services.RouteRegister
	if s, err := store.Load(ctx); err != nil {
		logger.Warn(ctx, "cannot read stored session", "error", err)
	} else if s.HasToken() && s.HasUserID() {
		start = services.RouteHome
	}

	a := newApp(
		services.NewAuthService(api, store, logger),
		services.NewProfileService(api, store, guard, logger),
		services.NewGalleryService(repos.Gallery, api, guard, logger),
		logger,
		start,
	)
	a.closeDB = db.Close
	return a, nil
}

// newApp builds an App over ready services, reading from stdin and writing
// to stdout.
func newApp(auth services.AuthService, profile services.ProfileService, gallery services.GalleryService,
	logger logging.Logger, start services.Route) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{
		auth:    auth,
		profile: profile,
		gallery: gallery,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		route:   start,
		history: []services.Route{start},
	}
}

// Run prints a greeting and blocks in the REPL until the user quits or
// input ends.
func (a *App) Run(ctx context.Context) {
	if a.closeDB != nil {
		defer func() {
			if err := a.closeDB(); err != nil {
				a.logger.Error(ctx, "close database", "error", err)
			}
		}()
	}
	printlnFn("Welcome to profilekeeper (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) status() string {
	return string(a.route)
}

func (a *App) writer() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}

// visit pushes a page onto the history unless it is already current.
func (a *App) visit(r services.Route) {
	if a.route == r {
		return
	}
	a.navigate(r, false)
}

func (a *App) navigate(r services.Route, replace bool) {
	if replace && len(a.history) > 0 {
		a.history[len(a.history)-1] = r
	} else {
		a.history = append(a.history, r)
	}
	a.route = r
	a.logger.Debug(context.Background(), "navigate", "route", string(r), "replace", replace)
}

// Back returns to the previous page, if there is one.
func (a *App) Back(_ context.Context) error {
	if len(a.history) < 2 {
		printlnFn("Nowhere to go back to.")
		return nil
	}
	a.history = a.history[:len(a.history)-1]
	a.route = a.history[len(a.history)-1]
	return nil
}

// apply shows the notice of a finished flow and follows its navigation.
func (a *App) apply(out services.Outcome) {
	if out.Notice != "" {
		printlnFn(out.Notice)
	}
	if out.Next != "" {
		a.navigate(out.Next, out.Replace)
	}
}

// report prints err the way the current page would and follows forced
// redirects. The error is returned unchanged.
func (a *App) report(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if r, ok := services.AsRedirect(err); ok {
		if r.Reason != "" {
			printlnFn(r.Reason)
		}
		a.navigate(r.To, r.Replace)
		return err
	}

	var (
		pe *services.PageError
		ve *services.ValidationError
	)
	switch {
	case errors.Is(err, services.ErrCancelled):
		printlnFn("Cancelled.")
	case errors.Is(err, services.ErrUploadInProgress):
		printlnFn("An upload is already in progress.")
	case errors.As(err, &ve):
		printlnFn("Error:", ve.Message)
	case errors.As(err, &pe):
		printlnFn("Error:", pe.Message)
	default:
		printlnFn("Error:", err.Error())
	}
	a.logger.Debug(ctx, "command failed", "route", string(a.route), "error", err)
	return err
}
