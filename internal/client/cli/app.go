package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/patinapro/internal/client/client"
	"github.com/dmitrijs2005/patinapro/internal/client/config"
	"github.com/dmitrijs2005/patinapro/internal/client/device"
	"github.com/dmitrijs2005/patinapro/internal/client/models"
	"github.com/dmitrijs2005/patinapro/internal/client/services"
	"github.com/dmitrijs2005/patinapro/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	api     client.Client
	session services.SessionState

	authService services.AuthService
	profile     *services.ProfileFlow
	home        *services.ProfileFlow
	routes      *services.RoutesService

	term   *terminal
	camera *fileCamera
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the session database and wires the REST gateway, the flows
// and the terminal capabilities from c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerBaseURL, client.WithLogger(log))

	a := newApp(c, log, api, services.NewSessionState(db), bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, api client.Client, s services.SessionState, reader *bufio.Reader, out io.Writer) *App {
	a := &App{
		config:  c,
		log:     log,
		api:     api,
		session: s,
		term:    newTerminal(reader, out),
		camera:  &fileCamera{},
		reader:  reader,
		out:     out,
	}
	a.term.onNavigate = a.onNavigate

	ui := device.Combine(a.term, a.term, a.term)
	locator := fixedLocator{loc: models.Location{Latitude: c.Latitude, Longitude: c.Longitude}}

	a.authService = services.NewAuthService(api, s, ui, log)
	a.profile = services.NewProfileFlow(api, s, ui, log,
		services.WithFallbackUser(c.FallbackUsername),
		services.WithCamera(a.camera))
	a.home = services.NewProfileFlow(api, s, ui, log,
		services.WithFallbackUser(c.FallbackUsername),
		services.WithCamera(a.camera),
		services.AsOnboarding())
	a.routes = services.NewRoutesService(s, ui, locator, textMap{out: out}, log)
	return a
}

// onNavigate loads whatever the new view displays.
func (a *App) onNavigate(ctx context.Context, view device.View, params device.Params) {
	switch view {
	case device.ViewHome:
		var err error
		if name := params["usuario"]; name != "" {
			err = a.home.LoadUser(ctx, name)
		} else {
			err = a.home.Load(ctx)
		}
		if err == nil {
			a.printForm(a.home)
		}
	case device.ViewProfile:
		if err := a.profile.Load(ctx); err == nil {
			a.printForm(a.profile)
		}
	case device.ViewRoutes:
		if err := a.routes.ShowMap(ctx); err != nil {
			a.log.Warn(ctx, "map render failed", "error", err)
		}
	case device.ViewMenu:
		fmt.Fprintln(a.out, "Menú: profile, routes, logout")
	}
}

// currentFlow is the profile form the current view shows.
func (a *App) currentFlow() *services.ProfileFlow {
	if a.term.View() == device.ViewHome {
		return a.home
	}
	return a.profile
}

func (a *App) isLoggedIn() bool {
	ok, err := a.session.HasCurrentUser(context.Background())
	return err == nil && ok
}

func (a *App) getStatus() string {
	name, ok, err := a.session.LookupCurrentUser(context.Background())
	if err != nil || !ok {
		return fmt.Sprintf("(%s)", a.term.View())
	}
	return fmt.Sprintf("(%s@%s)", name, a.term.View())
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "close database", "error", err)
		}
	}
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Bienvenido a PatinaPRO (escribe 'help' para ver los comandos)")
	if a.isLoggedIn() {
		a.term.Navigate(ctx, device.ViewMenu, nil)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}
