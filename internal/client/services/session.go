package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dmitrijs2005/patinapro/internal/client/device"
	"github.com/dmitrijs2005/patinapro/internal/client/repositories/session"
	"github.com/dmitrijs2005/patinapro/internal/common"
	"github.com/dmitrijs2005/patinapro/internal/dbx"
	"github.com/dmitrijs2005/patinapro/internal/logging"
)

// SessionState is the record of who is logged in on this device.
//
// The current username is durable (SQLite). Ephemeral holds scratch data
// that lives only as long as the process, such as the selected route.
// Clear wipes both.
type SessionState interface {
	SetCurrentUser(ctx context.Context, username string) error
	// CurrentUser returns the stored username or common.DefaultUsername.
	CurrentUser(ctx context.Context) (string, error)
	LookupCurrentUser(ctx context.Context) (string, bool, error)
	HasCurrentUser(ctx context.Context) (bool, error)
	LastLogin(ctx context.Context) (time.Time, bool, error)
	Clear(ctx context.Context) error
	Ephemeral() *gocache.Cache
}

type sessionState struct {
	db    *sql.DB
	cache *gocache.Cache
	now   func() time.Time
}

func NewSessionState(db *sql.DB) SessionState {
	return &sessionState{
		db:    db,
		cache: gocache.New(gocache.NoExpiration, 0),
		now:   time.Now,
	}
}

func (s *sessionState) SetCurrentUser(ctx context.Context, username string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := session.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.CurrentUserKey, username); err != nil {
			return err
		}
		return repo.Set(ctx, common.LastLoginKey, s.now().UTC().Format(time.RFC3339))
	})
}

func (s *sessionState) LookupCurrentUser(ctx context.Context) (string, bool, error) {
	name, ok, err := session.NewSQLiteRepository(s.db).Get(ctx, common.CurrentUserKey)
	if err != nil {
		return "", false, err
	}
	if !ok || name == "" {
		return "", false, nil
	}
	return name, true, nil
}

func (s *sessionState) CurrentUser(ctx context.Context) (string, error) {
	name, ok, err := s.LookupCurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return common.DefaultUsername, nil
	}
	return name, nil
}

func (s *sessionState) HasCurrentUser(ctx context.Context) (bool, error) {
	_, ok, err := s.LookupCurrentUser(ctx)
	return ok, err
}

func (s *sessionState) LastLogin(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := session.NewSQLiteRepository(s.db).Get(ctx, common.LastLoginKey)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse last login %q: %w", raw, err)
	}
	return t, true, nil
}

func (s *sessionState) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return session.NewSQLiteRepository(tx).Clear(ctx)
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.cache.Flush()
	return nil
}

func (s *sessionState) Ephemeral() *gocache.Cache {
	return s.cache
}

var logoutPrompt = device.Prompt{
	Title:   "Cerrar Sesión",
	Message: "¿Estás seguro de que quieres cerrar sesión?",
	Accept:  "Cerrar Sesión",
	Cancel:  "Cancelar",
}

// signOut asks for confirmation, then clears the session and returns to the
// login screen. It reports whether the user was signed out.
func signOut(ctx context.Context, ui device.UI, s SessionState, log logging.Logger) (bool, error) {
	ans, err := ui.Confirm(ctx, logoutPrompt)
	if err != nil {
		return false, fmt.Errorf("logout confirmation: %w", err)
	}
	if !ans.Confirmed {
		return false, nil
	}

	if err := s.Clear(ctx); err != nil {
		log.Error(ctx, "logout failed", "error", err)
		ui.Notify(ctx, "Error", "No se pudo cerrar la sesión.")
		return false, err
	}

	log.Info(ctx, "signed out")
	ui.Navigate(ctx, device.ViewLogin, nil)
	return true, nil
}
