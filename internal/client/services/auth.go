// Package services contains the application flows of the PatinaPRO client:
// login and registration, the profile screens and the routes screen. Flows
// validate locally, call the gateway, update the session and report back
// through the host UI capabilities.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/patinapro/internal/client/client"
	"github.com/dmitrijs2005/patinapro/internal/client/device"
	"github.com/dmitrijs2005/patinapro/internal/client/validation"
	"github.com/dmitrijs2005/patinapro/internal/logging"
)

// AuthService drives the login and registration screens.
//
// Contract:
//   - Login: validate, authenticate, store the session, go to home.
//   - Register: validate, create the account, go back to login.
//   - Logout: confirm, clear the session, go to login.
//
// Remote failures are shown to the user and also returned.
type AuthService interface {
	Login(ctx context.Context, form validation.LoginForm) error
	Register(ctx context.Context, form validation.RegistrationForm) error
	Logout(ctx context.Context) (bool, error)
}

type authService struct {
	client  client.Client
	session SessionState
	ui      device.UI
	log     logging.Logger

	login    inflight
	register inflight
}

func NewAuthService(c client.Client, s SessionState, ui device.UI, log logging.Logger) AuthService {
	return &authService{client: c, session: s, ui: ui, log: log.With("flow", "auth")}
}

func (a *authService) Login(ctx context.Context, form validation.LoginForm) error {
	if err := form.Validate().Err(); err != nil {
		return err
	}
	if !a.login.acquire() {
		return ErrInProgress
	}
	defer a.login.release()

	res, err := a.client.Login(ctx, form.Credentials())
	if err != nil {
		a.log.Warn(ctx, "login failed", "user", form.Username, "error", err)
		a.ui.Notify(ctx, "Error", client.UserMessage(err, "Usuario o contraseña incorrectos"))
		return fmt.Errorf("login error: %w", err)
	}

	username := res.Username
	if username == "" {
		username = form.Username
	}

	if err := a.session.SetCurrentUser(ctx, username); err != nil {
		a.log.Error(ctx, "session write failed", "user", username, "error", err)
		a.ui.Notify(ctx, "Error", "No se pudo guardar la sesión.")
		return fmt.Errorf("save session: %w", err)
	}

	a.log.Info(ctx, "login succeeded", "user", username)
	a.ui.Navigate(ctx, device.ViewHome, device.Params{"usuario": username})
	return nil
}

func (a *authService) Register(ctx context.Context, form validation.RegistrationForm) error {
	res := form.Validate()
	if !res.Complete() {
		a.ui.Notify(ctx, "Formulario incompleto", "Por favor, completa todos los campos correctamente.")
		return res.Err()
	}
	if res.Mismatch {
		a.ui.Notify(ctx, "Error", "Las contraseñas no coinciden.")
		return res.Err()
	}

	if !a.register.acquire() {
		return ErrInProgress
	}
	defer a.register.release()

	created, err := a.client.CreateUser(ctx, form.NewUser())
	if err != nil {
		a.log.Warn(ctx, "registration failed", "user", form.Username, "error", err)
		a.ui.Notify(ctx, "Error", client.UserMessage(err, "No se pudo crear la cuenta."))
		return fmt.Errorf("register error: %w", err)
	}

	a.log.Info(ctx, "user registered", "user", created.Username, "id", created.ID)
	a.ui.Notify(ctx, "Registro exitoso", "¡Cuenta creada con éxito!")
	a.ui.Navigate(ctx, device.ViewLogin, nil)
	return nil
}

func (a *authService) Logout(ctx context.Context) (bool, error) {
	return signOut(ctx, a.ui, a.session, a.log)
}
