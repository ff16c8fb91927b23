package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/patinapro/internal/client/client"
	"github.com/dmitrijs2005/patinapro/internal/client/device"
	"github.com/dmitrijs2005/patinapro/internal/client/models"
	"github.com/dmitrijs2005/patinapro/internal/client/validation"
	"github.com/dmitrijs2005/patinapro/internal/logging"
)

type ProfileState int

const (
	StateIdle ProfileState = iota
	StateLoading
	StateLoaded
	StateSaving
	StateSaved
	StateFailed
)

func (s ProfileState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("ProfileState(%d)", int(s))
	}
}

// DefaultFallbackUser is loaded when nobody is logged in.
const DefaultFallbackUser = "solrack1"

var deleteTokens = []string{"ELIMINAR", "DELETE"}

var deletePrompt = device.Prompt{
	Title:       "Eliminar Cuenta",
	Message:     "¿Estás SEGURO de que quieres eliminar tu cuenta? Esta acción NO se puede deshacer.",
	Input:       true,
	Placeholder: `Escribe "ELIMINAR" para confirmar`,
	Accept:      "Eliminar",
	Cancel:      "Cancelar",
}

// ProfileFlow backs one profile form: the personal-information screen or,
// with AsOnboarding, the first-time screen shown after login.
//
// Save, ChangePassword and DeleteAccount each admit one call in flight;
// concurrent callers get ErrInProgress.
type ProfileFlow struct {
	client  client.Client
	session SessionState
	ui      device.UI
	log     logging.Logger
	camera  device.Camera

	fallbackUser string
	afterSave    device.View
	onboarding   bool

	mu           sync.Mutex
	state        ProfileState
	username     string
	isNew        bool
	form         validation.ProfileForm
	passwordForm validation.PasswordForm

	saving   inflight
	password inflight
	deleting inflight
}

type ProfileOption func(*ProfileFlow)

func WithFallbackUser(username string) ProfileOption {
	return func(f *ProfileFlow) {
		if username != "" {
			f.fallbackUser = username
		}
	}
}

// WithNavigateAfterSave moves to view after a successful save.
func WithNavigateAfterSave(view device.View) ProfileOption {
	return func(f *ProfileFlow) { f.afterSave = view }
}

// AsOnboarding configures the first-time variant: no username or email on
// the form, and the menu is shown after saving.
func AsOnboarding() ProfileOption {
	return func(f *ProfileFlow) {
		f.onboarding = true
		f.afterSave = device.ViewMenu
	}
}

func WithCamera(c device.Camera) ProfileOption {
	return func(f *ProfileFlow) { f.camera = c }
}

func NewProfileFlow(c client.Client, s SessionState, ui device.UI, log logging.Logger, opts ...ProfileOption) *ProfileFlow {
	f := &ProfileFlow{
		client:       c,
		session:      s,
		ui:           ui,
		fallbackUser: DefaultFallbackUser,
	}
	for _, o := range opts {
		o(f)
	}
	f.log = log.With("flow", "profile", "onboarding", f.onboarding)
	f.form = f.blankForm()
	return f
}

func (f *ProfileFlow) blankForm() validation.ProfileForm {
	return validation.ProfileForm{Onboarding: f.onboarding}
}

func (f *ProfileFlow) setState(s ProfileState) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

// resolveUser picks the session user, or the fallback when there is none.
func (f *ProfileFlow) resolveUser(ctx context.Context) string {
	name, ok, err := f.session.LookupCurrentUser(ctx)
	if err != nil {
		f.log.Warn(ctx, "session read failed, using fallback user", "error", err)
		return f.fallbackUser
	}
	if !ok {
		return f.fallbackUser
	}
	return name
}

// Load fetches the profile of the session user (or the fallback user).
func (f *ProfileFlow) Load(ctx context.Context) error {
	return f.LoadUser(ctx, f.resolveUser(ctx))
}

// LoadUser fetches the profile of username into the form. A user the
// backend does not know is a new user: the form stays blank and nothing is
// shown.
func (f *ProfileFlow) LoadUser(ctx context.Context, username string) error {
	f.mu.Lock()
	f.state = StateLoading
	f.username = username
	f.isNew = false
	f.form = f.blankForm()
	f.mu.Unlock()

	p, err := f.client.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			f.mu.Lock()
			f.state = StateLoaded
			f.isNew = true
			f.mu.Unlock()
			f.log.Info(ctx, "no stored profile, treating as new user", "user", username)
			return nil
		}

		f.setState(StateFailed)
		f.log.Error(ctx, "profile load failed", "user", username, "error", err)
		f.ui.Notify(ctx, "Error", "No se pudieron cargar los datos del usuario.")
		return fmt.Errorf("load profile %s: %w", username, err)
	}

	form := validation.ProfileFormFrom(*p, f.onboarding)
	if form.Username == "" {
		form.Username = username
	}

	f.mu.Lock()
	f.form = form
	f.state = StateLoaded
	f.mu.Unlock()

	f.log.Debug(ctx, "profile loaded", "user", username)
	return nil
}

func (f *ProfileFlow) Form() validation.ProfileForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// SetForm replaces the editable values. The form mode stays the flow's own.
func (f *ProfileFlow) SetForm(form validation.ProfileForm) {
	form.Onboarding = f.onboarding
	f.mu.Lock()
	f.form = form
	f.mu.Unlock()
}

// Validity is the current aggregate validation result of the form.
func (f *ProfileFlow) Validity() validation.Result {
	return f.Form().Validate()
}

func (f *ProfileFlow) State() ProfileState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// IsNew reports whether the last load found no stored profile.
func (f *ProfileFlow) IsNew() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isNew
}

// Username is the user the form was loaded for.
func (f *ProfileFlow) Username() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.username
}

func (f *ProfileFlow) Saving() bool {
	return f.saving.active()
}

// target is the user updates are sent for. The full form names its user;
// the onboarding form uses the loaded one.
func (f *ProfileFlow) target(ctx context.Context, form validation.ProfileForm) string {
	if !form.Onboarding && form.Username != "" {
		return form.Username
	}
	if name := f.Username(); name != "" {
		return name
	}
	return f.resolveUser(ctx)
}

// Save sends the form as a partial update. The stored profile is not
// fetched again afterwards, and on failure the form keeps its edits.
func (f *ProfileFlow) Save(ctx context.Context) error {
	form := f.Form()
	if err := form.Validate().Err(); err != nil {
		return err
	}
	if !f.saving.acquire() {
		return ErrInProgress
	}
	defer f.saving.release()

	username := f.target(ctx, form)
	f.setState(StateSaving)

	if _, err := f.client.UpdateUser(ctx, username, form.Update()); err != nil {
		f.setState(StateFailed)
		f.log.Error(ctx, "profile save failed", "user", username, "error", err)
		f.ui.Notify(ctx, "Error", client.UserMessage(err, "No se pudo actualizar la información."))
		return fmt.Errorf("save profile %s: %w", username, err)
	}

	f.setState(StateSaved)
	f.log.Info(ctx, "profile saved", "user", username)

	if f.onboarding {
		f.ui.Notify(ctx, "Datos guardados", fmt.Sprintf("Nombre: %s\nApellido: %s\nFecha de nacimiento: %s",
			form.FirstName, form.LastName, models.FormatBirthDate(form.BirthDate)))
	} else {
		f.ui.Notify(ctx, "Éxito", "Información personal actualizada correctamente.")
	}

	if f.afterSave != "" {
		f.ui.Navigate(ctx, f.afterSave, nil)
	}
	return nil
}

// CapturePhoto takes a picture and puts it on the form, base64 encoded.
func (f *ProfileFlow) CapturePhoto(ctx context.Context) error {
	if f.camera == nil {
		return ErrNoCamera
	}

	data, err := f.camera.CapturePhoto(ctx)
	if err != nil {
		f.log.Warn(ctx, "photo capture failed", "error", err)
		f.ui.Notify(ctx, "Error", "No se pudo capturar la foto.")
		return fmt.Errorf("capture photo: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	f.mu.Lock()
	f.form.Photo = encoded
	f.mu.Unlock()
	return nil
}

func (f *ProfileFlow) PasswordForm() validation.PasswordForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.passwordForm
}

func (f *ProfileFlow) SetPasswordForm(pf validation.PasswordForm) {
	f.mu.Lock()
	f.passwordForm = pf
	f.mu.Unlock()
}

// ChangePassword sends a password-only update. The password form is reset
// on success.
func (f *ProfileFlow) ChangePassword(ctx context.Context, pf validation.PasswordForm) error {
	f.SetPasswordForm(pf)

	if err := pf.Validate().Err(); err != nil {
		return err
	}
	if !f.password.acquire() {
		return ErrInProgress
	}
	defer f.password.release()

	username := f.Username()
	if username == "" {
		username = f.resolveUser(ctx)
	}

	if _, err := f.client.UpdateUser(ctx, username, models.PasswordUpdate(pf.NewPassword)); err != nil {
		f.log.Error(ctx, "password change failed", "user", username, "error", err)
		f.ui.Notify(ctx, "Error", "No se pudo cambiar la contraseña.")
		return fmt.Errorf("change password %s: %w", username, err)
	}

	f.SetPasswordForm(validation.PasswordForm{})
	f.log.Info(ctx, "password changed", "user", username)
	f.ui.Notify(ctx, "Éxito", "Contraseña cambiada correctamente.")
	return nil
}

func isDeleteToken(s string) bool {
	for _, t := range deleteTokens {
		if s == t {
			return true
		}
	}
	return false
}

// DeleteAccount removes the account after the user types the confirmation
// token. The session is cleared and the login screen shown.
func (f *ProfileFlow) DeleteAccount(ctx context.Context) error {
	if !f.deleting.acquire() {
		return ErrInProgress
	}
	defer f.deleting.release()

	ans, err := f.ui.Confirm(ctx, deletePrompt)
	if err != nil {
		return fmt.Errorf("delete confirmation: %w", err)
	}
	if !ans.Confirmed {
		return ErrCancelled
	}
	if !isDeleteToken(strings.TrimSpace(ans.Text)) {
		f.ui.Notify(ctx, "Error", `Debes escribir "ELIMINAR" para confirmar.`)
		return ErrConfirmationMismatch
	}

	username := f.Username()
	if username == "" {
		username = f.resolveUser(ctx)
	}

	if _, err := f.client.DeleteUser(ctx, username); err != nil {
		f.log.Error(ctx, "account deletion failed", "user", username, "error", err)
		f.ui.Notify(ctx, "Error", "No se pudo eliminar la cuenta.")
		return fmt.Errorf("delete account %s: %w", username, err)
	}

	var clearErr error
	if err := f.session.Clear(ctx); err != nil {
		f.log.Error(ctx, "session clear after deletion failed", "error", err)
		clearErr = err
	}

	f.mu.Lock()
	f.form = f.blankForm()
	f.passwordForm = validation.PasswordForm{}
	f.username = ""
	f.state = StateIdle
	f.mu.Unlock()

	f.log.Info(ctx, "account deleted", "user", username)
	f.ui.Notify(ctx, "Cuenta Eliminada", "Tu cuenta ha sido eliminada exitosamente.")
	f.ui.Navigate(ctx, device.ViewLogin, nil)
	return clearErr
}

func (f *ProfileFlow) Logout(ctx context.Context) (bool, error) {
	return signOut(ctx, f.ui, f.session, f.log)
}
