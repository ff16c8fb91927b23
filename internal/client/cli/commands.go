package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/patinapro/internal/client/client"
	"github.com/dmitrijs2005/patinapro/internal/client/device"
	"github.com/dmitrijs2005/patinapro/internal/client/models"
	"github.com/dmitrijs2005/patinapro/internal/client/services"
	"github.com/dmitrijs2005/patinapro/internal/client/validation"
	"github.com/dmitrijs2005/patinapro/internal/common"
)

var fieldLabels = map[validation.Field]string{
	validation.FieldUsername:        "usuario",
	validation.FieldPassword:        "contraseña",
	validation.FieldConfirmPassword: "confirmación",
	validation.FieldEmail:           "correo",
	validation.FieldFirstName:       "nombre",
	validation.FieldLastName:        "apellido",
	validation.FieldEducationLevel:  "nivel",
	validation.FieldBirthDate:       "fecha de nacimiento",
	validation.FieldNewPassword:     "nueva contraseña",
}

var problemLabels = map[validation.Problem]string{
	validation.ProblemRequired: "obligatorio",
	validation.ProblemPattern:  "formato inválido",
	validation.ProblemEmail:    "correo inválido",
	validation.ProblemChoice:   "opción no válida",
	validation.ProblemInvalid:  "inválido",
}

// describe renders a validation result for the console, fields sorted.
func describe(r validation.Result) string {
	parts := make([]string, 0, len(r.Fields)+1)
	for f, p := range r.Fields {
		parts = append(parts, fieldLabels[f]+": "+problemLabels[p])
	}
	sort.Strings(parts)
	if r.Mismatch {
		parts = append(parts, "las contraseñas no coinciden")
	}
	return strings.Join(parts, "; ")
}

// report prints what the flows do not show themselves and passes err on.
func (a *App) report(ctx context.Context, err error) error {
	var verr *validation.Error
	switch {
	case err == nil:
	case errors.As(err, &verr):
		fmt.Fprintf(a.out, "Formulario inválido: %s\n", describe(verr.Result))
	case errors.Is(err, services.ErrInProgress):
		fmt.Fprintln(a.out, "Operación en curso, espera un momento.")
	case errors.Is(err, services.ErrCancelled):
		fmt.Fprintln(a.out, "Cancelado.")
	default:
		a.log.Debug(ctx, "command failed", "error", err)
	}
	return err
}

func (a *App) readSecret(prompt string) (string, error) {
	pw, err := getPassword(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) Register(ctx context.Context) error {
	var (
		form validation.RegistrationForm
		err  error
	)
	if form.Username, err = getSimpleText(a.reader, "Usuario (3 a 8 letras o números)", a.out); err != nil {
		return err
	}
	if form.Password, err = a.readSecret("Contraseña (4 dígitos)"); err != nil {
		return err
	}
	if form.ConfirmPassword, err = a.readSecret("Confirmar contraseña"); err != nil {
		return err
	}
	if form.Email, err = getSimpleText(a.reader, "Correo", a.out); err != nil {
		return err
	}

	return a.report(ctx, a.authService.Register(ctx, form))
}

func (a *App) Login(ctx context.Context) error {
	var (
		form validation.LoginForm
		err  error
	)
	if form.Username, err = getSimpleText(a.reader, "Usuario", a.out); err != nil {
		return err
	}
	if form.Password, err = a.readSecret("Contraseña"); err != nil {
		return err
	}
	return a.report(ctx, a.authService.Login(ctx, form))
}

func (a *App) Logout(ctx context.Context) error {
	_, err := a.authService.Logout(ctx)
	return a.report(ctx, err)
}

func (a *App) Whoami(ctx context.Context) error {
	name, ok, err := a.session.LookupCurrentUser(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	if !ok {
		fmt.Fprintf(a.out, "No has iniciado sesión (perfil por defecto: %s)\n", a.config.FallbackUsername)
		return nil
	}

	fmt.Fprintf(a.out, "Usuario: %s\n", name)
	if at, found, err := a.session.LastLogin(ctx); err == nil && found {
		fmt.Fprintf(a.out, "Último ingreso: %s\n", at.Local().Format("02/01/2006 15:04"))
	}
	return nil
}

// Profile opens the personal-information screen.
func (a *App) Profile(ctx context.Context) error {
	a.term.Navigate(ctx, device.ViewProfile, nil)
	return nil
}

func (a *App) printForm(flow *services.ProfileFlow) {
	form := flow.Form()

	if flow.IsNew() {
		fmt.Fprintf(a.out, "Usuario nuevo: %s (sin datos guardados)\n", flow.Username())
	}
	if !form.Onboarding {
		fmt.Fprintf(a.out, "Usuario: %s\nCorreo: %s\n", form.Username, form.Email)
	}
	photo := "no"
	if form.Photo != "" {
		photo = "sí"
	}
	fmt.Fprintf(a.out, "Nombre: %s\nApellido: %s\nNivel: %s\nFecha de nacimiento: %s\nFoto: %s\n",
		form.FirstName, form.LastName, form.EducationLevel, models.FormatBirthDate(form.BirthDate), photo)

	if res := form.Validate(); !res.Valid() {
		fmt.Fprintf(a.out, "Pendiente: %s\n", describe(res))
	}
}

// editField prompts with the current value; an empty answer keeps it.
func (a *App) editField(label, current string) (string, error) {
	v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", label, current), a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

func (a *App) editLevel(current models.EducationLevel) (models.EducationLevel, error) {
	levels := models.EducationLevels()
	opts := make([]string, len(levels))
	for i, l := range levels {
		opts[i] = fmt.Sprintf("%d) %s", i+1, l)
	}

	v, err := a.editField("Nivel "+strings.Join(opts, " "), string(current))
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(levels) {
		return levels[n-1], nil
	}
	return models.EducationLevel(v), nil
}

// Edit walks the fields of the form the current view shows.
func (a *App) Edit(ctx context.Context) error {
	flow := a.currentFlow()
	form := flow.Form()

	var err error
	if !form.Onboarding {
		if form.Username, err = a.editField("Usuario", form.Username); err != nil {
			return err
		}
		if form.Email, err = a.editField("Correo", form.Email); err != nil {
			return err
		}
	}
	if form.FirstName, err = a.editField("Nombre", form.FirstName); err != nil {
		return err
	}
	if form.LastName, err = a.editField("Apellido", form.LastName); err != nil {
		return err
	}
	if form.EducationLevel, err = a.editLevel(form.EducationLevel); err != nil {
		return err
	}
	if form.BirthDate, err = a.editField("Fecha de nacimiento (AAAA-MM-DD)", form.BirthDate); err != nil {
		return err
	}

	flow.SetForm(form)
	a.printForm(flow)
	return nil
}

func (a *App) Photo(ctx context.Context, path string) error {
	a.camera.use(path)
	if err := a.currentFlow().CapturePhoto(ctx); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Foto agregada al formulario.")
	return nil
}

func (a *App) Save(ctx context.Context) error {
	return a.report(ctx, a.currentFlow().Save(ctx))
}

func (a *App) Passwd(ctx context.Context) error {
	var (
		pf  validation.PasswordForm
		err error
	)
	if pf.NewPassword, err = a.readSecret("Nueva contraseña (4 dígitos)"); err != nil {
		return err
	}
	if pf.ConfirmPassword, err = a.readSecret("Confirmar contraseña"); err != nil {
		return err
	}
	return a.report(ctx, a.profile.ChangePassword(ctx, pf))
}

func (a *App) Delete(ctx context.Context) error {
	return a.report(ctx, a.profile.DeleteAccount(ctx))
}

// Routes opens the scheduled-routes screen.
func (a *App) Routes(ctx context.Context) error {
	a.term.Navigate(ctx, device.ViewRoutes, nil)
	return nil
}

func (a *App) Select(ctx context.Context, id string) error {
	n, err := strconv.Atoi(id)
	if err != nil {
		fmt.Fprintf(a.out, "Id de ruta inválido: %s\n", id)
		return err
	}

	route, err := a.routes.Select(ctx, n)
	if errors.Is(err, services.ErrRouteNotFound) {
		fmt.Fprintf(a.out, "No existe la ruta %d\n", n)
		return err
	}
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "Ruta seleccionada: %s\n", route.Name)
	return nil
}

func (a *App) Map(ctx context.Context) error {
	return a.report(ctx, a.routes.ShowMap(ctx))
}

func (a *App) Locate(ctx context.Context) error {
	_, err := a.routes.Locate(ctx)
	return a.report(ctx, err)
}

func (a *App) Users(ctx context.Context) error {
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		a.term.Notify(ctx, "Error", client.UserMessage(err, "No se pudo obtener la lista de usuarios."))
		return a.report(ctx, err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USUARIO\tCORREO\tNOMBRE\tNIVEL")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Username, u.Email, strings.TrimSpace(u.FirstName+" "+u.LastName), u.EducationLevel)
	}
	return tw.Flush()
}
