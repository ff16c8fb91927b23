package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/patinapro/internal/client/device"
	"github.com/dmitrijs2005/patinapro/internal/client/models"
	"github.com/dmitrijs2005/patinapro/internal/client/validation"
	"github.com/dmitrijs2005/patinapro/internal/logging"
)

func storedProfile() *models.UserProfile {
	return &models.UserProfile{
		Username:       "patina",
		Email:          "patina@patinapro.cl",
		FirstName:      "Pati",
		LastName:       "Nadora",
		EducationLevel: models.EducationIntermediate,
		BirthDate:      "1998-08-20T00:00:00",
	}
}

func newProfile(t *testing.T, c *fakeClient, opts ...ProfileOption) (*ProfileFlow, SessionState, *fakeUI) {
	t.Helper()
	s := newSession(t)
	ui := &fakeUI{}
	return NewProfileFlow(c, s, ui, logging.Nop(), opts...), s, ui
}

func TestProfileLoad_UsesSessionUser(t *testing.T) {
	c := &fakeClient{GetRet: storedProfile()}
	f, s, ui := newProfile(t, c)
	ctx := context.Background()
	require.NoError(t, s.SetCurrentUser(ctx, "patina"))

	require.NoError(t, f.Load(ctx))

	assert.Equal(t, "patina", c.LastGetUser)
	assert.Equal(t, StateLoaded, f.State())
	assert.False(t, f.IsNew())
	assert.Equal(t, "Pati", f.Form().FirstName)
	assert.Equal(t, "patina@patinapro.cl", f.Form().Email)
	assert.True(t, f.Validity().Valid())
	assert.Empty(t, ui.Notes)
}

func TestProfileLoad_FallbackUser(t *testing.T) {
	c := &fakeClient{GetRet: storedProfile()}

	f, _, _ := newProfile(t, c)
	require.NoError(t, f.Load(context.Background()))
	assert.Equal(t, DefaultFallbackUser, c.LastGetUser)

	f, _, _ = newProfile(t, c, WithFallbackUser("otro"))
	require.NoError(t, f.Load(context.Background()))
	assert.Equal(t, "otro", c.LastGetUser)
}

func TestProfileLoad_NotFoundIsNewUser(t *testing.T) {
	c := &fakeClient{GetErr: notFound()}
	f, _, ui := newProfile(t, c)

	require.NoError(t, f.Load(context.Background()))

	assert.Equal(t, StateLoaded, f.State())
	assert.True(t, f.IsNew())
	assert.Equal(t, validation.ProfileForm{}, f.Form())
	assert.Empty(t, ui.Notes, "a new user is not an error")
}

func TestProfileLoad_OtherErrorIsShown(t *testing.T) {
	c := &fakeClient{GetErr: serverError(500, "")}
	f, _, ui := newProfile(t, c)

	err := f.Load(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateFailed, f.State())
	assert.Equal(t, validation.ProfileForm{}, f.Form())
	assert.Equal(t, note{Title: "Error", Message: "No se pudieron cargar los datos del usuario."}, ui.lastNote())
}

func TestProfileLoad_MissingFieldsBecomeEmpty(t *testing.T) {
	c := &fakeClient{GetRet: &models.UserProfile{Email: "x@p.cl"}}
	f, _, _ := newProfile(t, c, AsOnboarding())

	require.NoError(t, f.LoadUser(context.Background(), "nuevo"))
	form := f.Form()
	assert.True(t, form.Onboarding)
	assert.Equal(t, "nuevo", form.Username)
	assert.Empty(t, form.FirstName)
	assert.Empty(t, form.BirthDate)
}

func TestProfileSave_InvalidMakesNoCall(t *testing.T) {
	c := &fakeClient{GetErr: notFound()}
	f, _, _ := newProfile(t, c)
	require.NoError(t, f.Load(context.Background()))

	err := f.Save(context.Background())
	require.ErrorIs(t, err, validation.ErrValidation)
	assert.Zero(t, c.UpdateCalls)
}

func TestProfileSave_Success(t *testing.T) {
	c := &fakeClient{GetRet: storedProfile()}
	f, _, ui := newProfile(t, c)
	ctx := context.Background()
	require.NoError(t, f.LoadUser(ctx, "patina"))

	form := f.Form()
	form.LastName = "Patinadora"
	f.SetForm(form)

	require.NoError(t, f.Save(ctx))

	assert.Equal(t, "patina", c.LastUpdateUser)
	require.NotNil(t, c.LastUpdate.BirthDate)
	assert.Equal(t, "1998-08-20", *c.LastUpdate.BirthDate)
	require.NotNil(t, c.LastUpdate.LastName)
	assert.Equal(t, "Patinadora", *c.LastUpdate.LastName)
	require.NotNil(t, c.LastUpdate.Email)

	assert.Equal(t, StateSaved, f.State())
	assert.Equal(t, 1, c.GetCalls, "no re-fetch after save")
	assert.Equal(t, note{Title: "Éxito", Message: "Información personal actualizada correctamente."}, ui.lastNote())
	assert.Empty(t, ui.Navs)
}

func TestProfileSave_OnboardingNavigatesToMenu(t *testing.T) {
	c := &fakeClient{GetErr: notFound()}
	f, _, ui := newProfile(t, c, AsOnboarding())
	ctx := context.Background()
	require.NoError(t, f.LoadUser(ctx, "nuevo"))

	f.SetForm(validation.ProfileForm{
		FirstName:      "Ana",
		LastName:       "Rueda",
		EducationLevel: models.EducationBeginner,
		BirthDate:      "1990-03-15T00:00:00.000Z",
	})
	require.NoError(t, f.Save(ctx))

	assert.Equal(t, "nuevo", c.LastUpdateUser)
	assert.Nil(t, c.LastUpdate.Email)
	assert.Equal(t, "Datos guardados", ui.lastNote().Title)
	assert.Contains(t, ui.lastNote().Message, "15 de marzo de 1990")
	assert.Equal(t, device.ViewMenu, ui.lastNav().View)
}

func TestProfileSave_NavigateAfterSaveOption(t *testing.T) {
	c := &fakeClient{GetRet: storedProfile()}
	f, _, ui := newProfile(t, c, WithNavigateAfterSave(device.ViewRoutes))
	require.NoError(t, f.LoadUser(context.Background(), "patina"))
	require.NoError(t, f.Save(context.Background()))
	assert.Equal(t, device.ViewRoutes, ui.lastNav().View)
}

func TestProfileSave_FailureKeepsEdits(t *testing.T) {
	c := &fakeClient{GetRet: storedProfile(), UpdateErr: serverError(500, "")}
	f, _, ui := newProfile(t, c)
	ctx := context.Background()
	require.NoError(t, f.LoadUser(ctx, "patina"))

	form := f.Form()
	form.FirstName = "Editada"
	f.SetForm(form)

	require.Error(t, f.Save(ctx))
	assert.Equal(t, StateFailed, f.State())
	assert.Equal(t, "Editada", f.Form().FirstName)
	assert.Equal(t, note{Title: "Error", Message: "No se pudo actualizar la información."}, ui.lastNote())
	assert.False(t, f.Saving())
}

func TestProfileSave_ConcurrentSaveIsRefused(t *testing.T) {
	c := &fakeClient{
		GetRet:        storedProfile(),
		UpdateBlock:   make(chan struct{}),
		UpdateEntered: make(chan struct{}, 1),
	}
	f, _, _ := newProfile(t, c)
	ctx := context.Background()
	require.NoError(t, f.LoadUser(ctx, "patina"))

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = f.Save(ctx)
	}()

	select {
	case <-c.UpdateEntered:
	case <-time.After(5 * time.Second):
		t.Fatal("first save never reached the gateway")
	}

	assert.Equal(t, StateSaving, f.State())
	assert.ErrorIs(t, f.Save(ctx), ErrInProgress)

	close(c.UpdateBlock)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, 1, c.updateCalls())
}

func TestProfileCapturePhoto(t *testing.T) {
	c := &fakeClient{GetRet: storedProfile()}
	f, _, ui := newProfile(t, c, WithCamera(&fakeCamera{Data: []byte("hello")}))
	ctx := context.Background()
	require.NoError(t, f.LoadUser(ctx, "patina"))

	require.NoError(t, f.CapturePhoto(ctx))
	assert.Equal(t, "aGVsbG8=", f.Form().Photo)

	require.NoError(t, f.Save(ctx))
	require.NotNil(t, c.LastUpdate.Photo)
	assert.Equal(t, "aGVsbG8=", *c.LastUpdate.Photo)
	assert.Len(t, ui.notes(), 1)
}

func TestProfileCapturePhoto_Errors(t *testing.T) {
	f, _, _ := newProfile(t, &fakeClient{})
	assert.ErrorIs(t, f.CapturePhoto(context.Background()), ErrNoCamera)

	f, _, ui := newProfile(t, &fakeClient{}, WithCamera(&fakeCamera{Err: device.ErrPermission}))
	err := f.CapturePhoto(context.Background())
	assert.ErrorIs(t, err, device.ErrPermission)
	assert.Equal(t, "No se pudo capturar la foto.", ui.lastNote().Message)
	assert.Empty(t, f.Form().Photo)
}

func TestChangePassword_Success(t *testing.T) {
	c := &fakeClient{GetRet: storedProfile()}
	f, _, ui := newProfile(t, c)
	ctx := context.Background()
	require.NoError(t, f.LoadUser(ctx, "patina"))

	require.NoError(t, f.ChangePassword(ctx, validation.PasswordForm{NewPassword: "4321", ConfirmPassword: "4321"}))

	assert.Equal(t, "patina", c.LastUpdateUser)
	assert.Equal(t, models.PasswordUpdate("4321"), c.LastUpdate)
	assert.Equal(t, validation.PasswordForm{}, f.PasswordForm())
	assert.Equal(t, note{Title: "Éxito", Message: "Contraseña cambiada correctamente."}, ui.lastNote())
}

func TestChangePassword_MismatchMakesNoCall(t *testing.T) {
	c := &fakeClient{}
	f, _, _ := newProfile(t, c)

	pf := validation.PasswordForm{NewPassword: "4321", ConfirmPassword: "1234"}
	err := f.ChangePassword(context.Background(), pf)

	require.ErrorIs(t, err, validation.ErrValidation)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Result.Mismatch)
	assert.Zero(t, c.UpdateCalls)
	assert.Equal(t, pf, f.PasswordForm(), "form kept for correction")
}

func TestChangePassword_Failure(t *testing.T) {
	c := &fakeClient{UpdateErr: serverError(500, "boom")}
	f, _, ui := newProfile(t, c)

	err := f.ChangePassword(context.Background(), validation.PasswordForm{NewPassword: "4321", ConfirmPassword: "4321"})
	require.Error(t, err)
	assert.Equal(t, DefaultFallbackUser, c.LastUpdateUser)
	assert.Equal(t, "No se pudo cambiar la contraseña.", ui.lastNote().Message)
}

func TestChangePassword_OwnGuard(t *testing.T) {
	c := &fakeClient{}
	f, _, _ := newProfile(t, c)
	ctx := context.Background()

	require.True(t, f.password.acquire())
	err := f.ChangePassword(ctx, validation.PasswordForm{NewPassword: "4321", ConfirmPassword: "4321"})
	assert.ErrorIs(t, err, ErrInProgress)
	f.password.release()

	require.True(t, f.saving.acquire(), "a pending save does not block password changes")
	require.NoError(t, f.ChangePassword(ctx, validation.PasswordForm{NewPassword: "4321", ConfirmPassword: "4321"}))
	f.saving.release()
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong token", func(t *testing.T) {
		c := &fakeClient{}
		f, _, ui := newProfile(t, c)
		ui.Answers = []device.Answer{{Confirmed: true, Text: "eliminar"}}

		assert.ErrorIs(t, f.DeleteAccount(ctx), ErrConfirmationMismatch)
		assert.Zero(t, c.DeleteCalls)
		assert.Equal(t, `Debes escribir "ELIMINAR" para confirmar.`, ui.lastNote().Message)
		require.Len(t, ui.Prompts, 1)
		assert.True(t, ui.Prompts[0].Input)
	})

	t.Run("cancelled", func(t *testing.T) {
		c := &fakeClient{}
		f, _, ui := newProfile(t, c)

		assert.ErrorIs(t, f.DeleteAccount(ctx), ErrCancelled)
		assert.Zero(t, c.DeleteCalls)
		assert.Empty(t, ui.Notes)
	})

	for _, token := range []string{"ELIMINAR", "DELETE", " ELIMINAR\n"} {
		t.Run("confirmed "+token, func(t *testing.T) {
			c := &fakeClient{GetRet: storedProfile()}
			f, s, ui := newProfile(t, c)
			require.NoError(t, s.SetCurrentUser(ctx, "patina"))
			require.NoError(t, f.Load(ctx))
			ui.Answers = []device.Answer{{Confirmed: true, Text: token}}

			require.NoError(t, f.DeleteAccount(ctx))

			assert.Equal(t, "patina", c.LastDeleteUser)
			has, err := s.HasCurrentUser(ctx)
			require.NoError(t, err)
			assert.False(t, has)
			assert.Equal(t, "Cuenta Eliminada", ui.lastNote().Title)
			assert.Equal(t, device.ViewLogin, ui.lastNav().View)
			assert.Equal(t, StateIdle, f.State())
		})
	}

	t.Run("backend failure keeps session", func(t *testing.T) {
		c := &fakeClient{DeleteErr: serverError(500, "")}
		f, s, ui := newProfile(t, c)
		require.NoError(t, s.SetCurrentUser(ctx, "patina"))
		ui.Answers = []device.Answer{{Confirmed: true, Text: "ELIMINAR"}}

		require.Error(t, f.DeleteAccount(ctx))
		has, _ := s.HasCurrentUser(ctx)
		assert.True(t, has)
		assert.Equal(t, "No se pudo eliminar la cuenta.", ui.lastNote().Message)
		assert.Empty(t, ui.Navs)
	})

	t.Run("dialog error", func(t *testing.T) {
		c := &fakeClient{}
		f, _, ui := newProfile(t, c)
		ui.ConfirmErr = errors.New("closed")
		require.Error(t, f.DeleteAccount(ctx))
		assert.False(t, f.deleting.active())
	})
}

func TestProfileLogout(t *testing.T) {
	c := &fakeClient{}
	f, s, ui := newProfile(t, c)
	ctx := context.Background()
	require.NoError(t, s.SetCurrentUser(ctx, "patina"))
	ui.Answers = []device.Answer{{Confirmed: true}}

	out, err := f.Logout(ctx)
	require.NoError(t, err)
	assert.True(t, out)
	has, _ := s.HasCurrentUser(ctx)
	assert.False(t, has)
}

func TestProfileState_String(t *testing.T) {
	assert.Equal(t, "saving", StateSaving.String())
	assert.Equal(t, "ProfileState(42)", ProfileState(42).String())
}
