package validation

import (
	"github.com/dmitrijs2005/patinapro/internal/client/models"
)

type LoginForm struct {
	Username string
	Password string
}

func (f LoginForm) Validate() Result {
	var r Result
	r.check(FieldUsername, f.Username, "required,username")
	r.check(FieldPassword, f.Password, "required,pin")
	return r
}

func (f LoginForm) Credentials() models.Credentials {
	return models.Credentials{Username: f.Username, Password: f.Password}
}

type RegistrationForm struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
}

func (f RegistrationForm) Validate() Result {
	var r Result
	r.check(FieldUsername, f.Username, "required,username")
	r.check(FieldPassword, f.Password, "required,pin")
	r.check(FieldConfirmPassword, f.ConfirmPassword, "required")
	r.check(FieldEmail, f.Email, "required,email")
	r.Mismatch = !PasswordsMatch(f.Password, f.ConfirmPassword)
	return r
}

func (f RegistrationForm) NewUser() models.NewUser {
	return models.NewUser{Username: f.Username, Password: f.Password, Email: f.Email}
}

// ProfileForm is the personal-information form. In Onboarding mode (the
// first screen after login) the form carries neither the username nor the
// email: the target user comes from the session and the email is left
// untouched on the backend.
type ProfileForm struct {
	Onboarding bool

	Username       string
	Email          string
	FirstName      string
	LastName       string
	EducationLevel models.EducationLevel
	BirthDate      string
	Photo          string
}

// ProfileFormFrom fills a form from a stored profile.
func ProfileFormFrom(p models.UserProfile, onboarding bool) ProfileForm {
	return ProfileForm{
		Onboarding:     onboarding,
		Username:       p.Username,
		Email:          p.Email,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		EducationLevel: p.EducationLevel,
		BirthDate:      p.BirthDate,
		Photo:          p.Photo,
	}
}

func (f ProfileForm) Validate() Result {
	var r Result
	if !f.Onboarding {
		r.check(FieldUsername, f.Username, "required")
		r.check(FieldEmail, f.Email, "required,email")
	}
	r.check(FieldFirstName, f.FirstName, "required")
	r.check(FieldLastName, f.LastName, "required")
	r.check(FieldEducationLevel, string(f.EducationLevel), "required,education")
	r.check(FieldBirthDate, f.BirthDate, "required")
	return r
}

// Update builds the partial update sent on save. The birth date is always
// truncated to its date part.
func (f ProfileForm) Update() models.ProfileUpdate {
	first, last := f.FirstName, f.LastName
	level := f.EducationLevel
	birth := models.TruncateBirthDate(f.BirthDate)

	u := models.ProfileUpdate{
		FirstName:      &first,
		LastName:       &last,
		EducationLevel: &level,
		BirthDate:      &birth,
	}
	if !f.Onboarding {
		email := f.Email
		u.Email = &email
	}
	if f.Photo != "" {
		photo := f.Photo
		u.Photo = &photo
	}
	return u
}

type PasswordForm struct {
	NewPassword     string
	ConfirmPassword string
}

func (f PasswordForm) Validate() Result {
	var r Result
	r.check(FieldNewPassword, f.NewPassword, "required,pin")
	r.check(FieldConfirmPassword, f.ConfirmPassword, "required")
	r.Mismatch = !PasswordsMatch(f.NewPassword, f.ConfirmPassword)
	return r
}
