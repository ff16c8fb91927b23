package models

import (
	"fmt"
	"strings"
	"time"
)

// EducationLevel is the skater's self-declared level. Values are the labels
// the backend stores.
type EducationLevel string

const (
	EducationBeginner     EducationLevel = "Principiante"
	EducationIntermediate EducationLevel = "Intermedio"
	EducationAdvanced     EducationLevel = "Avanzado"
	EducationProfessional EducationLevel = "Profesional"
)

// EducationLevels lists the accepted levels in display order.
func EducationLevels() []EducationLevel {
	return []EducationLevel{
		EducationBeginner,
		EducationIntermediate,
		EducationAdvanced,
		EducationProfessional,
	}
}

func (l EducationLevel) Valid() bool {
	for _, v := range EducationLevels() {
		if l == v {
			return true
		}
	}
	return false
}

// UserProfile is the stored personal information of a user. Fields the
// backend has never received come back as JSON null and decode to "".
type UserProfile struct {
	Username       string         `json:"usuario"`
	Email          string         `json:"correo"`
	FirstName      string         `json:"nombre"`
	LastName       string         `json:"apellido"`
	EducationLevel EducationLevel `json:"nivel_educacion"`
	BirthDate      string         `json:"fecha_nacimiento"`
	Photo          string         `json:"foto,omitempty"`
}

// ProfileUpdate is a partial update. Only non-nil fields are sent.
type ProfileUpdate struct {
	Username       *string         `json:"usuario,omitempty"`
	Password       *string         `json:"password,omitempty"`
	Email          *string         `json:"correo,omitempty"`
	FirstName      *string         `json:"nombre,omitempty"`
	LastName       *string         `json:"apellido,omitempty"`
	EducationLevel *EducationLevel `json:"nivel_educacion,omitempty"`
	BirthDate      *string         `json:"fecha_nacimiento,omitempty"`
	Photo          *string         `json:"foto,omitempty"`
}

// PasswordUpdate builds an update that carries only the password.
func PasswordUpdate(password string) ProfileUpdate {
	return ProfileUpdate{Password: &password}
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.Username == nil && u.Password == nil && u.Email == nil &&
		u.FirstName == nil && u.LastName == nil && u.EducationLevel == nil &&
		u.BirthDate == nil && u.Photo == nil
}

// TruncateBirthDate drops a time component: "1990-03-15T00:00:00" becomes
// "1990-03-15". Dates without a "T" are returned unchanged.
func TruncateBirthDate(s string) string {
	date, _, _ := strings.Cut(s, "T")
	return date
}

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var birthDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// FormatBirthDate renders an ISO date for display, e.g. "15 de marzo de 1990".
func FormatBirthDate(s string) string {
	if s == "" {
		return ""
	}

	for _, layout := range birthDateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
	}

	return "Fecha inválida"
}
