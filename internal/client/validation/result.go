package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("validation failed")

// Field names follow the form control names of the app.
type Field string

const (
	FieldUsername        Field = "usuario"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmarPassword"
	FieldEmail           Field = "correo"
	FieldFirstName       Field = "nombre"
	FieldLastName        Field = "apellido"
	FieldEducationLevel  Field = "nivelEducacion"
	FieldBirthDate       Field = "fechaNacimiento"
	FieldNewPassword     Field = "nuevaPassword"
)

type Problem string

const (
	ProblemRequired Problem = "required"
	ProblemPattern  Problem = "pattern"
	ProblemEmail    Problem = "email"
	ProblemChoice   Problem = "choice"
	ProblemInvalid  Problem = "invalid"
)

// Result is the outcome of validating a form: per-field problems plus the
// cross-field password mismatch, which is reported separately.
type Result struct {
	Fields   map[Field]Problem
	Mismatch bool
}

// Valid is the aggregate validity a submit control is bound to.
func (r Result) Valid() bool {
	return len(r.Fields) == 0 && !r.Mismatch
}

// Has reports whether f has a problem.
func (r Result) Has(f Field) bool {
	_, ok := r.Fields[f]
	return ok
}

// Complete reports whether every field passed, ignoring the mismatch.
func (r Result) Complete() bool {
	return len(r.Fields) == 0
}

func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{Result: r}
}

// check validates value against tag and records the first failing rule.
func (r *Result) check(f Field, value, tag string) {
	err := validate.Var(value, tag)
	if err == nil {
		return
	}
	if r.Fields == nil {
		r.Fields = make(map[Field]Problem)
	}
	r.Fields[f] = problemOf(err)
}

func problemOf(err error) Problem {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return ProblemInvalid
	}

	switch ve[0].Tag() {
	case "required":
		return ProblemRequired
	case "email":
		return ProblemEmail
	case "username", "pin":
		return ProblemPattern
	case "education":
		return ProblemChoice
	default:
		return ProblemInvalid
	}
}

// Error carries a failed Result. It matches ErrValidation with errors.Is.
type Error struct {
	Result Result
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Result.Fields)+1)
	for f, p := range e.Result.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, p))
	}
	sort.Strings(parts)
	if e.Result.Mismatch {
		parts = append(parts, "passwords do not match")
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *Error) Unwrap() error {
	return ErrValidation
}
