package services

import (
	"errors"
	"strings"

	"github.com/IrakliAvdulaj/trek-fleet-apply/repository"
	"gorm.io/gorm"
)

// AuthError: bad credentials, weak secret, already-registered email
type AuthError struct {
	Code    string
	Message string
}

const (
	AuthInvalidCredentials = "invalid_credentials"
	AuthWeakPassword       = "weak_password"
	AuthInvalidEmail       = "invalid_email"
	AuthEmailTaken         = "email_taken"
	AuthInvalidToken       = "invalid_token"
)

func (e *AuthError) Error() string { return e.Message }

type StoreErrorKind string

const (
	StoreUnavailable       StoreErrorKind = "unavailable"
	StoreForbidden         StoreErrorKind = "forbidden"
	StoreNotFound          StoreErrorKind = "not_found"
	StoreConflict          StoreErrorKind = "conflict"
	StoreInvalid           StoreErrorKind = "invalid"
	StoreInvalidTransition StoreErrorKind = "invalid_transition"
)

// StoreError: transport failure, access-control denial, uniqueness violation
type StoreError struct {
	Kind StoreErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *StoreError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	return e.Op + ": " + msg
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreKind reports whether err is a StoreError of the given kind.
func IsStoreKind(err error, kind StoreErrorKind) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == kind
}

type FieldError struct {
	Field   string
	Message string
	Rule    string // tag ที่ไม่ผ่าน เช่น notblank, gte
}

// ValidationError: ตรวจไม่ผ่านก่อนส่งไปที่ store
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func forbidden(op string) error {
	return &StoreError{Kind: StoreForbidden, Op: op, Msg: "permission denied"}
}

// storeErr แปลง error จาก gorm/repository เป็น StoreError
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	var te *repository.TransitionError
	switch {
	case errors.As(err, &te):
		return &StoreError{Kind: StoreInvalidTransition, Op: op, Msg: te.Error(), Err: err}
	case errors.Is(err, repository.ErrNotEditable):
		return &StoreError{Kind: StoreConflict, Op: op, Msg: err.Error(), Err: err}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &StoreError{Kind: StoreNotFound, Op: op, Msg: "record not found", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &StoreError{Kind: StoreConflict, Op: op, Msg: "record already exists", Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &StoreError{Kind: StoreInvalid, Op: op, Err: err}
	}
	return &StoreError{Kind: StoreUnavailable, Op: op, Err: err}
}
