// Package dao provides data access objects for use in the ltsd server.
package dao

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	CompileRecords() CompileRecordRepository
	Close() error
}

// CompileRecordRepository persists the result of past compiles: the source
// text submitted, and the REZI-encoded automata and diagnostics produced
// from it.
type CompileRecordRepository interface {
	Create(ctx context.Context, rec CompileRecord) (CompileRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (CompileRecord, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]CompileRecord, error)
	GetAll(ctx context.Context) ([]CompileRecord, error)
	Update(ctx context.Context, id uuid.UUID, rec CompileRecord) (CompileRecord, error)
	Delete(ctx context.Context, id uuid.UUID) (CompileRecord, error)
	Close() error
}

// CompileRecord is one stored compile. AutomataData and DiagnosticsData hold
// REZI-encoded blobs; callers decode them into the in-memory shapes they
// were built from (a slice of named automata, and a slice of operations).
type CompileRecord struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	SourceText      string
	AutomataData    []byte
	DiagnosticsData []byte
	Created         time.Time
	Modified        time.Time
}

type UserRepository interface {

	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)

	// Close closes the connection.
	Close() error
}

type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID     // PK, NOT NULL
	Username       string        // UNIQUE, NOT NULL
	Password       string        // NOT NULL
	Email          *mail.Address // NOT NULL
	Role           Role          // NOT NULL
	Created        time.Time     // NOT NULL
	Modified       time.Time
	LastLogoutTime time.Time // NOT NULL DEFAULT NOW()
	LastLoginTime  time.Time // NOT NULL
}
