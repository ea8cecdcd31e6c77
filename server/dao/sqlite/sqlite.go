package sqlite

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"path/filepath"
	"time"

	"github.com/dekarrin/ltsc/server/dao"
	"github.com/dekarrin/ltsc/server/serr"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string

	db *sql.DB

	users   *UsersDB
	records *CompileRecordsDB
}

func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "data.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.users = &UsersDB{db: st.db}
	st.users.init()

	st.records = &CompileRecordsDB{db: st.db}
	st.records.init(true)

	return st, nil
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) CompileRecords() dao.CompileRecordRepository {
	return s.records
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

// convertToDB_Role converts a dao.Role to storage DB format.
func convertToDB_Role(r dao.Role) string {
	return r.String()
}

// convertToDB_Email converts a *mail.Address to storage DB format. If the
// pointer is nil, it will return the zero value.
func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

// convertToDB_UUID converts a uuid.UUID to storage DB format on disk.
func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

// convertToDB_Time converts a time.Time to storage DB format on disk.
func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

// convertToDB_ByteSlice converts bytes to storage DB format on disk.
func convertToDB_ByteSlice(b []byte) string {
	if len(b) < 1 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

// convertFromDB_Email converts storage DB format value to a *mail.Address
// and stores it at the address pointed to by target. If the zero value is
// provided, target is set to a nil pointer. If there is a problem with the
// decoding, the returned error will be of type serr.Error, and will wrap
// dao.ErrDecodingFailure. If this function returns a non-nil error, target will
// not have been modified.
func convertFromDB_Email(s string, target **mail.Address) error {
	if s == "" {
		*target = nil
		return nil
	}

	email, err := mail.ParseAddress(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}

	*target = email
	return nil
}

// convertFromDB_Role converts storage DB format value to a dao.Role and
// stores it at the address pointed to by target. If there is a problem with the
// decoding, the returned error will be of type serr.Error, and will wrap
// dao.ErrDecodingFailure. If this function returns a non-nil error, target will
// not have been modified.
func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}
	*target = r
	return nil
}

// convertFromDB_UUID converts storage DB format value to a uuid.UUID and
// stores it at the address pointed to by target. If there is a problem with the
// decoding, the returned error will be of type serr.Error, and will wrap
// dao.ErrDecodingFailure. If this function returns a non-nil error, target will
// not have been modified.
func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}
	*target = u
	return nil
}

// convertFromDB_Bytes converts storage DB format value to a time.Time and
// stores it at the address pointed to by target. If there is a problem with the
// decoding, the returned error will be of type serr.Error, and will wrap
// dao.ErrDecodingFailure. If this function returns a non-nil error, target will
// not have been modified.
func convertFromDB_Time(i int64, target *time.Time) error {
	t := time.Unix(i, 0)
	*target = t
	return nil
}

// convertFromDB_Bytes converts storage DB format string to an actual byte
// slice and stores it at the address pointed to by target. If there is a
// problem with the decoding, the returned error will be of type serr.Error, and
// will wrap dao.ErrDecodingFailure. If this function returns a non-nil error,
// target will not have been modified.
func convertFromDB_ByteSlice(s string, target *[]byte) error {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}
	*target = decoded
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
