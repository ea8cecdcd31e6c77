// Package inmem provides in-memory, non-persistent implementations of the
// repositories in package dao. It is suitable for tests and for running
// ltsd without a configured storage directory.
package inmem

import (
	"fmt"

	"github.com/dekarrin/ltsc/server/dao"
)

type store struct {
	users   *InMemoryUsersRepository
	records *InMemoryCompileRecordsRepository
}

func NewDatastore() dao.Store {
	return &store{
		users:   NewUsersRepository(),
		records: NewCompileRecordsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) CompileRecords() dao.CompileRecordRepository {
	return s.records
}

func (s *store) Close() error {
	var err error

	if nextErr := s.users.Close(); nextErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}
	if nextErr := s.records.Close(); nextErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}

	return err
}
