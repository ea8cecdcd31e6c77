package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/dekarrin/ltsc/internal/util"
	"github.com/dekarrin/ltsc/server/dao"
	"github.com/google/uuid"
)

func NewCompileRecordsRepository() *InMemoryCompileRecordsRepository {
	return &InMemoryCompileRecordsRepository{
		records:       make(map[uuid.UUID]dao.CompileRecord),
		byUserIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type InMemoryCompileRecordsRepository struct {
	records       map[uuid.UUID]dao.CompileRecord
	byUserIDIndex map[uuid.UUID][]uuid.UUID
}

func (imcr *InMemoryCompileRecordsRepository) Close() error {
	return nil
}

func (imcr *InMemoryCompileRecordsRepository) Create(ctx context.Context, rec dao.CompileRecord) (dao.CompileRecord, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.CompileRecord{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()

	rec.ID = newUUID
	rec.Created = now
	rec.Modified = now

	imcr.records[rec.ID] = rec

	byUser := imcr.byUserIDIndex[rec.UserID]
	byUser = append(byUser, rec.ID)
	imcr.byUserIDIndex[rec.UserID] = byUser

	return rec, nil
}

func (imcr *InMemoryCompileRecordsRepository) GetAll(ctx context.Context) ([]dao.CompileRecord, error) {
	all := make([]dao.CompileRecord, len(imcr.records))

	i := 0
	for k := range imcr.records {
		all[i] = imcr.records[k]
		i++
	}

	all = util.SortBy(all, func(l, r dao.CompileRecord) bool {
		return l.ID.String() < r.ID.String()
	})

	return all, nil
}

func (imcr *InMemoryCompileRecordsRepository) GetAllByUser(ctx context.Context, id uuid.UUID) ([]dao.CompileRecord, error) {
	byUser := imcr.byUserIDIndex[id]
	if len(byUser) < 1 {
		return nil, dao.ErrNotFound
	}

	all := make([]dao.CompileRecord, len(byUser))
	for i := range byUser {
		all[i] = imcr.records[byUser[i]]
	}

	all = util.SortBy(all, func(l, r dao.CompileRecord) bool {
		return l.ID.String() < r.ID.String()
	})

	return all, nil
}

func (imcr *InMemoryCompileRecordsRepository) Update(ctx context.Context, id uuid.UUID, rec dao.CompileRecord) (dao.CompileRecord, error) {
	existing, ok := imcr.records[id]
	if !ok {
		return dao.CompileRecord{}, dao.ErrNotFound
	}

	if rec.ID != id {
		if _, ok := imcr.records[rec.ID]; ok {
			return dao.CompileRecord{}, dao.ErrConstraintViolation
		}
	}

	rec.Modified = time.Now()
	imcr.records[rec.ID] = rec

	if rec.ID != id {
		delete(imcr.records, id)
	}

	if rec.UserID != existing.UserID || rec.ID != id {
		byUser := imcr.byUserIDIndex[existing.UserID]
		updated := util.SliceRemove(existing.ID, byUser)
		imcr.byUserIDIndex[existing.UserID] = updated
		if len(updated) < 1 {
			delete(imcr.byUserIDIndex, existing.UserID)
		}

		newByUser := imcr.byUserIDIndex[rec.UserID]
		newByUser = append(newByUser, rec.ID)
		imcr.byUserIDIndex[rec.UserID] = newByUser
	}

	return rec, nil
}

func (imcr *InMemoryCompileRecordsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.CompileRecord, error) {
	rec, ok := imcr.records[id]
	if !ok {
		return dao.CompileRecord{}, dao.ErrNotFound
	}

	return rec, nil
}

func (imcr *InMemoryCompileRecordsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.CompileRecord, error) {
	rec, ok := imcr.records[id]
	if !ok {
		return dao.CompileRecord{}, dao.ErrNotFound
	}

	byUser := imcr.byUserIDIndex[rec.UserID]
	updated := util.SliceRemove(rec.ID, byUser)
	imcr.byUserIDIndex[rec.UserID] = updated
	if len(updated) < 1 {
		delete(imcr.byUserIDIndex, rec.UserID)
	}
	delete(imcr.records, rec.ID)

	return rec, nil
}
