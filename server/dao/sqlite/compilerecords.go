package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/ltsc/server/dao"
	"github.com/google/uuid"
)

func NewCompileRecordsDBConn(file string) (*CompileRecordsDB, error) {
	repo := &CompileRecordsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init(false)
}

type CompileRecordsDB struct {
	db *sql.DB
}

func (repo *CompileRecordsDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS compile_records (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		name TEXT NOT NULL,
		source_text TEXT NOT NULL,
		automata_data TEXT NOT NULL,
		diagnostics_data TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *CompileRecordsDB) Create(ctx context.Context, rec dao.CompileRecord) (dao.CompileRecord, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.CompileRecord{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO compile_records (id, user_id, name, source_text, automata_data, diagnostics_data, created, modified) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.CompileRecord{}, wrapDBError(err)
	}

	now := time.Now()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(rec.UserID),
		rec.Name,
		rec.SourceText,
		convertToDB_ByteSlice(rec.AutomataData),
		convertToDB_ByteSlice(rec.DiagnosticsData),
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.CompileRecord{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *CompileRecordsDB) GetAll(ctx context.Context) ([]dao.CompileRecord, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, name, source_text, automata_data, diagnostics_data, created, modified FROM compile_records;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.CompileRecord

	for rows.Next() {
		var rec dao.CompileRecord
		var id, userID, automataData, diagData string
		var created, modified int64

		err = rows.Scan(&id, &userID, &rec.Name, &rec.SourceText, &automataData, &diagData, &created, &modified)
		if err != nil {
			return nil, wrapDBError(err)
		}

		if err := hydrateCompileRecord(&rec, id, userID, automataData, diagData, created, modified); err != nil {
			return all, err
		}

		all = append(all, rec)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *CompileRecordsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.CompileRecord, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, source_text, automata_data, diagnostics_data, created, modified FROM compile_records WHERE user_id=?;`,
		convertToDB_UUID(userID),
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.CompileRecord

	for rows.Next() {
		rec := dao.CompileRecord{UserID: userID}
		var id, automataData, diagData string
		var created, modified int64

		err = rows.Scan(&id, &rec.Name, &rec.SourceText, &automataData, &diagData, &created, &modified)
		if err != nil {
			return nil, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &rec.ID); err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
		}
		if err := convertFromDB_ByteSlice(automataData, &rec.AutomataData); err != nil {
			return all, fmt.Errorf("stored automata data is invalid: %w", err)
		}
		if err := convertFromDB_ByteSlice(diagData, &rec.DiagnosticsData); err != nil {
			return all, fmt.Errorf("stored diagnostics data is invalid: %w", err)
		}
		if err := convertFromDB_Time(created, &rec.Created); err != nil {
			return all, fmt.Errorf("stored created time %d is invalid: %w", created, err)
		}
		if err := convertFromDB_Time(modified, &rec.Modified); err != nil {
			return all, fmt.Errorf("stored modified time %d is invalid: %w", modified, err)
		}

		all = append(all, rec)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *CompileRecordsDB) Update(ctx context.Context, id uuid.UUID, rec dao.CompileRecord) (dao.CompileRecord, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE compile_records SET id=?, user_id=?, name=?, source_text=?, automata_data=?, diagnostics_data=?, created=?, modified=? WHERE id=?;`,
		convertToDB_UUID(rec.ID),
		convertToDB_UUID(rec.UserID),
		rec.Name,
		rec.SourceText,
		convertToDB_ByteSlice(rec.AutomataData),
		convertToDB_ByteSlice(rec.DiagnosticsData),
		convertToDB_Time(rec.Created),
		convertToDB_Time(time.Now()),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.CompileRecord{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.CompileRecord{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.CompileRecord{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, rec.ID)
}

func (repo *CompileRecordsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.CompileRecord, error) {
	rec := dao.CompileRecord{ID: id}
	var userID, automataData, diagData string
	var created, modified int64

	row := repo.db.QueryRowContext(ctx, `SELECT user_id, name, source_text, automata_data, diagnostics_data, created, modified FROM compile_records WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	err := row.Scan(&userID, &rec.Name, &rec.SourceText, &automataData, &diagData, &created, &modified)
	if err != nil {
		return rec, wrapDBError(err)
	}

	if err := hydrateCompileRecord(&rec, id.String(), userID, automataData, diagData, created, modified); err != nil {
		return rec, err
	}

	return rec, nil
}

func (repo *CompileRecordsDB) Delete(ctx context.Context, id uuid.UUID) (dao.CompileRecord, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM compile_records WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *CompileRecordsDB) Close() error {
	return repo.db.Close()
}

// hydrateCompileRecord decodes the raw scanned string fields of a row into
// rec's UUID, byte-slice, and time fields.
func hydrateCompileRecord(rec *dao.CompileRecord, id, userID, automataData, diagData string, created, modified int64) error {
	if err := convertFromDB_UUID(id, &rec.ID); err != nil {
		return fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_UUID(userID, &rec.UserID); err != nil {
		return fmt.Errorf("stored user ID %q is invalid: %w", userID, err)
	}
	if err := convertFromDB_ByteSlice(automataData, &rec.AutomataData); err != nil {
		return fmt.Errorf("stored automata data is invalid: %w", err)
	}
	if err := convertFromDB_ByteSlice(diagData, &rec.DiagnosticsData); err != nil {
		return fmt.Errorf("stored diagnostics data is invalid: %w", err)
	}
	if err := convertFromDB_Time(created, &rec.Created); err != nil {
		return fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}
	if err := convertFromDB_Time(modified, &rec.Modified); err != nil {
		return fmt.Errorf("stored modified time %d is invalid: %w", modified, err)
	}
	return nil
}
