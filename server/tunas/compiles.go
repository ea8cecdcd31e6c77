package tunas

import (
	"context"
	"errors"

	"github.com/dekarrin/ltsc"
	"github.com/dekarrin/ltsc/internal/diag"
	"github.com/dekarrin/ltsc/server/dao"
	"github.com/dekarrin/ltsc/server/serr"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// encodedAutomaton is the REZI-serializable shape a compiled automaton is
// reduced to before being stored as CompileRecord.AutomataData.
type encodedAutomaton struct {
	Name  string
	Nodes []encodedNode
	Edges []encodedEdge
	Root  int
	HasRoot bool
}

type encodedNode struct {
	ID       int
	Terminal int
	Start    bool
}

type encodedEdge struct {
	ID    int
	From  int
	To    int
	Label string
}

// encodedDiagnostic is the REZI-serializable shape of one diag.Operation,
// stored as part of CompileRecord.DiagnosticsData.
type encodedDiagnostic struct {
	Description string
	Location    string
}

// Compile runs the given source text through the compiler, persists a
// record of the attempt (source, resulting automata, and diagnostics) under
// the given owning user, and returns the stored record alongside the live
// compile result.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the source text fails to
// compile, the ltsc error is returned directly (callers should use
// ltsc.AsSyntaxError / ltsc.AsInterpreterException to inspect it) rather
// than being wrapped in serr.Error. If the error occurred while persisting
// the record, it will match serr.ErrDB.
func (svc Service) Compile(ctx context.Context, ownerID uuid.UUID, name, sourceText string, fairAbstraction bool) (dao.CompileRecord, ltsc.Result, error) {
	result, err := ltsc.Compile(sourceText, true, fairAbstraction)
	if err != nil {
		return dao.CompileRecord{}, ltsc.Result{}, err
	}

	automataData, err := encodeAutomata(result.Automata)
	if err != nil {
		return dao.CompileRecord{}, result, serr.New("could not encode automata for storage", err)
	}

	diagData, err := encodeDiagnostics(result.Operations)
	if err != nil {
		return dao.CompileRecord{}, result, serr.New("could not encode diagnostics for storage", err)
	}

	rec := dao.CompileRecord{
		UserID:          ownerID,
		Name:            name,
		SourceText:      sourceText,
		AutomataData:    automataData,
		DiagnosticsData: diagData,
	}

	stored, err := svc.DB.CompileRecords().Create(ctx, rec)
	if err != nil {
		return dao.CompileRecord{}, result, serr.WrapDB("could not store compile record", err)
	}

	return stored, result, nil
}

// GetCompileRecord returns the stored compile record with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no record with that ID
// exists, it will match serr.ErrNotFound. If the error occurred due to an
// unexpected problem with the DB, it will match serr.ErrDB.
func (svc Service) GetCompileRecord(ctx context.Context, id string) (dao.CompileRecord, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.CompileRecord{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	rec, err := svc.DB.CompileRecords().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.CompileRecord{}, serr.ErrNotFound
		}
		return dao.CompileRecord{}, serr.WrapDB("could not get compile record", err)
	}

	return rec, nil
}

// GetCompileRecordsByUser returns every compile record owned by the given
// user, most-recently-created first not guaranteed (callers wanting an
// order should sort by Created themselves).
func (svc Service) GetCompileRecordsByUser(ctx context.Context, ownerID uuid.UUID) ([]dao.CompileRecord, error) {
	recs, err := svc.DB.CompileRecords().GetAllByUser(ctx, ownerID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, nil
		}
		return nil, serr.WrapDB("", err)
	}
	return recs, nil
}

// DeleteCompileRecord deletes the compile record with the given ID and
// returns it as it existed just before deletion.
func (svc Service) DeleteCompileRecord(ctx context.Context, id string) (dao.CompileRecord, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.CompileRecord{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	rec, err := svc.DB.CompileRecords().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.CompileRecord{}, serr.ErrNotFound
		}
		return dao.CompileRecord{}, serr.WrapDB("could not delete compile record", err)
	}

	return rec, nil
}

func encodeAutomata(automata []ltsc.Automaton) ([]byte, error) {
	encoded := make([]encodedAutomaton, len(automata))
	for i, a := range automata {
		ea := encodedAutomaton{Name: a.Name}

		for _, n := range a.LTS.Nodes() {
			ea.Nodes = append(ea.Nodes, encodedNode{
				ID:       n.ID,
				Terminal: int(n.Metadata.Terminal),
				Start:    n.Metadata.Start,
			})
		}
		for _, e := range a.LTS.Edges() {
			ea.Edges = append(ea.Edges, encodedEdge{
				ID:    e.ID,
				From:  e.From,
				To:    e.To,
				Label: e.Label.String(),
			})
		}
		if root, ok := a.LTS.Root(); ok {
			ea.Root, ea.HasRoot = root, true
		}

		encoded[i] = ea
	}

	return rezi.EncBinary(encoded), nil
}

func encodeDiagnostics(ops []diag.Operation) ([]byte, error) {
	encoded := make([]encodedDiagnostic, len(ops))
	for i, op := range ops {
		encoded[i] = encodedDiagnostic{
			Description: op.Description,
			Location:    op.Location.String(),
		}
	}
	return rezi.EncBinary(encoded), nil
}
