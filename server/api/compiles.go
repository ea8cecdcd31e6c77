package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/ltsc"
	"github.com/dekarrin/ltsc/server/dao"
	"github.com/dekarrin/ltsc/server/middle"
	"github.com/dekarrin/ltsc/server/result"
	"github.com/dekarrin/ltsc/server/serr"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// CompileRequest is the body sent to create a new compile record.
type CompileRequest struct {
	Name            string `json:"name"`
	Source          string `json:"source"`
	FairAbstraction bool   `json:"fair_abstraction"`
}

// CompileRecordModel is the client-facing shape of a stored compile. It does
// not include the encoded automata/diagnostics blobs directly; those are
// decoded into Automata and Diagnostics.
type CompileRecordModel struct {
	URI         string             `json:"uri"`
	ID          string             `json:"id"`
	Name        string             `json:"name,omitempty"`
	Source      string             `json:"source"`
	Created     string             `json:"created,omitempty"`
	Modified    string             `json:"modified,omitempty"`
	Automata    []AutomatonModel   `json:"automata"`
	Diagnostics []DiagnosticModel  `json:"diagnostics"`
}

type AutomatonModel struct {
	Name  string       `json:"name"`
	Nodes []NodeModel  `json:"nodes"`
	Edges []EdgeModel  `json:"edges"`
	Root  int          `json:"root,omitempty"`
}

type NodeModel struct {
	ID       int  `json:"id"`
	Terminal int  `json:"terminal"`
	Start    bool `json:"start,omitempty"`
}

type EdgeModel struct {
	ID    int    `json:"id"`
	From  int    `json:"from"`
	To    int    `json:"to"`
	Label string `json:"label"`
}

type DiagnosticModel struct {
	Description string `json:"description"`
	Location    string `json:"location"`
}

// these mirror the unexported REZI-encoded shapes in tunas.Service.Compile's
// storage format; they must be kept in sync with that package.
type encodedAutomaton struct {
	Name    string
	Nodes   []encodedNode
	Edges   []encodedEdge
	Root    int
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
type encodedDiagnostic struct {
	Description string
	Location    string
}

// HTTPCreateCompile returns a HandlerFunc that compiles the submitted source
// text and stores a record of the attempt under the logged-in user.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the logged-in user of the client making the request.
func (api API) HTTPCreateCompile() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateCompile)
}

func (api API) epCreateCompile(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var createReq CompileRequest
	if err := parseJSON(req, &createReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createReq.Source == "" {
		return result.BadRequest("source: property is empty or missing from request", "empty source")
	}

	rec, compiled, err := api.Backend.Compile(req.Context(), user.ID, createReq.Name, createReq.Source, createReq.FairAbstraction)
	if err != nil {
		if syn, ok := ltsc.AsSyntaxError(err); ok {
			return result.BadRequest(syn.Error(), "syntax error: %s", syn.Error())
		}
		if exc, ok := ltsc.AsInterpreterException(err); ok {
			return result.BadRequest(exc.Error(), "interpreter exception: %s", exc.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp, err := compileRecordToModel(rec)
	if err != nil {
		return result.InternalServerError("could not decode stored record: " + err.Error())
	}

	return result.Created(resp, "user '%s' compiled '%s' into %d automata", user.Username, rec.Name, len(compiled.Automata))
}

// HTTPGetCompile returns a HandlerFunc that retrieves a single compile
// record. Only the owning user or an admin may retrieve it.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the ID of the record being operated on and the logged-in user of
// the client making the request.
func (api API) HTTPGetCompile() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetCompile)
}

func (api API) epGetCompile(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	rec, err := api.Backend.GetCompileRecord(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get compile record: " + err.Error())
	}

	if rec.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get compile %s: forbidden", user.Username, user.Role, id)
	}

	resp, err := compileRecordToModel(rec)
	if err != nil {
		return result.InternalServerError("could not decode stored record: " + err.Error())
	}

	return result.OK(resp, "user '%s' got compile record %s", user.Username, id)
}

// HTTPGetAllCompiles returns a HandlerFunc that retrieves all compile
// records belonging to the logged-in user. An admin may pass a "user" query
// param to retrieve another user's records.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the logged-in user of the client making the request.
func (api API) HTTPGetAllCompiles() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllCompiles)
}

func (api API) epGetAllCompiles(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	ownerID := user.ID
	if other := req.URL.Query().Get("user"); other != "" {
		if user.Role != dao.Admin {
			return result.Forbidden("user '%s' (role %s) list compiles for other user: forbidden", user.Username, user.Role)
		}
		parsed, err := uuid.Parse(other)
		if err != nil {
			return result.BadRequest("user: not a valid ID", "user: %s", err.Error())
		}
		ownerID = parsed
	}

	recs, err := api.Backend.GetCompileRecordsByUser(req.Context(), ownerID)
	if err != nil {
		return result.InternalServerError("could not list compile records: " + err.Error())
	}

	resp := make([]CompileRecordModel, len(recs))
	for i := range recs {
		model, err := compileRecordToModel(recs[i])
		if err != nil {
			return result.InternalServerError("could not decode stored record: " + err.Error())
		}
		resp[i] = model
	}

	return result.OK(resp, "user '%s' listed %d compile record(s)", user.Username, len(resp))
}

// HTTPDeleteCompile returns a HandlerFunc that deletes a compile record.
// Only the owning user or an admin may delete it.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the ID of the record being deleted and the logged-in user of the
// client making the request.
func (api API) HTTPDeleteCompile() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteCompile)
}

func (api API) epDeleteCompile(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	existing, err := api.Backend.GetCompileRecord(req.Context(), id.String())
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not get compile record: " + err.Error())
	}

	if err == nil && existing.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) delete compile %s: forbidden", user.Username, user.Role, id)
	}

	_, err = api.Backend.DeleteCompileRecord(req.Context(), id.String())
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete compile record: " + err.Error())
	}

	return result.NoContent("user '%s' deleted compile record %s", user.Username, id)
}

func compileRecordToModel(rec dao.CompileRecord) (CompileRecordModel, error) {
	var encodedAutos []encodedAutomaton
	if len(rec.AutomataData) > 0 {
		if _, err := rezi.DecBinary(rec.AutomataData, &encodedAutos); err != nil {
			return CompileRecordModel{}, err
		}
	}

	var encodedDiags []encodedDiagnostic
	if len(rec.DiagnosticsData) > 0 {
		if _, err := rezi.DecBinary(rec.DiagnosticsData, &encodedDiags); err != nil {
			return CompileRecordModel{}, err
		}
	}

	automata := make([]AutomatonModel, len(encodedAutos))
	for i, a := range encodedAutos {
		am := AutomatonModel{Name: a.Name}
		for _, n := range a.Nodes {
			am.Nodes = append(am.Nodes, NodeModel{ID: n.ID, Terminal: n.Terminal, Start: n.Start})
		}
		for _, e := range a.Edges {
			am.Edges = append(am.Edges, EdgeModel{ID: e.ID, From: e.From, To: e.To, Label: e.Label})
		}
		if a.HasRoot {
			am.Root = a.Root
		}
		automata[i] = am
	}

	diags := make([]DiagnosticModel, len(encodedDiags))
	for i, d := range encodedDiags {
		diags[i] = DiagnosticModel{Description: d.Description, Location: d.Location}
	}

	return CompileRecordModel{
		URI:         PathPrefix + "/compiles/" + rec.ID.String(),
		ID:          rec.ID.String(),
		Name:        rec.Name,
		Source:      rec.SourceText,
		Created:     rec.Created.Format(time.RFC3339),
		Modified:    rec.Modified.Format(time.RFC3339),
		Automata:    automata,
		Diagnostics: diags,
	}, nil
}
