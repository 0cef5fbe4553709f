package promptlane

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/promptlane/promptlane-go/api"
	"github.com/promptlane/promptlane-go/models"
)

// Mode identifies which backends a client or resource is wired to.
type Mode string

const (
	// ModeAPI routes everything through the HTTP API.
	ModeAPI Mode = "api"
	// ModeDatabase routes everything through the database.
	ModeDatabase Mode = "database"
	// ModeMixed reads from the database and writes through the API.
	ModeMixed Mode = "mixed"
)

// Connection is the contract shared by the HTTP and database backends.
// resource is an API path for the HTTP backend and a table name for the
// database backend; out is a pointer the result is decoded into.
type Connection interface {
	List(ctx context.Context, resource string, filters map[string]string, out any) error
	Get(ctx context.Context, resource, idOrKey string, out any) (bool, error)
	Create(ctx context.Context, resource string, data any, out any) error
	Update(ctx context.Context, resource, idOrKey string, data any, out any) error
	Delete(ctx context.Context, resource, idOrKey string) (bool, error)
}

// relationQuerier is the database backend's membership join surface,
// used for the team/user relation reads in pure-database mode.
type relationQuerier interface {
	TeamMembers(ctx context.Context, teamID string) ([]models.User, error)
	UserTeams(ctx context.Context, userID string) ([]models.Team, error)
}

// CallOption adjusts a single dispatcher call.
type CallOption func(*callOptions)

type callOptions struct {
	forceAPI bool
	filters  map[string]string
}

// ForceAPI makes a read in mixed mode go to the API instead of the
// database.
func ForceAPI() CallOption {
	return func(o *callOptions) { o.forceAPI = true }
}

// Filter constrains a list call to rows where column equals value.
func Filter(column, value string) CallOption {
	return func(o *callOptions) {
		if o.filters == nil {
			o.filters = map[string]string{}
		}
		o.filters[column] = value
	}
}

func applyOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type resourceMeta struct {
	name         string
	writeThrough bool
}

// Resource dispatches CRUD calls for one resource type to the correct
// backend. M is the entity model, C and U its create and update
// variants. The connection mode is fixed at construction; every call
// consults it instead of re-checking which connections are nil.
type Resource[M, C, U any] struct {
	meta   resourceMeta
	db     Connection
	api    Connection
	mode   Mode
	logger *zap.Logger
}

func newResource[M, C, U any](meta resourceMeta, db, apiConn Connection, logger *zap.Logger) (*Resource[M, C, U], error) {
	if db == nil && apiConn == nil {
		return nil, errors.Wrap(ErrNoConnection, meta.name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mode := ModeAPI
	switch {
	case db != nil && apiConn != nil:
		mode = ModeMixed
	case db != nil:
		mode = ModeDatabase
	}

	return &Resource[M, C, U]{meta: meta, db: db, api: apiConn, mode: mode, logger: logger}, nil
}

// Mode reports the connection mode fixed at construction.
func (r *Resource[M, C, U]) Mode() Mode {
	return r.mode
}

// readConn picks the backend for list/get: the database when present,
// unless the caller forced the API in mixed mode.
func (r *Resource[M, C, U]) readConn(o callOptions) Connection {
	if r.db != nil && !(r.mode == ModeMixed && o.forceAPI) {
		return r.db
	}
	return r.api
}

// writeConn picks the backend for create/update/delete: the API in
// mixed or API-only mode, the database otherwise.
func (r *Resource[M, C, U]) writeConn() Connection {
	if r.mode == ModeMixed || r.db == nil {
		return r.api
	}
	return r.db
}

func (r *Resource[M, C, U]) backendName(conn Connection) string {
	if conn == r.db {
		return "database"
	}
	return "api"
}

func (r *Resource[M, C, U]) logDispatch(op string, conn Connection) {
	r.logger.Debug("dispatch",
		zap.String("resource", r.meta.name),
		zap.String("operation", op),
		zap.String("backend", r.backendName(conn)))
}

// apiWrite runs a write that must go through the API, failing when no
// API connection was supplied and re-tagging any failure with the
// operation name.
func (r *Resource[M, C, U]) apiWrite(op string, fn func(conn Connection) error) error {
	if r.api == nil {
		return errors.Wrapf(ErrAPIConnectionRequired, "%s needs the client initialized with an api connection", op)
	}
	r.logDispatch(op, r.api)
	if err := fn(r.api); err != nil {
		return retag(op, err)
	}
	return nil
}

// retag wraps a write-through failure with the operation name, keeping
// the error kind intact; anything outside the taxonomy becomes a
// generic API failure.
func retag(op string, err error) error {
	switch {
	case stderrors.Is(err, api.ErrAuthentication),
		stderrors.Is(err, api.ErrValidation),
		stderrors.Is(err, api.ErrNotFound),
		stderrors.Is(err, api.ErrRateLimit):
		return errors.Wrap(err, op)
	}
	var apiErr *api.Error
	if stderrors.As(err, &apiErr) {
		return errors.Wrap(err, op)
	}
	return &api.Error{Detail: fmt.Sprintf("%s: %v", op, err)}
}

// idString normalizes an id-or-key argument to its string form,
// leaving identifier-vs-key disambiguation to the backend.
func idString(idOrKey any) string {
	switch v := idOrKey.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// List fetches all entities of this resource, optionally filtered.
func (r *Resource[M, C, U]) List(ctx context.Context, opts ...CallOption) ([]M, error) {
	o := applyOptions(opts)
	conn := r.readConn(o)
	r.logDispatch("list", conn)

	var out []M
	if err := conn.List(ctx, r.meta.name, o.filters, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one entity by id or key. A miss on the database backend
// returns (nil, nil); a miss on the API backend returns ErrNotFound.
func (r *Resource[M, C, U]) Get(ctx context.Context, idOrKey any, opts ...CallOption) (*M, error) {
	o := applyOptions(opts)
	conn := r.readConn(o)
	r.logDispatch("get", conn)

	var out M
	found, err := conn.Get(ctx, r.meta.name, idString(idOrKey), &out)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

// Create stores a new entity and returns the committed state.
func (r *Resource[M, C, U]) Create(ctx context.Context, data C) (*M, error) {
	var out M
	if r.meta.writeThrough {
		err := r.apiWrite("create "+r.meta.name, func(conn Connection) error {
			return conn.Create(ctx, r.meta.name, data, &out)
		})
		if err != nil {
			return nil, err
		}
		return &out, nil
	}

	conn := r.writeConn()
	r.logDispatch("create", conn)
	if err := conn.Create(ctx, r.meta.name, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies changed fields to an entity and returns the committed
// state.
func (r *Resource[M, C, U]) Update(ctx context.Context, idOrKey any, data U) (*M, error) {
	id := idString(idOrKey)

	var out M
	if r.meta.writeThrough {
		err := r.apiWrite("update "+r.meta.name, func(conn Connection) error {
			return conn.Update(ctx, r.meta.name, id, data, &out)
		})
		if err != nil {
			return nil, err
		}
		return &out, nil
	}

	conn := r.writeConn()
	r.logDispatch("update", conn)
	if err := conn.Update(ctx, r.meta.name, id, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an entity, reporting whether one was removed.
func (r *Resource[M, C, U]) Delete(ctx context.Context, idOrKey any) (bool, error) {
	id := idString(idOrKey)

	if r.meta.writeThrough {
		var ok bool
		err := r.apiWrite("delete "+r.meta.name, func(conn Connection) error {
			var err error
			ok, err = conn.Delete(ctx, r.meta.name, id)
			return err
		})
		return ok, err
	}

	conn := r.writeConn()
	r.logDispatch("delete", conn)
	return conn.Delete(ctx, r.meta.name, id)
}
