// Package server implements SDSQL's server runtime (component C7): the
// shared context every connection handler dispatches against, and the
// accept loop that spawns one handler goroutine per client, grounded
// on the teacher's design note (spec.md §9, "global mutable state →
// server context") and its driver/wgroup concurrency helper.
package server

import (
	"log/slog"

	"github.com/sdsql/sdsql/internal/auth"
	"github.com/sdsql/sdsql/internal/engine"
)

// Context is the process-wide state every per-connection handler
// dispatches against: the query engine, the user store, and the live
// session table. It supersedes the source's loose globals
// (current_token, is_logged_in, database_instance) with one owned
// value, per spec.md §9.
type Context struct {
	Engine   *engine.Engine
	Users    *auth.Store
	Sessions *auth.SessionStore
	Log      *slog.Logger
}

// NewContext wires together a fresh server Context.
func NewContext(eng *engine.Engine, users *auth.Store, log *slog.Logger) *Context {
	if log == nil {
		log = slog.Default()
	}
	return &Context{
		Engine:   eng,
		Users:    users,
		Sessions: auth.NewSessionStore(),
		Log:      log,
	}
}
