package server

import (
	"sync"

	"github.com/sdsql/sdsql/internal/transport"
	"github.com/sdsql/sdsql/internal/wgroup"
)

// Server accepts SDSQL client connections and spawns one handler
// goroutine per connection, per spec.md §5's permitted parallel option.
type Server struct {
	ln  *transport.Listener
	ctx *Context
	met *Metrics

	wg sync.WaitGroup
}

// New wraps an already-bound Listener with ctx and met.
func New(ln *transport.Listener, ctx *Context, met *Metrics) *Server {
	return &Server{ln: ln, ctx: ctx, met: met}
}

// Serve accepts connections until the listener is closed, blocking
// until every spawned handler has returned.
func (s *Server) Serve() error {
	defer s.wg.Wait()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return err
		}
		wgroup.Go(&s.wg, func() {
			h := &handler{ctx: s.ctx, met: s.met, conn: conn}
			h.run()
		})
	}
}

// Close stops accepting new connections. In-flight handlers run to
// completion.
func (s *Server) Close() error {
	return s.ln.Close()
}
