package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/poiesic/marketscout/ai"
	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/evidence"
	"github.com/poiesic/marketscout/semantic"
)

const (
	DefaultTopK     = 5
	maxTopK         = 50
	shutdownTimeout = 10 * time.Second
	requestIDHeader = "X-Request-ID"
)

// LexicalRanker ranks the in-memory corpus. lexical.Ranker implements it.
type LexicalRanker interface {
	Rank(query string, k int) []string
	UpdateCorpus(docs []string) error
}

// HybridSearcher fuses lexical and semantic results. search.Fuser
// implements it.
type HybridSearcher interface {
	Fuse(ctx context.Context, query string, k int) []string
}

// Answerer runs the full pipeline. evidence.Assembler implements it.
type Answerer interface {
	Answer(ctx context.Context, q core.Query, topK int) *core.Answer
}

// Services are the components the server routes to. Entities and Indexer
// are optional.
type Services struct {
	Lexical  LexicalRanker
	Semantic semantic.Searcher
	Hybrid   HybridSearcher
	Resolver evidence.EntityResolver
	Answerer Answerer
	Trends   evidence.TrendSource

	// Entities backs the entity list in /analyze.
	Entities ai.EntityExtractor
	// Indexer, when set, also receives documents sent to PUT /corpus.
	Indexer semantic.Indexer
}

func (s Services) validate() error {
	switch {
	case s.Lexical == nil:
		return ErrLexicalRequired
	case s.Semantic == nil:
		return ErrSemanticRequired
	case s.Hybrid == nil:
		return ErrHybridRequired
	case s.Resolver == nil:
		return ErrResolverRequired
	case s.Answerer == nil:
		return ErrAnswererRequired
	case s.Trends == nil:
		return ErrTrendsRequired
	}
	return nil
}

// Server serves the HTTP API.
type Server struct {
	svc         Services
	topK        int
	corsOrigins []string
	mcpServer   *mcp.Server
	logger      *slog.Logger
	router      chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithDefaultTopK sets top_k for requests that omit it.
func WithDefaultTopK(k int) Option {
	return func(s *Server) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithCORSOrigins sets the allowed browser origins. The default allows any.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// WithMCP mounts srv at /mcp using the streamable HTTP transport.
func WithMCP(srv *mcp.Server) Option {
	return func(s *Server) {
		s.mcpServer = srv
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a server and its routes.
func New(svc Services, opts ...Option) (*Server, error) {
	if err := svc.validate(); err != nil {
		return nil, err
	}

	s := &Server{
		svc:         svc,
		topK:        DefaultTopK,
		corsOrigins: []string{"*"},
		logger:      slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Mcp-Session-Id"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/", s.handleHome)
	r.Get("/bm25_search", s.handleLexical)
	r.Get("/vector_search", s.handleSemantic)
	r.Get("/hybrid_search", s.handleHybrid)
	r.Get("/analyze", s.handleAnalyze)
	r.Get("/rag_generate", s.handleGenerate)
	r.Get("/trends", s.handleTrends)
	r.Put("/corpus", s.handleCorpus)
	if s.mcpServer != nil {
		r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return s.mcpServer
		}, nil))
	}
	return r
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

type requestIDKey struct{}

// requestID tags each request with a UUID, reusing a caller-supplied one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the request's ID, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
			"request_id", RequestID(r.Context()))
	})
}
