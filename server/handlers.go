package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/poiesic/marketscout/ai"
	"github.com/poiesic/marketscout/core"
)

const maxCorpusBody = 8 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type analyzeResponse struct {
	Text      string      `json:"text"`
	Entities  []ai.Entity `json:"entities"`
	Candidate string      `json:"candidate,omitempty"`
	Ticker    string      `json:"ticker,omitempty"`
	Country   string      `json:"country,omitempty"`
	Status    string      `json:"status"`
	Source    string      `json:"source"`
}

type corpusRequest struct {
	Documents []string `json:"documents"`
}

type corpusResponse struct {
	Documents int `json:"documents"`
	Indexed   int `json:"indexed"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Market Research Assistant API is Running"})
}

// handleLexical passes blank queries through so the ranker reports its
// empty-query entry.
func (s *Server) handleLexical(w http.ResponseWriter, r *http.Request) {
	query, k, ok := s.searchParams(w, r, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"bm25_results": s.svc.Lexical.Rank(query, k)})
}

func (s *Server) handleSemantic(w http.ResponseWriter, r *http.Request) {
	query, k, ok := s.searchParams(w, r, false)
	if !ok {
		return
	}
	results, err := s.svc.Semantic.SimilaritySearch(r.Context(), query, k)
	if err != nil {
		s.logger.Error("vector search failed", "err", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusBadGateway, fmt.Sprintf("vector search failed: %v", err))
		return
	}
	if results == nil {
		results = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"vector_results": results})
}

func (s *Server) handleHybrid(w http.ResponseWriter, r *http.Request) {
	query, k, ok := s.searchParams(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"hybrid_results": s.svc.Hybrid.Fuse(r.Context(), query, k)})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("text"))
	if text == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'text' is required")
		return
	}

	resp := analyzeResponse{Text: text, Entities: []ai.Entity{}}
	if s.svc.Entities != nil {
		entities, err := s.svc.Entities.ExtractEntities(r.Context(), text)
		if err != nil {
			s.logger.Warn("entity extraction failed", "err", err, "request_id", RequestID(r.Context()))
		} else if entities != nil {
			resp.Entities = entities
		}
	}

	res := s.svc.Resolver.Resolve(r.Context(), text)
	resp.Candidate = res.Candidate
	resp.Status = res.Status.String()
	resp.Source = string(res.Source)
	if res.Resolved() {
		resp.Ticker = res.Record.Symbol
		resp.Country = res.Record.Country
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGenerate leaves blank queries to the pipeline, which answers them
// with its empty-input block.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	query, k, ok := s.searchParams(w, r, true)
	if !ok {
		return
	}
	params := r.URL.Query()
	q := core.Query{
		Text:    query,
		Ticker:  strings.TrimSpace(params.Get("ticker")),
		Country: strings.TrimSpace(params.Get("country")),
	}

	ans := s.svc.Answerer.Answer(r.Context(), q, k)
	ans.RequestID = RequestID(r.Context())
	writeJSON(w, http.StatusOK, ans)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'term' is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"term":          term,
		"google_trends": s.svc.Trends.Get(r.Context(), term),
	})
}

func (s *Server) handleCorpus(w http.ResponseWriter, r *http.Request) {
	var req corpusRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCorpusBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, "documents must not be empty")
		return
	}

	if err := s.svc.Lexical.UpdateCorpus(req.Documents); err != nil {
		if errors.Is(err, core.ErrEmptyDocument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("corpus update failed", "err", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "corpus update failed")
		return
	}

	resp := corpusResponse{Documents: len(req.Documents)}
	if s.svc.Indexer != nil {
		if err := s.svc.Indexer.AddTexts(r.Context(), req.Documents); err != nil {
			s.logger.Error("semantic indexing failed", "err", err, "request_id", RequestID(r.Context()))
			writeError(w, http.StatusBadGateway, "lexical corpus updated but semantic indexing failed")
			return
		}
		resp.Indexed = len(req.Documents)
	}
	s.logger.Info("corpus updated", "documents", resp.Documents, "indexed", resp.Indexed)
	writeJSON(w, http.StatusOK, resp)
}

// searchParams reads query and top_k, writing a 400 on bad input. A blank
// query is bad input unless allowBlank is set.
func (s *Server) searchParams(w http.ResponseWriter, r *http.Request, allowBlank bool) (string, int, bool) {
	params := r.URL.Query()
	query := strings.TrimSpace(params.Get("query"))
	if query == "" && !allowBlank {
		writeError(w, http.StatusBadRequest, "query parameter 'query' is required")
		return "", 0, false
	}
	k, err := parseTopK(params.Get("top_k"), s.topK)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", 0, false
	}
	return query, k, true
}

var errBadTopK = errors.New("top_k must be an integer between 1 and 50")

func parseTopK(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	k, err := strconv.Atoi(raw)
	if err != nil || k < 1 || k > maxTopK {
		return 0, errBadTopK
	}
	return k, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
