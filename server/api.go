// Package server exposes the TFA analysis pipeline over HTTP, using a
// chi-router-plus-JWT-bearer-auth shape, with server/result supplying
// uniform JSON responses.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/arnelund/tfa"
	"github.com/arnelund/tfa/internal/config"
	"github.com/arnelund/tfa/internal/model"
	"github.com/arnelund/tfa/internal/render"
	"github.com/arnelund/tfa/internal/store"
	"github.com/arnelund/tfa/server/result"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// PathPrefix is the prefix every route in this service is mounted under.
const PathPrefix = "/api/v1"

// Server holds the state needed to run the analysis HTTP API: the
// credential used to authenticate, the JWT signing secret, and the
// analysis cache.
type Server struct {
	operatorKeyHash string
	jwtSecret       []byte
	cache           *store.Store
	unauthDelay     time.Duration

	router chi.Router
}

// New builds a Server. operatorKeyHash is the bcrypt hash of the one
// credential this service accepts (see NewOperatorKeyHash); jwtSecret
// signs issued tokens; cache persists analysis results for later lookup.
func New(operatorKeyHash string, jwtSecret []byte, cache *store.Store) *Server {
	s := &Server{
		operatorKeyHash: operatorKeyHash,
		jwtSecret:       jwtSecret,
		cache:           cache,
		unauthDelay:     time.Second,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP makes *Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/analyses", s.handleAnalyze)
			r.Get("/analyses/{id}", s.handleGetAnalysis)
			r.Get("/analyses/{id}/render", s.handleRenderAnalysis)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		next.ServeHTTP(w, req)
		log.Printf("%s %s", req.Method, req.URL.Path)
	})
}

type loginRequest struct {
	OperatorKey string `json:"operator_key"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := parseJSON(req, &body); err != nil {
		result.BadRequest(err.Error(), "malformed login request").WriteResponse(w)
		return
	}

	if err := checkOperatorKey(s.operatorKeyHash, body.OperatorKey); err != nil {
		time.Sleep(s.unauthDelay)
		result.Unauthorized("", "bad operator key").WriteResponse(w)
		return
	}

	tok, err := s.issueToken()
	if err != nil {
		result.InternalServerError("issuing token: %s", err).WriteResponse(w)
		return
	}

	result.OK(loginResponse{Token: tok}).WriteResponse(w)
}

type analyzeRequest struct {
	Definition             string `json:"definition"` // TOML-formatted TFA definition
	PropagateResetToSource bool   `json:"propagate_reset_to_source"`
	Reduce                 bool   `json:"reduce"`
	BuildObserver          bool   `json:"build_observer"`
}

type analyzeResponse struct {
	ID            uuid.UUID       `json:"id"`
	Warnings      []string        `json:"warnings,omitempty"`
	ZoneStates    int             `json:"zone_states"`
	ZoneEdges     int             `json:"zone_edges"`
	ObserverCount int             `json:"observer_states,omitempty"`
	Bounds        map[string][]float64 `json:"bounds"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	var body analyzeRequest
	if err := parseJSON(req, &body); err != nil {
		result.BadRequest(err.Error(), "malformed analyze request").WriteResponse(w)
		return
	}

	def, err := config.Parse([]byte(body.Definition))
	if err != nil {
		result.BadRequest(err.Error(), "invalid TFA definition").WriteResponse(w)
		return
	}

	analysis, err := runAnalysis(def, body)
	if err != nil {
		result.BadRequest(err.Error(), "could not build TFA").WriteResponse(w)
		return
	}

	rec := store.FromZoneAutomaton(analysis.Bounds, analysis.Zone)
	id, err := s.cache.Put(req.Context(), rec)
	if err != nil {
		result.InternalServerError("caching analysis: %s", err).WriteResponse(w)
		return
	}

	resp := analyzeResponse{
		ID:         id,
		ZoneStates: len(analysis.Zone.States),
		ZoneEdges:  len(analysis.Zone.Edges),
		Bounds:     analysis.Bounds,
	}
	for _, warn := range analysis.Warnings {
		resp.Warnings = append(resp.Warnings, warn.String())
	}
	if analysis.Observer != nil {
		resp.ObserverCount = len(analysis.Observer.States)
	}

	result.Created(resp).WriteResponse(w)
}

func runAnalysis(def model.Def, body analyzeRequest) (tfa.Analysis, error) {
	return tfa.New(def, tfa.Options{
		PropagateResetToSource: body.PropagateResetToSource,
		Reduce:                 body.Reduce,
		BuildObserver:          body.BuildObserver,
	})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		result.BadRequest("invalid analysis ID", "bad id param").WriteResponse(w)
		return
	}

	rec, err := s.cache.Get(req.Context(), id)
	if err != nil {
		result.NotFound("analysis %s: %s", id, err).WriteResponse(w)
		return
	}

	result.OK(rec).WriteResponse(w)
}

func (s *Server) handleRenderAnalysis(w http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		result.BadRequest("invalid analysis ID", "bad id param").WriteResponse(w)
		return
	}

	rec, err := s.cache.Get(req.Context(), id)
	if err != nil {
		result.NotFound("analysis %s: %s", id, err).WriteResponse(w)
		return
	}

	g := render.NewZoneGraph(rec.ToZoneAutomaton())

	type renderEdge struct {
		From  string `json:"from"`
		Label string `json:"label"`
		To    string `json:"to"`
	}
	type renderNode struct {
		ID        string `json:"id"`
		Label     string `json:"label"`
		IsInitial bool   `json:"is_initial"`
	}

	var nodes []renderNode
	for _, n := range render.Drain(g.Nodes()) {
		nodes = append(nodes, renderNode{ID: n.ID, Label: n.Label, IsInitial: g.IsInitial(n.ID)})
	}
	var edges []renderEdge
	for _, e := range render.DrainEdges(g.Edges()) {
		edges = append(edges, renderEdge{From: e.From, Label: e.Label, To: e.To})
	}

	result.OK(struct {
		Nodes []renderNode `json:"nodes"`
		Edges []renderEdge `json:"edges"`
	}{Nodes: nodes, Edges: edges}).WriteResponse(w)
}

// parseJSON decodes a JSON request body, requiring an application/json
// content type.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	if !strings.EqualFold(contentType, "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}

	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("malformed JSON in request: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, userMsg string) {
	result.Err(status, userMsg, userMsg).WriteResponse(w)
}
