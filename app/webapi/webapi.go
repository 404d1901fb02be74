// Package webapi provides a web API for checking messages without moderation, reading recent
// moderation records and managing approved users.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/tg-moderator/lib/approved"
	"github.com/umputun/tg-moderator/lib/spamcheck"
)

//go:generate moq --out mocks/classifier.go --pkg mocks --with-resets --skip-ensure . Classifier
//go:generate moq --out mocks/records.go --pkg mocks --with-resets --skip-ensure . Records
//go:generate moq --out mocks/users.go --pkg mocks --with-resets --skip-ensure . Users

// Server is a web API server.
type Server struct {
	Config
}

// Config defines server parameters
type Config struct {
	Version    string     // version to show in /ping
	ListenAddr string     // listen address
	Normalizer Normalizer // text normalizer, the same as the pipeline uses
	Classifier Classifier // spam classifier
	Policy     Policy     // decision policy
	Records    Records    // moderation records, optional
	Users      Users      // approved users, optional
	AuthPasswd string     // basic auth password for user "tg-moderator"
	RateLimit  float64    // max requests per second per client ip, 0 means default
}

// Normalizer canonicalizes text before classification
type Normalizer interface {
	Normalize(raw string) string
}

// Classifier scores normalized text
type Classifier interface {
	Classify(ctx context.Context, key spamcheck.Key, text string) (spamcheck.Result, error)
}

// Policy decides on action for probability
type Policy interface {
	Decide(probability float64, sender spamcheck.Sender) spamcheck.Verdict
}

// Records provides recent moderation records
type Records interface {
	Recent(ctx context.Context, limit int, actions ...spamcheck.Action) ([]spamcheck.Record, error)
}

// Users manages approved users
type Users interface {
	Users() []approved.UserInfo
	Approve(ctx context.Context, user approved.UserInfo) error
	Remove(ctx context.Context, id int64) error
}

// CheckRequest is a body of POST /check request
type CheckRequest struct {
	Text      string `json:"msg"`
	UserID    int64  `json:"user_id,omitempty"`
	NewMember bool   `json:"new_member,omitempty"`
	Approved  bool   `json:"approved,omitempty"`
}

// CheckResponse is a result of POST /check, the verdict the bot would make for the message
type CheckResponse struct {
	Normalized  string  `json:"normalized"`
	Probability float64 `json:"probability"`
	Model       string  `json:"model"`
	Truncated   bool    `json:"truncated"`
	Action      string  `json:"action"`
	Restriction string  `json:"restriction,omitempty"`
}

const (
	authUser        = "tg-moderator"
	defaultRecent   = 50
	maxRecent       = 1000
	defaultRPSLimit = 50
)

// NewServer creates a new web API server.
func NewServer(config Config) *Server {
	return &Server{Config: config}
}

// Run starts server and accepts requests until context is canceled.
func (s *Server) Run(ctx context.Context) error {
	if s.Normalizer == nil || s.Classifier == nil || s.Policy == nil {
		return errors.New("normalizer, classifier and policy are required")
	}

	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for webapi server")
	} else {
		log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
	}

	srv := &http.Server{Addr: s.ListenAddr, Handler: s.routes(), ReadTimeout: 5 * time.Second,
		WriteTimeout: 30 * time.Second, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	rps := s.RateLimit
	if rps <= 0 {
		rps = defaultRPSLimit
	}
	lmt := tollbooth.NewLimiter(rps, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})

	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()), rest.Throttle(1000))
	router.Use(rest.AppInfo("tg-moderator", "umputun", s.Version), rest.Ping)
	router.Use(tollbooth.HTTPMiddleware(lmt))
	router.Use(rest.SizeLimit(1024 * 1024)) // 1M max request size

	router.Group().Route(func(api *routegroup.Bundle) {
		if s.AuthPasswd != "" {
			api.Use(rest.BasicAuthWithUserPasswd(authUser, s.AuthPasswd))
		}
		api.HandleFunc("POST /check", s.checkHandler)             // check a message, no moderation actions
		api.HandleFunc("GET /moderations", s.moderationsHandler) // recent moderation records

		// manage approved users
		api.HandleFunc("GET /users", s.getUsersHandler)
		api.HandleFunc("POST /users/add", s.updateUsersHandler(s.approveUser))
		api.HandleFunc("POST /users/delete", s.updateUsersHandler(s.removeUser))
	})
	return router
}

// checkHandler handles POST /check request.
// it runs normalizer, classifier and policy for the message text and returns the verdict.
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	req := CheckRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "can't decode request", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		sendError(w, http.StatusBadRequest, "empty message", nil)
		return
	}

	normalized := s.Normalizer.Normalize(req.Text)
	if normalized == "" {
		rest.RenderJSON(w, CheckResponse{Action: spamcheck.ActionAllow.String()})
		return
	}

	res, err := s.Classifier.Classify(r.Context(), spamcheck.Key{}, normalized)
	if err != nil {
		log.Printf("[WARN] can't classify message: %v", err)
		sendError(w, http.StatusServiceUnavailable, "can't classify message", err)
		return
	}

	verdict := s.Policy.Decide(res.Probability, spamcheck.Sender{NewMember: req.NewMember, Approved: req.Approved})
	resp := CheckResponse{
		Normalized:  normalized,
		Probability: res.Probability,
		Model:       res.Model,
		Truncated:   res.Truncated,
		Action:      verdict.Action.String(),
	}
	if verdict.Action == spamcheck.ActionRemove {
		resp.Restriction = verdict.Restriction.String()
	}
	rest.RenderJSON(w, resp)
}

// moderationsHandler handles GET /moderations?limit=N&action=remove,flag request
func (s *Server) moderationsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Records == nil {
		sendError(w, http.StatusNotImplemented, "moderation records not available", nil)
		return
	}

	limit := defaultRecent
	if v := r.URL.Query().Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l <= 0 {
			sendError(w, http.StatusBadRequest, "invalid limit", err)
			return
		}
		limit = min(l, maxRecent)
	}

	var actions []spamcheck.Action
	if v := r.URL.Query().Get("action"); v != "" {
		for _, a := range strings.Split(v, ",") {
			action, err := spamcheck.ParseAction(strings.TrimSpace(a))
			if err != nil {
				sendError(w, http.StatusBadRequest, "invalid action", err)
				return
			}
			actions = append(actions, action)
		}
	}

	recs, err := s.Records.Recent(r.Context(), limit, actions...)
	if err != nil {
		log.Printf("[WARN] can't get moderation records: %v", err)
		sendError(w, http.StatusInternalServerError, "can't get moderation records", err)
		return
	}

	type record struct {
		spamcheck.Record
		Action string `json:"action"`
	}
	res := make([]record, 0, len(recs))
	for _, rec := range recs {
		res = append(res, record{Record: rec, Action: rec.Action.String()})
	}
	rest.RenderJSON(w, rest.JSON{"records": res, "count": len(res)})
}

// getUsersHandler handles GET /users request, returns list of approved users
func (s *Server) getUsersHandler(w http.ResponseWriter, _ *http.Request) {
	if s.Users == nil {
		sendError(w, http.StatusNotImplemented, "approved users not available", nil)
		return
	}
	users := s.Users.Users()
	if users == nil {
		users = []approved.UserInfo{}
	}
	rest.RenderJSON(w, rest.JSON{"user_ids": users})
}

// updateUsersHandler handles POST /users/add and /users/delete requests
func (s *Server) updateUsersHandler(updFn func(ctx context.Context, user approved.UserInfo) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Users == nil {
			sendError(w, http.StatusNotImplemented, "approved users not available", nil)
			return
		}
		req := approved.UserInfo{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendError(w, http.StatusBadRequest, "can't decode request", err)
			return
		}
		if req.UserID == 0 {
			sendError(w, http.StatusBadRequest, "user id is required", nil)
			return
		}
		if err := updFn(r.Context(), req); err != nil {
			log.Printf("[WARN] can't update approved user %s: %v", &req, err)
			sendError(w, http.StatusInternalServerError, "can't update approved users", err)
			return
		}
		rest.RenderJSON(w, rest.JSON{"updated": true, "user_id": req.UserID, "user_name": req.UserName})
	}
}

func (s *Server) approveUser(ctx context.Context, user approved.UserInfo) error {
	if user.Timestamp.IsZero() {
		user.Timestamp = time.Now()
	}
	return s.Users.Approve(ctx, user)
}

func (s *Server) removeUser(ctx context.Context, user approved.UserInfo) error {
	return s.Users.Remove(ctx, user.UserID)
}

func sendError(w http.ResponseWriter, code int, msg string, err error) {
	w.WriteHeader(code)
	resp := rest.JSON{"error": msg}
	if err != nil {
		resp["details"] = err.Error()
	}
	rest.RenderJSON(w, resp)
}
