package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/moodcast/moodcast/pkg/logging"
)

// pendingStates tracks OAuth state parameters issued by /auth/login that have
// not been redeemed yet.
type pendingStates struct {
	mu     sync.Mutex
	states map[string]struct{}
}

func newPendingStates() *pendingStates {
	return &pendingStates{states: make(map[string]struct{})}
}

func (p *pendingStates) issue() string {
	state := uuid.NewString()
	p.mu.Lock()
	p.states[state] = struct{}{}
	p.mu.Unlock()
	return state
}

func (p *pendingStates) redeem(state string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.states[state]; !ok {
		return false
	}
	delete(p.states, state)
	return true
}

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	state := s.states.issue()
	url := s.auth.AuthURL(state)
	s.logger.Debug("Redirecting to authorization endpoint", logging.Fields{"state": state})
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" || !s.states.redeem(state) {
		s.writeError(w, http.StatusForbidden, "state mismatch")
		return
	}
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		s.writeError(w, http.StatusForbidden, "authorization denied: "+errMsg)
		return
	}

	token, err := s.auth.Token(r.Context(), state, r)
	if err != nil {
		s.logger.Error("Token exchange failed", logging.Fields{"error": err.Error()})
		s.writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}
	if err := s.tokens.Save(token); err != nil {
		s.logger.Error("Failed to persist token", logging.Fields{"error": err.Error()})
		s.writeError(w, http.StatusInternalServerError, "failed to persist token")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "authorized"})
}
