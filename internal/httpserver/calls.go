package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Mikael-duru/mockwise/internal/agent"
	"github.com/Mikael-duru/mockwise/internal/store"
)

type startCallRequest struct {
	Type        string `json:"type"`
	InterviewID string `json:"interviewId"`
}

type callState struct {
	CallID     string            `json:"callId"`
	Status     string            `json:"status"`
	IsSpeaking bool              `json:"isSpeaking"`
	Transcript []agent.Utterance `json:"transcript"`
	Notices    []string          `json:"notices,omitempty"`
	Route      string            `json:"route,omitempty"`
}

func callStateOf(sess *agent.Session) callState {
	return callState{
		CallID:     sess.ID(),
		Status:     sess.Status().String(),
		IsSpeaking: sess.IsSpeaking(),
		Transcript: sess.Transcript(),
		Notices:    sess.Notices(),
		Route:      sess.Route(),
	}
}

// startCall creates a call session for the current user and starts the
// voice call. Sessions are bound to the server's base context so they
// keep running after this request returns.
func (s *Server) startCall(c echo.Context) error {
	var req startCallRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	user := currentUser(c)

	cfg := agent.SessionConfig{
		UserID:     user.ID,
		UserName:   user.Name,
		WorkflowID: s.deps.WorkflowID,
	}
	switch agent.Mode(req.Type) {
	case agent.ModeGenerate:
		cfg.Mode = agent.ModeGenerate
	case agent.ModeInterview:
		if req.InterviewID == "" {
			return fail(c, http.StatusBadRequest, "interviewId is required")
		}
		iv, err := s.deps.Interviews.Get(c.Request().Context(), req.InterviewID)
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "interview not found")
		}
		if err != nil {
			s.deps.Logger.Error("interview get failed", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "failed to load interview")
		}
		cfg.Mode = agent.ModeInterview
		cfg.InterviewID = iv.ID
		cfg.Questions = iv.Questions
	default:
		return fail(c, http.StatusBadRequest, "type must be generate or interview")
	}

	sess := agent.NewSession(uuid.NewString(), cfg, s.deps.NewVoiceCaller(), s.deps.Dispatcher, s.deps.Logger)
	s.deps.Calls.Put(sess)
	if err := sess.Start(s.baseCtx); err != nil {
		s.deps.Calls.Remove(sess.ID())
		return fail(c, http.StatusBadGateway, "failed to start call")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": callStateOf(sess)})
}

func (s *Server) ownedCall(c echo.Context) (*agent.Session, error) {
	sess := s.deps.Calls.Get(c.Param("id"))
	if sess == nil || sess.UserID() != currentUser(c).ID {
		return nil, fail(c, http.StatusNotFound, "call not found")
	}
	return sess, nil
}

func (s *Server) getCall(c echo.Context) error {
	sess, err := s.ownedCall(c)
	if sess == nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": callStateOf(sess)})
}

// endCall is the user-initiated hang up: teardown is requested and the
// session finishes (running feedback dispatch) before the state is
// returned.
func (s *Server) endCall(c echo.Context) error {
	sess, err := s.ownedCall(c)
	if sess == nil {
		return err
	}
	sess.End()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": callStateOf(sess)})
}

func (s *Server) removeCall(c echo.Context) error {
	sess, err := s.ownedCall(c)
	if sess == nil {
		return err
	}
	s.deps.Calls.Remove(sess.ID())
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
