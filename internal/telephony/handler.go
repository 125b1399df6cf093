package telephony

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/twilio/twilio-go/twiml"
	"go.uber.org/zap"

	"github.com/Mikael-duru/mockwise/internal/agent"
	"github.com/Mikael-duru/mockwise/internal/store"
)

// InterviewGetter loads the interview a phone call runs through.
type InterviewGetter interface {
	Get(ctx context.Context, id string) (*store.Interview, error)
}

// phoneCall is the per-call state for one phone interview, keyed by
// CallSid. The transcript mirrors what the browser agent would collect:
// assistant utterances as questions are asked, user utterances from
// Twilio's speech results.
type phoneCall struct {
	interviewID string
	userID      string
	questions   []string
	next        int
	transcript  []agent.Utterance
	dispatched  bool
}

// Handler serves the Twilio webhook surface.
type Handler struct {
	logger     *zap.Logger
	interviews InterviewGetter
	dispatcher *agent.Dispatcher

	mu    sync.Mutex
	calls map[string]*phoneCall
}

// NewHandler constructs the webhook handler.
func NewHandler(interviews InterviewGetter, dispatcher *agent.Dispatcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:     logger,
		interviews: interviews,
		dispatcher: dispatcher,
		calls:      make(map[string]*phoneCall),
	}
}

// Register mounts the webhook routes behind signature validation.
func (h *Handler) Register(e *echo.Echo, getAuthToken func() string) {
	e.Use(TwilioAuth(getAuthToken))
	e.POST("/twilio/voice", h.voice)
	e.POST("/twilio/answer", h.answer)
	e.POST("/twilio/status", h.status)
}

// voice starts a phone interview. The interview and user ids arrive as
// query parameters configured on the Twilio number.
func (h *Handler) voice(c echo.Context) error {
	params, ok := twilioParams(c)
	if !ok {
		return c.String(http.StatusInternalServerError, "Failed to get Twilio parameters")
	}
	callSid := params["CallSid"]
	interviewID := c.QueryParam("interview")
	userID := c.QueryParam("user")
	if callSid == "" || interviewID == "" || userID == "" {
		return c.String(http.StatusBadRequest, "Missing call, interview or user id")
	}

	iv, err := h.interviews.Get(c.Request().Context(), interviewID)
	if err != nil {
		h.logger.Warn("phone interview lookup failed",
			zap.String("interview", interviewID), zap.Error(err))
		say := &twiml.VoiceSay{Message: "Sorry, we could not find that interview. Goodbye!"}
		return respondTwiML(c, say, &twiml.VoiceHangup{})
	}

	call := &phoneCall{interviewID: iv.ID, userID: userID, questions: iv.Questions}
	h.mu.Lock()
	h.calls[callSid] = call
	h.mu.Unlock()

	h.logger.Info("phone interview started",
		zap.String("callSid", callSid),
		zap.String("interview", iv.ID),
		zap.Int("questions", len(iv.Questions)))

	greeting := fmt.Sprintf("Hello! This is your mock interview for the %s role. I will ask you %d questions. Take your time with each answer.", iv.Role, len(iv.Questions))
	return h.askNext(c, callSid, call, greeting)
}

// answer records the caller's speech result and moves to the next
// question.
func (h *Handler) answer(c echo.Context) error {
	params, ok := twilioParams(c)
	if !ok {
		return c.String(http.StatusInternalServerError, "Failed to get Twilio parameters")
	}
	callSid := params["CallSid"]

	h.mu.Lock()
	call := h.calls[callSid]
	h.mu.Unlock()
	if call == nil {
		say := &twiml.VoiceSay{Message: "Sorry, this call is no longer active. Goodbye!"}
		return respondTwiML(c, say, &twiml.VoiceHangup{})
	}

	speech := strings.TrimSpace(params["SpeechResult"])
	h.mu.Lock()
	if speech != "" {
		call.transcript = append(call.transcript, agent.Utterance{Role: agent.RoleUser, Content: speech})
	}
	h.mu.Unlock()

	return h.askNext(c, callSid, call, "")
}

// askNext speaks the next question, or wraps the interview up when the
// list is exhausted.
func (h *Handler) askNext(c echo.Context, callSid string, call *phoneCall, preamble string) error {
	h.mu.Lock()
	done := call.next >= len(call.questions)
	var question string
	if !done {
		question = call.questions[call.next]
		call.next++
		call.transcript = append(call.transcript, agent.Utterance{Role: agent.RoleAssistant, Content: question})
	}
	h.mu.Unlock()

	if done {
		h.finish(callSid, call)
		say := &twiml.VoiceSay{Message: "That was the last question. Thank you for interviewing, your feedback will be ready shortly. Goodbye!"}
		return respondTwiML(c, say, &twiml.VoiceHangup{})
	}

	elements := make([]twiml.Element, 0, 3)
	if preamble != "" {
		elements = append(elements, &twiml.VoiceSay{Message: preamble})
	}
	elements = append(elements,
		&twiml.VoiceSay{Message: question},
		&twiml.VoiceGather{
			Action:        "/twilio/answer",
			Method:        "POST",
			Input:         "speech",
			SpeechTimeout: "auto",
		},
	)
	return respondTwiML(c, elements...)
}

// status handles call status callbacks; a completed call that never
// reached the last question is still dispatched so partial interviews get
// graded or soft-skipped like browser calls.
func (h *Handler) status(c echo.Context) error {
	params, ok := twilioParams(c)
	if !ok {
		return c.String(http.StatusInternalServerError, "Failed to get Twilio parameters")
	}
	callSid := params["CallSid"]
	callStatus := params["CallStatus"]

	switch callStatus {
	case "completed", "failed", "busy", "no-answer", "canceled":
		h.mu.Lock()
		call := h.calls[callSid]
		delete(h.calls, callSid)
		h.mu.Unlock()
		if call != nil && callStatus == "completed" {
			h.finish(callSid, call)
		}
	}
	return c.String(http.StatusOK, "OK")
}

// finish runs feedback dispatch at most once per phone call, off the
// webhook path.
func (h *Handler) finish(callSid string, call *phoneCall) {
	h.mu.Lock()
	if call.dispatched {
		h.mu.Unlock()
		return
	}
	call.dispatched = true
	transcript := make([]agent.Utterance, len(call.transcript))
	copy(transcript, call.transcript)
	h.mu.Unlock()

	go func() {
		res := h.dispatcher.Dispatch(context.Background(), agent.DispatchRequest{
			Mode:        agent.ModeInterview,
			InterviewID: call.interviewID,
			UserID:      call.userID,
			Transcript:  transcript,
		})
		if res.Err != nil {
			h.logger.Warn("phone interview dispatch",
				zap.String("callSid", callSid), zap.Error(res.Err))
			return
		}
		h.logger.Info("phone interview graded",
			zap.String("callSid", callSid),
			zap.String("feedback", res.FeedbackID))
	}()
}

func respondTwiML(c echo.Context, elements ...twiml.Element) error {
	response, err := twiml.Voice(elements)
	if err != nil {
		return c.String(http.StatusInternalServerError, "failed to build TwiML")
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml")
	return c.String(http.StatusOK, response)
}
