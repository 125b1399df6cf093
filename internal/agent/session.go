package agent

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Mikael-duru/mockwise/internal/metrics"
	"github.com/Mikael-duru/mockwise/internal/prompts"
)

// ErrAlreadyStarted is returned when Start is called on a session that has
// already left the inactive state.
var ErrAlreadyStarted = errors.New("call session already started")

// fallbackErrorNotice is shown when the platform reports an error without
// a message.
const fallbackErrorNotice = "Call has ended."

// SessionConfig describes one call session before it starts.
type SessionConfig struct {
	Mode        Mode
	InterviewID string
	UserID      string
	UserName    string
	WorkflowID  string
	Questions   []string
}

// Session is the call lifecycle controller for a single voice interview.
// It bridges voice platform events to the transcript buffer and, once the
// call finishes, hands the accumulated transcript to the dispatcher.
// One session serves exactly one call; it is discarded afterwards.
type Session struct {
	id         string
	cfg        SessionConfig
	caller     VoiceCaller
	dispatcher *Dispatcher
	logger     *zap.Logger

	mu         sync.Mutex
	status     Status
	speaking   bool
	transcript Transcript
	subs       []Subscription
	notices    []string
	route      string

	ctx context.Context
}

// NewSession constructs a session in the inactive state.
func NewSession(id string, cfg SessionConfig, caller VoiceCaller, dispatcher *Dispatcher, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:         id,
		cfg:        cfg,
		caller:     caller,
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("call", id), zap.String("mode", string(cfg.Mode))),
		status:     StatusInactive,
		ctx:        context.Background(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the id of the user who owns this call session.
func (s *Session) UserID() string { return s.cfg.UserID }

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// IsSpeaking reports whether the assistant is currently speaking. The flag
// toggles independently of the lifecycle state.
func (s *Session) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Transcript returns a copy of the finalized utterances so far.
func (s *Session) Transcript() []Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Snapshot()
}

// Notices returns the user-visible notifications raised so far.
func (s *Session) Notices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.notices))
	copy(out, s.notices)
	return out
}

// Route returns where the caller should be navigated after the call, or
// empty while the call is still running.
func (s *Session) Route() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route
}

// Start moves the session to connecting and asks the voice platform to
// begin the call. A failed start is surfaced and the session returns to
// inactive so another attempt can be made; it is never retried here.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusInactive {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.status = StatusConnecting
	s.transcript.Reset()
	s.ctx = ctx
	s.mu.Unlock()

	s.attach()

	if err := s.caller.Start(ctx, s.callConfig()); err != nil {
		s.detach()
		s.mu.Lock()
		s.status = StatusInactive
		s.mu.Unlock()
		s.notify(err.Error())
		s.logger.Warn("call start failed", zap.Error(err))
		return err
	}
	metrics.CallsStarted.WithLabelValues(string(s.cfg.Mode)).Inc()
	return nil
}

// End is the user-initiated hang up. Teardown is requested fire-and-forget
// and the session is marked finished without waiting for confirmation.
func (s *Session) End() {
	if err := s.caller.Stop(); err != nil {
		s.logger.Warn("call stop failed", zap.Error(err))
	}
	s.finish()
}

// Close detaches every event subscription. It runs on all exit paths and
// is safe to call repeatedly.
func (s *Session) Close() {
	s.detach()
}

func (s *Session) callConfig() CallConfig {
	if s.cfg.Mode == ModeGenerate {
		return CallConfig{
			WorkflowID: s.cfg.WorkflowID,
			Variables: map[string]string{
				"username": firstName(s.cfg.UserName),
				"userid":   s.cfg.UserID,
			},
		}
	}
	return CallConfig{
		Interviewer: &InterviewerConfig{
			SystemPrompt: prompts.Interviewer(),
			Questions:    prompts.FormatQuestionList(s.cfg.Questions),
		},
	}
}

// attach registers the platform event listeners.
func (s *Session) attach() {
	subs := []Subscription{
		s.caller.On(EventCallStart, s.onCallStart),
		s.caller.On(EventCallEnd, s.onCallEnd),
		s.caller.On(EventTranscript, s.onTranscript),
		s.caller.On(EventSpeechStart, s.onSpeech(true)),
		s.caller.On(EventSpeechEnd, s.onSpeech(false)),
		s.caller.On(EventError, s.onError),
	}
	s.mu.Lock()
	s.subs = append(s.subs, subs...)
	s.mu.Unlock()
}

func (s *Session) detach() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (s *Session) onCallStart(Event) {
	s.mu.Lock()
	if s.status == StatusConnecting {
		s.status = StatusActive
	}
	s.mu.Unlock()
}

func (s *Session) onCallEnd(Event) {
	s.finish()
}

func (s *Session) onTranscript(ev Event) {
	if ev.TranscriptType != TranscriptFinal {
		return
	}
	s.mu.Lock()
	if s.status != StatusFinished {
		s.transcript.Append(Utterance{Role: ev.Role, Content: ev.Content})
	}
	s.mu.Unlock()
}

func (s *Session) onSpeech(speaking bool) func(Event) {
	return func(Event) {
		s.mu.Lock()
		s.speaking = speaking
		s.mu.Unlock()
	}
}

// onError surfaces the platform error as a notification. It never forces a
// state transition by itself.
func (s *Session) onError(ev Event) {
	msg := fallbackErrorNotice
	if ev.Err != nil && strings.TrimSpace(ev.Err.Error()) != "" {
		msg = ev.Err.Error()
	}
	s.logger.Warn("voice platform error", zap.String("message", msg))
	s.notify(msg)
}

// finish performs the single transition into the terminal state, snapshots
// the transcript as of that moment and runs the feedback dispatch. The
// status guard makes dispatch run exactly once no matter how many end
// signals arrive.
func (s *Session) finish() {
	s.mu.Lock()
	if s.status == StatusFinished {
		s.mu.Unlock()
		return
	}
	s.status = StatusFinished
	snapshot := s.transcript.Snapshot()
	ctx := s.ctx
	s.mu.Unlock()

	s.detach()
	metrics.CallsFinished.WithLabelValues(string(s.cfg.Mode)).Inc()

	res := s.dispatcher.Dispatch(ctx, DispatchRequest{
		Mode:        s.cfg.Mode,
		InterviewID: s.cfg.InterviewID,
		UserID:      s.cfg.UserID,
		Transcript:  snapshot,
	})
	if res.Notice != "" {
		s.notify(res.Notice)
	}

	s.mu.Lock()
	s.route = res.Route
	s.mu.Unlock()
	s.logger.Info("call finished",
		zap.Int("utterances", len(snapshot)),
		zap.String("route", res.Route))
}

func (s *Session) notify(msg string) {
	s.mu.Lock()
	s.notices = append(s.notices, msg)
	s.mu.Unlock()
}

func firstName(full string) string {
	name := strings.TrimSpace(full)
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
