package telephony

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mikael-duru/mockwise/internal/agent"
	"github.com/Mikael-duru/mockwise/internal/store"
)

const testAuthToken = "twilio-token"

type fakeInterviews struct {
	byID map[string]*store.Interview
}

func (f *fakeInterviews) Get(_ context.Context, id string) (*store.Interview, error) {
	iv, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return iv, nil
}

type recordingGenerator struct {
	mu     sync.Mutex
	inputs []string
}

func (g *recordingGenerator) GenerateFeedback(_ context.Context, formatted string) (*agent.FeedbackResult, error) {
	g.mu.Lock()
	g.inputs = append(g.inputs, formatted)
	g.mu.Unlock()
	return &agent.FeedbackResult{TotalScore: 70}, nil
}

type signalingStore struct {
	created chan struct{}
}

func (s *signalingStore) CreateFeedback(_ context.Context, _, _ string, _ *agent.FeedbackResult) (string, error) {
	s.created <- struct{}{}
	return "fb-1", nil
}

type phoneFixture struct {
	e       *echo.Echo
	gen     *recordingGenerator
	created chan struct{}
}

func newPhoneFixture(questions []string) *phoneFixture {
	f := &phoneFixture{
		gen:     &recordingGenerator{},
		created: make(chan struct{}, 4),
	}
	interviews := &fakeInterviews{byID: map[string]*store.Interview{
		"iv-1": {ID: "iv-1", Role: "Backend Engineer", UserID: "user-1", Questions: questions},
	}}
	h := NewHandler(interviews, agent.NewDispatcher(f.gen, &signalingStore{created: f.created}, nil), nil)

	f.e = echo.New()
	h.Register(f.e, func() string { return testAuthToken })
	return f
}

func (f *phoneFixture) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, signedWebhook(path, form, testAuthToken))
	return rec
}

func (f *phoneFixture) waitFeedback(t *testing.T) {
	t.Helper()
	select {
	case <-f.created:
	case <-time.After(2 * time.Second):
		t.Fatal("feedback was never persisted")
	}
}

func TestPhoneInterviewFullFlow(t *testing.T) {
	f := newPhoneFixture([]string{"What is a goroutine?", "Explain channels."})

	rec := f.post(t, "/twilio/voice?interview=iv-1&user=user-1", url.Values{"CallSid": {"CA1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("voice status = %d body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Backend Engineer") {
		t.Fatalf("greeting missing role:\n%s", body)
	}
	if !strings.Contains(body, "What is a goroutine?") {
		t.Fatalf("first question not asked:\n%s", body)
	}
	if !strings.Contains(body, "<Gather") || !strings.Contains(body, "/twilio/answer") {
		t.Fatalf("no gather verb in response:\n%s", body)
	}

	rec = f.post(t, "/twilio/answer", url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"A goroutine is a lightweight thread."},
	})
	if !strings.Contains(rec.Body.String(), "Explain channels.") {
		t.Fatalf("second question not asked:\n%s", rec.Body.String())
	}

	rec = f.post(t, "/twilio/answer", url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"Channels pass values between goroutines."},
	})
	if !strings.Contains(rec.Body.String(), "<Hangup") {
		t.Fatalf("call not hung up after last question:\n%s", rec.Body.String())
	}

	f.waitFeedback(t)

	f.gen.mu.Lock()
	defer f.gen.mu.Unlock()
	if len(f.gen.inputs) != 1 {
		t.Fatalf("grader called %d times", len(f.gen.inputs))
	}
	transcript := f.gen.inputs[0]
	for _, want := range []string{
		"- assistant: What is a goroutine?",
		"- user: A goroutine is a lightweight thread.",
		"- assistant: Explain channels.",
		"- user: Channels pass values between goroutines.",
	} {
		if !strings.Contains(transcript, want) {
			t.Errorf("transcript missing %q:\n%s", want, transcript)
		}
	}
}

func TestPhoneInterviewDispatchesOnceOnStatusCallback(t *testing.T) {
	f := newPhoneFixture([]string{"Only question?"})

	f.post(t, "/twilio/voice?interview=iv-1&user=user-1", url.Values{"CallSid": {"CA1"}})
	f.post(t, "/twilio/answer", url.Values{"CallSid": {"CA1"}, "SpeechResult": {"My answer."}})
	f.waitFeedback(t)

	// The completed status callback after a normal wrap-up must not grade
	// the interview a second time.
	rec := f.post(t, "/twilio/status", url.Values{"CallSid": {"CA1"}, "CallStatus": {"completed"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status callback = %d", rec.Code)
	}

	select {
	case <-f.created:
		t.Fatal("feedback dispatched twice")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPhoneInterviewHangupMidCallStillDispatches(t *testing.T) {
	f := newPhoneFixture([]string{"Q1?", "Q2?"})

	f.post(t, "/twilio/voice?interview=iv-1&user=user-1", url.Values{"CallSid": {"CA1"}})
	f.post(t, "/twilio/answer", url.Values{"CallSid": {"CA1"}, "SpeechResult": {"Partial answer."}})

	// Caller hangs up before the second answer.
	f.post(t, "/twilio/status", url.Values{"CallSid": {"CA1"}, "CallStatus": {"completed"}})
	f.waitFeedback(t)
}

func TestPhoneInterviewSilentCallerSkipsFeedback(t *testing.T) {
	f := newPhoneFixture([]string{"Q1?"})

	f.post(t, "/twilio/voice?interview=iv-1&user=user-1", url.Values{"CallSid": {"CA1"}})
	f.post(t, "/twilio/status", url.Values{"CallSid": {"CA1"}, "CallStatus": {"completed"}})

	select {
	case <-f.created:
		t.Fatal("feedback persisted for a transcript without user responses")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPhoneInterviewUnknownInterview(t *testing.T) {
	f := newPhoneFixture(nil)

	rec := f.post(t, "/twilio/voice?interview=missing&user=user-1", url.Values{"CallSid": {"CA1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<Hangup") {
		t.Fatalf("unknown interview should hang up:\n%s", rec.Body.String())
	}
}

func TestPhoneInterviewUnknownCallSid(t *testing.T) {
	f := newPhoneFixture(nil)

	rec := f.post(t, "/twilio/answer", url.Values{"CallSid": {"CA-unknown"}, "SpeechResult": {"hi"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<Hangup") {
		t.Fatalf("unknown call should hang up:\n%s", rec.Body.String())
	}
}

func TestPhoneInterviewMissingParams(t *testing.T) {
	f := newPhoneFixture(nil)
	rec := f.post(t, "/twilio/voice", url.Values{"CallSid": {"CA1"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without interview/user ids", rec.Code)
	}
}
