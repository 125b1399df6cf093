package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Mikael-duru/mockwise/internal/store"
)

func TestStartGenerateCall(t *testing.T) {
	f := newFixture()
	rec := f.request(t, http.MethodPost, "/api/calls", `{"type":"generate"}`, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["status"] != "connecting" {
		t.Fatalf("data = %v", data)
	}
	if data["callId"] == "" {
		t.Fatal("no call id returned")
	}
	if f.server.deps.Calls.Len() != 1 {
		t.Fatalf("registry has %d sessions", f.server.deps.Calls.Len())
	}
}

func TestStartInterviewCall(t *testing.T) {
	f := newFixture()
	f.interviews.byID["iv-1"] = &store.Interview{
		ID: "iv-1", Role: "Backend Engineer", UserID: "user-1",
		Questions: []string{"Q1", "Q2"},
	}

	rec := f.request(t, http.MethodPost, "/api/calls", `{"type":"interview","interviewId":"iv-1"}`, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	// Missing interview id.
	rec = f.request(t, http.MethodPost, "/api/calls", `{"type":"interview"}`, "user-1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing id status = %d", rec.Code)
	}

	// Unknown interview.
	rec = f.request(t, http.MethodPost, "/api/calls", `{"type":"interview","interviewId":"missing"}`, "user-1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown interview status = %d", rec.Code)
	}

	// Unknown mode.
	rec = f.request(t, http.MethodPost, "/api/calls", `{"type":"karaoke"}`, "user-1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown mode status = %d", rec.Code)
	}
}

func TestStartCallPlatformFailure(t *testing.T) {
	f := newFixture()
	f.caller.startErr = errors.New("dial refused")

	rec := f.request(t, http.MethodPost, "/api/calls", `{"type":"generate"}`, "user-1")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.server.deps.Calls.Len() != 0 {
		t.Fatal("failed session left in registry")
	}
}

func TestCallOwnership(t *testing.T) {
	f := newFixture()
	f.users.byID["user-2"] = &store.User{ID: "user-2", Email: "two@example.com"}

	rec := f.request(t, http.MethodPost, "/api/calls", `{"type":"generate"}`, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d", rec.Code)
	}
	callID := decodeBody(t, rec)["data"].(map[string]any)["callId"].(string)

	// The owner can read the call.
	rec = f.request(t, http.MethodGet, "/api/calls/"+callID, "", "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("owner get status = %d", rec.Code)
	}

	// Anyone else sees 404, as does a missing id.
	rec = f.request(t, http.MethodGet, "/api/calls/"+callID, "", "user-2")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("other user status = %d", rec.Code)
	}
	rec = f.request(t, http.MethodGet, "/api/calls/nope", "", "user-1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing call status = %d", rec.Code)
	}
}

func TestEndAndRemoveCall(t *testing.T) {
	f := newFixture()
	rec := f.request(t, http.MethodPost, "/api/calls", `{"type":"generate"}`, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d", rec.Code)
	}
	callID := decodeBody(t, rec)["data"].(map[string]any)["callId"].(string)

	rec = f.request(t, http.MethodPost, fmt.Sprintf("/api/calls/%s/end", callID), "", "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("end status = %d", rec.Code)
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["status"] != "finished" {
		t.Fatalf("status after end = %v", data["status"])
	}
	// Generate calls route home once finished.
	if data["route"] != "/" {
		t.Fatalf("route = %v", data["route"])
	}

	rec = f.request(t, http.MethodDelete, "/api/calls/"+callID, "", "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if f.server.deps.Calls.Len() != 0 {
		t.Fatalf("registry has %d sessions after delete", f.server.deps.Calls.Len())
	}
}
