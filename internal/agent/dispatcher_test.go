package agent

import (
	"context"
	"errors"
	"testing"
)

func sampleTranscript() []Utterance {
	return []Utterance{
		{Role: RoleAssistant, Content: "Hi"},
		{Role: RoleUser, Content: "I build backend systems"},
	}
}

func TestDispatchGenerateModeRoutesHome(t *testing.T) {
	gen := &fakeGenerator{}
	d := NewDispatcher(gen, &fakeFeedbackStore{}, nil)

	res := d.Dispatch(context.Background(), DispatchRequest{Mode: ModeGenerate, Transcript: sampleTranscript()})
	if res.Route != HomeRoute || res.Err != nil {
		t.Fatalf("result = %+v, want home route and no error", res)
	}
	if gen.calls != 0 {
		t.Fatal("generate mode reached the grader")
	}
}

func TestDispatchSoftSkipWithoutUserResponses(t *testing.T) {
	gen := &fakeGenerator{}
	d := NewDispatcher(gen, &fakeFeedbackStore{}, nil)

	res := d.Dispatch(context.Background(), DispatchRequest{
		Mode:        ModeInterview,
		InterviewID: "iv-1",
		Transcript: []Utterance{
			{Role: RoleAssistant, Content: "Hello?"},
			{Role: RoleUser, Content: "  \t "},
		},
	})
	if !errors.Is(res.Err, ErrNoUserResponses) {
		t.Fatalf("err = %v, want ErrNoUserResponses", res.Err)
	}
	if res.Route != HomeRoute {
		t.Fatalf("route = %q, want %q", res.Route, HomeRoute)
	}
	if res.Notice != "" {
		t.Fatalf("soft skip produced notice %q", res.Notice)
	}
	if gen.calls != 0 {
		t.Fatal("grader was called for an empty transcript")
	}
}

func TestDispatchSuccessRoutesToFeedback(t *testing.T) {
	store := &fakeFeedbackStore{id: "fb-42"}
	d := NewDispatcher(&fakeGenerator{}, store, nil)

	res := d.Dispatch(context.Background(), DispatchRequest{
		Mode:        ModeInterview,
		InterviewID: "iv-1",
		UserID:      "user-1",
		Transcript:  sampleTranscript(),
	})
	if res.Err != nil {
		t.Fatalf("err = %v", res.Err)
	}
	if res.FeedbackID != "fb-42" {
		t.Fatalf("feedback id = %q", res.FeedbackID)
	}
	if want := "/interview/iv-1/feedback"; res.Route != want {
		t.Fatalf("route = %q, want %q", res.Route, want)
	}
}

func TestDispatchGeneratorFailure(t *testing.T) {
	d := NewDispatcher(&fakeGenerator{err: errors.New("quota exceeded")}, &fakeFeedbackStore{}, nil)

	res := d.Dispatch(context.Background(), DispatchRequest{
		Mode:        ModeInterview,
		InterviewID: "iv-1",
		Transcript:  sampleTranscript(),
	})
	if res.Err == nil {
		t.Fatal("expected error")
	}
	if res.Route != HomeRoute {
		t.Fatalf("route = %q, want home", res.Route)
	}
	if res.Notice != "Failed to generate feedback." {
		t.Fatalf("notice = %q", res.Notice)
	}
}

func TestDispatchPersistFailure(t *testing.T) {
	d := NewDispatcher(&fakeGenerator{}, &fakeFeedbackStore{err: errors.New("write refused")}, nil)

	res := d.Dispatch(context.Background(), DispatchRequest{
		Mode:        ModeInterview,
		InterviewID: "iv-1",
		Transcript:  sampleTranscript(),
	})
	if res.Err == nil || res.Notice != "Failed to generate feedback." {
		t.Fatalf("result = %+v, want persist failure surfaced", res)
	}
}
