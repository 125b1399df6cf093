package agent

import "context"

// Status is the lifecycle state of one call session. Transitions are
// strictly linear: Inactive -> Connecting -> Active -> Finished. Finished
// is terminal; a fresh session starts over at Inactive.
type Status int32

const (
	StatusInactive Status = iota
	StatusConnecting
	StatusActive
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusConnecting:
		return "connecting"
	case StatusActive:
		return "active"
	case StatusFinished:
		return "finished"
	}
	return "unknown"
}

// Role tags the speaker of a transcript utterance.
type Role string

const (
	RoleUser      Role = "user"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
)

// Utterance is one finalized speech-to-text result.
type Utterance struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Mode selects what a call session is for. Generate calls collect the
// preferences used to create a new interview and are never scored;
// interview calls run a prepared question list and end in feedback.
type Mode string

const (
	ModeGenerate  Mode = "generate"
	ModeInterview Mode = "interview"
)

// EventKind names the signals delivered by the voice platform.
type EventKind string

const (
	EventCallStart   EventKind = "call-start"
	EventCallEnd     EventKind = "call-end"
	EventTranscript  EventKind = "transcript"
	EventSpeechStart EventKind = "speech-start"
	EventSpeechEnd   EventKind = "speech-end"
	EventError       EventKind = "error"
)

// TranscriptType distinguishes settled results from interim ones.
// Only final results are kept.
type TranscriptType string

const (
	TranscriptPartial TranscriptType = "partial"
	TranscriptFinal   TranscriptType = "final"
)

// Event is a single signal from the voice platform. Transcript fields are
// populated for EventTranscript, Err for EventError.
type Event struct {
	Kind           EventKind
	Role           Role
	TranscriptType TranscriptType
	Content        string
	Err            error
}

// Subscription is a handle for one registered event listener. Unsubscribe
// must be safe to call more than once.
type Subscription interface {
	Unsubscribe()
}

// CallConfig tells the voice platform how to run the call. Exactly one of
// the two shapes is used: WorkflowID+Variables for open-ended generation
// calls, Interviewer for scripted interviews.
type CallConfig struct {
	WorkflowID  string
	Variables   map[string]string
	Interviewer *InterviewerConfig
}

// InterviewerConfig is the fixed persona plus the pre-formatted question
// list handed to the platform for a scripted interview.
type InterviewerConfig struct {
	SystemPrompt string
	Questions    string
}

// VoiceCaller is the minimal surface the session needs from the voice
// platform client: start/stop the call and subscribe to its events.
type VoiceCaller interface {
	Start(ctx context.Context, cfg CallConfig) error
	// Stop requests call teardown without waiting for confirmation.
	Stop() error
	On(kind EventKind, fn func(Event)) Subscription
}

// FeedbackResult is the structured scoring produced for one transcript.
type FeedbackResult struct {
	TotalScore          int             `json:"totalScore"`
	CategoryScores      []CategoryScore `json:"categoryScores"`
	Strengths           []string        `json:"strengths"`
	Weaknesses          []string        `json:"weaknesses"`
	AreasForImprovement []string        `json:"areasForImprovement"`
	FinalAssessment     string          `json:"finalAssessment"`
}

// CategoryScore is one of the five fixed grading categories.
type CategoryScore struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// FeedbackGenerator maps a serialized transcript to a structured score.
type FeedbackGenerator interface {
	GenerateFeedback(ctx context.Context, formattedTranscript string) (*FeedbackResult, error)
}

// FeedbackStore persists one feedback record and returns its id.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, interviewID, userID string, res *FeedbackResult) (string, error)
}
