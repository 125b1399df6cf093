package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mikael-duru/mockwise/internal/metrics"
)

// ErrNoUserResponses marks the soft skip: the call finished without a
// single non-empty user utterance, so there is nothing to grade. The
// persistence action reports this as a failure while the call flow itself
// still completes normally.
var ErrNoUserResponses = errors.New("transcript has no user responses")

// feedbackFailedNotice is the user-visible message for a failed grading run.
const feedbackFailedNotice = "Failed to generate feedback."

// HomeRoute is where callers land when no feedback view exists for them.
const HomeRoute = "/"

// DispatchRequest carries everything the dispatcher needs from a finished
// call: the mode it ran in and the transcript snapshot taken at the moment
// the session reached the finished state.
type DispatchRequest struct {
	Mode        Mode
	InterviewID string
	UserID      string
	Transcript  []Utterance
}

// DispatchResult reports where to navigate, the created feedback id if
// any, a user-visible notice for failures and the dispatch error. A soft
// skip sets Err to ErrNoUserResponses with no notice.
type DispatchResult struct {
	Route      string
	FeedbackID string
	Notice     string
	Err        error
}

// Dispatcher decides, once per finished call, whether the transcript is
// submitted for AI scoring and where the caller is routed afterwards.
type Dispatcher struct {
	generator FeedbackGenerator
	feedbacks FeedbackStore
	logger    *zap.Logger
}

// NewDispatcher constructs a feedback dispatcher.
func NewDispatcher(generator FeedbackGenerator, feedbacks FeedbackStore, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{generator: generator, feedbacks: feedbacks, logger: logger}
}

// Dispatch runs exactly once when a session finishes. Generate calls only
// exist to elicit interview preferences, so they always route home without
// scoring. Interview calls are graded unless the user never said anything.
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest) DispatchResult {
	if req.Mode != ModeInterview {
		return DispatchResult{Route: HomeRoute}
	}

	if !HasUserResponse(req.Transcript) {
		d.logger.Info("skipping feedback, no user responses",
			zap.String("interview", req.InterviewID),
			zap.String("user", req.UserID))
		return DispatchResult{Route: HomeRoute, Err: ErrNoUserResponses}
	}

	res, err := d.generator.GenerateFeedback(ctx, FormatTranscript(req.Transcript))
	if err != nil {
		metrics.FeedbackFailed.Inc()
		d.logger.Error("feedback generation failed", zap.Error(err))
		return DispatchResult{Route: HomeRoute, Notice: feedbackFailedNotice, Err: err}
	}

	id, err := d.feedbacks.CreateFeedback(ctx, req.InterviewID, req.UserID, res)
	if err == nil && id == "" {
		err = errors.New("feedback id missing")
	}
	if err != nil {
		metrics.FeedbackFailed.Inc()
		d.logger.Error("feedback persist failed", zap.Error(err))
		return DispatchResult{Route: HomeRoute, Notice: feedbackFailedNotice, Err: err}
	}

	metrics.FeedbackCreated.Inc()
	return DispatchResult{
		Route:      fmt.Sprintf("/interview/%s/feedback", req.InterviewID),
		FeedbackID: id,
	}
}
