// Package httpserver wires the REST surface: interview generation, image
// upload, auth/session handling, interview reads and the call session
// endpoints driving the voice agent.
package httpserver

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Mikael-duru/mockwise/internal/agent"
	"github.com/Mikael-duru/mockwise/internal/auth"
	"github.com/Mikael-duru/mockwise/internal/media"
	"github.com/Mikael-duru/mockwise/internal/prompts"
	"github.com/Mikael-duru/mockwise/internal/store"
)

// QuestionGenerator produces the ordered question list for a new interview.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req prompts.QuestionRequest) ([]string, error)
}

// InterviewStore is the interview persistence surface the handlers need.
type InterviewStore interface {
	Create(ctx context.Context, iv *store.Interview) error
	Get(ctx context.Context, id string) (*store.Interview, error)
	ListByUser(ctx context.Context, userID string) ([]store.Interview, error)
	ListCommunity(ctx context.Context, userID string, limit int64) ([]store.Interview, error)
}

// FeedbackReader reads back stored feedback records.
type FeedbackReader interface {
	GetByIDs(ctx context.Context, interviewID, userID string) (*store.Feedback, error)
}

// UserStore is the user persistence surface the handlers need.
type UserStore interface {
	Create(ctx context.Context, u *store.User) error
	Get(ctx context.Context, id string) (*store.User, error)
	GetByEmail(ctx context.Context, email string) (*store.User, error)
	UpdatePhoto(ctx context.Context, id, photoURL, imgPublicID string) error
}

// ImageUploader stores an uploaded image and returns where it lives.
type ImageUploader interface {
	UploadImage(filename, contentType string, data []byte) (media.UploadResult, error)
}

// Deps bundles everything the server needs. All external clients are
// constructed at startup and injected; nothing here reaches for globals.
type Deps struct {
	Logger     *zap.Logger
	Sessions   *auth.SessionManager
	Verifier   auth.TokenVerifier
	Users      UserStore
	Interviews InterviewStore
	Feedbacks  FeedbackReader
	Questions  QuestionGenerator
	Uploader   ImageUploader

	Calls      *agent.Registry
	Dispatcher *agent.Dispatcher
	// NewVoiceCaller yields a fresh platform client per call session.
	NewVoiceCaller func() agent.VoiceCaller
	WorkflowID     string
}

// Server bundles the router and its dependencies.
type Server struct {
	Echo *echo.Echo
	deps Deps

	// baseCtx outlives individual requests; call sessions are bound to it
	// so an ended HTTP request does not tear down a running call.
	baseCtx context.Context
}

// New constructs the HTTP server with all routes registered.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	s := &Server{Echo: e, deps: deps, baseCtx: context.Background()}

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/vapi/generate", s.generateStub)
	api.POST("/vapi/generate", s.generateInterview)
	api.POST("/image/upload", s.uploadImage)
	api.POST("/auth/sign-up", s.signUp)
	api.POST("/auth/sign-in", s.signIn)
	api.POST("/auth/sign-out", s.signOut)

	authed := api.Group("", s.requireUser)
	authed.GET("/auth/me", s.me)
	authed.PATCH("/users/me", s.updateMe)
	authed.GET("/interviews", s.listInterviews)
	authed.GET("/interviews/community", s.listCommunityInterviews)
	authed.GET("/interviews/:id", s.getInterview)
	authed.GET("/interviews/:id/feedback", s.getFeedback)
	authed.POST("/calls", s.startCall)
	authed.GET("/calls/:id", s.getCall)
	authed.POST("/calls/:id/end", s.endCall)
	authed.DELETE("/calls/:id", s.removeCall)

	return s
}

// fail renders the uniform error shape every failure path uses.
func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"success": false, "error": msg})
}
