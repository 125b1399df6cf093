package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Mikael-duru/mockwise/internal/media"
	"github.com/Mikael-duru/mockwise/internal/metrics"
	"github.com/Mikael-duru/mockwise/internal/prompts"
	"github.com/Mikael-duru/mockwise/internal/store"
)

// maxUploadBytes caps profile picture uploads.
const maxUploadBytes = 5 << 20

func (s *Server) generateStub(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": "THANK YOU!"})
}

type generateRequest struct {
	Type      string `json:"type"`
	Role      string `json:"role"`
	Level     string `json:"level"`
	TechStack string `json:"techstack"`
	Amount    int    `json:"amount"`
	UserID    string `json:"userid"`
}

// generateInterview creates a new interview definition from generated
// questions. The record is finalized immediately; there is no update path.
func (s *Server) generateInterview(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	questions, err := s.deps.Questions.GenerateQuestions(c.Request().Context(), prompts.QuestionRequest{
		Role:      req.Role,
		Level:     req.Level,
		TechStack: req.TechStack,
		Type:      req.Type,
		Amount:    req.Amount,
	})
	if err != nil {
		s.deps.Logger.Error("question generation failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	iv := &store.Interview{
		Role:       req.Role,
		Level:      req.Level,
		Type:       req.Type,
		TechStack:  splitTechStack(req.TechStack),
		Questions:  questions,
		UserID:     req.UserID,
		CoverImage: media.RandomCover(),
		Finalized:  true,
	}
	if err := s.deps.Interviews.Create(c.Request().Context(), iv); err != nil {
		s.deps.Logger.Error("interview create failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	metrics.InterviewsGenerated.Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func splitTechStack(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// uploadImage proxies a multipart image to the media CDN.
func (s *Server) uploadImage(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No valid file provided"})
	}
	if fh.Size == 0 || fh.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No valid file provided"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No valid file provided"})
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Image upload failed"})
	}

	res, err := s.deps.Uploader.UploadImage(fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		s.deps.Logger.Error("image upload failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Image upload failed"})
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) listInterviews(c echo.Context) error {
	user := currentUser(c)
	interviews, err := s.deps.Interviews.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		s.deps.Logger.Error("interview list failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to list interviews")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": interviews})
}

func (s *Server) listCommunityInterviews(c echo.Context) error {
	user := currentUser(c)
	interviews, err := s.deps.Interviews.ListCommunity(c.Request().Context(), user.ID, 20)
	if err != nil {
		s.deps.Logger.Error("community list failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to list interviews")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": interviews})
}

func (s *Server) getInterview(c echo.Context) error {
	iv, err := s.deps.Interviews.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "interview not found")
	}
	if err != nil {
		s.deps.Logger.Error("interview get failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load interview")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": iv})
}

func (s *Server) getFeedback(c echo.Context) error {
	user := currentUser(c)
	fb, err := s.deps.Feedbacks.GetByIDs(c.Request().Context(), c.Param("id"), user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "feedback not found")
	}
	if err != nil {
		s.deps.Logger.Error("feedback get failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load feedback")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": fb})
}
