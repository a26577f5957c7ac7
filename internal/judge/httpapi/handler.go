// Package httpapi implements component J: a gin HTTP adapter exposing the
// submission endpoint as a server-sent event stream.
package httpapi

import (
	"io"
	"strconv"

	"judge/internal/judge/event"
	"judge/internal/judge/model"
	"judge/internal/judge/submit"
	"judge/pkg/errors"
	"judge/pkg/response"

	"github.com/gin-gonic/gin"
)

// ContestStore resolves a contest by its on-disk id.
type ContestStore interface {
	Contest(id string) (*model.Contest, bool)
}

// Config is the judge configuration a handler needs: resource limits,
// the subtask skip threshold, and the language table.
type Config struct {
	ResourceLimits model.ResourceLimits
	SkipCount      uint8
	Languages      map[string]model.Language
}

// Handler serves the submission endpoint.
type Handler struct {
	Contests ContestStore
	Config   Config
	Driver   *submit.Driver
}

// NewHandler builds a Handler wired to its dependencies.
func NewHandler(contests ContestStore, cfg Config, driver *submit.Driver) *Handler {
	return &Handler{Contests: contests, Config: cfg, Driver: driver}
}

// Register mounts the submission route onto router.
func (h *Handler) Register(router gin.IRouter) {
	router.POST("/:contest/:task", h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	contestID := c.Param("contest")
	contest, ok := h.Contests.Contest(contestID)
	if !ok {
		response.NotFound(c, "unknown contest")
		return
	}

	taskIdx, err := strconv.Atoi(c.Param("task"))
	if err != nil || taskIdx < 1 || taskIdx > len(contest.Tasks) {
		response.NotFound(c, "unknown task")
		return
	}
	task := contest.Tasks[taskIdx-1]

	languageName := c.Query("language")
	language, ok := h.Config.Languages[languageName]
	if !ok {
		response.ErrorWithCode(c, errors.LanguageNotSupported, "")
		return
	}

	reader, err := c.Request.MultipartReader()
	if err != nil {
		response.ErrorWithCode(c, errors.NoCodeSubmitted, "")
		return
	}
	part, err := reader.NextPart()
	if err != nil {
		response.ErrorWithCode(c, errors.NoCodeSubmitted, "")
		return
	}
	defer part.Close()

	code, err := io.ReadAll(part)
	if err != nil || len(code) == 0 {
		response.ErrorWithCode(c, errors.NoCodeSubmitted, "")
		return
	}

	events := event.NewChannel()
	go h.Driver.Submit(c.Request.Context(), task, language, h.Config.ResourceLimits, h.Config.SkipCount, code, events)

	c.Stream(func(w io.Writer) bool {
		msg, open := <-events
		if !open {
			return false
		}
		c.SSEvent("message", msg)
		return !msg.Terminal()
	})
}
