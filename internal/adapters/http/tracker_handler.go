package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifebooster/core/internal/application/services"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

// TaskHandler handles daily task requests
type TaskHandler struct {
	taskService *services.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask adds a task, arming a reminder when a time is set
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create task failed", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// ToggleTask flips a task's completion state
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	id := c.Param("id")

	task, err := h.taskService.ToggleTask(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("Toggle task failed", "error", err, "task_id", id)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// SetTaskPriority flags or unflags a task as priority
func (h *TaskHandler) SetTaskPriority(c echo.Context) error {
	id := c.Param("id")

	var req struct {
		IsPriority bool `json:"isPriority"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.taskService.SetPriority(c.Request().Context(), id, req.IsPriority)
	if err != nil {
		h.logger.Error("Set task priority failed", "error", err, "task_id", id)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// ListTasks returns tasks, optionally constrained to one day
func (h *TaskHandler) ListTasks(c echo.Context) error {
	if day := c.QueryParam("date"); day != "" {
		return c.JSON(http.StatusOK, h.taskService.TasksForDay(c.Request().Context(), day))
	}

	return c.JSON(http.StatusOK, h.taskService.ListTasks(c.Request().Context()))
}

// ChallengeHandler handles personal challenge requests
type ChallengeHandler struct {
	challengeService *services.ChallengeService
	logger           *logger.Logger
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challengeService *services.ChallengeService, logger *logger.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		logger:           logger,
	}
}

// CreateChallenge adds a challenge for a day
func (h *ChallengeHandler) CreateChallenge(c echo.Context) error {
	var req ports.CreateChallengeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	challenge, err := h.challengeService.CreateChallenge(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create challenge failed", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, challenge)
}

// ToggleChallenge flips a challenge's completion state
func (h *ChallengeHandler) ToggleChallenge(c echo.Context) error {
	id := c.Param("id")

	challenge, err := h.challengeService.ToggleChallenge(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("Toggle challenge failed", "error", err, "challenge_id", id)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, challenge)
}

// ListChallenges returns the challenges for a day
func (h *ChallengeHandler) ListChallenges(c echo.Context) error {
	day := c.QueryParam("date")
	if day == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}

	return c.JSON(http.StatusOK, h.challengeService.ChallengesForDay(c.Request().Context(), day))
}

// MistakeHandler handles mistake journal requests
type MistakeHandler struct {
	mistakeService *services.MistakeService
	logger         *logger.Logger
}

// NewMistakeHandler creates a new mistake handler
func NewMistakeHandler(mistakeService *services.MistakeService, logger *logger.Logger) *MistakeHandler {
	return &MistakeHandler{
		mistakeService: mistakeService,
		logger:         logger,
	}
}

// CreateMistake logs a mistake on a day
func (h *MistakeHandler) CreateMistake(c echo.Context) error {
	var req ports.CreateMistakeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	mistake, err := h.mistakeService.CreateMistake(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create mistake failed", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, mistake)
}

// ListMistakes returns the mistakes logged on a day
func (h *MistakeHandler) ListMistakes(c echo.Context) error {
	day := c.QueryParam("date")
	if day == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}

	return c.JSON(http.StatusOK, h.mistakeService.MistakesForDay(c.Request().Context(), day))
}
