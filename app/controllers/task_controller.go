package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"task-api/app/models"
	"task-api/app/repositories"
	"task-api/app/services"

	"github.com/gorilla/mux"
)

// maxBodyBytes caps the size of a create request body.
const maxBodyBytes = 1 << 20

type createTaskRequest struct {
	Description *string `json:"description"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Service *services.TaskService
	Logger  *slog.Logger
}

// NewTaskController creates a new TaskController. A nil logger uses
// slog.Default().
func NewTaskController(service *services.TaskService, logger *slog.Logger) *TaskController {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskController{Service: service, Logger: logger}
}

// GetTasks handles GET /tasks.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Service.ListTasks(r.Context())
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /tasks.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Description == nil || strings.TrimSpace(*req.Description) == "" {
		writeError(w, http.StatusUnprocessableEntity, "description is required")
		return
	}

	c.Logger.Info("creating task", "description", *req.Description)
	task, err := c.Service.CreateTask(r.Context(), *req.Description)
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	c.Logger.Info("task created", "task_id", task.ID)

	writeJSON(w, http.StatusCreated, task)
}

// GetTaskByID handles GET /tasks/{taskID}.
func (c *TaskController) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}
	task, err := c.Service.GetTask(r.Context(), taskID)
	if errors.Is(err, repositories.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{taskID}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}
	err := c.Service.DeleteTask(r.Context(), taskID)
	if errors.Is(err, repositories.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	c.Logger.Info("task deleted", "task_id", taskID)

	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /healthz.
func (c *TaskController) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *TaskController) serverError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.Error("task request failed",
		"method", r.Method, "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func parseTaskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["taskID"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
