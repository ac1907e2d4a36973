package routes

import (
	"log/slog"
	"net/http"

	"task-api/app/controllers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController, logger *slog.Logger) {
	router.Use(controllers.RequestIDMiddleware, controllers.LoggingMiddleware(logger))

	router.HandleFunc("/healthz", taskController.Health).Methods(http.MethodGet)

	for _, prefix := range []string{"/tasks", "/tasks/"} {
		router.HandleFunc(prefix, taskController.GetTasks).Methods(http.MethodGet)
		router.HandleFunc(prefix, taskController.CreateTask).Methods(http.MethodPost)
	}
	router.HandleFunc("/tasks/{taskID:[0-9]+}", taskController.GetTaskByID).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{taskID:[0-9]+}", taskController.DeleteTask).Methods(http.MethodDelete)
}

// NewRouter returns a router with every route registered.
func NewRouter(taskController *controllers.TaskController, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	RegisterRoutes(router, taskController, logger)
	return router
}
