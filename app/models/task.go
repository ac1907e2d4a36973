package models

// Task is a persisted to-do item. Values are snapshots; mutating one never
// touches storage.
type Task struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}
