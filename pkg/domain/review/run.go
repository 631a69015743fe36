package review

import "time"

// RunStatus is the stored outcome of a review run.
type RunStatus string

const (
	RunSucceeded RunStatus = "success"
	RunFailed    RunStatus = "error"
)

// Run is one settled review as kept in the local history.
type Run struct {
	ID          string    `json:"id"`
	ProfileName string    `json:"profile_name"`
	ModelID     string    `json:"model_id"`
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	Status      RunStatus `json:"status"`
	ResultJSON  string    `json:"result_json,omitempty"`
	Error       string    `json:"error,omitempty"`
	Superseded  bool      `json:"superseded"`
	CreatedAt   time.Time `json:"created_at"`
}
