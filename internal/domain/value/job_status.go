package value

type JobStatus string

const (
	JobStatusStarting  JobStatus = "starting"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
)

func (s JobStatus) String() string {
	return string(s)
}

// Finished истинно для статусов, после которых прогресс уже не меняется.
func (s JobStatus) Finished() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}
