package response

import "time"

// Body is the uniform envelope every API endpoint returns:
// {"success":bool,"data":...,"error":"...","timestamp":"<RFC3339>"}.
type Body struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func OK(data any) Body {
	return Body{Success: true, Data: data, Timestamp: now()}
}

func Error(message string) Body {
	return Body{Success: false, Error: message, Timestamp: now()}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
