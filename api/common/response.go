package common

// Response is the envelope every JSON endpoint returns. HTTP status is
// always 200; the application status lives in Code.
type Response struct {
	Code      int    `json:"code"`
	Msg       string `json:"msg"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
