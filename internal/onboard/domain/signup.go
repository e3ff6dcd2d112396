package domain

import "time"

// SignupAttempt is one logged self-service registration attempt. The log is
// what the durable rate limiter counts.
type SignupAttempt struct {
	ID         string
	EmailNorm  string // empty when the email was unusable
	IPHash     string
	UserAgent  string
	ResultCode Code
	CreatedAt  time.Time
}
