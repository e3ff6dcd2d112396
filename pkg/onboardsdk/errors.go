package onboardsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string

	// Details holds every other field of the error body.
	Details map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("onboard: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var e *APIError
	return errors.As(err, &e) && e.Code == code
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	e := &APIError{StatusCode: resp.StatusCode}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		e.Code = "HTTP_" + fmt.Sprint(resp.StatusCode)
		e.Message = http.StatusText(resp.StatusCode)
		return e
	}

	e.Code, _ = fields["code"].(string)
	e.Message, _ = fields["message"].(string)
	delete(fields, "code")
	delete(fields, "message")
	if len(fields) > 0 {
		e.Details = fields
	}
	if e.Code == "" {
		e.Code = "HTTP_" + fmt.Sprint(resp.StatusCode)
	}
	return e
}
