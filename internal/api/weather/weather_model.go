package weather

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-weather-tracker/internal/api"
)

// LookupRequest represents the expected JSON body for a weather lookup.
type LookupRequest struct {
	Location string `json:"location" binding:"required" example:"London"` // Location to look up, as understood by the provider.
}

// LookupResponse represents the successful JSON response for a weather lookup.
// Weather carries the provider payload verbatim.
type LookupResponse struct {
	Weather json.RawMessage `json:"weather"`
	Message string          `json:"message" example:"Search saved to history"`
}

// providerStatus is the slice of the provider payload needed to decide
// success. The provider encodes cod as a number on success and a quoted
// string on failure, so it is kept raw and parsed by statusCode.
type providerStatus struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}

// statusCode normalizes the provider's cod field to an integer. Unparseable
// values come back as 0.
func (s providerStatus) statusCode() int {
	raw := strings.Trim(strings.TrimSpace(string(s.Cod)), `"`)
	code, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return code
}

// UpstreamError reports a weather provider rejection, carrying the provider's
// own message so the caller sees why the lookup failed.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("weather provider returned %d: %s", e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error { return api.ErrUpstream }
