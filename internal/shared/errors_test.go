package shared

import (
	"net/http"
	"testing"
)

func TestAPIError_ToHTTP(t *testing.T) {
	httpErr := BadRequest("bad_input", "field missing")
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}

	apiErr, ok := httpErr.Message.(*APIError)
	if !ok {
		t.Fatalf("expected APIError payload, got %T", httpErr.Message)
	}
	if apiErr.Code != "bad_input" || apiErr.Message != "field missing" {
		t.Errorf("unexpected envelope %+v", apiErr)
	}
}

func TestAPIError_WithDetails(t *testing.T) {
	httpErr := NewAPIError("invalid_request", "invalid request body").
		WithDetails("unexpected EOF").
		ToHTTP(http.StatusBadRequest)

	apiErr := httpErr.Message.(*APIError)
	if apiErr.Details != "unexpected EOF" {
		t.Errorf("expected details carried, got %v", apiErr.Details)
	}
}

func TestStatusHelpers(t *testing.T) {
	cases := []struct {
		got  int
		want int
	}{
		{NotFound("x", "y").Code, http.StatusNotFound},
		{Conflict("x", "y").Code, http.StatusConflict},
		{InternalError("x", "y").Code, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("expected status %d, got %d", c.want, c.got)
		}
	}
}
