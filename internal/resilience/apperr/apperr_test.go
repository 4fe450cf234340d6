package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"
)

func TestKind_Retryable(t *testing.T) {
	retryable := []Kind{KindNetwork, KindRateLimit, KindTimeout}
	for _, k := range retryable {
		if !k.Retryable() {
			t.Errorf("kind %v should be retryable", k)
		}
	}

	permanent := []Kind{KindAuthentication, KindValidation, KindConfiguration}
	for _, k := range permanent {
		if k.Retryable() {
			t.Errorf("kind %v should be permanent", k)
		}
	}
}

func TestIsRetryable_TaxonomyErrors(t *testing.T) {
	cause := errors.New("boom")

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"network", Network("fetch", cause), true},
		{"rate limit", RateLimit("fetch", cause), true},
		{"timeout", Timeout("fetch", cause), true},
		{"authentication", Authentication("fetch", cause), false},
		{"validation", Validation("parse", cause), false},
		{"configuration", Configuration("load", cause), false},
		{"wrapped network", fmt.Errorf("outer: %w", Network("fetch", cause)), true},
		{"wrapped validation", fmt.Errorf("outer: %w", Validation("parse", cause)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsRetryable_TransportErrors(t *testing.T) {
	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH,
	} {
		if !IsRetryable(fmt.Errorf("dial: %w", errno)) {
			t.Errorf("expected %v to be retryable", errno)
		}
	}

	if !IsRetryable(&timeoutNetError{}) {
		t.Error("expected net timeout to be retryable")
	}
}

func TestIsRetryable_ContextErrors(t *testing.T) {
	if IsRetryable(context.Canceled) {
		t.Error("context.Canceled must not be retryable")
	}
	if IsRetryable(context.DeadlineExceeded) {
		t.Error("context.DeadlineExceeded must not be retryable")
	}
}

func TestIsRetryable_HTTPStatus(t *testing.T) {
	retryable := []int{http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout}
	for _, code := range retryable {
		if !IsRetryable(&HTTPError{StatusCode: code, Message: "x"}) {
			t.Errorf("status %d should be retryable", code)
		}
	}

	permanent := []int{400, 401, 403, 404, 410, 500, 501, 502}
	for _, code := range permanent {
		if IsRetryable(&HTTPError{StatusCode: code, Message: "x"}) {
			t.Errorf("status %d should be permanent", code)
		}
	}
}

func TestIsRetryable_FailClosed(t *testing.T) {
	if IsRetryable(errors.New("some unknown failure")) {
		t.Error("unclassified errors must default to permanent")
	}
	if IsRetryable(nil) {
		t.Error("nil must not be retryable")
	}
}

func TestFromHTTPStatus(t *testing.T) {
	if err := FromHTTPStatus("fetch", 200, "ok"); err != nil {
		t.Errorf("2xx must map to nil, got %v", err)
	}

	cases := []struct {
		code int
		kind Kind
	}{
		{429, KindRateLimit},
		{503, KindNetwork},
		{504, KindTimeout},
		{401, KindAuthentication},
		{403, KindAuthentication},
		{404, KindValidation},
		{500, KindValidation},
	}
	for _, tc := range cases {
		err := FromHTTPStatus("fetch", tc.code, "x")
		var appErr *Error
		if !errors.As(err, &appErr) {
			t.Fatalf("status %d: expected *Error, got %T", tc.code, err)
		}
		if appErr.Kind != tc.kind {
			t.Errorf("status %d: kind = %v, want %v", tc.code, appErr.Kind, tc.kind)
		}
		var httpErr *HTTPError
		if !errors.As(err, &httpErr) || httpErr.StatusCode != tc.code {
			t.Errorf("status %d: underlying HTTPError not preserved", tc.code)
		}
	}
}

func TestError_Message(t *testing.T) {
	err := Network("fetch feed", errors.New("connection refused"))
	want := "fetch feed: network: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if Message(nil) != "" {
		t.Error("Message(nil) must be empty")
	}
}

// timeoutNetError implements net.Error with Timeout() == true.
type timeoutNetError struct{}

func (e *timeoutNetError) Error() string   { return "i/o timeout" }
func (e *timeoutNetError) Timeout() bool   { return true }
func (e *timeoutNetError) Temporary() bool { return true }

var _ interface {
	Error() string
	Timeout() bool
	Temporary() bool
} = (*timeoutNetError)(nil)
