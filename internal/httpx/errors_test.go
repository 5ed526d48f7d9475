package httpx

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without internal err",
			err:  NewAppError(http.StatusBadRequest, CodeParamMissing, "param missing", nil),
			want: "code=2001, message=param missing",
		},
		{
			name: "error with internal err",
			err:  NewAppError(http.StatusInternalServerError, CodeInternalError, "internal error", errors.New("db connection failed")),
			want: "code=5001, message=internal error, err=db connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrForbidden(t *testing.T) {
	err := ErrForbidden("certificate not issued by you")
	if err.HTTPStatus != http.StatusForbidden {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusForbidden, err.HTTPStatus)
	}
	if err.Code != CodeForbidden {
		t.Errorf("Expected code %d, got %d", CodeForbidden, err.Code)
	}
	if err.Message != "certificate not issued by you" {
		t.Errorf("Unexpected message '%s'", err.Message)
	}
}

func TestErrStateConflict_IsBadRequest(t *testing.T) {
	// Terminal-state rejections are client errors, not 409s.
	err := ErrStateConflict("")
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
	if err.Code != CodeStateConflict {
		t.Errorf("Expected code %d, got %d", CodeStateConflict, err.Code)
	}
}

func TestErrNotFound_DefaultMessage(t *testing.T) {
	err := ErrNotFound("")
	if err.Message != "resource not found" {
		t.Errorf("Expected default message, got '%s'", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
}

func TestErrExternalError(t *testing.T) {
	inner := errors.New("render service timeout")
	err := ErrExternalError("render failed", inner)
	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusBadGateway, err.HTTPStatus)
	}
	if !errors.Is(err.Err, inner) {
		t.Error("Expected internal error to be preserved")
	}
}

func TestWithData(t *testing.T) {
	err := ErrForbidden("some certificates are not issued by you").WithData([]string{"id-1", "id-2"})
	ids, ok := err.Data.([]string)
	if !ok || len(ids) != 2 {
		t.Errorf("Expected data to carry the unauthorized ids, got %v", err.Data)
	}
}
