package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
)

// stubLeaveService panics on anything the test does not override, so a
// request that should be rejected at the edge fails loudly if it leaks
// through.
type stubLeaveService struct {
	leave.LeaveService
	getRequest func(ctx context.Context, actor leave.Actor, requestID string) (leave.LeaveRequestResponse, error)
}

func (s *stubLeaveService) GetRequest(ctx context.Context, actor leave.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	return s.getRequest(ctx, actor, requestID)
}

func serveGetRequest(svc leave.LeaveService, requestID string) *httptest.ResponseRecorder {
	h := NewLeaveHandler(svc)
	r := chi.NewRouter()
	r.Get("/leave-requests/{requestID}", h.GetRequest)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leave-requests/"+requestID, nil))
	return rec
}

func TestGetRequestRejectsMalformedID(t *testing.T) {
	malformed := []string{
		"req-1",
		"123e4567-e89b-12d3-a456-426614174000", // v4, not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
	}
	for _, id := range malformed {
		rec := serveGetRequest(&stubLeaveService{}, id)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "id %q", id)
	}
}

func TestGetRequestPassesValidID(t *testing.T) {
	const requestID = "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"

	var seen string
	svc := &stubLeaveService{
		getRequest: func(_ context.Context, _ leave.Actor, id string) (leave.LeaveRequestResponse, error) {
			seen = id
			return leave.LeaveRequestResponse{ID: id}, nil
		},
	}

	rec := serveGetRequest(svc, requestID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, requestID, seen)
}
