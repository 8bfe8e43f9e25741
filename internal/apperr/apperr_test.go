package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAndMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "validation", err: Validation("bad %s", "input"), wantStatus: http.StatusBadRequest, wantMsg: "bad input"},
		{name: "forbidden", err: Forbidden("no"), wantStatus: http.StatusForbidden, wantMsg: "no"},
		{name: "not found", err: NotFound("gone"), wantStatus: http.StatusNotFound, wantMsg: "gone"},
		{name: "unknown is opaque 500", err: errors.New("pq: connection refused"), wantStatus: http.StatusInternalServerError, wantMsg: "internal server error"},
		{name: "wrapped taxonomy error keeps status", err: fmt.Errorf("save: %w", NotFound("gone")), wantStatus: http.StatusNotFound, wantMsg: "gone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, StatusOf(tt.err))
			assert.Equal(t, tt.wantMsg, MessageOf(tt.err))
		})
	}
}
