package access

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/apperr"
	"classtrack/internal/auth"
	"classtrack/internal/roster"
)

type staticResolver map[string]roster.Class

func (r staticResolver) FindClassByName(_ context.Context, name string) (*roster.Class, error) {
	if cls, ok := r[name]; ok {
		return &cls, nil
	}
	return nil, nil
}

func TestCheckClassAccess(t *testing.T) {
	guard := NewGuard(staticResolver{
		"8A": {ID: "c-8a", Name: "8A", HomeroomTeacherID: "t1"},
	})

	tests := []struct {
		name       string
		className  string
		ident      auth.Identity
		wantStatus int // 0 means allowed
	}{
		{name: "admin any class", className: "8A", ident: auth.Identity{ID: "a1", Role: auth.RoleAdmin}},
		{name: "owning teacher", className: "8A", ident: auth.Identity{ID: "t1", Role: auth.RoleTeacher}},
		{name: "other teacher", className: "8A", ident: auth.Identity{ID: "t2", Role: auth.RoleTeacher}, wantStatus: http.StatusForbidden},
		{name: "student always forbidden", className: "8A", ident: auth.Identity{ID: "s1", Role: auth.RoleStudent}, wantStatus: http.StatusForbidden},
		{name: "unknown class", className: "9Z", ident: auth.Identity{ID: "a1", Role: auth.RoleAdmin}, wantStatus: http.StatusNotFound},
		{name: "student beats class lookup", className: "9Z", ident: auth.Identity{ID: "s1", Role: auth.RoleStudent}, wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := guard.CheckClassAccess(context.Background(), tt.className, tt.ident)
			if tt.wantStatus == 0 {
				require.NoError(t, err)
				require.NotNil(t, cls)
				assert.Equal(t, tt.className, cls.Name)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, apperr.StatusOf(err))
		})
	}
}
