package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required Role
		want     bool
	}{
		{"user on user route", User, User, true},
		{"user denied admin route", User, Admin, false},
		{"user denied super admin route", User, SuperAdmin, false},
		{"admin on user route", Admin, User, true},
		{"admin on admin route", Admin, Admin, true},
		{"admin denied super admin route", Admin, SuperAdmin, false},
		{"super admin on admin route", SuperAdmin, Admin, true},
		{"super admin on user route", SuperAdmin, User, true},
		{"unknown role denied", Role("moderator"), User, false},
		{"unknown requirement denied", SuperAdmin, Role("owner"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.HasPermission(tt.required))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, SuperAdmin.IsValid())
	assert.False(t, Role("").IsValid())
	assert.Equal(t, UnknownLevel, Role("guest").GetHierarchyLevel())
}
