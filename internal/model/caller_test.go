package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallerAccess(t *testing.T) {
	admin := Caller{UserID: 1, Role: RoleAdmin}
	organizer := Caller{UserID: 2, Role: RoleOrganizer}
	guest := Caller{UserID: 3, Role: RoleParticipant}

	assert.True(t, admin.IsOperator())
	assert.False(t, organizer.IsOperator())
	assert.True(t, organizer.CanAccess(99))
	assert.True(t, guest.CanAccess(3))
	assert.False(t, guest.CanAccess(4))
	assert.False(t, Caller{Role: "judge"}.CanAccess(0))
}
