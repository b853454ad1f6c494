package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ApplicationStatus
		ok       bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusApproved, StatusApproved, true},
		{StatusRejected, StatusRejected, true},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
		{StatusApproved, StatusPending, false},
		{StatusPending, StatusPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, GenderPreferNotToSay.Valid())
	assert.False(t, Gender("").Valid())
	assert.True(t, VehicleEBike.Valid())
	assert.False(t, VehicleType("truck").Valid())
	assert.False(t, ApplicationStatus("archived").Valid())
}
