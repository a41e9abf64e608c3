package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	all := []entity.BookingStatus{
		entity.BookingPending,
		entity.BookingConfirmed,
		entity.BookingInProgress,
		entity.BookingCompleted,
		entity.BookingCancelled,
	}

	allowed := map[entity.BookingStatus]map[entity.BookingStatus]bool{
		entity.BookingPending:    {entity.BookingConfirmed: true, entity.BookingCancelled: true},
		entity.BookingConfirmed:  {entity.BookingInProgress: true, entity.BookingCancelled: true},
		entity.BookingInProgress: {entity.BookingCompleted: true},
	}

	for _, from := range all {
		for _, to := range all {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				assert.Equal(t, allowed[from][to], from.CanTransitionTo(to))
			})
		}
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.True(t, entity.BookingCompleted.Terminal())
	assert.True(t, entity.BookingCancelled.Terminal())
	assert.False(t, entity.BookingPending.Terminal())
	assert.False(t, entity.BookingStatus("archived").Terminal())
	assert.Equal(t, []entity.BookingStatus{entity.BookingCompleted}, entity.BookingInProgress.Next())
}
