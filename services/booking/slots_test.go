package booking

import (
	"testing"

	"gharseva/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingSlots(t *testing.T) {
	slots := workingSlots()
	require.Len(t, slots, 10)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "18:00", slots[len(slots)-1])
}

func TestValidateSlot(t *testing.T) {
	assert.NoError(t, validateSlot(futureDate(), "10:00"))

	var validation *utils.ValidationError
	assert.ErrorAs(t, validateSlot("2020-01-01", "10:00"), &validation)
	assert.ErrorAs(t, validateSlot("not-a-date", "10:00"), &validation)
	assert.ErrorAs(t, validateSlot(futureDate(), "25:99"), &validation)
}

func TestAvailableSlotsRejectsBadDate(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	_, err := svc.AvailableSlots(testServiceID, "31-12-2030")
	var validation *utils.ValidationError
	assert.ErrorAs(t, err, &validation)
}
