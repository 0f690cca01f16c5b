package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLostReportTrimsAndValidates(t *testing.T) {
	report, err := NewLostReport("7", "  Water Bottle ", " Library ", " Blue with sticker ")
	require.NoError(t, err)
	assert.Equal(t, KindLost, report.Kind)
	assert.Equal(t, "Water Bottle", report.Item)
	assert.Equal(t, "Library", report.Location)
	assert.Equal(t, "Blue with sticker", report.Description)

	_, err = NewLostReport("7", "  ", "Library", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "item", verr.Field)

	_, err = NewLostReport("7", "Keys", "", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "location", verr.Field)
}

func TestNewFoundReportPhoneAndDescription(t *testing.T) {
	report, err := NewFoundReport("7", "Keys", "Cafeteria", "08012345678", "", "photo-1")
	require.NoError(t, err)
	assert.Equal(t, KindFound, report.Kind)
	assert.Equal(t, NoDescription, report.Description)
	assert.Equal(t, "photo-1", report.ImageRef)

	var verr *ValidationError
	for _, phone := range []string{"", "0801234567", "080123456789", "0801234567a", "+2348012345678"} {
		_, err = NewFoundReport("7", "Keys", "Cafeteria", phone, "", "")
		require.ErrorAs(t, err, &verr, "phone %q should be rejected", phone)
		assert.Equal(t, "contact_phone", verr.Field)
	}
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("08012345678"))
	assert.True(t, ValidPhone(" 08012345678 "))
	assert.False(t, ValidPhone("801234567"))
	assert.False(t, ValidPhone("0801-234-5678"))
}

func TestResolvedLabel(t *testing.T) {
	assert.Equal(t, "claimed", (&Report{Kind: KindFound}).ResolvedLabel())
	assert.Equal(t, "recovered", (&Report{Kind: KindLost}).ResolvedLabel())
}

func TestNameEquals(t *testing.T) {
	report := &Report{Item: " Water Bottle "}
	assert.True(t, report.NameEquals("water bottle"))
	assert.True(t, report.NameEquals("WATER BOTTLE  "))
	assert.False(t, report.NameEquals("water"))
	assert.False(t, report.NameEquals("my water bottle"))
}
