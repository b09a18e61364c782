package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/campspot_console/models"
)

func TestCredentialsCipher(t *testing.T) {
	c, err := NewCredentialsCipher("short")
	require.NoError(t, err)

	sealed, err := c.Seal([]byte(`{"token":"abc"}`))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "abc")

	again, err := c.Seal([]byte(`{"token":"abc"}`))
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	plain, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"token":"abc"}`, string(plain))

	other, err := NewCredentialsCipher("a-completely-different-key-value")
	require.NoError(t, err)
	_, err = other.Open(sealed)
	assert.Error(t, err)

	_, err = c.Open("!!not base64")
	assert.Error(t, err)

	_, err = NewCredentialsCipher("")
	assert.Error(t, err)
}

func TestValidObjectID(t *testing.T) {
	assert.True(t, ValidObjectID("64b7f0c2a1b2c3d4e5f60718"))
	assert.False(t, ValidObjectID("64b7f0c2"))
	assert.False(t, ValidObjectID("zzb7f0c2a1b2c3d4e5f60718"))
	assert.False(t, ValidObjectID(""))
}

func TestNotBlank(t *testing.T) {
	v := NewValidator()

	type form struct {
		Reason string `validate:"notblank"`
	}
	assert.NoError(t, v.Struct(form{Reason: "too noisy"}))
	assert.Error(t, v.Struct(form{Reason: "   "}))
	assert.Error(t, v.Struct(form{}))
}

func TestSpotDetailsValidation(t *testing.T) {
	v := NewValidator()

	err := v.Struct(models.SpotDetails{Name: "Pine Hollow", Location: "Ehden", Description: "Quiet", Price: 25})
	assert.NoError(t, err)

	err = v.Struct(models.SpotDetails{Name: " ", Location: "Ehden", Description: "Quiet", Price: 0})
	require.Error(t, err)
	msg := ValidationMessage(err)
	assert.Contains(t, msg, "Name is required")
	assert.Contains(t, msg, "Price must be greater than 0")
}

func TestSanitizeSpotDetails(t *testing.T) {
	d := models.SpotDetails{
		Name:       "  Cedar <script>alert(1)</script>Camp ",
		Facilities: []string{" toilets ", "", "  "},
	}
	SanitizeSpotDetails(&d)
	assert.Equal(t, "Cedar Camp", d.Name)
	assert.Equal(t, []string{"toilets"}, d.Facilities)
}

func TestSanitizeEmailAndPhone(t *testing.T) {
	email, err := SanitizeEmail("  Vendor@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "vendor@example.com", email)

	_, err = SanitizeEmail("nope")
	assert.Error(t, err)

	phone, err := SanitizePhone("961 71 123 456")
	require.NoError(t, err)
	assert.Equal(t, "+96171123456", phone)

	phone, err = SanitizePhone("")
	require.NoError(t, err)
	assert.Empty(t, phone)
}
