package payload

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, body string) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString([]byte(body))
}

func TestDecodePageView(t *testing.T) {
	body := `{"site_id":"acme","tracking":{"type":"page","identity":"","isTouch":false,"ua":"Mozilla/5.0 Chrome/129","event":"/","category":"Page views","referrer":""}}`

	env, err := Decode(encode(t, body))
	require.NoError(t, err)

	assert.Equal(t, "acme", env.SiteID)
	assert.Equal(t, "/", env.Tracking.Event)
	assert.True(t, env.Tracking.IsPageView())
	assert.Equal(t, "", env.Tracking.Referrer)
}

func TestDecodeEmptyData(t *testing.T) {
	_, err := Decode("")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestDecodeBadBase64(t *testing.T) {
	_, err := Decode("!!!not-base64!!!")
	require.ErrorIs(t, err, ErrBadEncoding)
}

func TestDecodeMissingSiteID(t *testing.T) {
	body := `{"tracking":{"type":"page","event":"/","category":"Page views"}}`
	_, err := Decode(encode(t, body))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeMissingTracking(t *testing.T) {
	body := `{"site_id":"abc"}`
	_, err := Decode(encode(t, body))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeNonObjectTopLevel(t *testing.T) {
	_, err := Decode(encode(t, `["not","an","object"]`))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	body := `{"site_id":"abc","extra_field":123,"tracking":{"type":"event","event":"signup","category":"custom","extra":true}}`
	env, err := Decode(encode(t, body))
	require.NoError(t, err)
	assert.Equal(t, "signup", env.Tracking.Event)
	assert.False(t, env.Tracking.IsPageView())
}
