package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("whsec_test")

func TestConstructEventRoundtrip(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "client_reference_id": "7", "metadata": {"order_id": "12"}}}
	}`)
	header := SignatureHeaderValue(time.Now().Unix(), payload, testSecret)

	event, err := ConstructEvent(payload, header, testSecret, DefaultTolerance)
	require.NoError(t, err)
	require.Equal(t, "evt_1", event.ID)
	require.Equal(t, EventCheckoutCompleted, event.Type)
	require.Equal(t, "7", event.Data.Object.ClientReferenceID)
	require.Equal(t, "12", event.Data.Object.Metadata["order_id"])
}

func TestConstructEventWrongSecret(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "type": "checkout.session.completed"}`)
	header := SignatureHeaderValue(time.Now().Unix(), payload, []byte("other secret"))

	_, err := ConstructEvent(payload, header, testSecret, DefaultTolerance)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventTamperedPayload(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "type": "checkout.session.completed"}`)
	header := SignatureHeaderValue(time.Now().Unix(), payload, testSecret)

	tampered := []byte(`{"id": "evt_2", "type": "checkout.session.completed"}`)
	_, err := ConstructEvent(tampered, header, testSecret, DefaultTolerance)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "type": "checkout.session.completed"}`)
	header := SignatureHeaderValue(time.Now().Add(-time.Hour).Unix(), payload, testSecret)

	_, err := ConstructEvent(payload, header, testSecret, DefaultTolerance)
	require.ErrorIs(t, err, ErrInvalidSignature)

	// With tolerance disabled the same delivery verifies.
	_, err = ConstructEvent(payload, header, testSecret, 0)
	require.NoError(t, err)
}

func TestConstructEventMalformedHeader(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "type": "checkout.session.completed"}`)

	for _, header := range []string{"", "t=abc,v1=deadbeef", "v1=deadbeef", "t=123"} {
		_, err := ConstructEvent(payload, header, testSecret, DefaultTolerance)
		require.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func TestConstructEventBadPayload(t *testing.T) {
	payload := []byte(`{not json`)
	header := SignatureHeaderValue(time.Now().Unix(), payload, testSecret)

	_, err := ConstructEvent(payload, header, testSecret, DefaultTolerance)
	require.ErrorIs(t, err, ErrInvalidPayload)

	payload = []byte(`{"id": "evt_1"}`)
	header = SignatureHeaderValue(time.Now().Unix(), payload, testSecret)
	_, err = ConstructEvent(payload, header, testSecret, DefaultTolerance)
	require.ErrorIs(t, err, ErrInvalidPayload)
}
