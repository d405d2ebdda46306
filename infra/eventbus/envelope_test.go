package eventbus

import (
	"testing"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_RestoresTypedEvent(t *testing.T) {
	in := events.MoneyTransferred{
		Meta:          events.NewMeta(),
		CustomerID:    3,
		FromAccountID: 10,
		ToAccountID:   11,
		Amount:        decimal.RequireFromString("12.50"),
		Currency:      "PLN",
	}

	raw, err := encodeEnvelope(in)
	require.NoError(t, err)

	out, err := decodeEnvelope(raw)
	require.NoError(t, err)
	got, ok := out.(*events.MoneyTransferred)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, in.ID, got.ID)
	assert.Equal(t, int64(10), got.FromAccountID)
	assert.True(t, in.Amount.Equal(got.Amount))
}

func TestEnvelope_Rejects(t *testing.T) {
	_, err := decodeEnvelope([]byte("not json"))
	assert.Error(t, err)

	_, err = decodeEnvelope([]byte(`{"type":"account.renamed","payload":{}}`))
	assert.ErrorContains(t, err, "unknown event type")

	_, err = decodeEnvelope([]byte(`{"type":"account.created","payload":"oops"}`))
	assert.Error(t, err)
}
