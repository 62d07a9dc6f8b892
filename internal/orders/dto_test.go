package orders

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
)

func TestCreateRequestAcceptsPartyID(t *testing.T) {
	partyID := uuid.New()
	body := `{"party":"` + partyID.String() + `","products":[{"productName":"Cotton","quantity":"2.5","rate":100}]}`

	var req CreateRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	in, err := req.Input()
	require.NoError(t, err)
	require.NotNil(t, in.Party.ID)
	assert.Equal(t, partyID, *in.Party.ID)
	assert.Nil(t, in.Party.Snapshot)
	require.Len(t, in.Lines, 1)
	assert.True(t, in.Lines[0].Quantity.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, in.Lines[0].Rate.Equal(decimal.NewFromInt(100)))
}

func TestCreateRequestAcceptsPartyObject(t *testing.T) {
	body := `{"party":{"firmName":"Acme Traders","firmAddress":"12 Market Road","firmCityState":"Surat","contactPerson":"Ravi","phoneNumber":"98"},"products":[]}`

	var req CreateRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	in, err := req.Input()
	require.NoError(t, err)
	require.NotNil(t, in.Party.Snapshot)
	assert.Equal(t, "Acme Traders", in.Party.Snapshot.FirmName)
	assert.Empty(t, in.Lines)
}

func TestCreateRequestRequiresParty(t *testing.T) {
	var req CreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"products":[]}`), &req))
	_, err := req.Input()
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	assert.Error(t, json.Unmarshal([]byte(`{"party":"not-a-uuid"}`), &req))
}

func TestUpdateRequestDistinguishesAbsentFields(t *testing.T) {
	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	in := req.Input()
	assert.Nil(t, in.Party)
	assert.Nil(t, in.Lines)

	require.NoError(t, json.Unmarshal([]byte(`{"products":[]}`), &req))
	in = req.Input()
	require.NotNil(t, in.Lines)
	assert.Empty(t, *in.Lines)
}

func TestFromModelCarriesLines(t *testing.T) {
	order := testOrder(testLine("Cotton", "Mill", enums.LineStatusShipped, nil))
	dto := FromModel(&order)
	require.Len(t, dto.Products, 1)
	assert.Equal(t, "Cotton", dto.Products[0].ProductName)
	assert.Equal(t, "Acme Traders", dto.Party.FirmName)
	assert.Equal(t, enums.OrderStatusCompleted, dto.Status)
}
