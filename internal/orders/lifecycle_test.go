package orders

import (
	"testing"

	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchFor(line models.OrderLine) LineMatch {
	return LineMatch{
		LineID:      line.ID,
		ProductName: line.ProductName,
		Quantity:    line.Quantity,
		Rate:        line.Rate,
		Location:    line.Location,
	}
}

func TestRecomputeStatus(t *testing.T) {
	order := testOrder(
		testLine("Cotton", "Mill", enums.LineStatusShipped, nil),
		testLine("Yarn", "Godown", enums.LineStatusOrdered, nil),
	)
	assert.Equal(t, enums.OrderStatusPending, order.Status)

	order.Lines[1].Status = enums.LineStatusShipped
	RecomputeStatus(&order)
	assert.Equal(t, enums.OrderStatusCompleted, order.Status)

	order.Lines = nil
	RecomputeStatus(&order)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
}

func TestNormalizeLinesDefaults(t *testing.T) {
	inputs := []LineInput{
		{ProductName: "Cotton", Quantity: decimal.NewFromInt(5), Rate: decimal.NewFromInt(10)},
		{ProductName: " Yarn ", Quantity: decimal.RequireFromString("2.5"), Rate: decimal.NewFromInt(3), Location: "Mill"},
		{ProductName: "Dye", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1), AssignedTo: &uuid.Nil},
	}

	lines, err := NormalizeLines(inputs)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, "Godown", lines[0].Location)
	assert.Equal(t, "Mill", lines[1].Location)
	assert.Equal(t, "Yarn", lines[1].ProductName)
	for i, line := range lines {
		assert.Equal(t, i, line.Position)
		assert.Equal(t, enums.LineStatusOrdered, line.Status)
		assert.Nil(t, line.AssignedTo)
		assert.NotEqual(t, uuid.Nil, line.ID)
	}
}

func TestNormalizeLinesRejectsNonPositive(t *testing.T) {
	cases := map[string]LineInput{
		"zero quantity": {ProductName: "Cotton", Quantity: decimal.Zero, Rate: decimal.NewFromInt(1)},
		"negative rate": {ProductName: "Cotton", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(-2)},
		"missing name":  {ProductName: "  ", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1)},
		"bad status":    {ProductName: "Cotton", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1), Status: "lost"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NormalizeLines([]LineInput{in})
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
		})
	}
}

func TestShipLineRecomputesStatus(t *testing.T) {
	order := testOrder(
		testLine("Cotton", "Mill", enums.LineStatusShipped, nil),
		testLine("Yarn", "Godown", enums.LineStatusOrdered, nil),
	)

	require.NoError(t, ShipLine(&order, matchFor(order.Lines[1]), Decision{Scope: ScopeAll}))
	assert.Equal(t, enums.LineStatusShipped, order.Lines[1].Status)
	assert.Equal(t, enums.OrderStatusCompleted, order.Status)
}

func TestShipLineStaleMatchIsNotFound(t *testing.T) {
	order := testOrder(testLine("Cotton", "Godown", enums.LineStatusOrdered, nil))
	before := order.Lines[0]

	stale := matchFor(order.Lines[0])
	stale.Quantity = decimal.NewFromInt(6)
	err := ShipLine(&order, stale, Decision{Scope: ScopeAll})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	assert.Equal(t, before, order.Lines[0])
	assert.Equal(t, enums.OrderStatusPending, order.Status)

	stale = matchFor(order.Lines[0])
	stale.LineID = uuid.New()
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(ShipLine(&order, stale, Decision{Scope: ScopeAll})))
}

func TestShipLineRequiresSubmittedLocation(t *testing.T) {
	order := testOrder(testLine("Cotton", "Godown", enums.LineStatusOrdered, nil))

	missing := matchFor(order.Lines[0])
	missing.Location = ""
	err := ShipLine(&order, missing, Decision{Scope: ScopeAll})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	assert.Equal(t, enums.LineStatusOrdered, order.Lines[0].Status)

	other := matchFor(order.Lines[0])
	other.Location = "Mill"
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(ShipLine(&order, other, Decision{Scope: ScopeAll})))

	require.NoError(t, ShipLine(&order, matchFor(order.Lines[0]), Decision{Scope: ScopeAll}))
	assert.Equal(t, enums.LineStatusShipped, order.Lines[0].Status)
}

func TestShipLineLocationMismatchIsForbidden(t *testing.T) {
	order := testOrder(
		testLine("Cotton", "Mill", enums.LineStatusOrdered, nil),
		testLine("Yarn", "Godown", enums.LineStatusOrdered, nil),
	)
	d := Decision{Scope: ScopeLocation, Location: enums.LocationMill}

	err := ShipLine(&order, matchFor(order.Lines[1]), d)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
	assert.Equal(t, enums.LineStatusOrdered, order.Lines[1].Status)

	require.NoError(t, ShipLine(&order, matchFor(order.Lines[0]), d))
	assert.Equal(t, enums.LineStatusShipped, order.Lines[0].Status)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
}

func TestCompleteScopedRequiresShippedLines(t *testing.T) {
	order := testOrder(
		testLine("Cotton", "Godown", enums.LineStatusOrdered, nil),
		testLine("Yarn", "Mill", enums.LineStatusShipped, nil),
	)

	err := Complete(&order, Decision{Scope: ScopeLocation, Location: enums.LocationGodown})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	assert.Equal(t, "not all relevant products are shipped", pkgerrors.As(err).Message())
	assert.Equal(t, enums.LineStatusOrdered, order.Lines[0].Status)
	assert.Equal(t, enums.OrderStatusPending, order.Status)

	require.NoError(t, Complete(&order, Decision{Scope: ScopeAll}))
	assert.Equal(t, enums.LineStatusShipped, order.Lines[0].Status)
	assert.Equal(t, enums.LineStatusShipped, order.Lines[1].Status)
	assert.Equal(t, enums.OrderStatusCompleted, order.Status)
}

func TestCompleteScopedLeavesOtherLocations(t *testing.T) {
	order := testOrder(
		testLine("Cotton", "Godown", enums.LineStatusShipped, nil),
		testLine("Yarn", "Mill", enums.LineStatusOrdered, nil),
	)

	require.NoError(t, Complete(&order, Decision{Scope: ScopeLocation, Location: enums.LocationGodown}))
	assert.Equal(t, enums.LineStatusOrdered, order.Lines[1].Status)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
}

func TestCompleteWithoutLinesAtLocationLeavesOrder(t *testing.T) {
	order := testOrder(testLine("Yarn", "Mill", enums.LineStatusOrdered, nil))
	require.NoError(t, Complete(&order, Decision{Scope: ScopeLocation, Location: enums.LocationGodown}))
	assert.Equal(t, enums.LineStatusOrdered, order.Lines[0].Status)
	assert.Equal(t, enums.OrderStatusPending, order.Status)

	err := Complete(&order, Decision{})
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
}

func TestRevertToPendingWithoutLinesAtLocation(t *testing.T) {
	order := testOrder(testLine("Yarn", "Mill", enums.LineStatusShipped, nil))
	require.Equal(t, enums.OrderStatusCompleted, order.Status)

	require.NoError(t, RevertToPending(&order, Decision{Scope: ScopeLocation, Location: enums.LocationGodown}))
	assert.Equal(t, enums.LineStatusShipped, order.Lines[0].Status)
	assert.Equal(t, enums.OrderStatusPending, order.Status)

	err := RevertToPending(&order, Decision{})
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
}

func TestRevertToPending(t *testing.T) {
	order := testOrder(
		testLine("Cotton", "Godown", enums.LineStatusShipped, nil),
		testLine("Yarn", "Mill", enums.LineStatusShipped, nil),
	)
	require.Equal(t, enums.OrderStatusCompleted, order.Status)

	require.NoError(t, RevertToPending(&order, Decision{Scope: ScopeLocation, Location: enums.LocationGodown}))
	assert.Equal(t, enums.LineStatusOrdered, order.Lines[0].Status)
	assert.Equal(t, enums.LineStatusShipped, order.Lines[1].Status)
	assert.Equal(t, enums.OrderStatusPending, order.Status)

	require.NoError(t, RevertToPending(&order, Decision{Scope: ScopeAll}))
	for _, line := range order.Lines {
		assert.Equal(t, enums.LineStatusOrdered, line.Status)
	}
}

func TestRevertToPendingForcesStatusEvenWhenOtherLinesShipped(t *testing.T) {
	order := testOrder(
		testLine("Cotton", "Godown", enums.LineStatusShipped, nil),
		testLine("Yarn", "Mill", enums.LineStatusShipped, nil),
	)
	require.NoError(t, RevertToPending(&order, Decision{Scope: ScopeLocation, Location: enums.LocationMill}))
	assert.Equal(t, enums.OrderStatusPending, order.Status)

	// the derived rule applies again on the next line mutation
	require.NoError(t, ShipLine(&order, matchFor(order.Lines[1]), Decision{Scope: ScopeAll}))
	assert.Equal(t, enums.OrderStatusCompleted, order.Status)
}

func TestEnsureEditable(t *testing.T) {
	order := testOrder(testLine("Cotton", "Godown", enums.LineStatusShipped, nil))
	err := EnsureEditable(&order, "edited")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
	assert.Equal(t, "only pending orders can be edited", pkgerrors.As(err).Message())

	order.Status = enums.OrderStatusPending
	assert.NoError(t, EnsureEditable(&order, "edited"))
}

func TestReconcileLineIDs(t *testing.T) {
	kept := testLine("Cotton", "Mill", enums.LineStatusOrdered, nil)
	current := []models.OrderLine{kept}
	stranger := uuid.New()

	replacement := []models.OrderLine{
		{ID: kept.ID, ProductName: "Cotton"},
		{ID: kept.ID, ProductName: "Cotton copy"},
		{ID: stranger, ProductName: "Yarn"},
	}
	ReconcileLineIDs(current, replacement)

	assert.Equal(t, kept.ID, replacement[0].ID)
	assert.NotEqual(t, kept.ID, replacement[1].ID)
	assert.NotEqual(t, stranger, replacement[2].ID)
	assert.NotEqual(t, replacement[1].ID, replacement[2].ID)
}
