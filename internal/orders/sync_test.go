package orders

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/stockline-backend/pkg/db/dbtest"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSyncRequiresRepository(t *testing.T) {
	_, err := NewSync(nil, nil)
	require.Error(t, err)
}

func TestPullProductDeletesEmptiedOrders(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	metrics := &countingMetrics{}
	sync, err := NewSync(repo, metrics)
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now().UTC()

	only := seedOrder(t, repo, models.PartySnapshot{FirmName: "Acme Traders"}, now,
		testLine("Cotton", "Mill", enums.LineStatusOrdered, nil),
	)
	mixed := seedOrder(t, repo, models.PartySnapshot{FirmName: "Acme Traders"}, now,
		testLine("Cotton", "Mill", enums.LineStatusOrdered, nil),
		testLine("Yarn", "Godown", enums.LineStatusShipped, nil),
	)
	untouched := seedOrder(t, repo, models.PartySnapshot{FirmName: "Acme Traders"}, now,
		testLine("Dye", "Godown", enums.LineStatusOrdered, nil),
	)

	result, err := sync.PullProduct(ctx, nil, "Cotton")
	require.NoError(t, err)
	assert.Equal(t, PullResult{LinesRemoved: 2, OrdersUpdated: 1, OrdersDeleted: 1}, result)
	assert.Equal(t, 1, metrics.counts["cascade"])

	_, err = repo.FindByID(ctx, only.ID)
	require.Error(t, err)

	remaining, err := repo.FindByID(ctx, mixed.ID)
	require.NoError(t, err)
	require.Len(t, remaining.Lines, 1)
	assert.Equal(t, "Yarn", remaining.Lines[0].ProductName)
	// the only line left is shipped, so the order rolls up to completed
	assert.Equal(t, enums.OrderStatusCompleted, remaining.Status)

	kept, err := repo.FindByID(ctx, untouched.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Lines, 1)
}

func TestPropagatePartyAndDeleteForParty(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	sync, err := NewSync(repo, nil)
	require.NoError(t, err)
	ctx := context.Background()
	party := dbtest.MustCreateParty(t, db, "A")

	seedOrder(t, repo, party.Snapshot(), time.Now().UTC(), testLine("Cotton", "Mill", enums.LineStatusOrdered, nil))
	seedOrder(t, repo, party.Snapshot(), time.Now().UTC(), testLine("Yarn", "Mill", enums.LineStatusShipped, nil))

	renamed := *party
	renamed.FirmName = "B"
	n, err := sync.PropagateParty(ctx, nil, "A", renamed.Snapshot())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	orders, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	for _, order := range orders {
		assert.Equal(t, "B", order.Party.FirmName)
	}

	deleted, err := sync.DeleteForParty(ctx, nil, party.ID, "B")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	orders, err = repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}
