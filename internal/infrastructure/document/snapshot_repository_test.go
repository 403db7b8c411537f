package document

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newTestSnapshot() order.Snapshot {
	uid := uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)
	price := decimal.RequireFromString("19.99")
	return order.Snapshot{
		OrderID:     uuid.New(),
		OrderNumber: "ORD-20261014-" + gofakeit.DigitN(6),
		User: order.SnapshotUser{
			UserID:   &uid,
			Username: gofakeit.Username(),
			Email:    gofakeit.Email(),
		},
		Address: order.SnapshotAddress{
			AddressID: uuid.New(),
			Name:      gofakeit.Name(),
			Title:     "Home",
			Country:   gofakeit.Country(),
			City:      gofakeit.City(),
			District:  "Center",
			Phone:     gofakeit.Phone(),
			Address:   gofakeit.Street(),
			ZipCode:   gofakeit.Zip(),
		},
		Items: []order.SnapshotItem{{
			ProductID:  uuid.New(),
			Title:      gofakeit.ProductName(),
			Price:      price,
			Quantity:   2,
			TotalPrice: price.Mul(decimal.NewFromInt(2)),
		}},
		TotalAmount: price.Mul(decimal.NewFromInt(2)),
		TotalItems:  2,
		Status:      order.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestSnapshotDoc_RoundTrip(t *testing.T) {
	snap := newTestSnapshot()

	doc := snapshotDocFrom(snap)
	assert.Equal(t, snap.OrderID.String(), doc.ID)
	assert.Equal(t, "39.98", doc.TotalAmount.String())

	back := doc.toDomain()
	assert.Equal(t, snap.OrderID, back.OrderID)
	assert.Equal(t, *snap.User.UserID, *back.User.UserID)
	assert.True(t, snap.TotalAmount.Equal(back.TotalAmount))
	assert.True(t, snap.Items[0].Price.Equal(back.Items[0].Price))
	assert.Equal(t, snap.Address, back.Address)
}

func TestSnapshotDoc_AnonymousOwner(t *testing.T) {
	snap := newTestSnapshot()
	snap.User = order.SnapshotUser{IsAnonymous: true}
	snap.SessionToken = "sess-token"

	back := snapshotDocFrom(snap).toDomain()
	assert.Nil(t, back.User.UserID)
	assert.True(t, back.OwnedBy(shared.SessionOwner("sess-token")))
}

func TestMongoSnapshotRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "storefront." + SnapshotCollection

	mt.Run("find by id", func(mt *mtest.T) {
		snap := newTestSnapshot()
		doc, err := bson.Marshal(snapshotDocFrom(snap))
		require.NoError(mt, err)
		var raw bson.D
		require.NoError(mt, bson.Unmarshal(doc, &raw))

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, raw))
		repo := NewMongoSnapshotRepository(mt.DB)

		got, err := repo.FindByID(context.Background(), snap.OrderID)
		require.NoError(mt, err)
		assert.Equal(mt, snap.OrderNumber, got.OrderNumber)
		assert.True(mt, snap.TotalAmount.Equal(got.TotalAmount))
	})

	mt.Run("find missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoSnapshotRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), uuid.New())
		assert.ErrorIs(mt, err, order.ErrOrderNotFound)
	})

	mt.Run("upsert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}))
		repo := NewMongoSnapshotRepository(mt.DB)

		require.NoError(mt, repo.Upsert(context.Background(), newTestSnapshot()))
	})

	mt.Run("upsert error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11000, Message: "duplicate key"}))
		repo := NewMongoSnapshotRepository(mt.DB)

		err := repo.Upsert(context.Background(), newTestSnapshot())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "upsert snapshot")
	})

	mt.Run("apply status", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		repo := NewMongoSnapshotRepository(mt.DB)

		applied, err := repo.ApplyStatus(context.Background(), order.StatusChange{
			OrderID:   uuid.New(),
			Status:    order.StatusShipped,
			UpdatedAt: time.Now(),
			EventID:   uuid.New(),
		})
		require.NoError(mt, err)
		assert.True(mt, applied)
	})

	mt.Run("apply status filters on older versions", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		repo := NewMongoSnapshotRepository(mt.DB)

		_, err := repo.ApplyStatus(context.Background(), order.StatusChange{
			OrderID: uuid.New(),
			Status:  order.StatusShipped,
			Version: 3,
			EventID: uuid.New(),
		})
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
		guard := started.Command.Lookup("updates", "0", "q", "$or", "0", "version", "$lt")
		assert.EqualValues(mt, 3, guard.AsInt64())
		set := started.Command.Lookup("updates", "0", "u", "$set", "version")
		assert.EqualValues(mt, 3, set.AsInt64())
	})

	mt.Run("apply status stale change", func(mt *mtest.T) {
		// snapshot already at a later version: nothing matches, the document exists
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)
		repo := NewMongoSnapshotRepository(mt.DB)

		applied, err := repo.ApplyStatus(context.Background(), order.StatusChange{
			OrderID: uuid.New(),
			Status:  order.StatusConfirmed,
			Version: 2,
			EventID: uuid.New(),
		})
		require.NoError(mt, err)
		assert.False(mt, applied)
	})

	mt.Run("apply status already applied", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)
		repo := NewMongoSnapshotRepository(mt.DB)

		applied, err := repo.ApplyStatus(context.Background(), order.StatusChange{
			OrderID: uuid.New(),
			Status:  order.StatusShipped,
			EventID: uuid.New(),
		})
		require.NoError(mt, err)
		assert.False(mt, applied)
	})

	mt.Run("apply status before placement", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)
		repo := NewMongoSnapshotRepository(mt.DB)

		_, err := repo.ApplyStatus(context.Background(), order.StatusChange{
			OrderID: uuid.New(),
			Status:  order.StatusCancelled,
			EventID: uuid.New(),
		})
		assert.ErrorIs(mt, err, order.ErrOrderNotFound)
	})

	mt.Run("list cancelled", func(mt *mtest.T) {
		snap := newTestSnapshot()
		snap.Status = order.StatusCancelled
		snap.CancelReason = "changed my mind"
		doc, err := bson.Marshal(snapshotDocFrom(snap))
		require.NoError(mt, err)
		var raw bson.D
		require.NoError(mt, bson.Unmarshal(doc, &raw))

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, raw),
		)
		repo := NewMongoSnapshotRepository(mt.DB)

		snaps, total, err := repo.ListCancelled(context.Background(), shared.DefaultFilter())
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), total)
		require.Len(mt, snaps, 1)
		assert.Equal(mt, "changed my mind", snaps[0].CancelReason)
	})
}
