package document

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/complaint"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newTestComplaint(t testing.TB) *complaint.Complaint {
	t.Helper()
	c, err := complaint.New(uuid.New(), gofakeit.Sentence(6), map[string]any{
		"page":    "checkout",
		"retries": int32(3),
		"nested":  map[string]any{"browser": "firefox"},
	}, complaint.FeaturePayment)
	require.NoError(t, err)
	return c
}

func complaintRaw(t testing.TB, c *complaint.Complaint) bson.D {
	t.Helper()
	data, err := bson.Marshal(complaintDocFrom(c))
	require.NoError(t, err)
	var raw bson.D
	require.NoError(t, bson.Unmarshal(data, &raw))
	return raw
}

func TestComplaintQuery(t *testing.T) {
	uid := uuid.New()
	filter := shared.DefaultFilter()
	filter.Search = "pay (card)"
	filter.Filters["user_id"] = uid
	filter.Filters["feature"] = complaint.FeaturePayment
	filter.Filters["status"] = complaint.StatusNew

	q := complaintQuery(filter)
	assert.Equal(t, bson.M{"$regex": `pay \(card\)`, "$options": "i"}, q["reason"])
	assert.Equal(t, uid.String(), q["user_id"])
	assert.Equal(t, "PAYMENT", q["feature"])
	assert.Equal(t, "NEW", q["status"])

	assert.Empty(t, complaintQuery(shared.DefaultFilter()))
}

func TestPlainValue(t *testing.T) {
	v := plainValue(bson.D{{Key: "a", Value: bson.A{bson.M{"b": 1}}}})
	assert.Equal(t, map[string]any{"a": []any{map[string]any{"b": 1}}}, v)
}

func TestMongoComplaintRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "storefront." + ComplaintCollection

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoComplaintRepository(mt.DB)

		require.NoError(mt, repo.Insert(context.Background(), newTestComplaint(mt)))
	})

	mt.Run("find by id", func(mt *mtest.T) {
		c := newTestComplaint(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, complaintRaw(mt, c)))
		repo := NewMongoComplaintRepository(mt.DB)

		got, err := repo.FindByID(context.Background(), c.ID)
		require.NoError(mt, err)
		assert.Equal(mt, c.ID, got.ID)
		assert.Equal(mt, c.UserID, got.UserID)
		assert.Equal(mt, complaint.FeaturePayment, got.Feature)
		assert.Equal(mt, "checkout", got.Details["page"])
		assert.Equal(mt, map[string]any{"browser": "firefox"}, got.Details["nested"])
	})

	mt.Run("find missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoComplaintRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), uuid.New())
		assert.ErrorIs(mt, err, complaint.ErrComplaintNotFound)
	})

	mt.Run("find all", func(mt *mtest.T) {
		first, second := newTestComplaint(mt), newTestComplaint(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 2}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, complaintRaw(mt, first), complaintRaw(mt, second)),
		)
		repo := NewMongoComplaintRepository(mt.DB)

		list, total, err := repo.FindAll(context.Background(), shared.DefaultFilter())
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), total)
		require.Len(mt, list, 2)
		assert.Equal(mt, first.ID, list[0].ID)
	})

	mt.Run("update", func(mt *mtest.T) {
		c := newTestComplaint(mt)
		require.NoError(mt, c.SetStatus(complaint.StatusResolved))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		repo := NewMongoComplaintRepository(mt.DB)

		require.NoError(mt, repo.Update(context.Background(), c))
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		repo := NewMongoComplaintRepository(mt.DB)

		err := repo.Update(context.Background(), newTestComplaint(mt))
		assert.ErrorIs(mt, err, complaint.ErrComplaintNotFound)
	})
}
