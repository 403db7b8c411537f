package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type snapshotUserDoc struct {
	UserID      string `bson:"user_id,omitempty"`
	Username    string `bson:"username,omitempty"`
	Email       string `bson:"email,omitempty"`
	IsAnonymous bool   `bson:"is_anonymous"`
}

type snapshotAddressDoc struct {
	AddressID string `bson:"address_id"`
	Name      string `bson:"name"`
	Title     string `bson:"title"`
	Country   string `bson:"country"`
	City      string `bson:"city"`
	District  string `bson:"district"`
	Phone     string `bson:"phone"`
	Address   string `bson:"address"`
	ZipCode   string `bson:"zip_code"`
}

type snapshotItemDoc struct {
	ProductID   string               `bson:"product_id"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Quantity    int                  `bson:"quantity"`
	TotalPrice  primitive.Decimal128 `bson:"total_price"`
}

// snapshotDoc is the stored shape of an order snapshot. _id is the order id.
type snapshotDoc struct {
	ID           string               `bson:"_id,omitempty"`
	OrderID      string               `bson:"order_id"`
	OrderNumber  string               `bson:"order_number"`
	User         snapshotUserDoc      `bson:"user"`
	SessionToken string               `bson:"session_token,omitempty"`
	Address      snapshotAddressDoc   `bson:"address"`
	Items        []snapshotItemDoc    `bson:"items"`
	TotalAmount  primitive.Decimal128 `bson:"total_amount"`
	TotalItems   int                  `bson:"total_items"`
	Status       string               `bson:"status"`
	CancelReason string               `bson:"cancel_reason,omitempty"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
	Version      int                  `bson:"version"`
	LastEventID  string               `bson:"last_event_id"`
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func snapshotDocFrom(s order.Snapshot) snapshotDoc {
	doc := snapshotDoc{
		ID:          s.OrderID.String(),
		OrderID:     s.OrderID.String(),
		OrderNumber: s.OrderNumber,
		User: snapshotUserDoc{
			Username:    s.User.Username,
			Email:       s.User.Email,
			IsAnonymous: s.User.IsAnonymous,
		},
		SessionToken: s.SessionToken,
		Address: snapshotAddressDoc{
			AddressID: s.Address.AddressID.String(),
			Name:      s.Address.Name,
			Title:     s.Address.Title,
			Country:   s.Address.Country,
			City:      s.Address.City,
			District:  s.Address.District,
			Phone:     s.Address.Phone,
			Address:   s.Address.Address,
			ZipCode:   s.Address.ZipCode,
		},
		Items:        make([]snapshotItemDoc, len(s.Items)),
		TotalAmount:  toDecimal128(s.TotalAmount),
		TotalItems:   s.TotalItems,
		Status:       string(s.Status),
		CancelReason: s.CancelReason,
		CreatedAt:    s.CreatedAt.UTC(),
		UpdatedAt:    s.UpdatedAt.UTC(),
		Version:      s.Version,
		LastEventID:  s.LastEventID.String(),
	}
	if s.User.UserID != nil {
		doc.User.UserID = s.User.UserID.String()
	}
	for i, item := range s.Items {
		doc.Items[i] = snapshotItemDoc{
			ProductID:   item.ProductID.String(),
			Title:       item.Title,
			Description: item.Description,
			Price:       toDecimal128(item.Price),
			Quantity:    item.Quantity,
			TotalPrice:  toDecimal128(item.TotalPrice),
		}
	}
	return doc
}

func (d snapshotDoc) toDomain() order.Snapshot {
	s := order.Snapshot{
		OrderID:     parseUUID(d.OrderID),
		OrderNumber: d.OrderNumber,
		User: order.SnapshotUser{
			Username:    d.User.Username,
			Email:       d.User.Email,
			IsAnonymous: d.User.IsAnonymous,
		},
		SessionToken: d.SessionToken,
		Address: order.SnapshotAddress{
			AddressID: parseUUID(d.Address.AddressID),
			Name:      d.Address.Name,
			Title:     d.Address.Title,
			Country:   d.Address.Country,
			City:      d.Address.City,
			District:  d.Address.District,
			Phone:     d.Address.Phone,
			Address:   d.Address.Address,
			ZipCode:   d.Address.ZipCode,
		},
		Items:        make([]order.SnapshotItem, len(d.Items)),
		TotalAmount:  fromDecimal128(d.TotalAmount),
		TotalItems:   d.TotalItems,
		Status:       order.Status(d.Status),
		CancelReason: d.CancelReason,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Version:      d.Version,
		LastEventID:  parseUUID(d.LastEventID),
	}
	if d.User.UserID != "" {
		id := parseUUID(d.User.UserID)
		s.User.UserID = &id
	}
	for i, item := range d.Items {
		s.Items[i] = order.SnapshotItem{
			ProductID:   parseUUID(item.ProductID),
			Title:       item.Title,
			Description: item.Description,
			Price:       fromDecimal128(item.Price),
			Quantity:    item.Quantity,
			TotalPrice:  fromDecimal128(item.TotalPrice),
		}
	}
	return s
}

// MongoSnapshotRepository implements order.SnapshotRepository on the
// order_snapshots collection
type MongoSnapshotRepository struct {
	coll *mongo.Collection
}

// NewMongoSnapshotRepository creates a snapshot repository over db
func NewMongoSnapshotRepository(db *mongo.Database) *MongoSnapshotRepository {
	return &MongoSnapshotRepository{coll: db.Collection(SnapshotCollection)}
}

// FindByID loads the snapshot of an order
func (r *MongoSnapshotRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*order.Snapshot, error) {
	var doc snapshotDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": orderID.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	snap := doc.toDomain()
	return &snap, nil
}

// Upsert writes the snapshot only when no document exists for the order yet.
// A replayed placement therefore never rolls back a later status change.
func (r *MongoSnapshotRepository) Upsert(ctx context.Context, snap order.Snapshot) error {
	doc := snapshotDocFrom(snap)
	id := doc.ID
	// _id comes from the filter on insert
	doc.ID = ""
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// ApplyStatus sets the status fields only on a snapshot older than
// change.Version, so a retried change that lost the race to a later one
// is dropped. A missing document is ErrOrderNotFound so the delivery is
// retried once the placement has been projected.
func (r *MongoSnapshotRepository) ApplyStatus(ctx context.Context, change order.StatusChange) (bool, error) {
	id := change.OrderID.String()
	set := bson.M{
		"status":        string(change.Status),
		"updated_at":    change.UpdatedAt.UTC(),
		"version":       change.Version,
		"last_event_id": change.EventID.String(),
	}
	if change.CancelReason != "" {
		set["cancel_reason"] = change.CancelReason
	}

	res, err := r.coll.UpdateOne(ctx,
		staleSnapshot(id, change.Version),
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("apply snapshot status: %w", err)
	}
	if res.MatchedCount > 0 {
		return res.ModifiedCount > 0, nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("count snapshot: %w", err)
	}
	if n == 0 {
		return false, order.ErrOrderNotFound
	}
	return false, nil
}

// staleSnapshot matches the order's snapshot while it is below version.
// Documents written before versions were stored count as version zero.
func staleSnapshot(id string, version int) bson.M {
	return bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"version": bson.M{"$lt": version}},
			bson.M{"version": bson.M{"$exists": false}},
		},
	}
}

// ListAnonymous lists snapshots placed with a session token, newest first
func (r *MongoSnapshotRepository) ListAnonymous(ctx context.Context, filter shared.Filter) ([]order.Snapshot, int64, error) {
	return r.list(ctx, bson.M{"session_token": bson.M{"$exists": true, "$ne": ""}}, "created_at", filter)
}

// ListCancelled lists cancelled snapshots, most recently updated first
func (r *MongoSnapshotRepository) ListCancelled(ctx context.Context, filter shared.Filter) ([]order.Snapshot, int64, error) {
	return r.list(ctx, bson.M{"status": string(order.StatusCancelled)}, "updated_at", filter)
}

func (r *MongoSnapshotRepository) list(ctx context.Context, query bson.M, sortField string, filter shared.Filter) ([]order.Snapshot, int64, error) {
	filter.Normalize()
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count snapshots: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}})
	if filter.Paginate {
		opts.SetSkip(int64(filter.Offset())).SetLimit(int64(filter.PageSize))
	}
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []snapshotDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode snapshots: %w", err)
	}
	snaps := make([]order.Snapshot, len(docs))
	for i, doc := range docs {
		snaps[i] = doc.toDomain()
	}
	return snaps, total, nil
}

var _ order.SnapshotRepository = (*MongoSnapshotRepository)(nil)
