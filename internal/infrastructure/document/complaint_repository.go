package document

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/complaint"
	"github.com/storefront/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type complaintDoc struct {
	ID        string    `bson:"_id"`
	Reason    string    `bson:"reason"`
	Details   bson.M    `bson:"details"`
	Feature   string    `bson:"feature"`
	Status    string    `bson:"status"`
	UserID    string    `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func complaintDocFrom(c *complaint.Complaint) complaintDoc {
	return complaintDoc{
		ID:        c.ID.String(),
		Reason:    c.Reason,
		Details:   bson.M(c.Details),
		Feature:   string(c.Feature),
		Status:    string(c.Status),
		UserID:    c.UserID.String(),
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func (d complaintDoc) toDomain() complaint.Complaint {
	details := make(map[string]any, len(d.Details))
	for k, v := range d.Details {
		details[k] = plainValue(v)
	}
	return complaint.Complaint{
		ID:        parseUUID(d.ID),
		Reason:    d.Reason,
		Details:   details,
		Feature:   complaint.Feature(d.Feature),
		Status:    complaint.Status(d.Status),
		UserID:    parseUUID(d.UserID),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// plainValue unwraps the driver's document types so details serialize as
// ordinary JSON objects and arrays
func plainValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = plainValue(inner)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = plainValue(inner)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	}
	return v
}

// MongoComplaintRepository implements complaint.Repository on the
// complaints collection
type MongoComplaintRepository struct {
	coll *mongo.Collection
}

// NewMongoComplaintRepository creates a complaint repository over db
func NewMongoComplaintRepository(db *mongo.Database) *MongoComplaintRepository {
	return &MongoComplaintRepository{coll: db.Collection(ComplaintCollection)}
}

// FindByID loads a complaint
func (r *MongoComplaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*complaint.Complaint, error) {
	var doc complaintDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, complaint.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("find complaint: %w", err)
	}
	c := doc.toDomain()
	return &c, nil
}

// FindAll lists complaints matching filter together with the total count
func (r *MongoComplaintRepository) FindAll(ctx context.Context, filter shared.Filter) ([]complaint.Complaint, int64, error) {
	filter.Normalize()
	query := complaintQuery(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count complaints: %w", err)
	}

	sortField := "created_at"
	if filter.OrderBy == "updated_at" {
		sortField = "updated_at"
	}
	direction := -1
	if filter.OrderDir == "asc" {
		direction = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: direction}})
	if filter.Paginate {
		opts.SetSkip(int64(filter.Offset())).SetLimit(int64(filter.PageSize))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find complaints: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []complaintDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode complaints: %w", err)
	}
	out := make([]complaint.Complaint, len(docs))
	for i, doc := range docs {
		out[i] = doc.toDomain()
	}
	return out, total, nil
}

// Insert stores a new complaint
func (r *MongoComplaintRepository) Insert(ctx context.Context, c *complaint.Complaint) error {
	if _, err := r.coll.InsertOne(ctx, complaintDocFrom(c)); err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

// Update replaces a stored complaint
func (r *MongoComplaintRepository) Update(ctx context.Context, c *complaint.Complaint) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": c.ID.String()}, complaintDocFrom(c))
	if err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}
	if res.MatchedCount == 0 {
		return complaint.ErrComplaintNotFound
	}
	return nil
}

// complaintQuery translates the supported filters into a mongo query
func complaintQuery(filter shared.Filter) bson.M {
	query := bson.M{}
	if filter.Search != "" {
		query["reason"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}
	if v, ok := filter.Filters["user_id"].(uuid.UUID); ok {
		query["user_id"] = v.String()
	}
	if v, ok := filter.Filters["feature"].(complaint.Feature); ok {
		query["feature"] = string(v)
	}
	if v, ok := filter.Filters["status"].(complaint.Status); ok {
		query["status"] = string(v)
	}
	return query
}

var _ complaint.Repository = (*MongoComplaintRepository)(nil)
