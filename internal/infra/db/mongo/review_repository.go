package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "stayhub/internal/domain/listing"
	domainreview "stayhub/internal/domain/review"
	domainuser "stayhub/internal/domain/user"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection("reviews")}
}

// EnsureIndexes enforces one review per (user, listing) pair at the store
// level as well.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreview.ReviewID) (*domainreview.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *ReviewRepository) ByUserAndListing(ctx context.Context, userID domainuser.ID, listingID domainlisting.ListingID) (*domainreview.Review, error) {
	var doc reviewDocument
	filter := bson.M{"user_id": string(userID), "listing_id": string(listingID)}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID domainlisting.ListingID) ([]*domainreview.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"listing_id": string(listingID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainreview.Review
	for cursor.Next(ctx) {
		var doc reviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cursor.Err()
}

func (r *ReviewRepository) Insert(ctx context.Context, review *domainreview.Review) error {
	_, err := r.col.InsertOne(ctx, newReviewDocument(review))
	return err
}

func (r *ReviewRepository) Update(ctx context.Context, review *domainreview.Review) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": string(review.ID)}, newReviewDocument(review))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainreview.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreview.ReviewID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainreview.ErrNotFound
	}
	return nil
}

type reviewDocument struct {
	ID        string    `bson:"_id"`
	ListingID string    `bson:"listing_id"`
	UserID    string    `bson:"user_id"`
	Rating    int       `bson:"rating"`
	Comment   string    `bson:"comment"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newReviewDocument(r *domainreview.Review) reviewDocument {
	return reviewDocument{
		ID:        string(r.ID),
		ListingID: string(r.ListingID),
		UserID:    string(r.UserID),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func (d reviewDocument) toEntity() *domainreview.Review {
	return &domainreview.Review{
		ID:        domainreview.ReviewID(d.ID),
		ListingID: domainlisting.ListingID(d.ListingID),
		UserID:    domainuser.ID(d.UserID),
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
