package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "stayhub/internal/domain/listing"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "nightly_rate", Value: 1}}},
	})
	return err
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlisting.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *ListingRepository) Find(ctx context.Context, filter domainlisting.Filter) ([]*domainlisting.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts = opts.SetLimit(int64(filter.Limit)).SetSkip(int64(filter.Offset))
	}
	cursor, err := r.col.Find(ctx, buildListingFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainlisting.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cursor.Err()
}

func (r *ListingRepository) Count(ctx context.Context, filter domainlisting.Filter) (int64, error) {
	return r.col.CountDocuments(ctx, buildListingFilter(filter))
}

func (r *ListingRepository) Insert(ctx context.Context, lst *domainlisting.Listing) error {
	_, err := r.col.InsertOne(ctx, newListingDocument(lst))
	return err
}

func (r *ListingRepository) Update(ctx context.Context, lst *domainlisting.Listing) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": string(lst.ID)}, newListingDocument(lst))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainlisting.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlisting.ListingID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlisting.ErrNotFound
	}
	return nil
}

// SetRating writes the denormalized rating fields. A nil rating is removed
// with $unset so an unrated listing has no rating field at all.
func (r *ListingRepository) SetRating(ctx context.Context, id domainlisting.ListingID, rating *float64, reviewCount int) error {
	update := bson.M{"$set": bson.M{"review_count": reviewCount}}
	if rating != nil {
		update["$set"].(bson.M)["rating"] = *rating
	} else {
		update["$unset"] = bson.M{"rating": ""}
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": string(id)}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainlisting.ErrNotFound
	}
	return nil
}

func buildListingFilter(filter domainlisting.Filter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	rate := bson.M{}
	if filter.MinRate > 0 {
		rate["$gte"] = filter.MinRate
	}
	if filter.MaxRate > 0 {
		rate["$lte"] = filter.MaxRate
	}
	if len(rate) > 0 {
		query["nightly_rate"] = rate
	}
	if filter.Location != "" {
		query["location"] = primitive.Regex{Pattern: filter.Location, Options: "i"}
	}
	if filter.Query != "" {
		pattern := primitive.Regex{Pattern: filter.Query, Options: "i"}
		query["$or"] = []bson.M{
			{"title": pattern},
			{"description": pattern},
			{"location": pattern},
		}
	}
	return query
}

type listingDocument struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	Location     string    `bson:"location"`
	NightlyRate  int64     `bson:"nightly_rate"`
	Image        string    `bson:"image"`
	Images       []string  `bson:"images"`
	Category     string    `bson:"category"`
	Rating       *float64  `bson:"rating,omitempty"`
	ReviewCount  int       `bson:"review_count"`
	Bedrooms     int       `bson:"bedrooms"`
	Bathrooms    int       `bson:"bathrooms"`
	Guests       int       `bson:"guests"`
	Amenities    []string  `bson:"amenities"`
	HostName     string    `bson:"host_name"`
	HostVerified bool      `bson:"host_verified"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func newListingDocument(lst *domainlisting.Listing) listingDocument {
	return listingDocument{
		ID:           string(lst.ID),
		Title:        lst.Title,
		Description:  lst.Description,
		Location:     lst.Location,
		NightlyRate:  lst.NightlyRate,
		Image:        lst.Image,
		Images:       lst.Images,
		Category:     string(lst.Category),
		Rating:       lst.Rating,
		ReviewCount:  lst.ReviewCount,
		Bedrooms:     lst.Bedrooms,
		Bathrooms:    lst.Bathrooms,
		Guests:       lst.Guests,
		Amenities:    lst.Amenities,
		HostName:     lst.Host.Name,
		HostVerified: lst.Host.Verified,
		CreatedAt:    lst.CreatedAt.UTC(),
		UpdatedAt:    lst.UpdatedAt.UTC(),
	}
}

func (d listingDocument) toEntity() *domainlisting.Listing {
	return &domainlisting.Listing{
		ID:          domainlisting.ListingID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		NightlyRate: d.NightlyRate,
		Image:       d.Image,
		Images:      d.Images,
		Category:    domainlisting.Category(d.Category),
		Rating:      d.Rating,
		ReviewCount: d.ReviewCount,
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		Guests:      d.Guests,
		Amenities:   d.Amenities,
		Host:        domainlisting.Host{Name: d.HostName, Verified: d.HostVerified},
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}
