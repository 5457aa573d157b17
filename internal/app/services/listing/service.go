// Package listing exposes catalog reads and host-side writes for listings.
package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"stayhub/internal/app/apperror"
	domainlisting "stayhub/internal/domain/listing"
	"stayhub/internal/infra/storage/s3"

	"github.com/google/uuid"
)

type Service struct {
	Listings domainlisting.Repository
	Uploader s3.Uploader
	Logger   *slog.Logger
	Now      func() time.Time
}

type Page struct {
	Items  []*domainlisting.Listing
	Total  int64
	Limit  int
	Offset int
}

// List returns a catalog page, optionally constrained by a price band.
func (s *Service) List(ctx context.Context, filter domainlisting.Filter) (Page, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	total, err := s.Listings.Count(ctx, filter)
	if err != nil {
		return Page{}, err
	}
	items, err := s.Listings.Find(ctx, filter)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *Service) ByCategory(ctx context.Context, raw string) ([]*domainlisting.Listing, error) {
	category, err := domainlisting.ParseCategory(raw)
	if err != nil {
		return nil, apperror.BadRequest("Invalid category")
	}
	return s.Listings.Find(ctx, domainlisting.Filter{Category: category})
}

// Search matches the query against title, description and location.
func (s *Service) Search(ctx context.Context, filter domainlisting.Filter) ([]*domainlisting.Listing, error) {
	return s.Listings.Find(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	return s.byID(ctx, id)
}

func (s *Service) Create(ctx context.Context, params domainlisting.CreateParams) (*domainlisting.Listing, error) {
	params.ID = domainlisting.ListingID(uuid.NewString())
	params.Now = s.now()
	lst, err := domainlisting.New(params)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if err := s.Listings.Insert(ctx, lst); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("listing created", "listing_id", lst.ID, "category", lst.Category)
	}
	return lst, nil
}

type UpdateParams struct {
	Title       *string
	Description *string
	Location    *string
	NightlyRate *int64
	Image       *string
	Images      []string
	Category    *string
	Bedrooms    *int
	Bathrooms   *int
	Guests      *int
	Amenities   []string
}

func (s *Service) Update(ctx context.Context, id domainlisting.ListingID, params UpdateParams) (*domainlisting.Listing, error) {
	lst, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Title != nil {
		lst.Title = *params.Title
	}
	if params.Description != nil {
		lst.Description = *params.Description
	}
	if params.Location != nil {
		lst.Location = *params.Location
	}
	if params.NightlyRate != nil {
		if *params.NightlyRate < 0 {
			return nil, apperror.BadRequest(domainlisting.ErrInvalidRate.Error())
		}
		lst.NightlyRate = *params.NightlyRate
	}
	if params.Image != nil {
		lst.Image = *params.Image
	}
	if params.Images != nil {
		lst.Images = append([]string(nil), params.Images...)
	}
	if params.Category != nil {
		category, err := domainlisting.ParseCategory(*params.Category)
		if err != nil {
			return nil, apperror.BadRequest("Invalid category")
		}
		lst.Category = category
	}
	if params.Bedrooms != nil {
		lst.Bedrooms = *params.Bedrooms
	}
	if params.Bathrooms != nil {
		lst.Bathrooms = *params.Bathrooms
	}
	if params.Guests != nil {
		if *params.Guests < 1 {
			return nil, apperror.BadRequest(domainlisting.ErrGuestsLimit.Error())
		}
		lst.Guests = *params.Guests
	}
	if params.Amenities != nil {
		lst.Amenities = append([]string(nil), params.Amenities...)
	}
	lst.UpdatedAt = s.now()
	if err := s.Listings.Update(ctx, lst); err != nil {
		return nil, err
	}
	return lst, nil
}

func (s *Service) Delete(ctx context.Context, id domainlisting.ListingID) error {
	if _, err := s.byID(ctx, id); err != nil {
		return err
	}
	return s.Listings.Delete(ctx, id)
}

// UploadPhoto stores the image in the object store and appends its public URL
// to the listing's gallery.
func (s *Service) UploadPhoto(ctx context.Context, id domainlisting.ListingID, reader io.Reader, contentType string) (*domainlisting.Listing, error) {
	lst, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Uploader == nil {
		return nil, apperror.BadRequest("Photo uploads are not configured")
	}
	key := fmt.Sprintf("listings/%s/%s", id, uuid.NewString())
	url, err := s.Uploader.Upload(ctx, key, reader, contentType)
	if err != nil {
		return nil, err
	}
	lst.Images = append(lst.Images, url)
	if lst.Image == "" {
		lst.Image = url
	}
	lst.UpdatedAt = s.now()
	if err := s.Listings.Update(ctx, lst); err != nil {
		return nil, err
	}
	return lst, nil
}

func (s *Service) byID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	lst, err := s.Listings.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainlisting.ErrNotFound) {
			return nil, apperror.NotFound("Listing not found")
		}
		return nil, err
	}
	return lst, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
