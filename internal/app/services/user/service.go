// Package user covers profile reads/updates and the favorites list.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/app/apperror"
	domainlisting "stayhub/internal/domain/listing"
	domainuser "stayhub/internal/domain/user"
)

type Service struct {
	Users    domainuser.Repository
	Listings domainlisting.Repository
	Now      func() time.Time
}

func (s *Service) Profile(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	return s.byID(ctx, id)
}

type UpdateProfileParams struct {
	Name   *string
	Avatar *string
}

func (s *Service) UpdateProfile(ctx context.Context, id domainuser.ID, params UpdateProfileParams) (*domainuser.User, error) {
	u, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, apperror.BadRequest(domainuser.ErrNameRequired.Error())
		}
		u.Name = name
	}
	if params.Avatar != nil {
		u.Avatar = strings.TrimSpace(*params.Avatar)
	}
	u.UpdatedAt = s.now()
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Favorites resolves the user's favorite listings. Listings that were deleted
// since being favorited are skipped.
func (s *Service) Favorites(ctx context.Context, id domainuser.ID) ([]*domainlisting.Listing, error) {
	u, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	favorites := make([]*domainlisting.Listing, 0, len(u.Favorites))
	for _, listingID := range u.Favorites {
		lst, err := s.Listings.ByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, domainlisting.ErrNotFound) {
				continue
			}
			return nil, err
		}
		favorites = append(favorites, lst)
	}
	return favorites, nil
}

func (s *Service) AddFavorite(ctx context.Context, id domainuser.ID, listingID domainlisting.ListingID) ([]*domainlisting.Listing, error) {
	u, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsFavorite(listingID) {
		return nil, apperror.Conflict("Listing already in favorites")
	}
	u.AddFavorite(listingID, s.now())
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.Favorites(ctx, id)
}

func (s *Service) RemoveFavorite(ctx context.Context, id domainuser.ID, listingID domainlisting.ListingID) ([]*domainlisting.Listing, error) {
	u, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.RemoveFavorite(listingID, s.now())
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.Favorites(ctx, id)
}

func (s *Service) byID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
