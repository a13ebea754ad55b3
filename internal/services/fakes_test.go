package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePropertiesRepo is an in-memory stand-in for the Mongo-backed repository.
type fakePropertiesRepo struct {
	mu         sync.Mutex
	properties map[primitive.ObjectID]*models.Property

	// loseVersionRace forces that many SetPropertyRating calls to report a
	// concurrent version bump before applying.
	loseVersionRace int
}

func newFakePropertiesRepo() *fakePropertiesRepo {
	return &fakePropertiesRepo{
		properties: make(map[primitive.ObjectID]*models.Property),
	}
}

func (f *fakePropertiesRepo) CreateProperty(_ context.Context, property *models.Property) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := property.BeforeCreate(); err != nil {
		return nil, err
	}
	stored := *property
	f.properties[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakePropertiesRepo) GetPropertyByID(_ context.Context, id primitive.ObjectID) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	property, ok := f.properties[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *property
	return &out, nil
}

func (f *fakePropertiesRepo) matches(p *models.Property, filter models.PropertyFilter) bool {
	if filter.Keyword != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Keyword)) {
		return false
	}
	if filter.City != "" && !strings.EqualFold(p.City, filter.City) {
		return false
	}
	if !filter.Owner.IsZero() && p.Owner != filter.Owner {
		return false
	}
	return true
}

func (f *fakePropertiesRepo) ListProperties(_ context.Context, filter models.PropertyFilter, offset, limit int) ([]*models.Property, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*models.Property
	for _, p := range f.properties {
		if f.matches(p, filter) {
			out := *p
			matched = append(matched, &out)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return []*models.Property{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *fakePropertiesRepo) TopRatedProperties(_ context.Context, limit int) ([]*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []*models.Property
	for _, p := range f.properties {
		out := *p
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Rating > all[j].Rating
	})
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakePropertiesRepo) DistinctCities(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]bool)
	var cities []string
	for _, p := range f.properties {
		if !seen[p.City] {
			seen[p.City] = true
			cities = append(cities, p.City)
		}
	}
	sort.Strings(cities)
	return cities, nil
}

func (f *fakePropertiesRepo) UpdateProperty(_ context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	property, ok := f.properties[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	for key, value := range update {
		switch key {
		case "title":
			property.Title = value.(string)
		case "description":
			property.Description = value.(string)
		case "category":
			property.Category = models.PropertyCategory(value.(string))
		case "city":
			property.City = value.(string)
		case "price_per_night":
			property.PricePerNight = value.(float64)
		case "max_guests":
			property.MaxGuests = value.(int)
		case "bedrooms":
			property.Bedrooms = value.(int)
		case "bathrooms":
			property.Bathrooms = value.(int)
		}
	}
	property.UpdatedAt = time.Now()
	out := *property
	return &out, nil
}

func (f *fakePropertiesRepo) DeleteProperty(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.properties[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.properties, id)
	return nil
}

func (f *fakePropertiesRepo) SetPropertyRating(_ context.Context, id primitive.ObjectID, rating float64, count int, seenVersion int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	property, ok := f.properties[id]
	if !ok {
		return false, models.ErrNotFound
	}
	if f.loseVersionRace > 0 {
		f.loseVersionRace--
		property.RatingVersion++
		return false, nil
	}
	if property.RatingVersion != seenVersion {
		return false, nil
	}
	property.Rating = rating
	property.ReviewCount = count
	property.RatingVersion++
	return true, nil
}

type fakeReviewsRepo struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]*models.Review
}

func newFakeReviewsRepo() *fakeReviewsRepo {
	return &fakeReviewsRepo{
		reviews: make(map[primitive.ObjectID]*models.Review),
	}
}

func (f *fakeReviewsRepo) CreateReview(_ context.Context, review *models.Review) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := review.BeforeCreate(); err != nil {
		return nil, err
	}
	for _, r := range f.reviews {
		if r.PropertyID == review.PropertyID && r.UserID == review.UserID {
			return nil, models.ErrDuplicate
		}
	}
	stored := *review
	f.reviews[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeReviewsRepo) GetReviewByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, ok := f.reviews[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *review
	return &out, nil
}

func (f *fakeReviewsRepo) collect(match func(*models.Review) bool) []*models.Review {
	var matched []*models.Review
	for _, r := range f.reviews {
		if match(r) {
			out := *r
			matched = append(matched, &out)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (f *fakeReviewsRepo) GetReviewsByProperty(_ context.Context, propertyID primitive.ObjectID, limit int) ([]*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := f.collect(func(r *models.Review) bool { return r.PropertyID == propertyID })
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeReviewsRepo) GetReviewsByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.collect(func(r *models.Review) bool { return r.UserID == userID }), nil
}

func (f *fakeReviewsRepo) GetReviewsByProperties(_ context.Context, propertyIDs []primitive.ObjectID) ([]*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make(map[primitive.ObjectID]bool, len(propertyIDs))
	for _, id := range propertyIDs {
		ids[id] = true
	}
	return f.collect(func(r *models.Review) bool { return ids[r.PropertyID] }), nil
}

func (f *fakeReviewsRepo) FindReviewByPropertyAndUser(_ context.Context, propertyID, userID primitive.ObjectID) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.reviews {
		if r.PropertyID == propertyID && r.UserID == userID {
			out := *r
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeReviewsRepo) UpdateReview(_ context.Context, id primitive.ObjectID, rating int, comment string) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, ok := f.reviews[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	review.Rating = rating
	review.Comment = comment
	review.UpdatedAt = time.Now()
	out := *review
	return &out, nil
}

func (f *fakeReviewsRepo) DeleteReview(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.reviews[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewsRepo) DeleteReviewsByProperty(_ context.Context, propertyID primitive.ObjectID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	deleted := 0
	for id, r := range f.reviews {
		if r.PropertyID == propertyID {
			delete(f.reviews, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeReviewsRepo) LikeReview(_ context.Context, id primitive.ObjectID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, ok := f.reviews[id]
	if !ok {
		return 0, models.ErrNotFound
	}
	review.Likes++
	return review.Likes, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[primitive.ObjectID]*models.User),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := user.BeforeCreate(); err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, models.ErrDuplicate
		}
	}
	stored := *user
	f.users[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	for key, value := range update {
		s, _ := value.(string)
		switch key {
		case "first_name":
			user.FirstName = s
		case "last_name":
			user.LastName = s
		case "email":
			user.Email = s
		case "profile_picture":
			user.ProfilePicture = s
		case "hashed_password":
			user.HashedPassword = s
		}
	}
	user.UpdatedAt = time.Now()
	out := *user
	return &out, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeFavouritesRepo struct {
	mu         sync.Mutex
	favourites map[primitive.ObjectID]*models.Favourite
}

func newFakeFavouritesRepo() *fakeFavouritesRepo {
	return &fakeFavouritesRepo{
		favourites: make(map[primitive.ObjectID]*models.Favourite),
	}
}

func (f *fakeFavouritesRepo) AddToFavourites(_ context.Context, userID, propertyID primitive.ObjectID) (*models.Favourite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fav, ok := f.favourites[userID]
	if !ok {
		fav = &models.Favourite{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Items:     make(map[string]models.FavouriteItem),
			CreatedAt: time.Now(),
		}
		f.favourites[userID] = fav
	}
	fav.Items[propertyID.Hex()] = models.FavouriteItem{
		PropertyID: propertyID.Hex(),
		AddedAt:    time.Now(),
	}
	fav.UpdatedAt = time.Now()
	out := *fav
	return &out, nil
}

func (f *fakeFavouritesRepo) RemoveFromFavourites(_ context.Context, userID, propertyID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fav, ok := f.favourites[userID]
	if !ok {
		return models.ErrNotFound
	}
	delete(fav.Items, propertyID.Hex())
	fav.UpdatedAt = time.Now()
	return nil
}

func (f *fakeFavouritesRepo) GetFavouritesByUserID(_ context.Context, userID primitive.ObjectID) (*models.Favourite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fav, ok := f.favourites[userID]
	if !ok {
		return &models.Favourite{UserID: userID, Items: map[string]models.FavouriteItem{}}, nil
	}
	out := *fav
	return &out, nil
}
