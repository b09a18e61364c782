// Package store mirrors the last server responses the console has seen. It
// is only ever written after a backend call succeeds.
package store

import (
	"sync"

	"github.com/HSouheill/campspot_console/models"
)

type Store struct {
	mu           sync.RWMutex
	spots        []models.Spot
	listings     []models.Listing
	pending      []models.SpotRequest
	users        []models.User
	pendingUsers []models.User
	bookings     []models.Booking
	pagination   models.Pagination
}

func New() *Store {
	return &Store{}
}

// Reset drops everything, used when the session is cleared.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spots = nil
	s.listings = nil
	s.pending = nil
	s.users = nil
	s.pendingUsers = nil
	s.bookings = nil
	s.pagination = models.Pagination{}
}

func (s *Store) SetSpots(spots []models.Spot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spots = append([]models.Spot(nil), spots...)
}

func (s *Store) Spots() []models.Spot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Spot{}, s.spots...)
}

// Spot looks a cached public spot up by id.
func (s *Store) Spot(id string) (models.Spot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, spot := range s.spots {
		if spot.ID == id {
			return spot, true
		}
	}
	return models.Spot{}, false
}

// RemoveSpot drops a spot after a direct delete. It reports whether the
// spot was present.
func (s *Store) RemoveSpot(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, spot := range s.spots {
		if spot.ID == id {
			s.spots = append(s.spots[:i:i], s.spots[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) SetListings(listings []models.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = append([]models.Listing(nil), listings...)
}

func (s *Store) Listings() []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Listing{}, s.listings...)
}

// Listing finds a merged listing by the id an edit or delete addresses.
func (s *Store) Listing(requestID string) (models.Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.listings {
		if l.RequestID == requestID {
			return l, true
		}
	}
	return models.Listing{}, false
}

// RemoveListing drops a listing whose pending request was withdrawn.
func (s *Store) RemoveListing(requestID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.listings {
		if l.RequestID == requestID {
			s.listings = append(s.listings[:i:i], s.listings[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) SetPending(requests []models.SpotRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append([]models.SpotRequest(nil), requests...)
}

func (s *Store) Pending() []models.SpotRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SpotRequest{}, s.pending...)
}

func (s *Store) PendingRequest(id string) (models.SpotRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, req := range s.pending {
		if req.ID == id {
			return req, true
		}
	}
	return models.SpotRequest{}, false
}

// RemovePending drops a decided request from the moderation queue. Only the
// first caller for a given id gets true.
func (s *Store) RemovePending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, req := range s.pending {
		if req.ID == id {
			s.pending = append(s.pending[:i:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) SetUsers(users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append([]models.User(nil), users...)
}

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User{}, s.users...)
}

func (s *Store) RemoveUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed bool
	s.users, removed = removeUser(s.users, id)
	return removed
}

func (s *Store) SetPendingUsers(users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingUsers = append([]models.User(nil), users...)
}

func (s *Store) PendingUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User{}, s.pendingUsers...)
}

func (s *Store) RemovePendingUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed bool
	s.pendingUsers, removed = removeUser(s.pendingUsers, id)
	return removed
}

func removeUser(users []models.User, id string) ([]models.User, bool) {
	for i, u := range users {
		if u.ID == id {
			return append(users[:i:i], users[i+1:]...), true
		}
	}
	return users, false
}

func (s *Store) SetBookings(page models.BookingsPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append([]models.Booking(nil), page.Bookings...)
	s.pagination = page.Pagination
}

// PrependBooking puts a just-created booking at the top of the list.
func (s *Store) PrependBooking(b models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append([]models.Booking{b}, s.bookings...)
	s.pagination.TotalBookings++
}

func (s *Store) Bookings() models.BookingsPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.BookingsPage{
		Bookings:   append([]models.Booking{}, s.bookings...),
		Pagination: s.pagination,
	}
}
