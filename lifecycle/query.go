package lifecycle

import (
	"strings"

	"github.com/HSouheill/campspot_console/models"
)

// IsPending compares a backend status against "pending" without trusting its
// casing.
func IsPending(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), models.StatusPending)
}

// ListPending keeps the requests still waiting for moderation, in order.
// Every view that lists pending requests goes through here.
func ListPending(requests []models.SpotRequest) []models.SpotRequest {
	pending := make([]models.SpotRequest, 0, len(requests))
	for _, req := range requests {
		if IsPending(req.Status) {
			pending = append(pending, req)
		}
	}
	return pending
}

// Merge builds a vendor's "my listings" view: approved spots first, then the
// vendor's pending requests flattened to look like spots. On every entry
// RequestID is the id an edit or delete must address.
func Merge(approved []models.Spot, requests []models.SpotRequest) []models.Listing {
	pending := ListPending(requests)
	listings := make([]models.Listing, 0, len(approved)+len(pending))

	for _, spot := range approved {
		listings = append(listings, models.Listing{
			SpotDetails: spot.SpotDetails,
			ID:          spot.ID,
			VendorID:    spot.VendorID,
			Status:      models.StatusApproved,
			RequestID:   spot.ID,
		})
	}

	for _, req := range pending {
		var details models.SpotDetails
		if req.SpotDetails != nil {
			details = *req.SpotDetails
		}
		listings = append(listings, models.Listing{
			SpotDetails:    details,
			ID:             req.OriginalSpotID,
			VendorID:       req.VendorID,
			Status:         models.StatusPending,
			RequestID:      req.ID,
			UpdateType:     req.UpdateType,
			OriginalSpotID: req.OriginalSpotID,
		})
	}
	return listings
}

// DuplicatePending returns the spot ids that have more than one pending
// request outstanding against them, in first-seen order.
func DuplicatePending(requests []models.SpotRequest) []string {
	seen := make(map[string]int)
	var dups []string
	for _, req := range ListPending(requests) {
		if req.OriginalSpotID == "" {
			continue
		}
		seen[req.OriginalSpotID]++
		if seen[req.OriginalSpotID] == 2 {
			dups = append(dups, req.OriginalSpotID)
		}
	}
	return dups
}

// StateOf reads the lifecycle state off one merged listing.
func StateOf(l models.Listing) State {
	switch {
	case IsPending(l.Status):
		return pendingState(l.UpdateType, l.OriginalSpotID, l.RequestID)
	case strings.EqualFold(l.Status, models.StatusApproved):
		return Approved(l.RequestID)
	}
	return None()
}

// StateOfRequest reads the lifecycle state off a raw request. Decided
// requests report the state the spot reverted to.
func StateOfRequest(req models.SpotRequest) State {
	if IsPending(req.Status) {
		return pendingState(req.UpdateType, req.OriginalSpotID, req.ID)
	}
	approved := strings.EqualFold(req.Status, models.StatusApproved)
	switch {
	case approved && req.UpdateType == models.UpdateTypeDelete:
		return None()
	case approved && req.UpdateType != models.UpdateTypeDelete:
		// a created spot gets an id we have not seen yet
		return Approved(req.OriginalSpotID)
	case req.OriginalSpotID != "":
		return Approved(req.OriginalSpotID)
	}
	return None()
}

func pendingState(updateType models.UpdateType, spotID, requestID string) State {
	switch {
	case updateType == models.UpdateTypeDelete && spotID != "":
		return PendingDelete(spotID, requestID)
	case updateType == models.UpdateTypeUpdate && spotID != "":
		return PendingUpdate(spotID, requestID)
	}
	return PendingCreate(requestID)
}
