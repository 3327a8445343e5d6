package services

import (
	"math"
	"sort"

	"gorm.io/gorm"

	"github.com/vietcom/vietcom-backend/models"
)

// Friendship status annotations on nearby-user results.
const (
	FriendStatusFriends  = "friends"
	FriendStatusSent     = "sent"
	FriendStatusReceived = "received"
	FriendStatusNone     = "none"
)

const (
	earthRadiusKm = 6371
	// maxNearbyResults caps the result list after distance sorting.
	maxNearbyResults = 20
)

// GeoService finds nearby users by great-circle distance. The scan is a full
// pass over located users; fine at this scale, a geohash or R-tree index
// would be needed before it grows.
type GeoService struct {
	db *gorm.DB
}

// NewGeoService creates a GeoService bound to the given database handle.
func NewGeoService(db *gorm.DB) *GeoService {
	return &GeoService{db: db}
}

// HaversineDistanceKm returns the great-circle distance between two points in
// kilometers. Uses the atan2/sqrt form, which stays numerically stable for
// small distances.
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// SearchRadiusForLevel returns the proximity search radius in kilometers for
// a level: 5 km at level 1, growing by 2 km per level.
func SearchRadiusForLevel(level int) float64 {
	if level < 1 {
		level = 1
	}
	return 5 + float64(level-1)*2
}

// NearbyUser is one proximity search result with its friendship annotation.
// RequestID is set when a pending friend request exists in either direction.
type NearbyUser struct {
	User         models.User `json:"user"`
	DistanceKm   float64     `json:"distance_km"`
	FriendStatus string      `json:"friend_status"`
	RequestID    *uint       `json:"request_id"`
}

// FindNearbyUsers scans all other located users, keeps those within the
// level-derived radius of the subject, annotates friendship status, and
// returns up to 20 results sorted ascending by distance. Users without
// coordinates never appear, and a subject without coordinates gets an empty
// result.
func (g *GeoService) FindNearbyUsers(user *models.User) ([]NearbyUser, error) {
	if !user.HasLocation() {
		return nil, nil
	}

	radius := SearchRadiusForLevel(user.Level)

	var candidates []models.User
	if err := g.db.
		Where("id <> ? AND latitude IS NOT NULL AND longitude IS NOT NULL", user.ID).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	var results []NearbyUser
	for _, candidate := range candidates {
		distance := HaversineDistanceKm(*user.Latitude, *user.Longitude, *candidate.Latitude, *candidate.Longitude)
		if distance > radius {
			continue
		}

		status, requestID, err := g.friendStatus(user.ID, candidate.ID)
		if err != nil {
			return nil, err
		}

		results = append(results, NearbyUser{
			User:         candidate,
			DistanceKm:   distance,
			FriendStatus: status,
			RequestID:    requestID,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
	if len(results) > maxNearbyResults {
		results = results[:maxNearbyResults]
	}
	return results, nil
}

// friendStatus derives the annotation from Friendship and FriendRequest rows.
func (g *GeoService) friendStatus(subjectID, otherID uint) (string, *uint, error) {
	lo, hi := subjectID, otherID
	if lo > hi {
		lo, hi = hi, lo
	}

	var friendCount int64
	if err := g.db.Model(&models.Friendship{}).
		Where("user1_id = ? AND user2_id = ?", lo, hi).
		Count(&friendCount).Error; err != nil {
		return "", nil, err
	}
	if friendCount > 0 {
		return FriendStatusFriends, nil, nil
	}

	var request models.FriendRequest
	err := g.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			subjectID, otherID, otherID, subjectID).
		Where("status = ?", models.RequestPending).
		First(&request).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return FriendStatusNone, nil, nil
		}
		return "", nil, err
	}

	id := request.ID
	if request.SenderID == subjectID {
		return FriendStatusSent, &id, nil
	}
	return FriendStatusReceived, &id, nil
}
