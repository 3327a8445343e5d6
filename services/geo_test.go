package services

import (
	"fmt"
	"math"
	"testing"

	"gorm.io/gorm"

	"github.com/vietcom/vietcom-backend/models"
)

func locatedUser(t *testing.T, db *gorm.DB, email string, lat, lon float64) *models.User {
	t.Helper()
	user := createTestUser(t, db, email)
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"latitude":  lat,
		"longitude": lon,
	}).Error; err != nil {
		t.Fatalf("failed to set location for %s: %v", email, err)
	}
	return reloadUser(t, db, user.ID)
}

func TestHaversineDistanceZero(t *testing.T) {
	if d := HaversineDistanceKm(21.0285, 105.8542, 21.0285, 105.8542); d != 0 {
		t.Errorf("distance to the same point should be 0, got %v", d)
	}
}

func TestHaversineDistanceSymmetry(t *testing.T) {
	ab := HaversineDistanceKm(21.0285, 105.8542, 10.8231, 106.6297)
	ba := HaversineDistanceKm(10.8231, 106.6297, 21.0285, 105.8542)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance should be symmetric, got %v and %v", ab, ba)
	}
}

func TestHaversineDistanceKnown(t *testing.T) {
	// One degree of longitude on the equator is about 111.19 km.
	d := HaversineDistanceKm(0, 0, 0, 1)
	if math.Abs(d-111.19) > 0.5 {
		t.Errorf("expected ~111.19 km, got %v", d)
	}
}

func TestSearchRadiusForLevel(t *testing.T) {
	cases := []struct {
		level int
		want  float64
	}{
		{1, 5},
		{2, 7},
		{3, 9},
		{10, 23},
		{0, 5},
	}
	for _, tc := range cases {
		if got := SearchRadiusForLevel(tc.level); got != tc.want {
			t.Errorf("SearchRadiusForLevel(%d) = %v, want %v", tc.level, got, tc.want)
		}
	}
}

func TestFindNearbyUsersFilteringAndOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewGeoService(db)

	subject := locatedUser(t, db, "subject@example.com", 0, 0)
	far := locatedUser(t, db, "far@example.com", 0.03, 0)   // ~3.3 km
	near := locatedUser(t, db, "near@example.com", 0.01, 0) // ~1.1 km
	locatedUser(t, db, "outside@example.com", 0.1, 0)       // ~11 km, beyond level 1 radius
	createTestUser(t, db, "nowhere@example.com")            // no coordinates

	results, err := svc.FindNearbyUsers(subject)
	if err != nil {
		t.Fatalf("FindNearbyUsers() failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 users in range, got %d", len(results))
	}
	if results[0].User.ID != near.ID {
		t.Errorf("closest user should come first, got user %d", results[0].User.ID)
	}
	if results[1].User.ID != far.ID {
		t.Errorf("expected user %d second, got %d", far.ID, results[1].User.ID)
	}
	if results[0].DistanceKm >= results[1].DistanceKm {
		t.Error("results should be sorted ascending by distance")
	}
}

func TestFindNearbyUsersRadiusGrowsWithLevel(t *testing.T) {
	db := newTestDB(t)
	svc := NewGeoService(db)

	subject := locatedUser(t, db, "leveled@example.com", 0, 0)
	edge := locatedUser(t, db, "edge@example.com", 0.07, 0) // ~7.8 km

	results, err := svc.FindNearbyUsers(subject)
	if err != nil {
		t.Fatalf("FindNearbyUsers() failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("7.8 km is outside the level 1 radius, got %d results", len(results))
	}

	if err := db.Model(&models.User{}).Where("id = ?", subject.ID).Update("level", 3).Error; err != nil {
		t.Fatalf("failed to raise level: %v", err)
	}
	subject = reloadUser(t, db, subject.ID)

	results, err = svc.FindNearbyUsers(subject)
	if err != nil {
		t.Fatalf("FindNearbyUsers() failed: %v", err)
	}
	if len(results) != 1 || results[0].User.ID != edge.ID {
		t.Errorf("level 3 radius (9 km) should reach the 7.8 km user, got %d results", len(results))
	}
}

func TestFindNearbyUsersUnlocatedSubject(t *testing.T) {
	db := newTestDB(t)
	svc := NewGeoService(db)

	subject := createTestUser(t, db, "nolocation@example.com")
	locatedUser(t, db, "around@example.com", 0.001, 0)

	results, err := svc.FindNearbyUsers(subject)
	if err != nil {
		t.Fatalf("FindNearbyUsers() failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("a subject without coordinates gets no results, got %d", len(results))
	}
}

func TestFindNearbyUsersCappedAtTwenty(t *testing.T) {
	db := newTestDB(t)
	svc := NewGeoService(db)

	subject := locatedUser(t, db, "crowded@example.com", 0, 0)
	for i := 1; i <= 25; i++ {
		locatedUser(t, db, fmt.Sprintf("n%d@example.com", i), float64(i)*0.001, 0)
	}

	results, err := svc.FindNearbyUsers(subject)
	if err != nil {
		t.Fatalf("FindNearbyUsers() failed: %v", err)
	}
	if len(results) != 20 {
		t.Fatalf("expected the result list capped at 20, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].DistanceKm > results[i].DistanceKm {
			t.Fatalf("results out of order at index %d", i)
		}
	}
	// The cap keeps the closest users, so the farthest five are dropped.
	if results[len(results)-1].DistanceKm >= HaversineDistanceKm(0, 0, 0.021, 0) {
		t.Error("cap should drop the farthest users, not the nearest")
	}
}

func TestFindNearbyUsersFriendStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewGeoService(db)

	subject := locatedUser(t, db, "me@example.com", 0, 0)
	friend := locatedUser(t, db, "friend@example.com", 0.001, 0)
	sentTo := locatedUser(t, db, "sent@example.com", 0.002, 0)
	receivedFrom := locatedUser(t, db, "received@example.com", 0.003, 0)
	stranger := locatedUser(t, db, "stranger@example.com", 0.004, 0)

	if err := db.Create(&models.Friendship{User1ID: subject.ID, User2ID: friend.ID}).Error; err != nil {
		t.Fatalf("failed to create friendship: %v", err)
	}
	sentReq := models.FriendRequest{SenderID: subject.ID, ReceiverID: sentTo.ID}
	if err := db.Create(&sentReq).Error; err != nil {
		t.Fatalf("failed to create sent request: %v", err)
	}
	recvReq := models.FriendRequest{SenderID: receivedFrom.ID, ReceiverID: subject.ID}
	if err := db.Create(&recvReq).Error; err != nil {
		t.Fatalf("failed to create received request: %v", err)
	}

	results, err := svc.FindNearbyUsers(subject)
	if err != nil {
		t.Fatalf("FindNearbyUsers() failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 users, got %d", len(results))
	}

	byID := make(map[uint]NearbyUser, len(results))
	for _, r := range results {
		byID[r.User.ID] = r
	}

	if got := byID[friend.ID]; got.FriendStatus != FriendStatusFriends {
		t.Errorf("expected friends status, got %q", got.FriendStatus)
	}
	if got := byID[sentTo.ID]; got.FriendStatus != FriendStatusSent || got.RequestID == nil || *got.RequestID != sentReq.ID {
		t.Errorf("expected sent status with request id %d, got %q %v", sentReq.ID, got.FriendStatus, got.RequestID)
	}
	if got := byID[receivedFrom.ID]; got.FriendStatus != FriendStatusReceived || got.RequestID == nil || *got.RequestID != recvReq.ID {
		t.Errorf("expected received status with request id %d, got %q %v", recvReq.ID, got.FriendStatus, got.RequestID)
	}
	if got := byID[stranger.ID]; got.FriendStatus != FriendStatusNone || got.RequestID != nil {
		t.Errorf("expected none status without request id, got %q %v", got.FriendStatus, got.RequestID)
	}
}
