package models

import (
	"testing"
	"time"
)

func TestUserHasLocation(t *testing.T) {
	lat, lon := 21.0285, 105.8542

	var u User
	if u.HasLocation() {
		t.Error("user without coordinates should not have a location")
	}

	u.Latitude = &lat
	if u.HasLocation() {
		t.Error("latitude alone is not a location")
	}

	u.Longitude = &lon
	if !u.HasLocation() {
		t.Error("user with both coordinates should have a location")
	}
}

func TestUserProfileComplete(t *testing.T) {
	dob := time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)

	u := User{FullName: "Linh Tran", DateOfBirth: &dob, Gender: GenderFemale, Bio: "Hello"}
	if !u.ProfileComplete() {
		t.Error("fully filled profile should be complete")
	}

	cases := []struct {
		name   string
		mutate func(*User)
	}{
		{"missing name", func(u *User) { u.FullName = "" }},
		{"missing birthday", func(u *User) { u.DateOfBirth = nil }},
		{"unspecified gender", func(u *User) { u.Gender = GenderNotSpecified }},
		{"missing bio", func(u *User) { u.Bio = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			copy := u
			tc.mutate(&copy)
			if copy.ProfileComplete() {
				t.Error("profile should be incomplete")
			}
		})
	}
}
