package service

import (
	"fmt"
	"time"

	"fritter/internal/models"
)

// FreetResponse is the externally visible shape of a freet. The internal
// author id is resolved to the author's username and dropped.
type FreetResponse struct {
	ID           uint   `json:"id"`
	Author       string `json:"author"`
	Content      string `json:"content"`
	DateCreated  string `json:"date_created"`
	DateModified string `json:"date_modified"`
	LikedBy      []uint `json:"liked_by"`
}

// UserResponse is the externally visible shape of a user together with its
// derived relationship sets. Credential fields are never included.
type UserResponse struct {
	ID           uint     `json:"id"`
	Username     string   `json:"username"`
	DateJoined   string   `json:"date_joined"`
	Followed     []string `json:"followed"`
	Followers    []string `json:"followers"`
	LikedFreets  []uint   `json:"liked_freets"`
	SharedFreets []uint   `json:"shared_freets"`
	PostedFreets []uint   `json:"posted_freets"`
}

// ordinal returns n with its English ordinal suffix (1st, 2nd, 3rd, 4th...).
func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
		// 11th, 12th, 13th
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// FormatDate encodes a date as an unambiguous display string, e.g.
// "September 1st 2026, 3:04:05 pm". Identical inputs always produce
// identical output.
func FormatDate(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "am"
	if t.Hour() >= 12 {
		meridiem = "pm"
	}
	return fmt.Sprintf("%s %s %d, %d:%02d:%02d %s",
		t.Month().String(),
		ordinal(t.Day()),
		t.Year(),
		hour, t.Minute(), t.Second(),
		meridiem,
	)
}

// ProjectFreet maps a freet (with resolved author) to its response shape.
// The source record is never mutated.
func ProjectFreet(freet *models.Freet) FreetResponse {
	likedBy := make([]uint, len(freet.LikedBy))
	copy(likedBy, freet.LikedBy)

	return FreetResponse{
		ID:           freet.ID,
		Author:       freet.Author.Username,
		Content:      freet.Content,
		DateCreated:  FormatDate(freet.DateCreated),
		DateModified: FormatDate(freet.DateModified),
		LikedBy:      likedBy,
	}
}

// ProjectFreets maps a slice of freets, preserving order.
func ProjectFreets(freets []*models.Freet) []FreetResponse {
	out := make([]FreetResponse, 0, len(freets))
	for _, f := range freets {
		out = append(out, ProjectFreet(f))
	}
	return out
}

// UserGraph carries the derived relationship sets for a user projection.
type UserGraph struct {
	Followed     []string
	Followers    []string
	LikedFreets  []uint
	SharedFreets []uint
	PostedFreets []uint
}

// ProjectUser maps a user and its derived graph sets to the response shape.
func ProjectUser(user *models.User, graph UserGraph) UserResponse {
	resp := UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		DateJoined:   FormatDate(user.CreatedAt),
		Followed:     graph.Followed,
		Followers:    graph.Followers,
		LikedFreets:  graph.LikedFreets,
		SharedFreets: graph.SharedFreets,
		PostedFreets: graph.PostedFreets,
	}
	if resp.Followed == nil {
		resp.Followed = []string{}
	}
	if resp.Followers == nil {
		resp.Followers = []string{}
	}
	if resp.LikedFreets == nil {
		resp.LikedFreets = []uint{}
	}
	if resp.SharedFreets == nil {
		resp.SharedFreets = []uint{}
	}
	if resp.PostedFreets == nil {
		resp.PostedFreets = []uint{}
	}
	return resp
}
