package httpdto

import "messenger-fixtures/internal/faker"

// GenerateFixtureRequest is used for POST /v1/fixtures. Omitted sizes fall back
// to the configured defaults; omitted starts are 0. Sizes are capped so one
// request yields at most a few hundred thousand messages.
type GenerateFixtureRequest struct {
	Name                    string  `json:"name" binding:"max=128"`
	Contacts                *int    `json:"contacts" binding:"omitempty,min=0,max=5000"`
	ContactsStart           int     `json:"contactsStart" binding:"min=0,max=1000000000"`
	MultiMember             *int    `json:"multiMember" binding:"omitempty,min=0,max=1000"`
	MultiMemberStart        int     `json:"multiMemberStart" binding:"min=0,max=1000000000"`
	MessagesPerConversation *int    `json:"messagesPerConversation" binding:"omitempty,min=0,max=100"`
	MessagesStart           int     `json:"messagesStart" binding:"min=0,max=1000000000"`
	Seed                    *uint64 `json:"seed"`
}

// FixtureResponse is returned by the fixture endpoints.
type FixtureResponse struct {
	Name   string            `json:"name"`
	Counts faker.BatchCounts `json:"counts"`
	Batch  *faker.Batch      `json:"batch"`
}

// PersistResponse is returned by POST /v1/fixtures/:name/persist
type PersistResponse struct {
	Name     string            `json:"name"`
	Inserted faker.BatchCounts `json:"inserted"`
}

// SnapshotResponse is returned by POST /v1/fixtures/:name/snapshot
type SnapshotResponse struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}
