package model

import "time"

// BookingLock is an advisory lock document. Inserting it claims the lock
// (the unique _id turns a second claim into a duplicate-key error), deleting
// it releases the lock, and ExpiresAt lets a TTL index reap locks abandoned
// by a crashed process.
//
// Two lock families share this shape: per-accommodation locks that serialize
// the availability check against the insert, and the sweep lock that keeps
// expiration runs from overlapping.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
