package entity

import "time"

// ReferralCredit is the at-most-once marker backing a referral reward.
// One document exists per (referrer, referee) pair, enforced by a unique
// index; inserting it is the guard that makes the reward increment
// exactly-once under duplicate delivery of the same start event.
type ReferralCredit struct {
	ReferrerId int64     `json:"referrer_id" bson:"referrer_id"`
	RefereeId  int64     `json:"referee_id" bson:"referee_id"`
	Reward     int64     `json:"reward" bson:"reward"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
