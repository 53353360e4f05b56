package core

import "tutorbot/entity"

// Stats is an aggregate snapshot of the student base for the admin
// dashboard and the ops API.
type Stats struct {
	Total           int   `json:"total"`
	Verified        int   `json:"verified"`
	PendingApproval int   `json:"pending_approval"`
	InRegistration  int   `json:"in_registration"`
	Blocked         int   `json:"blocked"`
	NaturalScience  int   `json:"natural_science"`
	SocialScience   int   `json:"social_science"`
	TotalReferrals  int64 `json:"total_referrals"`
	OutstandingETB  int64 `json:"outstanding_rewards_etb"`
}

// StudentStats aggregates over all users in one pass.
func (c *Core) StudentStats() (*Stats, error) {
	users, err := c.db.AllUsers()
	if err != nil {
		return nil, err
	}
	stats := &Stats{Total: len(users)}
	for _, user := range users {
		if user.IsVerified {
			stats.Verified++
		}
		if user.PaymentStatus == entity.PaymentPendingApproval {
			stats.PendingApproval++
		}
		if user.InRegistration() {
			stats.InRegistration++
		}
		if user.Blocked {
			stats.Blocked++
		}
		switch user.StudentType {
		case entity.StudentNatural:
			stats.NaturalScience++
		case entity.StudentSocial:
			stats.SocialScience++
		}
		stats.TotalReferrals += user.ReferralCount
		stats.OutstandingETB += user.Rewards
	}
	return stats, nil
}
