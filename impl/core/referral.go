package core

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"tutorbot/entity"
	"tutorbot/internal/settings"
	"tutorbot/lib/sl"
)

var referralToken = regexp.MustCompile(`^ref_(\d+)$`)

// ParseReferralToken extracts the referrer id from a start payload of the
// form ref_<id>. A malformed payload is ignored, not an error.
func ParseReferralToken(payload string) (int64, bool) {
	match := referralToken.FindStringSubmatch(payload)
	if match == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ReferralLink builds the share link a user hands to friends.
func (c *Core) ReferralLink(botUsername string, userId int64) string {
	return fmt.Sprintf("https://t.me/%s?start=ref_%d", botUsername, userId)
}

// RecordReferral credits a referrer for bringing in a new user. Silently a
// no-op on self-referral or when either record does not exist; crediting
// the same pair twice is absorbed by the credit marker, so a redelivered
// start event cannot double-pay.
func (c *Core) RecordReferral(refereeId, referrerId int64) error {
	if refereeId == referrerId {
		c.log.Debug("self-referral ignored", sl.Chat(refereeId))
		return nil
	}
	if _, err := c.db.GetUser(refereeId); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			c.log.Debug("referral for unknown referee", sl.Chat(refereeId))
			return nil
		}
		return err
	}
	if _, err := c.db.GetUser(referrerId); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			c.log.Debug("referral token for unknown referrer",
				sl.Chat(refereeId), slog.Int64("referrer", referrerId))
			return nil
		}
		return err
	}

	reward := c.settings.Int(settings.KeyReferralReward)
	err := c.db.CreditReferral(referrerId, refereeId, reward)
	if errors.Is(err, entity.ErrAlreadyCredited) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = c.db.SetReferrer(refereeId, strconv.FormatInt(referrerId, 10)); err != nil {
		return err
	}
	c.log.Info("referral credited",
		slog.Int64("referrer", referrerId),
		slog.Int64("referee", refereeId),
		slog.Int64("reward", reward))
	return nil
}

// Referrals lists the users a referrer has brought in.
func (c *Core) Referrals(referrerId int64) ([]*entity.User, error) {
	return c.db.UserReferrals(strconv.FormatInt(referrerId, 10))
}

// Leaderboard returns the top referrers, best first. Users with zero
// referrals are excluded.
func (c *Core) Leaderboard(limit int64) ([]*entity.User, error) {
	if limit <= 0 {
		limit = 10
	}
	return c.db.TopReferrers(limit)
}
