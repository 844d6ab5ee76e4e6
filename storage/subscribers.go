package storage

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"market-scout/models"
)

const (
	DefaultSubscriptionDays = 30
	MaxSubscriptionDays     = 365
)

var (
	ErrEmptyEmail  = errors.New("email is required")
	ErrInvalidDays = fmt.Errorf("subscription length must be between 1 and %d days", MaxSubscriptionDays)
)

// Access is the result of a subscriber lookup.
type Access struct {
	Active bool `json:"active"`
	// DaysRemaining is nil for unknown emails. It is negative once a subscription lapsed.
	DaysRemaining *int `json:"days_remaining"`
}

// SubscriberStore keeps subscribers in subscribers.csv, one row per email.
type SubscriberStore struct {
	table *csvTable
}

func NewSubscriberStore(dir string) *SubscriberStore {
	return &SubscriberStore{
		table: newCSVTable(filepath.Join(dir, SubscribersFile), SubscribersHeader...),
	}
}

// AddOrRenew starts a subscription of days days at now, replacing any previous dates for
// the same email.
func (s *SubscriberStore) AddOrRenew(email string, days int, now time.Time) (models.Subscriber, error) {
	email = normalizeEmail(email)
	if email == "" {
		return models.Subscriber{}, ErrEmptyEmail
	}
	if days < 1 || days > MaxSubscriptionDays {
		return models.Subscriber{}, ErrInvalidDays
	}

	sub := models.Subscriber{
		Email:      email,
		StartDate:  now.UTC(),
		ExpiryDate: now.UTC().Add(time.Duration(days) * 24 * time.Hour),
	}
	row := subscriberRow(sub)

	err := s.table.update(func(rows [][]string) ([][]string, error) {
		for i, r := range rows {
			if len(r) > 0 && normalizeEmail(r[0]) == email {
				rows[i] = row
				return rows, nil
			}
		}
		return append(rows, row), nil
	})
	if err != nil {
		return models.Subscriber{}, err
	}
	return sub, nil
}

// List returns every subscriber in file order.
func (s *SubscriberStore) List() ([]models.Subscriber, error) {
	rows, err := s.table.rows()
	if err != nil {
		return nil, err
	}
	out := make([]models.Subscriber, 0, len(rows))
	for _, r := range rows {
		if len(r) < 3 {
			continue
		}
		out = append(out, models.Subscriber{Email: r[0], StartDate: parseTime(r[1]), ExpiryDate: parseTime(r[2])})
	}
	return out, nil
}

// CheckAccess reports whether email has a subscription that has not expired at now.
func (s *SubscriberStore) CheckAccess(email string, now time.Time) (Access, error) {
	email = normalizeEmail(email)
	if email == "" {
		return Access{}, nil
	}
	subs, err := s.List()
	if err != nil {
		return Access{}, err
	}
	for _, sub := range subs {
		if normalizeEmail(sub.Email) == email {
			return AccessFor(sub, now), nil
		}
	}
	return Access{}, nil
}

// AccessFor evaluates one subscriber at now. Days remaining are whole days, rounded down.
func AccessFor(sub models.Subscriber, now time.Time) Access {
	left := sub.ExpiryDate.Sub(now)
	days := int(math.Floor(left.Hours() / 24))
	return Access{Active: !sub.ExpiryDate.Before(now), DaysRemaining: &days}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
