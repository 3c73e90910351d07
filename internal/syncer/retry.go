package syncer

import (
	"time"

	"fieldsync/internal/models"
)

// RetryPolicy bounds photo upload retries. After a failure the photo waits
// BaseDelay*2^(n-1), capped at MaxDelay, before its next attempt; once it
// has failed MaxRetries times it is abandoned.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 5,
		BaseDelay:  30 * time.Second,
		MaxDelay:   30 * time.Minute,
	}
}

// Backoff is the wait after the retryCount-th failure.
func (p RetryPolicy) Backoff(retryCount int) time.Duration {
	if retryCount <= 0 || p.BaseDelay <= 0 {
		return 0
	}

	delay := p.BaseDelay
	for i := 1; i < retryCount; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Due reports whether photo may be attempted at now.
func (p RetryPolicy) Due(photo models.StoredPhoto, now time.Time) bool {
	if photo.Status != models.PhotoFailed || photo.LastAttempt == nil {
		return true
	}
	return !now.Before(photo.LastAttempt.Add(p.Backoff(photo.RetryCount)))
}

// Exhausted reports whether retryCount failures use up the budget.
func (p RetryPolicy) Exhausted(retryCount int) bool {
	return p.MaxRetries > 0 && retryCount >= p.MaxRetries
}
