package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/regdesk/internal/masking"
	"github.com/Eursukkul/regdesk/internal/repository"
	"github.com/rs/zerolog"
)

// UnknownIP is used when no client address can be resolved. It is never throttled.
const UnknownIP = "unknown"

const duplicateTrxWarning = "This transaction ID has been used in a previous registration. Your registration will be flagged for review."

type throttle struct {
	regs   repository.RegistrationRepository
	max    int
	window time.Duration
}

// check counts prior registrations from ip inside the trailing window.
func (t throttle) check(ctx context.Context, ip string, now time.Time) error {
	if ip == "" || ip == UnknownIP || t.max <= 0 {
		return nil
	}
	count, err := t.regs.CountByIPSince(ctx, ip, now.Add(-t.window))
	if err != nil {
		return fmt.Errorf("count registrations by ip: %w", err)
	}
	if count >= int64(t.max) {
		return rateLimited(t.window)
	}
	return nil
}

type duplicateDetector struct {
	regs repository.RegistrationRepository
	log  zerolog.Logger
}

// check returns a warning when trxID was already used by any registration.
// It never fails the caller; lookup errors are logged and yield no warning.
func (d duplicateDetector) check(ctx context.Context, trxID *string) string {
	trx := strings.TrimSpace(deref(trxID))
	if trx == "" {
		return ""
	}
	exists, err := d.regs.ExistsByTransactionID(ctx, trx)
	if err != nil {
		d.log.Warn().Err(err).Msg("duplicate transaction lookup failed")
		return ""
	}
	if !exists {
		return ""
	}
	d.log.Warn().Str("transaction_id", masking.TransactionID(trx)).Msg("transaction id reused")
	return duplicateTrxWarning
}
