package payout

import (
	"context"
	"fmt"
	"math"
	"time"

	"banglabnb/models"
	"banglabnb/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fee rates deducted from the gross amount before a payout.
const (
	guestFeeRate = 0.10
	hostFeeRate  = 0.05
	vatRate      = 0.15 // VAT charged on the fees, not the gross
)

// computeFees splits the guest's gross payment into the host's net amount
// and the platform's deductions.
func computeFees(gross float64) (net, guestFee, hostFee, vat float64) {
	guestFee = math.Round(gross * guestFeeRate)
	hostFee = math.Round(gross * hostFeeRate)
	vat = math.Round((guestFee + hostFee) * vatRate)
	net = gross - guestFee - hostFee - vat
	return net, guestFee, hostFee, vat
}

// ProcessDue issues payouts for every paid booking whose check-in is older
// than the hold window and that has not been paid out yet. The booking is
// flagged payout-issued as soon as the payout record exists, so a crashed or
// re-run scan never issues the same booking twice.
func (svc *DefaultPayoutService) ProcessDue(ctx context.Context) (int, error) {
	hold := time.Duration(svc.HoldHours) * time.Hour
	if hold <= 0 {
		hold = 24 * time.Hour
	}
	cutoff := svc.now().Add(-hold)

	due, err := svc.Bookings.ListPayoutEligible(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to scan for due payouts: %w", err)
	}

	issued := 0
	for i := range due {
		if err := svc.issue(ctx, &due[i]); err != nil {
			utils.GetLogger().Error("payout failed",
				zap.String("bookingID", due[i].ID), zap.Error(err))
			continue
		}
		issued++
	}
	return issued, nil
}

// issue creates and disburses one payout for a booking.
func (svc *DefaultPayoutService) issue(ctx context.Context, booking *models.Booking) error {
	listing, err := svc.Listings.GetByID(ctx, booking.ListingID)
	if err != nil {
		return fmt.Errorf("listing %s not found for booking %s: %w", booking.ListingID, booking.ID, err)
	}

	net, guestFee, hostFee, vat := computeFees(booking.PaidAmount)
	now := svc.now()
	payout := &models.Payout{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		HostID:    listing.HostID,
		Amount:    net,
		GuestFee:  guestFee,
		HostFee:   hostFee,
		VAT:       vat,
		Method:    "bank",
		Status:    models.PayoutPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.Payouts.Create(ctx, payout); err != nil {
		return fmt.Errorf("failed to create payout record: %w", err)
	}
	// Flag the booking before disbursing: a failed transfer is retried from
	// the payout record, never by re-scanning the booking.
	if err := svc.Bookings.MarkPayoutIssued(ctx, booking.ID); err != nil {
		return fmt.Errorf("failed to flag booking %s: %w", booking.ID, err)
	}

	if err := svc.Disburse.Disburse(ctx, payout.ID, payout.HostID, payout.Amount, payout.Method); err != nil {
		if ferr := svc.Payouts.MarkFailed(ctx, payout.ID, err.Error()); ferr != nil {
			utils.GetLogger().Error("failed to record payout failure",
				zap.String("payoutID", payout.ID), zap.Error(ferr))
		}
		return err
	}
	if err := svc.Payouts.MarkPaid(ctx, payout.ID, svc.now()); err != nil {
		return fmt.Errorf("failed to mark payout paid: %w", err)
	}

	if svc.Notifier != nil {
		if err := svc.Notifier.Notify(ctx, payout.HostID, "payout_issued",
			fmt.Sprintf("A payout of %.2f BDT for %s is on its way.", payout.Amount, listing.Title),
			map[string]string{"payout_id": payout.ID, "booking_id": booking.ID}); err != nil {
			utils.GetLogger().Warn("payout notification failed",
				zap.String("hostID", payout.HostID), zap.Error(err))
		}
	}
	return nil
}

// ListHostPayouts returns the host's payout history.
func (svc *DefaultPayoutService) ListHostPayouts(ctx context.Context, hostID string) ([]models.Payout, error) {
	return svc.Payouts.ListByHost(ctx, hostID)
}
