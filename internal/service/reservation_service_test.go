package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"
	"github.com/KeshavDaBoss/smartparkv5/internal/service"
)

func TestBookThenQueryRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.bookings.Book(ctx, "M1-L1-S1", "user1", tomorrow); err != nil {
		t.Fatalf("Book: %v", err)
	}

	if v := f.status(t, "M1-L1-S1", tomorrow, "user1"); v.Status != domain.StatusBooked || !v.IsMyBooking {
		t.Fatalf("owner view = %s/%v", v.Status, v.IsMyBooking)
	}
	if v := f.status(t, "M1-L1-S1", tomorrow, "user3"); v.Status != domain.StatusBooked || v.IsMyBooking {
		t.Fatalf("other user view = %s/%v", v.Status, v.IsMyBooking)
	}
	if v := f.status(t, "M1-L1-S1", today, "user1"); v.Status != domain.StatusFree {
		t.Fatalf("booking must not leak to other dates, got %s", v.Status)
	}

	d := tomorrow
	if _, err := f.bookings.Cancel(ctx, "M1-L1-S1", "user1", &d); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if v := f.status(t, "M1-L1-S1", tomorrow, "user1"); v.Status != domain.StatusFree || v.IsMyBooking {
		t.Fatalf("after cancel = %s/%v", v.Status, v.IsMyBooking)
	}

	got := f.events.types()
	if len(got) != 2 || got[0] != "booked" || got[1] != "cancelled" {
		t.Fatalf("events = %v", got)
	}
}

func TestDoubleBookingConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.bookings.Book(ctx, "M1-L2-S5", "user1", tomorrow); err != nil {
		t.Fatal(err)
	}
	_, err := f.bookings.Book(ctx, "M1-L2-S5", "user3", tomorrow)
	if !errors.Is(err, repository.ErrDuplicateEntry) {
		t.Fatalf("err = %v, want ErrDuplicateEntry", err)
	}
	all, _ := f.ledger.FindByDate(ctx, tomorrow)
	if len(all) != 1 || all[0].UserID != "user1" {
		t.Fatalf("ledger = %+v", all)
	}
}

func TestBookValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		slot    string
		user    string
		wantErr error
	}{
		{"unknown slot", "M9-L9-S9", "user1", repository.ErrNotFound},
		{"unknown user", "M1-L1-S1", "ghost", repository.ErrNotFound},
		{"disabled slot, normal user", "M1-L1-S3", "user1", service.ErrEligibilityDenied},
		{"disabled slot, elderly user", "M1-L1-S3", "user3", service.ErrEligibilityDenied},
		{"elderly slot, normal user", "M1-L1-S4", "user1", service.ErrEligibilityDenied},
		{"disabled slot, disabled user", "M1-L1-S3", "user2", nil},
		{"elderly slot, elderly user", "M1-L1-S4", "user3", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bookings.Book(ctx, tt.slot, tt.user, tomorrow)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Từ chối thì không ghi gì vào ledger
	if b, _ := f.bookings.FindForDate(ctx, "M1-L1-S1", tomorrow); b != nil {
		t.Fatalf("rejected booking was stored: %+v", b)
	}
}

func TestBookingTodayDrivesIndicator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.bookings.Book(ctx, "M1-L1-S1", "user1", today); err != nil {
		t.Fatal(err)
	}
	if active, known := f.leds.State("M1-L1-S1"); !known || !active {
		t.Fatalf("LED after booking today = %v/%v, want on", active, known)
	}
	reserved, _ := f.bookings.IsReservedToday(ctx, "M1-L1-S1")
	if !reserved {
		t.Fatalf("IsReservedToday = false")
	}

	if _, err := f.bookings.Cancel(ctx, "M1-L1-S1", "user1", nil); err != nil {
		t.Fatal(err)
	}
	if active, _ := f.leds.State("M1-L1-S1"); active {
		t.Fatalf("LED still on after cancel")
	}
}

func TestCancelErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.bookings.Cancel(ctx, "", "user1", nil); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("missing slot: %v", err)
	}
	if _, err := f.bookings.Cancel(ctx, "M1-L1-S1", "user1", nil); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("nothing to cancel: %v", err)
	}

	if _, err := f.bookings.Book(ctx, "M1-L1-S1", "user1", tomorrow); err != nil {
		t.Fatal(err)
	}
	d := tomorrow
	if _, err := f.bookings.Cancel(ctx, "M1-L1-S1", "user3", &d); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("cancelling another user's booking: %v", err)
	}
}

func TestCancelWithoutDateRemovesEarliest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	later := today.AddDays(5)

	for _, d := range []domain.Date{later, tomorrow} {
		if _, err := f.bookings.Book(ctx, "M2-L1-S2", "user1", d); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := f.bookings.Cancel(ctx, "M2-L1-S2", "user1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if removed.BookingDate != tomorrow {
		t.Fatalf("removed %s, want %s", removed.BookingDate, tomorrow)
	}
	if v := f.status(t, "M2-L1-S2", later, ""); v.Status != domain.StatusBooked {
		t.Fatalf("later booking should remain, got %s", v.Status)
	}
}

func TestListSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.bookings.Book(ctx, "M2-L1-S3", "user1", today); err != nil {
		t.Fatal(err)
	}

	all, err := f.bookings.ListSlots(ctx, today, "user1", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 12 {
		t.Fatalf("got %d slots, want 12", len(all))
	}
	if all[0].ID != "M1-L1-S1" {
		t.Fatalf("first slot = %s", all[0].ID)
	}

	mall2, _ := f.bookings.ListSlots(ctx, today, "user1", "mall2")
	if len(mall2) != 4 {
		t.Fatalf("mall2 slots = %d", len(mall2))
	}
	for _, v := range mall2 {
		wantBooked := v.ID == "M2-L1-S3"
		if (v.Status == domain.StatusBooked) != wantBooked || v.IsMyBooking != wantBooked {
			t.Errorf("%s = %s/%v", v.ID, v.Status, v.IsMyBooking)
		}
	}
}

func TestListUserReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.bookings.ListUserReservations(ctx, "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("unknown user: %v", err)
	}
	f.bookings.Book(ctx, "M1-L2-S6", "user1", tomorrow)
	f.bookings.Book(ctx, "M1-L2-S7", "user1", today)

	got, err := f.bookings.ListUserReservations(ctx, "user1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].SlotID != "M1-L2-S7" {
		t.Fatalf("reservations = %+v", got)
	}
}
