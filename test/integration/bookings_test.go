//go:build integration

package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"roomly/pkg/client"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"roomly/test/common"
)

const (
	pianoRoom  = "general-piano-room"
	studioRoom = "standard-recording-studio"
)

func studioTime(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return loc
}

func TestBookingLifecycle(t *testing.T) {
	suite := common.NewIntegrationTestSuite(t)
	defer suite.Teardown(t)
	ctx := context.Background()
	date := common.FutureDate(3, studioTime(t))

	alice, aliceID := suite.ClientFor(t, "alice@example.com", "Alice")
	admin, adminID := suite.ClientFor(t, "owner@example.com", "Owner")

	resp, err := alice.Me(ctx)
	common.RequireStatus(t, resp, err, http.StatusOK)
	me, err := alice.DecodeUser(resp)
	if err != nil {
		t.Fatal(err)
	}
	startBalance := me.Balance

	resp, err = admin.Me(ctx)
	common.RequireStatus(t, resp, err, http.StatusOK)
	suite.MakeAdmin(t, adminID)

	resp, err = admin.Deposit(ctx, aliceID, 1000)
	common.RequireStatus(t, resp, err, http.StatusOK)

	resp, err = alice.Submit(ctx, model.BookingRequest{
		RoomID: pianoRoom,
		Date:   date,
		Slots:  []string{"10:00", "10:30"},
	}, "lifecycle-1")
	common.RequireStatus(t, resp, err, http.StatusCreated)
	booked, err := alice.DecodeBookingResult(resp)
	if err != nil {
		t.Fatal(err)
	}
	if booked.TotalCost != 200 || booked.Balance != startBalance+1000-200 {
		t.Errorf("unexpected booking result %+v", booked)
	}

	t.Run("idempotent retry replays the response", func(t *testing.T) {
		resp, err := alice.Submit(ctx, model.BookingRequest{
			RoomID: pianoRoom,
			Date:   date,
			Slots:  []string{"10:00", "10:30"},
		}, "lifecycle-1")
		common.RequireStatus(t, resp, err, http.StatusCreated)
		if resp.Header.Get("Idempotent-Replay") != "true" {
			t.Errorf("expected a replayed response: %s", resp.ToString())
		}
	})

	t.Run("overlapping booking is rejected whole", func(t *testing.T) {
		resp, err := alice.Submit(ctx, model.BookingRequest{
			RoomID: pianoRoom,
			Date:   date,
			Slots:  []string{"09:30", "10:00"},
		}, "")
		common.RequireStatus(t, resp, err, http.StatusConflict)
		common.RequireCode(t, resp, apperrors.CodeSlotConflict)

		resp, err = alice.Availability(ctx, pianoRoom, date)
		common.RequireStatus(t, resp, err, http.StatusOK)
		var day model.DayAvailability
		if err := resp.DecodeData(&day); err != nil {
			t.Fatal(err)
		}
		if len(day.Bookings) != 2 {
			t.Errorf("day has %d bookings, want 2", len(day.Bookings))
		}
	})

	t.Run("closed category", func(t *testing.T) {
		resp, err := alice.SetOpenSetting(ctx, studioRoom, date, true, true, false)
		common.RequireStatus(t, resp, err, http.StatusForbidden)

		resp, err = admin.SetOpenSetting(ctx, studioRoom, date, true, true, false)
		common.RequireStatus(t, resp, err, http.StatusOK)

		resp, err = alice.Submit(ctx, model.BookingRequest{RoomID: studioRoom, Date: date, Slots: []string{"19:00"}}, "")
		common.RequireStatus(t, resp, err, http.StatusConflict)
		common.RequireCode(t, resp, apperrors.CodeSlotClosed)
	})

	t.Run("cancel refunds and is audited", func(t *testing.T) {
		resp, err := alice.Cancel(ctx, model.CancelRequest{RoomID: pianoRoom, Date: date, StartTime: "10:00"})
		common.RequireStatus(t, resp, err, http.StatusOK)
		var res model.CancelResult
		if err := resp.DecodeData(&res); err != nil {
			t.Fatal(err)
		}
		if res.Refunded != 100 {
			t.Errorf("refunded = %d, want 100", res.Refunded)
		}

		resp, err = alice.UserBookings(ctx, aliceID, "all")
		common.RequireStatus(t, resp, err, http.StatusOK)
		records, count, err := alice.DecodeRecords(resp)
		if err != nil {
			t.Fatal(err)
		}
		if count != 1 || records[0].StartTime != "10:30" {
			t.Errorf("remaining bookings = %+v", records)
		}

		resp, err = admin.CancelRecords(ctx, 5)
		common.RequireStatus(t, resp, err, http.StatusOK)
		resp, err = alice.CancelRecords(ctx, 5)
		common.RequireStatus(t, resp, err, http.StatusForbidden)
	})

	t.Run("admin views", func(t *testing.T) {
		month := date[:7]
		resp, err := admin.MonthBookings(ctx, "", month)
		common.RequireStatus(t, resp, err, http.StatusOK)

		resp, err = admin.RevenueReport(ctx, month, pianoRoom)
		common.RequireStatus(t, resp, err, http.StatusOK)

		resp, err = alice.RevenueReport(ctx, month, "")
		common.RequireStatus(t, resp, err, http.StatusForbidden)
	})
}

func TestConcurrentBookingSameSlot(t *testing.T) {
	suite := common.NewIntegrationTestSuite(t)
	defer suite.Teardown(t)
	ctx := context.Background()
	date := common.FutureDate(5, studioTime(t))

	const racers = 8
	clients := make([]*client.BookingClient, racers)
	for i := range clients {
		c, _ := suite.ClientFor(t, "racer"+string(rune('a'+i))+"@example.com", "")
		resp, err := c.Me(ctx)
		common.RequireStatus(t, resp, err, http.StatusOK)
		clients[i] = c
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)
	for _, c := range clients {
		wg.Add(1)
		go func(c *client.BookingClient) {
			defer wg.Done()
			resp, err := c.Submit(ctx, model.BookingRequest{RoomID: pianoRoom, Date: date, Slots: []string{"15:00"}}, "")
			if err != nil {
				t.Errorf("request failed: %v", err)
				return
			}
			mu.Lock()
			statuses[resp.StatusCode]++
			mu.Unlock()
		}(c)
	}
	wg.Wait()

	if statuses[http.StatusCreated] != 1 || statuses[http.StatusConflict] != racers-1 {
		t.Errorf("statuses = %v, want exactly one 201", statuses)
	}
}

func TestRejectsUnauthenticated(t *testing.T) {
	suite := common.NewIntegrationTestSuite(t)
	defer suite.Teardown(t)

	anon := client.NewBookingClient(suite.ServerURL, "")
	resp, err := anon.Rooms(context.Background())
	common.RequireStatus(t, resp, err, http.StatusUnauthorized)
}
