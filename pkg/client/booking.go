package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"roomly/pkg/model"
)

// BookingClient calls the roomly API as one authenticated user.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL, token string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL, token),
	}
}

func (c *BookingClient) HTTP() *HttpClient {
	return c.httpClient
}

func (c *BookingClient) Me(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/me")
}

func (c *BookingClient) Rooms(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/rooms")
}

func (c *BookingClient) Availability(ctx context.Context, roomID, date string) (*Response, error) {
	path := fmt.Sprintf("/api/v1/rooms/%s/slots?date=%s", url.PathEscape(roomID), url.QueryEscape(date))
	return c.httpClient.GET(ctx, path)
}

// Submit books slots. A non-empty idempotencyKey makes retries safe.
func (c *BookingClient) Submit(ctx context.Context, req model.BookingRequest, idempotencyKey string) (*Response, error) {
	if idempotencyKey == "" {
		return c.httpClient.POST(ctx, "/api/v1/bookings", req)
	}
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/bookings", req, map[string]string{
		"Idempotency-Key": idempotencyKey,
	})
}

func (c *BookingClient) SubmitRaw(ctx context.Context, rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw(ctx, "/api/v1/bookings", rawBody)
}

func (c *BookingClient) Cancel(ctx context.Context, req model.CancelRequest) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/cancel", req)
}

// UserBookings lists a user's ledger; month may be "all".
func (c *BookingClient) UserBookings(ctx context.Context, userID, month string) (*Response, error) {
	q := url.Values{}
	if month != "" {
		q.Set("month", month)
	}
	return c.httpClient.GET(ctx, "/api/v1/users/"+url.PathEscape(userID)+"/bookings?"+q.Encode())
}

func (c *BookingClient) MonthBookings(ctx context.Context, roomID, month string) (*Response, error) {
	q := url.Values{}
	q.Set("month", month)
	if roomID != "" {
		q.Set("room_id", roomID)
	}
	return c.httpClient.GET(ctx, "/api/v1/bookings/month?"+q.Encode())
}

func (c *BookingClient) SetOpenSetting(ctx context.Context, roomID, date string, morning, afternoon, evening bool) (*Response, error) {
	path := fmt.Sprintf("/api/v1/rooms/%s/open-settings/%s", url.PathEscape(roomID), url.PathEscape(date))
	return c.httpClient.PUT(ctx, path, model.OpenSettingUpdate{
		Morning:   &morning,
		Afternoon: &afternoon,
		Evening:   &evening,
	})
}

func (c *BookingClient) Deposit(ctx context.Context, userID string, amount int64) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/users/"+url.PathEscape(userID)+"/deposit", model.DepositRequest{Amount: amount})
}

func (c *BookingClient) CancelRecords(ctx context.Context, limit int) (*Response, error) {
	path := "/api/v1/cancel-records"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	return c.httpClient.GET(ctx, path)
}

func (c *BookingClient) RevenueReport(ctx context.Context, month, roomID string) (*Response, error) {
	q := url.Values{}
	q.Set("month", month)
	if roomID != "" {
		q.Set("room_id", roomID)
	}
	return c.httpClient.GET(ctx, "/api/v1/revenue/report?"+q.Encode())
}

func (c *BookingClient) DecodeBookingResult(resp *Response) (*model.BookingResult, error) {
	var result model.BookingResult
	if err := resp.DecodeData(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *BookingClient) DecodeUser(resp *Response) (*model.User, error) {
	var user model.User
	if err := resp.DecodeData(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DecodeRecords unwraps a {"data": [...], "count": n} list response.
func (c *BookingClient) DecodeRecords(resp *Response) ([]model.BookingRecord, int, error) {
	var wrapper struct {
		Data  []model.BookingRecord `json:"data"`
		Count int                   `json:"count"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, 0, fmt.Errorf("could not decode list response: %w (%s)", err, resp.ToString())
	}
	return wrapper.Data, wrapper.Count, nil
}
