package sms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/novelnest/novelnest-server/internal/mocks"
	"github.com/novelnest/novelnest-server/internal/testutil"
)

func TestVerificationMessage(t *testing.T) {
	assert.Equal(t,
		"Your NovelNest verification code is: 123456. Do not share this with anyone.",
		VerificationMessage("123456"))
}

func TestIdeamartClient_Send(t *testing.T) {
	var got ideamartRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"statusCode":"S1000","statusDetail":"Success","requestId":"r-1"}`))
	}))
	defer srv.Close()

	c := NewIdeamartClient(IdeamartConfig{
		URL: srv.URL, ApplicationID: "APP_1", Password: "secret", SourceAddress: "77000",
	}, testutil.MakeNoopLogger())

	err := c.Send(context.Background(), "+94771234567", "hello")
	require.NoError(t, err)
	assert.Equal(t, ideamartRequest{
		ApplicationID:        "APP_1",
		Password:             "secret",
		Message:              "hello",
		DestinationAddresses: []string{"tel:94771234567"},
		SourceAddress:        "77000",
	}, got)
}

func TestIdeamartClient_SendFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus string
	}{
		{name: "http error", status: http.StatusInternalServerError, body: "boom"},
		{name: "gateway rejects", status: http.StatusOK, body: `{"statusCode":"E1325","statusDetail":"Invalid format"}`, wantStatus: "E1325"},
		{name: "undecodable body", status: http.StatusOK, body: "<html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewIdeamartClient(IdeamartConfig{URL: srv.URL}, testutil.MakeNoopLogger())
			err := c.Send(context.Background(), "+94771234567", "hello")

			var smsErr *Error
			require.ErrorAs(t, err, &smsErr)
			assert.Equal(t, tt.status, smsErr.HTTPStatus)
			assert.Equal(t, tt.wantStatus, smsErr.StatusCode)
		})
	}
}

func TestIdeamartClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"statusCode":"S1000"}`))
	}))
	defer srv.Close()

	c := NewIdeamartClient(IdeamartConfig{URL: srv.URL, Timeout: 20 * time.Millisecond}, testutil.MakeNoopLogger())
	err := c.Send(context.Background(), "+94771234567", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call sms gateway")
}

func TestNewIdeamartClient_Defaults(t *testing.T) {
	c := NewIdeamartClient(IdeamartConfig{}, testutil.MakeNoopLogger())
	assert.Equal(t, DefaultIdeamartURL, c.cfg.URL)
	assert.Equal(t, defaultTimeout, c.client.Timeout)
}

func TestSimulatedDispatcher_WithoutOutbox(t *testing.T) {
	d := NewSimulatedDispatcher(testutil.MakeNoopLogger(), nil)
	assert.NoError(t, d.Send(context.Background(), "+94771234567", "hello"))
}

func TestSimulatedDispatcher_WritesOutbox(t *testing.T) {
	ctx := context.Background()
	storage := &mocks.Storage{}
	sentAt := time.Date(2025, 3, 1, 10, 0, 0, 5, time.UTC)

	outbox := NewOutbox(storage)
	outbox.now = func() time.Time { return sentAt }

	storage.On("Put", ctx, "+94771234567/1740823200000000005.json", mock.Anything, "application/json").Return(nil).Once()
	storage.On("Put", ctx, "+94771234567/latest.json", mock.Anything, "application/json").Return(nil).Once()

	d := NewSimulatedDispatcher(testutil.MakeNoopLogger(), outbox)
	require.NoError(t, d.Send(ctx, "+94771234567", "code 123456"))
	storage.AssertExpectations(t)

	data := storage.Calls[1].Arguments.Get(2).([]byte)
	var msg OutboxMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, OutboxMessage{MobileNumber: "+94771234567", Text: "code 123456", SentAt: sentAt}, msg)
}

func TestSimulatedDispatcher_OutboxFailureIgnored(t *testing.T) {
	ctx := context.Background()
	storage := &mocks.Storage{}
	storage.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("down")).Once()

	d := NewSimulatedDispatcher(testutil.MakeNoopLogger(), NewOutbox(storage))
	assert.NoError(t, d.Send(ctx, "+94771234567", "hello"))
}
