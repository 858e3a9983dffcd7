package notifier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifyTokenReuse_Success(t *testing.T) {
	var received WebhookNotify
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&received))
	}))
	defer server.Close()

	assert.NoError(t, NotifyTokenReuse(server.URL, time.Second, "user-id"))
	assert.Equal(t, "user-id", received.UserUUID)
	assert.Equal(t, "refresh_token_reuse_detected", received.Event)
}

func TestNotifyTokenReuse_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	// зависший приемник не должен держать отправителя дольше таймаута
	err := NotifyTokenReuse(server.URL, 20*time.Millisecond, "user-id")
	assert.Error(t, err)
}
