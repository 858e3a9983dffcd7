package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// WebhookNotify — сигнал о повторном использовании уже ротированного
// refresh токена (возможная кража токена)
type WebhookNotify struct {
	UserUUID  string
	Event     string
	TimeStamp string
}

// NotifyTokenReuse отправляет webhook, ожидание ответа ограничено таймаутом
func NotifyTokenReuse(webhookURL string, timeout time.Duration, userUUID string) error {
	payload := &WebhookNotify{
		UserUUID:  userUUID,
		Event:     "refresh_token_reuse_detected",
		TimeStamp: time.Now().Format(time.RFC3339),
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка преобразования в json: %w", err)
	}

	client := &http.Client{Timeout: timeout}
	response, err := client.Post(webhookURL, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("ошибка отправки webhook: %w", err)
	}
	defer response.Body.Close()

	log.Print("webhook успешно отправлен")
	return nil
}
