// Файл: internal/services/notification_service.go
package services

import (
	"context"

	"go.uber.org/zap"
)

type NotificationServiceInterface interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// mockNotificationService пишет письма в лог вместо отправки.
type mockNotificationService struct {
	logger *zap.Logger
}

func NewMockNotificationService(logger *zap.Logger) NotificationServiceInterface {
	return &mockNotificationService{logger: logger}
}

func (s *mockNotificationService) Send(ctx context.Context, recipients []string, subject, body string) error {
	s.logger.Info("!!! ИМИТАЦИЯ ОТПРАВКИ EMAIL !!!",
		zap.Strings("кому", recipients),
		zap.String("тема", subject),
		zap.String("текст", body),
	)
	return nil
}
