package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/logger"
	"github.com/ignatzorin/rental-backend/internal/metrics"
)

// Pusher доставляет payload подключённым клиентам пользователя.
type Pusher interface {
	Push(userID uuid.UUID, payload []byte)
}

// EmailSender отправляет письмо. Необязательный канал.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

var subjects = map[string]string{
	"application_submitted":    "Новая заявка на ваш объект",
	"application_under_review": "Ваша заявка на рассмотрении",
	"application_approved":     "Ваша заявка одобрена",
	"application_rejected":     "Ваша заявка отклонена",
}

// Dispatcher сохраняет уведомление и рассылает его по каналам.
// Сохранение в БД обязательно, остальные каналы работают по возможности.
type Dispatcher struct {
	repo   repository.NotificationRepository
	users  repository.UserRepository
	pusher Pusher
	email  EmailSender
	now    func() time.Time
	log    *logrus.Entry
}

func NewDispatcher(repo repository.NotificationRepository, users repository.UserRepository, pusher Pusher, email EmailSender) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		users:  users,
		pusher: pusher,
		email:  email,
		now:    func() time.Time { return time.Now().UTC() },
		log:    logger.WithComponent("notification"),
	}
}

func (d *Dispatcher) Notify(ctx context.Context, userID uuid.UUID, event string, data map[string]any) error {
	n, err := entity.NewNotification(userID, event, data, d.now())
	if err != nil {
		metrics.NotificationFailure("db")
		return err
	}

	if err := d.repo.Create(ctx, n); err != nil {
		metrics.NotificationFailure("db")
		return fmt.Errorf("notification: save: %w", err)
	}

	if d.pusher != nil {
		d.pusher.Push(userID, n.Payload)
	}

	if d.email != nil {
		d.sendEmail(ctx, userID, event, data)
	}
	return nil
}

func (d *Dispatcher) sendEmail(ctx context.Context, userID uuid.UUID, event string, data map[string]any) {
	user, err := d.users.FindByID(ctx, userID)
	if err != nil {
		metrics.NotificationFailure("email")
		d.log.WithFields(logrus.Fields{"user_id": userID, "error": err}).Warn("не удалось загрузить получателя письма")
		return
	}
	if user.Email == nil || *user.Email == "" {
		return
	}

	subject, ok := subjects[event]
	if !ok {
		subject = event
	}
	if err := d.email.Send(ctx, *user.Email, subject, emailBody(user.Name, event, data)); err != nil {
		metrics.NotificationFailure("email")
		d.log.WithFields(logrus.Fields{"user_id": userID, "event": event, "error": err}).Warn("не удалось отправить письмо")
	}
}

func emailBody(name, event string, data map[string]any) string {
	body := fmt.Sprintf("Здравствуйте, %s!\n\n", name)
	if title, ok := data["property_title"].(string); ok && title != "" {
		body += fmt.Sprintf("Объект: %s\n", title)
	}
	switch event {
	case "application_rejected":
		if reason, ok := data["reason"].(string); ok {
			body += fmt.Sprintf("Причина: %s\n", reason)
		}
	case "application_approved":
		body += "Арендодатель одобрил вашу заявку.\n"
	case "application_submitted":
		body += "Поступила новая заявка, откройте список заявок по объекту.\n"
	}
	if id, ok := data["application_id"]; ok {
		body += fmt.Sprintf("Заявка: %v\n", id)
	}
	return body
}
