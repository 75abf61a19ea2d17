package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cvsper/junkos-backend/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationJobBooked      NotificationType = "JOB_BOOKED"
	NotificationDriverAssigned NotificationType = "DRIVER_ASSIGNED"
	NotificationJobCompleted   NotificationType = "JOB_COMPLETED"
	NotificationJobCancelled   NotificationType = "JOB_CANCELLED"
	NotificationPayoutSent     NotificationType = "PAYOUT_SENT"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService delivers lifecycle notifications. Delivery is a logged
// stub until a push provider is wired in; callers treat it as fire-and-forget.
type NotificationService struct {
	log *logrus.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(log *logrus.Logger) *NotificationService {
	return &NotificationService{log: log}
}

// NotifyDriverAssigned tells the customer who is coming.
func (s *NotificationService) NotifyDriverAssigned(ctx context.Context, job *domain.Job) {
	s.send(ctx, Notification{
		Type:        NotificationDriverAssigned,
		RecipientID: job.CustomerID,
		Title:       "Driver Assigned",
		Message:     "A driver has been assigned to your pickup.",
		Data: map[string]interface{}{
			"job_id":    job.ID,
			"driver_id": job.DriverID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyJobCompleted tells the customer the pickup is done.
func (s *NotificationService) NotifyJobCompleted(ctx context.Context, job *domain.Job) {
	s.send(ctx, Notification{
		Type:        NotificationJobCompleted,
		RecipientID: job.CustomerID,
		Title:       "Pickup Complete",
		Message:     fmt.Sprintf("Your junk removal is complete. Total: $%.2f", job.PriceTotal),
		Data: map[string]interface{}{
			"job_id": job.ID,
			"total":  job.PriceTotal,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyJobCancelled tells the assigned driver, if any, that the job is gone.
func (s *NotificationService) NotifyJobCancelled(ctx context.Context, job *domain.Job) {
	if job.DriverID == "" {
		return
	}
	s.send(ctx, Notification{
		Type:        NotificationJobCancelled,
		RecipientID: job.DriverID,
		Title:       "Job Cancelled",
		Message:     "A job assigned to you has been cancelled.",
		Data: map[string]interface{}{
			"job_id": job.ID,
			"reason": job.CancellationReason,
		},
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(ctx context.Context, n Notification) {
	s.log.WithFields(logrus.Fields{
		"type":      n.Type,
		"recipient": n.RecipientID,
		"title":     n.Title,
	}).Info(n.Message)
}
