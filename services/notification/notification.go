package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	userRepo "banglabnb/database/repository/user"
	"banglabnb/models"
	"banglabnb/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqNotificationService enqueues notifications onto the task queue so they
// are delivered outside the critical reservation/payment transaction.
type AsynqNotificationService struct {
	Client *asynq.Client
}

func NewAsynqNotificationService(client *asynq.Client) *AsynqNotificationService {
	return &AsynqNotificationService{Client: client}
}

// Notify enqueues a notify:send task.
func (s *AsynqNotificationService) Notify(ctx context.Context, userID, kind, message string, data map[string]string) error {
	payload, err := json.Marshal(Payload{
		UserID:  userID,
		Kind:    kind,
		Message: message,
		Data:    data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	task := asynq.NewTask(TypeNotifySend, payload, asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	if _, err := s.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

// DirectNotificationService writes the in-app notification straight onto the
// user document. The queue worker uses it when draining notify:send tasks.
type DirectNotificationService struct {
	Users userRepo.UserRepository
}

func NewDirectNotificationService(users userRepo.UserRepository) *DirectNotificationService {
	return &DirectNotificationService{Users: users}
}

// Notify appends the notification to the recipient's document.
func (s *DirectNotificationService) Notify(ctx context.Context, userID, kind, message string, data map[string]string) error {
	n := models.Notification{
		ID:        uuid.New().String(),
		Type:      kind,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := s.Users.AppendNotification(ctx, userID, n); err != nil {
		return fmt.Errorf("failed to store notification for user %s: %w", userID, err)
	}
	utils.GetLogger().Info("notification delivered",
		zap.String("userID", userID), zap.String("kind", kind))
	return nil
}
