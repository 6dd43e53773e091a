package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/repository"
	"github.com/awashimakentaro/diet/store"
)

type NotificationService struct {
	repo   repository.NotificationRepository
	stores *store.Manager
	push   *PushService
}

func NewNotificationService(repo repository.NotificationRepository, stores *store.Manager, push *PushService) *NotificationService {
	return &NotificationService{repo: repo, stores: stores, push: push}
}

// Get returns the current reminder settings, defaulting to a disabled record
// when the user has none yet.
func (s *NotificationService) Get(userID uint) (models.NotificationSetting, error) {
	row, err := s.repo.FindByUser(userID)
	if err != nil {
		return models.NotificationSetting{}, err
	}
	if row == nil {
		return models.NotificationSetting{}, nil
	}
	setting := models.NotificationFromRow(*row)
	s.applyToState(userID, setting)
	return setting, nil
}

// Update overwrites the single settings record.
func (s *NotificationService) Update(userID uint, setting models.NotificationSetting) (models.NotificationSetting, error) {
	row, err := s.repo.FindByUser(userID)
	if err != nil {
		return models.NotificationSetting{}, err
	}
	if row == nil {
		row = &models.NotificationPreferenceRow{ID: uuid.NewString(), UserID: userID}
	}

	row.Enabled = setting.Enabled
	row.Timezone = setting.Timezone
	row.PushToken = setting.PushToken
	row.Times = models.JoinNotificationTimes(setting.Times)
	row.LastScheduledAt = setting.LastScheduledAt

	if err := s.repo.Save(row); err != nil {
		return models.NotificationSetting{}, err
	}
	saved := models.NotificationFromRow(*row)
	s.applyToState(userID, saved)
	return saved, nil
}

// ReminderPayload builds the {title, body} pair for a time-of-day slot.
// Producing this payload is where this codebase's responsibility ends.
func ReminderPayload(slot models.NotificationTime) (title, body string) {
	switch slot {
	case models.TimeMorning:
		return "朝食の記録", "朝ごはんを食べましたか?記録しましょう。"
	case models.TimeNoon:
		return "昼食の記録", "昼ごはんの記録を忘れていませんか?"
	case models.TimeEvening:
		return "夕食の記録", "今日の夕食を記録しましょう。"
	case models.TimeMidnight:
		return "1日のまとめ", "今日の食事記録を振り返りましょう。"
	default:
		return "食事の記録", "食事を記録しましょう。"
	}
}

// SendReminder pushes the slot's payload to the registered device, when
// reminders are enabled and the slot is among the configured times.
func (s *NotificationService) SendReminder(userID uint, slot models.NotificationTime) error {
	row, err := s.repo.FindByUser(userID)
	if err != nil {
		return err
	}
	if row == nil || !row.Enabled || row.PushToken == "" {
		return nil
	}

	setting := models.NotificationFromRow(*row)
	enabled := false
	for _, t := range setting.Times {
		if t == slot {
			enabled = true
			break
		}
	}
	if !enabled {
		return nil
	}

	title, body := ReminderPayload(slot)
	if err := s.push.PushToEndpoint(row.PushToken, title, body, map[string]string{"slot": string(slot)}); err != nil {
		return err
	}

	now := time.Now()
	row.LastScheduledAt = &now
	if err := s.repo.Save(row); err != nil {
		return err
	}
	s.applyToState(userID, models.NotificationFromRow(*row))
	return nil
}

func (s *NotificationService) applyToState(userID uint, setting models.NotificationSetting) {
	st := s.stores.For(userID)
	st.Set(func(state store.DietState) store.DietState {
		state.Notification = setting.Clone()
		return state
	})
}
