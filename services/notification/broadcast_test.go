package notification

import (
	"context"
	"sync"
	"testing"

	"gharseva/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memNotificationRepo struct {
	mu         sync.Mutex
	rows       []models.Notification
	broadcasts map[string]*models.Broadcast
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{broadcasts: map[string]*models.Broadcast{}}
}

func (r *memNotificationRepo) Create(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *n)
	return nil
}

func (r *memNotificationRepo) BulkCreate(notifications []models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, notifications...)
	return nil
}

func (r *memNotificationRepo) ListByUser(userID string, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.rows {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (r *memNotificationRepo) CountUnread(userID string) (int64, error) {
	_, total, err := r.ListByUser(userID, true, 1, 100)
	return total, err
}

func (r *memNotificationRepo) MarkRead(notificationID, userID string) error { return nil }

func (r *memNotificationRepo) MarkAllRead(userID string) (int64, error) { return 0, nil }

func (r *memNotificationRepo) CreateBroadcast(b *models.Broadcast) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.broadcasts[b.ID] = &clone
	return nil
}

func (r *memNotificationRepo) SetBroadcastRecipientCount(broadcastID string, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.broadcasts[broadcastID]
	if !ok {
		return assert.AnError
	}
	b.RecipientCount = count
	return nil
}

func (r *memNotificationRepo) ListBroadcasts(page, limit int) ([]models.Broadcast, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Broadcast, 0, len(r.broadcasts))
	for _, b := range r.broadcasts {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

type stubUserStore struct {
	byRole map[string][]string
}

func (s *stubUserStore) GetByID(id string) (*models.User, error)       { return nil, nil }
func (s *stubUserStore) GetByEmail(email string) (*models.User, error) { return nil, nil }
func (s *stubUserStore) GetByPhone(phone string) (*models.User, error) { return nil, nil }
func (s *stubUserStore) Create(*models.User) error                     { return nil }
func (s *stubUserStore) Update(*models.User) error                     { return nil }
func (s *stubUserStore) ListByRole(string, int, int) ([]models.User, int64, error) {
	return nil, 0, nil
}
func (s *stubUserStore) ListIDsByRole(role string) ([]string, error) {
	if role == "" {
		var all []string
		for _, ids := range s.byRole {
			all = append(all, ids...)
		}
		return all, nil
	}
	return s.byRole[role], nil
}
func (s *stubUserStore) MarkVerified(string) error           { return nil }
func (s *stubUserStore) SetBlacklisted(string, bool) error   { return nil }
func (s *stubUserStore) AddFavorite(string, string) error    { return nil }
func (s *stubUserStore) RemoveFavorite(string, string) error { return nil }

func TestDeliverBroadcastRecordsRecipientCount(t *testing.T) {
	repo := newMemNotificationRepo()
	repo.broadcasts["bc-1"] = &models.Broadcast{ID: "bc-1", Title: "Maintenance"}
	users := &stubUserStore{byRole: map[string][]string{
		models.RoleSevak: {"sevak-1", "sevak-2", "sevak-3"},
	}}
	svc := NewNotificationService(repo, users, nil)

	count, err := svc.DeliverBroadcast(context.Background(), "bc-1", "Maintenance", "Downtime tonight", models.RoleSevak, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// One in-app row per recipient.
	assert.Len(t, repo.rows, 3)
	for _, row := range repo.rows {
		assert.Equal(t, models.NotificationBroadcast, row.Type)
		assert.Equal(t, "bc-1", row.Data["broadcastId"])
	}

	// The count sticks to the broadcast record.
	assert.Equal(t, int64(3), repo.broadcasts["bc-1"].RecipientCount)
}

func TestDeliverBroadcastExplicitAudience(t *testing.T) {
	repo := newMemNotificationRepo()
	repo.broadcasts["bc-2"] = &models.Broadcast{ID: "bc-2"}
	users := &stubUserStore{byRole: map[string][]string{
		models.RoleResident: {"res-1", "res-2"},
	}}
	svc := NewNotificationService(repo, users, nil)

	count, err := svc.DeliverBroadcast(context.Background(), "bc-2", "Hello", "Just you", "explicit", []string{"res-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, "res-2", repo.rows[0].UserID)
	assert.Equal(t, int64(1), repo.broadcasts["bc-2"].RecipientCount)
}
