package service

import (
	"errors"

	"ourlog/backend/internal/hub"
	"ourlog/backend/internal/models"

	"gorm.io/gorm"
)

// RelationStatus is the derived relation between an ordered pair of users.
// It is never stored; it is computed from the friends relation and the
// notification history on every query.
type RelationStatus int

const (
	RelationNone    RelationStatus = -1
	RelationPending RelationStatus = 0
	RelationFriends RelationStatus = 1
	RelationSelf    RelationStatus = 2
)

// FriendshipService owns the friend request/accept/break state machine and
// the notification rows it produces. Every multi-row mutation runs in a
// single transaction so the symmetric friends relation cannot be left
// half-written.
type FriendshipService struct {
	db    *gorm.DB
	users *UserService
	hub   *hub.Hub
}

// NewFriendshipService wires the service. events may be nil when no live
// push is wanted (tests, batch tools).
func NewFriendshipService(db *gorm.DB, users *UserService, events *hub.Hub) *FriendshipService {
	return &FriendshipService{db: db, users: users, hub: events}
}

// Request sends a friend request from the session's user to targetUsername.
// Two rows are inserted together: the pending request addressed to the
// target and the mirror receipt addressed back to the requester. There is
// no duplicate-request guard; repeated requests pile up and only the most
// recent one decides the derived relation. A self-request is not guarded
// either.
func (s *FriendshipService) Request(sessionToken, targetUsername string) error {
	actor, err := s.users.UserBySession(sessionToken, true)
	if err != nil {
		return err
	}
	target, err := s.users.ByUsername(targetUsername)
	if err != nil {
		return err
	}
	if actor.IsFriendOf(target.ID) {
		return ErrAlreadyFriends
	}

	pair := models.NewFriendRequestPair(actor.ID, target.ID)
	if err := s.db.Create(&pair).Error; err != nil {
		return err
	}

	s.publish(pair[0], actor.Username)
	s.publish(pair[1], target.Username)
	return nil
}

// Accept accepts the friend request carried by notificationID. The request
// must exist, be of the request type, and be addressed to the session's
// user. On success the original request is marked accepted, both users are
// added to each other's friends relation, and an accepted receipt is
// inserted for each side.
func (s *FriendshipService) Accept(sessionToken string, notificationID uint) error {
	actor, err := s.users.UserBySession(sessionToken, true)
	if err != nil {
		return err
	}

	var request models.Notification
	err = s.db.Preload("Sender").Preload("Receiver").First(&request, notificationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidRequest
	}
	if err != nil {
		return err
	}
	if request.ReceiverID != actor.ID || request.Type != models.NotificationRequest {
		return ErrInvalidRequest
	}
	if actor.IsFriendOf(request.SenderID) {
		return ErrAlreadyFriends
	}

	receipts := models.NewAcceptedPair(request.SenderID, request.ReceiverID)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Notification{}).Where("id = ?", request.ID).Update("accepted", true).Error; err != nil {
			return err
		}
		if err := tx.Model(&request.Sender).Association("Friends").Append(&request.Receiver); err != nil {
			return err
		}
		if err := tx.Model(&request.Receiver).Association("Friends").Append(&request.Sender); err != nil {
			return err
		}
		return tx.Create(&receipts).Error
	})
	if err != nil {
		return err
	}

	s.publish(receipts[0], request.Sender.Username)
	s.publish(receipts[1], request.Receiver.Username)
	return nil
}

// Break removes the friendship between the session's user and
// targetUsername. Both directions of the relation are deleted and a broken
// notification is inserted for each side.
func (s *FriendshipService) Break(sessionToken, targetUsername string) error {
	actor, err := s.users.UserBySession(sessionToken, true)
	if err != nil {
		return err
	}
	target, err := s.users.ByUsername(targetUsername)
	if err != nil {
		return err
	}
	if !actor.IsFriendOf(target.ID) {
		return ErrNotFriends
	}

	rows := models.NewBrokenPair(actor.ID, target.ID)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(actor).Association("Friends").Delete(target); err != nil {
			return err
		}
		if err := tx.Model(target).Association("Friends").Delete(actor); err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return err
	}

	s.publish(rows[0], actor.Username)
	s.publish(rows[1], target.Username)
	return nil
}

// Relation derives the relation status from the session's user toward
// targetUsername. After self and friendship checks, the newest request or
// broken row sent by the viewer to the target decides between pending and
// none. The derivation only looks at requests the viewer sent: the
// receiver of a pending request sees RelationNone from their own side.
func (s *FriendshipService) Relation(sessionToken, targetUsername string) (RelationStatus, error) {
	actor, err := s.users.UserBySession(sessionToken, true)
	if err != nil {
		return RelationNone, err
	}
	target, err := s.users.ByUsername(targetUsername)
	if err != nil {
		return RelationNone, err
	}

	if actor.ID == target.ID {
		return RelationSelf, nil
	}
	if actor.IsFriendOf(target.ID) {
		return RelationFriends, nil
	}

	var latest models.Notification
	err = s.db.
		Where("sender_id = ? AND receiver_id = ?", actor.ID, target.ID).
		Where("type IN ?", []models.NotificationType{models.NotificationRequest, models.NotificationBroken}).
		Order("created_at DESC").
		Order("id DESC").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RelationNone, nil
	}
	if err != nil {
		return RelationNone, err
	}

	if latest.Type == models.NotificationRequest {
		return RelationPending, nil
	}
	return RelationNone, nil
}

// FriendsCount returns the size of the session user's friends set.
func (s *FriendshipService) FriendsCount(sessionToken string) (int, error) {
	actor, err := s.users.UserBySession(sessionToken, true)
	if err != nil {
		return 0, err
	}
	return len(actor.Friends), nil
}

// publish pushes a stored notification to the receiver's open streams.
// Best-effort: the row is already durable, this only wakes live clients.
func (s *FriendshipService) publish(n models.Notification, senderName string) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(n.ReceiverID, hub.Event{Type: "notification", Payload: NotificationItem{
		ID:       n.ID,
		Type:     n.Type,
		Sender:   senderName,
		PostID:   n.PostID,
		Accepted: n.Accepted,
	}})
}
