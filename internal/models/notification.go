package models

import "time"

// NotificationType discriminates the notification variants.
type NotificationType string

const (
	// NotificationRequest is a pending friend request addressed to its target.
	NotificationRequest NotificationType = "request"
	// NotificationRequested is the mirror receipt addressed back to the requester.
	NotificationRequested NotificationType = "requested"
	// NotificationAccepted is sent to both sides when a request is accepted.
	NotificationAccepted NotificationType = "accepted"
	// NotificationBroken is sent to both sides when a friendship is broken.
	NotificationBroken NotificationType = "broken"
	// NotificationLike is sent to a post's author when someone likes it.
	NotificationLike NotificationType = "like"
	// NotificationComment is sent to a post's author when someone comments.
	NotificationComment NotificationType = "comment"
)

// Notification is a durable social event. PostID is only meaningful for the
// like/comment variants and Accepted only for the request variant; rows are
// built through the constructors below so each variant carries exactly the
// fields it needs.
type Notification struct {
	ID         uint             `gorm:"primaryKey"`
	Type       NotificationType `gorm:"size:20;not null;index"`
	SenderID   uint             `gorm:"not null;index"`
	ReceiverID uint             `gorm:"not null;index"`
	PostID     *uint
	Accepted   *bool
	CreatedAt  time.Time

	Sender   User `gorm:"foreignKey:SenderID"`
	Receiver User `gorm:"foreignKey:ReceiverID"`
}

// NewFriendRequestPair builds the two rows a friend request inserts
// together: the pending request addressed to the target and the mirror
// receipt addressed back to the requester.
func NewFriendRequestPair(requesterID, targetID uint) []Notification {
	accepted := false
	return []Notification{
		{Type: NotificationRequest, SenderID: requesterID, ReceiverID: targetID, Accepted: &accepted},
		{Type: NotificationRequested, SenderID: targetID, ReceiverID: requesterID},
	}
}

// NewAcceptedPair builds the two receipt rows inserted when the request
// from requesterID is accepted by accepterID.
func NewAcceptedPair(requesterID, accepterID uint) []Notification {
	return []Notification{
		{Type: NotificationAccepted, SenderID: requesterID, ReceiverID: accepterID},
		{Type: NotificationAccepted, SenderID: accepterID, ReceiverID: requesterID},
	}
}

// NewBrokenPair builds the two rows inserted when breakerID breaks the
// friendship with targetID.
func NewBrokenPair(breakerID, targetID uint) []Notification {
	return []Notification{
		{Type: NotificationBroken, SenderID: breakerID, ReceiverID: targetID},
		{Type: NotificationBroken, SenderID: targetID, ReceiverID: breakerID},
	}
}

// NewLikeNotification notifies a post's author that likerID liked postID.
func NewLikeNotification(likerID, authorID, postID uint) Notification {
	return Notification{Type: NotificationLike, SenderID: likerID, ReceiverID: authorID, PostID: &postID}
}

// NewCommentNotification notifies a post's author that commenterID
// commented on postID.
func NewCommentNotification(commenterID, authorID, postID uint) Notification {
	return Notification{Type: NotificationComment, SenderID: commenterID, ReceiverID: authorID, PostID: &postID}
}
