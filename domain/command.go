package domain

import "time"

// Commands are the write surface exposed to the rendering layer. They
// are validated by the service layer before touching the store.

type SendMessageCommand struct {
	SpaceID   string `validate:"required"`
	SenderID  string `validate:"required"`
	Content   string `validate:"required,max=2000"`
	Type      MessageType
	ReplyToID string
	SentAt    time.Time
}

type MakeMoveCommand struct {
	SpaceID string `validate:"required"`
	UserID  string `validate:"required"`
	Cell    int    `validate:"gte=0,lte=8"`
}

type CreateSpaceCommand struct {
	UserID string `validate:"required"`
	Name   string `validate:"max=60"`
}

type JoinSpaceCommand struct {
	UserID string `validate:"required"`
	Code   string `validate:"required,len=6"`
}
