package models

import "time"

// Статусы предложений сообщества.
const (
	ProposalActive    = "active"
	ProposalApproved  = "approved"
	ProposalRejected  = "rejected"
	ProposalCompleted = "completed"
)

// Типы голосов.
const (
	VoteFor     = "for"
	VoteAgainst = "against"
)

// Proposal представляет предложение сообщества, вынесенное на голосование.
type Proposal struct {
	ID                 int64
	Title              string
	Description        string
	CreatedBy          int64  // Автор предложения
	Status             string // active, approved, rejected, completed
	VotesFor           int
	VotesAgainst       int
	TargetAmountCents  *int64 // Целевая сумма сбора, если предложение требует средств
	CurrentAmountCents int64  // Уже собранная сумма в центах
	Category           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	VotingEndsAt       *time.Time
}

// Vote голос участника по предложению. Один участник — один голос.
type Vote struct {
	ID         int64
	ProposalID int64
	UserID     int64
	VoteType   string // for или against
	CreatedAt  time.Time
}

// Contribution добровольный дополнительный взнос участника в предложение.
// В агрегаты фондов попадают только взносы со статусом completed.
type Contribution struct {
	ID            int64
	ProposalID    int64
	UserID        int64
	AmountCents   int64
	PaymentMethod string
	PaymentID     string
	Status        string
	CreatedAt     time.Time
}

// ProposalComment комментарий участника к предложению.
type ProposalComment struct {
	ID         int64
	ProposalID int64
	UserID     int64
	UserName   string // Имя автора для вывода без дополнительного запроса
	Comment    string
	CreatedAt  time.Time
}
