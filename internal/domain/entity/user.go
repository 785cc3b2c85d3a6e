package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
)

type User struct {
	ID                 uuid.UUID
	Name               string
	Email              *string
	Role               valueobject.Role
	VerificationStatus valueobject.VerificationStatus
	TrustScore         int
	TrustScoreStale    bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (u *User) IsVerified() bool {
	return u.VerificationStatus == valueobject.VerificationStatusApproved
}

// Tenant — профиль арендатора.
type Tenant struct {
	ID                uuid.UUID
	ProfileCompletion int
	Documents         valueobject.Documents
	Budget            *float64
	PreferredLocation *string
	UpdatedAt         time.Time
}

func (t *Tenant) IsComplete() bool {
	return t.ProfileCompletion == 100
}

// Landlord — профиль арендодателя.
type Landlord struct {
	ID                uuid.UUID
	GuaranteeJoined   bool
	GuaranteeJoinedAt *time.Time
}

// JoinGuarantee отмечает участие в гарантийной программе. Повторный вызов ничего не меняет.
func (l *Landlord) JoinGuarantee(now time.Time) bool {
	if l.GuaranteeJoined {
		return false
	}
	l.GuaranteeJoined = true
	l.GuaranteeJoinedAt = &now
	return true
}

// LandlordSignals — публичные сигналы доверия арендодателя.
type LandlordSignals struct {
	ID                 uuid.UUID
	Name               string
	TrustScore         int
	VerificationStatus valueobject.VerificationStatus
	GuaranteeJoined    bool
}

// ApplicationView — заявка арендатора вместе с объектом и арендодателем.
type ApplicationView struct {
	Application *Application
	Property    *Property
	Landlord    LandlordSignals
}

// ApplicantView — заявка глазами арендодателя.
type ApplicantView struct {
	Application       *Application
	TenantName        string
	TenantTrustScore  int
	ProfileCompletion int
}
