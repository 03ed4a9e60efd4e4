package models

import (
	"github.com/google/uuid"
)

type ReaderKind string

const (
	ReaderKindUser   ReaderKind = "user"
	ReaderKindClient ReaderKind = "client"
)

// ReaderID identifies who performed a read: either a signed-in user or an
// anonymous client cookie. Exactly one of the two is set; construct values
// through UserReader or ClientReader so the invalid states are unrepresentable.
type ReaderID struct {
	kind     ReaderKind
	userID   uuid.UUID
	clientID string
}

func UserReader(id uuid.UUID) ReaderID {
	return ReaderID{kind: ReaderKindUser, userID: id}
}

func ClientReader(id string) ReaderID {
	return ReaderID{kind: ReaderKindClient, clientID: id}
}

func (r ReaderID) Kind() ReaderKind {
	return r.kind
}

func (r ReaderID) IsZero() bool {
	return r.kind == ""
}

// UserID returns the user id and true when the reader is a signed-in user.
func (r ReaderID) UserID() (uuid.UUID, bool) {
	return r.userID, r.kind == ReaderKindUser
}

// ClientID returns the client cookie id and true when the reader is anonymous.
func (r ReaderID) ClientID() (string, bool) {
	return r.clientID, r.kind == ReaderKindClient
}

func (r ReaderID) String() string {
	switch r.kind {
	case ReaderKindUser:
		return "user:" + r.userID.String()
	case ReaderKindClient:
		return "client:" + r.clientID
	}
	return ""
}
