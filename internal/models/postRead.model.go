package models

import (
	"github.com/google/uuid"
)

// PostRead is one read event. Rows are written once and never updated or
// deleted; read counts, rankings, and recommendations are all aggregations
// over this table.
//
// Exactly one of UserID and ClientID is set. The nullable pair only exists at
// the storage boundary; everywhere else the reader travels as a ReaderID.
type PostRead struct {
	BaseUUIDModel
	PostSlug string     `gorm:"type:text;not null;index" json:"postSlug"`
	UserID   *uuid.UUID `gorm:"type:uuid;index"          json:"userId,omitempty"`
	User     *User      `gorm:"foreignKey:UserID"        json:"user,omitempty"`
	ClientID *string    `gorm:"type:text;index"          json:"clientId,omitempty"`
}

// NewPostRead builds the row for a read event from the tagged reader identity.
func NewPostRead(slug string, reader ReaderID) *PostRead {
	read := &PostRead{PostSlug: slug}
	if userID, ok := reader.UserID(); ok {
		read.UserID = &userID
	}
	if clientID, ok := reader.ClientID(); ok {
		read.ClientID = &clientID
	}
	return read
}

// Reader reconstructs the tagged identity from the stored columns.
func (r *PostRead) Reader() ReaderID {
	if r.UserID != nil {
		return UserReader(*r.UserID)
	}
	if r.ClientID != nil {
		return ClientReader(*r.ClientID)
	}
	return ReaderID{}
}
