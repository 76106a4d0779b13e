// Package messagerepo persists outbound messages for the reliability worker.
package messagerepo

import (
	"time"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/outbound"

	"github.com/google/uuid"
)

// MessageDTO represents the database structure for outbound messages.
// NextRetryAt is indexed because the worker scans by it every cycle.
type MessageDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Provider          string    `gorm:"size:32"`
	ToPhone           string    `gorm:"size:32"`
	Body              string
	Status            string `gorm:"index;size:24"`
	ProviderMessageID string `gorm:"index;size:64"`
	RetryCount        int
	MaxRetries        int
	NextRetryAt       *time.Time `gorm:"index"`
	LastError         string
	CreatedAt         time.Time
}

// TableName specifies the database table name for outbound messages.
func (MessageDTO) TableName() string {
	return "outbound_messages"
}

// fromDomain converts a message aggregate to its database representation.
func fromDomain(aggregate *outbound.Message) MessageDTO {
	return MessageDTO{
		ID:                aggregate.ID().Bytes(),
		Provider:          aggregate.Provider(),
		ToPhone:           aggregate.To(),
		Body:              aggregate.Body(),
		Status:            aggregate.Status().String(),
		ProviderMessageID: aggregate.ProviderMessageID(),
		RetryCount:        aggregate.RetryCount(),
		MaxRetries:        aggregate.MaxRetries(),
		NextRetryAt:       aggregate.NextRetryAt(),
		LastError:         aggregate.LastError(),
		CreatedAt:         aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to a message aggregate.
func toDomain(dto MessageDTO) (*outbound.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := outbound.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return outbound.RestoreMessage(
		id, dto.Provider, dto.ToPhone, dto.Body, status,
		dto.ProviderMessageID, dto.RetryCount, dto.MaxRetries,
		dto.NextRetryAt, dto.LastError, dto.CreatedAt)
}
