package services

import (
	"context"
	"fmt"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// StorageHealth сообщает о последнем сбое хранилища.
type StorageHealth interface {
	StorageErr() error
}

type PingService struct {
	conn   Pinger
	health StorageHealth
}

func NewPingService(conn Pinger, health StorageHealth) *PingService {
	return &PingService{conn: conn, health: health}
}

// CheckConnection проверяет, что последнее обращение реестра к хранилищу было успешным
// и что хранилище отвечает сейчас.
func (s *PingService) CheckConnection(ctx context.Context) error {
	if s.health != nil {
		if err := s.health.StorageErr(); err != nil {
			return err
		}
	}
	if err := s.conn.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping error: %s", ErrStorageUnavailable, err.Error())
	}
	return nil
}
