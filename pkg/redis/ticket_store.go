package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultTicketTTL bounds how long a successful password verification
// authorizes a reveal
const DefaultTicketTTL = 2 * time.Minute

// TicketStore holds single-use reveal tickets. A ticket is issued by
// the re-authentication gate and consumed, at most once, by the reveal
// endpoint. Nothing decrypted is ever cached here; the ticket is only
// an opaque random token.
type TicketStore struct {
	ttl time.Duration
}

var (
	setTicketValue    = SetNX
	getDelTicketValue = GetDel
)

// NewTicketStore creates a ticket store with the given TTL; a
// non-positive TTL falls back to DefaultTicketTTL
func NewTicketStore(ttl time.Duration) *TicketStore {
	if ttl <= 0 {
		ttl = DefaultTicketTTL
	}
	return &TicketStore{ttl: ttl}
}

func ticketKey(userID uuid.UUID, token string) string {
	return "reveal:" + userID.String() + ":" + token
}

// Issue stores a reveal ticket for the acting user
func (s *TicketStore) Issue(ctx context.Context, userID uuid.UUID, token string) error {
	ok, err := setTicketValue(ctx, ticketKey(userID, token), "1", s.ttl)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("reveal ticket already exists")
	}
	return nil
}

// Consume atomically validates and invalidates a reveal ticket.
// Returns false for unknown, expired or already-used tokens.
func (s *TicketStore) Consume(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	_, err := getDelTicketValue(ctx, ticketKey(userID, token))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
