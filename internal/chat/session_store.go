package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/rashadk/barberai-platform/internal/dialogue"
)

const defaultSessionTTL = 24 * time.Hour

// SessionState is everything the engine needs threaded between turns of one
// conversation: the draft booking, the language of the last reply, and the
// phone number once the customer has shared it.
type SessionState struct {
	Draft         *dialogue.DraftBooking `json:"draft"`
	Language      dialogue.Language      `json:"language,omitempty"`
	CustomerPhone string                 `json:"customer_phone,omitempty"`
}

// NewSessionState returns a fresh state for a conversation with no history.
func NewSessionState() *SessionState {
	return &SessionState{Draft: dialogue.NewDraft()}
}

// TranscriptEntry is one message of the conversation log.
type TranscriptEntry struct {
	Role string    `json:"role"` // "user" or "assistant"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// SessionStore persists conversation state and transcripts in Redis. Keys
// expire after the TTL so abandoned drafts clean themselves up.
type SessionStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration, tracer trace.Tracer) *SessionStore {
	if rdb == nil {
		panic("chat: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("barberai.internal.chat.sessions")
	}
	return &SessionStore{redis: rdb, tracer: tracer, ttl: ttl}
}

// LoadState fetches the session state, returning a fresh one when the
// session is unknown or has expired.
func (s *SessionStore) LoadState(ctx context.Context, sessionID string) (*SessionState, error) {
	ctx, span := s.tracer.Start(ctx, "chat.load_session")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return NewSessionState(), nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("chat: failed to load session: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chat: failed to decode session: %w", err)
	}
	if state.Draft == nil {
		state.Draft = dialogue.NewDraft()
	}
	return &state, nil
}

// SaveState persists the session state and refreshes its TTL.
func (s *SessionStore) SaveState(ctx context.Context, sessionID string, state *SessionState) error {
	ctx, span := s.tracer.Start(ctx, "chat.save_session")
	defer span.End()

	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to persist session: %w", err)
	}
	return nil
}

// AppendTranscript records one conversation message and refreshes the log's
// TTL alongside the session's.
func (s *SessionStore) AppendTranscript(ctx context.Context, sessionID string, entry TranscriptEntry) error {
	ctx, span := s.tracer.Start(ctx, "chat.append_transcript")
	defer span.End()

	data, err := json.Marshal(entry)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to marshal transcript entry: %w", err)
	}
	key := transcriptKey(sessionID)
	if err := s.redis.RPush(ctx, key, data).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to append transcript: %w", err)
	}
	if err := s.redis.Expire(ctx, key, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to refresh transcript ttl: %w", err)
	}
	return nil
}

// Transcript returns the full conversation log, oldest first.
func (s *SessionStore) Transcript(ctx context.Context, sessionID string) ([]TranscriptEntry, error) {
	ctx, span := s.tracer.Start(ctx, "chat.load_transcript")
	defer span.End()

	raw, err := s.redis.LRange(ctx, transcriptKey(sessionID), 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chat: failed to load transcript: %w", err)
	}
	out := make([]TranscriptEntry, 0, len(raw))
	for _, item := range raw {
		var entry TranscriptEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("chat: failed to decode transcript entry: %w", err)
		}
		out = append(out, entry)
	}
	return out, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("chat:session:%s", id)
}

func transcriptKey(id string) string {
	return fmt.Sprintf("chat:transcript:%s", id)
}
