// Package ledger records and amends the per-guild history of moderation
// actions. Every mutation is a full load-mutate-save cycle against the
// document store; disk is authoritative, nothing is cached in memory.
package ledger

import (
	"time"

	"go.uber.org/zap"

	"go-modkeeper/internal/store"
)

// Store keys. Warns persist separately from the other action types, matching
// the two-document layout the bot has always used on disk.
const (
	actionsKey  = "mod_actions"
	warningsKey = "warnings"
)

// actionsDoc maps guild -> action type -> user -> records in append order.
type actionsDoc map[string]map[string]map[string][]*ModerationAction

// warningsDoc maps guild -> user -> warn records in append order.
type warningsDoc map[string]map[string][]*ModerationAction

// Ledger owns the mod_actions and warnings documents.
type Ledger struct {
	store *store.Store
	log   *zap.Logger
	now   func() int64
}

func New(st *store.Store, log *zap.Logger) *Ledger {
	return &Ledger{
		store: st,
		log:   log,
		now:   func() int64 { return time.Now().Unix() },
	}
}

// Record appends a new action and returns its assigned scoped ID. An empty
// reason is stored as DefaultReason.
func (l *Ledger) Record(guildID string, kind ActionType, userID, reason, moderatorID string) (int, error) {
	if reason == "" {
		reason = DefaultReason
	}

	action := &ModerationAction{
		Reason:      reason,
		ModeratorID: moderatorID,
		CreatedAt:   l.now(),
	}

	var err error
	if kind == ActionWarn {
		err = l.store.WithLock(warningsKey, func() error {
			doc := warningsDoc{}
			if err := l.store.Load(warningsKey, &doc); err != nil {
				return err
			}
			if doc[guildID] == nil {
				doc[guildID] = make(map[string][]*ModerationAction)
			}
			bucket := doc[guildID][userID]
			action.ID = nextID(bucket)
			doc[guildID][userID] = append(bucket, action)
			return l.store.Save(warningsKey, doc)
		})
	} else {
		err = l.store.WithLock(actionsKey, func() error {
			doc := actionsDoc{}
			if err := l.store.Load(actionsKey, &doc); err != nil {
				return err
			}
			if doc[guildID] == nil {
				doc[guildID] = make(map[string]map[string][]*ModerationAction)
			}
			if doc[guildID][string(kind)] == nil {
				doc[guildID][string(kind)] = make(map[string][]*ModerationAction)
			}
			bucket := doc[guildID][string(kind)][userID]
			action.ID = nextID(bucket)
			doc[guildID][string(kind)][userID] = append(bucket, action)
			return l.store.Save(actionsKey, doc)
		})
	}
	if err != nil {
		return 0, err
	}

	l.log.Info("moderation action recorded",
		zap.String("guild_id", guildID),
		zap.String("type", string(kind)),
		zap.String("user_id", userID),
		zap.Int("action_id", action.ID))
	return action.ID, nil
}

// Amend replaces the reason on an existing record and returns the prior
// reason. targetID 0 selects the bucket's first-inserted record; a targetID
// that matches no record also falls back to the first entry, as the bot has
// always done. ErrActionNotFound is returned when the bucket is empty.
func (l *Ledger) Amend(guildID string, kind ActionType, userID string, targetID int, newReason string) (string, error) {
	if newReason == "" {
		newReason = DefaultReason
	}

	var oldReason string
	amend := func(bucket []*ModerationAction) error {
		if len(bucket) == 0 {
			return ErrActionNotFound
		}
		idx := 0
		if targetID != 0 {
			for i, a := range bucket {
				if a.ID == targetID {
					idx = i
					break
				}
			}
		}
		oldReason = bucket[idx].Reason
		bucket[idx].Reason = newReason
		bucket[idx].EditedAt = l.now()
		return nil
	}

	var err error
	if kind == ActionWarn {
		err = l.store.WithLock(warningsKey, func() error {
			doc := warningsDoc{}
			if err := l.store.Load(warningsKey, &doc); err != nil {
				return err
			}
			if err := amend(doc[guildID][userID]); err != nil {
				return err
			}
			return l.store.Save(warningsKey, doc)
		})
	} else {
		err = l.store.WithLock(actionsKey, func() error {
			doc := actionsDoc{}
			if err := l.store.Load(actionsKey, &doc); err != nil {
				return err
			}
			if err := amend(doc[guildID][string(kind)][userID]); err != nil {
				return err
			}
			return l.store.Save(actionsKey, doc)
		})
	}
	if err != nil {
		return "", err
	}

	l.log.Info("moderation action amended",
		zap.String("guild_id", guildID),
		zap.String("type", string(kind)),
		zap.String("user_id", userID),
		zap.Int("action_id", targetID))
	return oldReason, nil
}

// WarningsFor returns a user's warn records in append order. The slice is a
// fresh read from disk; callers may not mutate stored state through it.
func (l *Ledger) WarningsFor(guildID, userID string) ([]*ModerationAction, error) {
	doc := warningsDoc{}
	if err := l.store.Load(warningsKey, &doc); err != nil {
		return nil, err
	}
	return doc[guildID][userID], nil
}

func nextID(bucket []*ModerationAction) int {
	max := 0
	for _, a := range bucket {
		if a.ID > max {
			max = a.ID
		}
	}
	return max + 1
}
