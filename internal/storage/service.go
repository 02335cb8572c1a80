package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

var (
	keyToken             = []byte("session/token")
	keyNotificationsRead = []byte("notifications/read")
)

// StateStore is the durable client-side state: the bearer token string and
// the notifications-read flag. Nothing else survives a restart.
type StateStore struct {
	db  *badger.DB
	log *logrus.Entry
}

func NewStateStore(dir string, logger *logrus.Logger) (*StateStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &StateStore{
		db:  db,
		log: logger.WithField("component", "storage"),
	}, nil
}

func (ss *StateStore) SaveToken(token string) error {
	return ss.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyToken, []byte(token))
	})
}

func (ss *StateStore) LoadToken() (string, bool) {
	var token string
	err := ss.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyToken)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			token = string(val)
			return nil
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			ss.log.WithError(err).Warn("Failed to read persisted token")
		}
		return "", false
	}
	return token, token != ""
}

// ClearToken removes the token and the notifications-read flag together,
// matching logout semantics. Clearing an empty store is a no-op.
func (ss *StateStore) ClearToken() error {
	return ss.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(keyToken); err != nil {
			return err
		}
		return txn.Delete(keyNotificationsRead)
	})
}

func (ss *StateStore) SetNotificationsRead(read bool) error {
	return ss.db.Update(func(txn *badger.Txn) error {
		if !read {
			return txn.Delete(keyNotificationsRead)
		}
		return txn.Set(keyNotificationsRead, []byte("true"))
	})
}

func (ss *StateStore) NotificationsRead() bool {
	var read bool
	_ = ss.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyNotificationsRead)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			read = string(val) == "true"
			return nil
		})
	})
	return read
}

func (ss *StateStore) Close() error {
	return ss.db.Close()
}
