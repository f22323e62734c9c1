package state

import "sync"

type chatLock struct {
	mu   sync.Mutex
	refs int
}

// Locks hands out one mutex per chat id; idle entries are released.
type Locks struct {
	mu    sync.Mutex
	chats map[int64]*chatLock
}

// NewLocks returns an empty lock table.
func NewLocks() *Locks {
	return &Locks{chats: make(map[int64]*chatLock)}
}

// Lock blocks until chatID is free and returns its unlock func.
func (l *Locks) Lock(chatID int64) (unlock func()) {
	l.mu.Lock()
	cl, ok := l.chats[chatID]
	if !ok {
		cl = &chatLock{}
		l.chats[chatID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.mu.Lock()
	return func() {
		cl.mu.Unlock()
		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.chats, chatID)
		}
		l.mu.Unlock()
	}
}

func (l *Locks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.chats)
}
