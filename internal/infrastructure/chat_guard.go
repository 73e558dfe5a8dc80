package infrastructure

import "sync"

// ChatGuard tracks which chats have a turn in flight so a chat is answered one message at a time.
type ChatGuard struct {
	mu     sync.Mutex
	active map[int64]struct{}
}

func NewChatGuard() *ChatGuard {
	return &ChatGuard{active: make(map[int64]struct{})}
}

// TryStart marks chatID busy. It returns false if a turn is already in flight.
func (g *ChatGuard) TryStart(chatID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[chatID]; busy {
		return false
	}
	g.active[chatID] = struct{}{}
	return true
}

// Finish releases chatID.
func (g *ChatGuard) Finish(chatID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, chatID)
}
