package storage

import (
	"sync"
	"time"
)

// ChatQuiz links a Telegram chat to the attempt it is playing and the
// message that shows the current question.
type ChatQuiz struct {
	SessionID string
	MessageID int
	SentAt    time.Time
}

// ChatQuizStorage remembers the active attempt per chat.
type ChatQuizStorage struct {
	mu    sync.RWMutex
	chats map[int64]ChatQuiz
}

func NewChatQuizStorage() *ChatQuizStorage {
	return &ChatQuizStorage{
		chats: make(map[int64]ChatQuiz),
	}
}

func (s *ChatQuizStorage) Store(chatID int64, sessionID string, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chats[chatID] = ChatQuiz{
		SessionID: sessionID,
		MessageID: messageID,
		SentAt:    time.Now(),
	}
}

func (s *ChatQuizStorage) Get(chatID int64) (ChatQuiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cq, ok := s.chats[chatID]
	return cq, ok
}

func (s *ChatQuizStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chats, chatID)
}
