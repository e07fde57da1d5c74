package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	assistantGreeting = "Hello! I'm your AI health assistant. How can I help you understand your results today?"
	assistantReply    = "Sorry, I am out of order for now..."

	// DefaultReplyDelay is how long the canned reply takes to arrive.
	DefaultReplyDelay = time.Second
)

var (
	ErrEmptyMessage    = errors.New("message is empty")
	ErrAssistantClosed = errors.New("assistant closed")
)

// Message is one chat bubble.
type Message struct {
	ID     int64     `json:"id"`
	Text   string    `json:"text"`
	IsAI   bool      `json:"isAI"`
	SentAt time.Time `json:"sentAt"`
}

// Assistant is the placeholder chat panel. Replies are scheduled on the
// assistant's own context; Close cancels any that have not fired yet.
type Assistant struct {
	delay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	messages []Message
	nextID   int64
	closed   bool
	now      func() time.Time
}

// NewAssistant starts a conversation with the greeting. A delay <= 0 uses DefaultReplyDelay.
func NewAssistant(delay time.Duration) *Assistant {
	if delay <= 0 {
		delay = DefaultReplyDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Assistant{delay: delay, ctx: ctx, cancel: cancel, now: time.Now}
	a.appendLocked(assistantGreeting, true)
	return a
}

func (a *Assistant) appendLocked(text string, isAI bool) Message {
	a.nextID++
	msg := Message{ID: a.nextID, Text: text, IsAI: isAI, SentAt: a.now().UTC()}
	a.messages = append(a.messages, msg)
	return msg
}

// Send appends the user's message and schedules the reply.
func (a *Assistant) Send(text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return Message{}, ErrAssistantClosed
	}
	msg := a.appendLocked(text, false)

	a.wg.Add(1)
	go a.reply()
	return msg, nil
}

func (a *Assistant) reply() {
	defer a.wg.Done()
	timer := time.NewTimer(a.delay)
	defer timer.Stop()

	select {
	case <-a.ctx.Done():
		return
	case <-timer.C:
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.appendLocked(assistantReply, true)
}

// Messages returns a copy of the conversation.
func (a *Assistant) Messages() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Message, len(a.messages))
	copy(out, a.messages)
	return out
}

// Closed reports whether Close has been called.
func (a *Assistant) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// Close cancels pending replies and waits for their goroutines to exit.
func (a *Assistant) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
}
