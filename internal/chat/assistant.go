// Package chat implements the dialogue manager: bounded per-session
// conversation memory, grounded prompt assembly, intent classification,
// and the call out to the generative completion backend.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gusto/internal/menu"
	"gusto/internal/models"
)

// Completer is the opaque generative backend. Any failure is treated
// identically by the assistant.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned when no completion backend is wired up.
var ErrNotConfigured = errors.New("chat backend is not configured")

const (
	// historyWindow is how many recent turns are replayed into the
	// prompt. Smaller than the retention bound on purpose.
	historyWindow = 10
	topMatches    = 3

	disabledMessage = "Sorry, chatbot is not configured."
	apologyMessage  = "Sorry, I'm having trouble right now. Please try again!"

	defaultTimeout = 30 * time.Second
)

// Request carries one user utterance plus the context it runs against.
// Menu is the live snapshot supplied by the caller on every request;
// the assistant never caches it.
type Request struct {
	Message   string
	SessionID string
	Menu      []models.MenuItem
	Allergies []string
}

// Response is the structured chat result. Err is non-nil on the
// failure paths; Response then carries the user-facing fallback text.
type Response struct {
	Response  string `json:"response"`
	Intent    Intent `json:"intent,omitempty"`
	SessionID string `json:"session_id"`
	Err       error  `json:"-"`
}

// Assistant turns user utterances into grounded replies with
// classified intents.
type Assistant struct {
	completer Completer
	sessions  SessionStore
	timeout   time.Duration
	now       func() time.Time
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithSessionStore swaps the session backing, e.g. for tests.
func WithSessionStore(store SessionStore) Option {
	return func(a *Assistant) { a.sessions = store }
}

// WithTimeout bounds each completion call. A timeout is reported on the
// same path as any other backend failure.
func WithTimeout(d time.Duration) Option {
	return func(a *Assistant) { a.timeout = d }
}

// NewAssistant creates a dialogue manager over the given completion
// backend. A nil completer yields a disabled assistant that answers
// every chat with the configuration error.
func NewAssistant(completer Completer, opts ...Option) *Assistant {
	a := &Assistant{
		completer: completer,
		sessions:  NewMemoryStore(),
		timeout:   defaultTimeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enabled reports whether a completion backend is configured.
func (a *Assistant) Enabled() bool {
	return a.completer != nil
}

// Chat runs one conversational turn: retrieve relevant dishes, build the
// grounded prompt, call the backend, classify intent, and record the
// turn. On backend failure the turn is not recorded and the response
// carries a fixed apology plus the underlying error for logging.
func (a *Assistant) Chat(ctx context.Context, req Request) Response {
	if !a.Enabled() {
		return Response{Response: disabledMessage, SessionID: req.SessionID, Err: ErrNotConfigured}
	}

	sess := a.sessions.GetOrCreate(req.SessionID)

	// Retrieval and prompt assembly are CPU-local and happen before the
	// network call; the session lock is only taken inside Snapshot and
	// Append, never across Complete.
	prompt := a.buildPrompt(req, sess)

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	reply, err := a.completer.Complete(cctx, prompt)
	if err != nil {
		log.Printf("chat: completion failed for session %s: %v", req.SessionID, err)
		return Response{Response: apologyMessage, SessionID: req.SessionID, Err: err}
	}
	reply = strings.TrimSpace(reply)

	intent := ClassifyIntent(req.Message, reply)

	sess.Append(Turn{
		User:      req.Message,
		Assistant: reply,
		Intent:    intent,
		Timestamp: a.now(),
	})

	return Response{Response: reply, Intent: intent, SessionID: req.SessionID}
}

// buildPrompt assembles grounding instructions, the top retrieval
// matches, the recent history window, and the new message into a single
// completion request.
func (a *Assistant) buildPrompt(req Request, sess *Session) string {
	var b strings.Builder
	b.WriteString(GroundingPrompt(req.Menu, req.Allergies))

	keywords := strings.Fields(strings.ToLower(req.Message))
	index := menu.NewIndex(req.Menu)
	matches := index.SearchByKeywords(keywords, req.Allergies)
	if len(matches) > 0 {
		if len(matches) > topMatches {
			matches = matches[:topMatches]
		}
		b.WriteString("\n\n🎯 MOST RELEVANT DISHES FOR THIS QUERY:\n")
		b.WriteString(menu.FormatForPrompt(menu.Items(matches)))
		b.WriteString("\n\nFocus on recommending these dishes first!")
	}

	b.WriteString("\n\n")
	for _, turn := range sess.Snapshot(historyWindow) {
		b.WriteString("\nCustomer: ")
		b.WriteString(turn.User)
		b.WriteString("\nGusto AI: ")
		b.WriteString(turn.Assistant)
	}
	b.WriteString("\nCustomer: ")
	b.WriteString(req.Message)
	b.WriteString("\nGusto AI:")

	return b.String()
}

// History returns the session's turns, with ok=false for an unknown
// session so callers can tell "no such session" from "nothing said yet".
func (a *Assistant) History(sessionID string) ([]Turn, bool) {
	return a.sessions.History(sessionID)
}

// ClearConversation drops the session's memory. Idempotent.
func (a *Assistant) ClearConversation(sessionID string) {
	a.sessions.Clear(sessionID)
}
