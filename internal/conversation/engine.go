package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/wishbot/core/logger"
	"github.com/m3rciful/wishbot/core/telegram/state"
	"github.com/m3rciful/wishbot/internal/models"
	"github.com/m3rciful/wishbot/internal/service"
)

// Wishlist is the subset of the wishlist service the flows call.
type Wishlist interface {
	CanAddWish(ctx context.Context, userID int64) (bool, error)
	AddWish(ctx context.Context, userID int64, in models.NewWish) (*models.Wish, error)
	GetWish(ctx context.Context, wishID, userID int64) (*models.Wish, error)
	UpdateWish(ctx context.Context, wishID, userID int64, upd models.WishUpdate) (*models.Wish, error)
}

// Options configures an Engine.
type Options struct {
	Wishlist Wishlist
	Sessions state.Store[Session]
	// SkipToken and CancelToken are the literal texts that skip an optional
	// field and abort the flow.
	SkipToken   string
	CancelToken string
}

// Engine runs the add and edit flows.
type Engine struct {
	wishlist Wishlist
	sessions state.Store[Session]
	locks    *state.Locks
	skip     string
	cancel   string
}

// New builds an Engine. Sessions default to process memory.
func New(opts Options) *Engine {
	e := &Engine{
		wishlist: opts.Wishlist,
		sessions: opts.Sessions,
		locks:    state.NewLocks(),
		skip:     opts.SkipToken,
		cancel:   opts.CancelToken,
	}
	if e.sessions == nil {
		e.sessions = state.NewMemoryStore[Session]()
	}
	return e
}

// InProgress reports whether chatID has an active flow.
func (e *Engine) InProgress(ctx context.Context, chatID int64) bool {
	sess, err := e.load(ctx, chatID)
	return err == nil && sess.State != Idle
}

// Current returns the stored session of chatID.
func (e *Engine) Current(ctx context.Context, chatID int64) (Session, error) {
	return e.load(ctx, chatID)
}

// StartAdd opens the add flow, replacing any flow already active in the chat.
// The flow does not start when the user is at the quota.
func (e *Engine) StartAdd(ctx context.Context, chatID, userID int64) Outcome {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	prev, err := e.load(ctx, chatID)
	if err != nil {
		return failed(Idle, err)
	}
	ok, err := e.wishlist.CanAddWish(ctx, userID)
	if err != nil {
		return failed(prev.State, err)
	}
	if !ok {
		return Outcome{Step: StepQuota, From: prev.State, State: prev.State, Err: service.ErrQuotaExceeded}
	}
	if prev.State != Idle {
		logger.LogEvent(ctx, logger.FSM, slog.LevelInfo, "fsm.replace",
			slog.Int64("chat_id", chatID),
			slog.String("from", string(prev.State)),
		)
	}
	return e.transition(ctx, chatID, prev.State, Session{State: AwaitingTitle}, Outcome{Step: StepPrompt})
}

// StartEdit opens the field menu for a wish owned by userID.
func (e *Engine) StartEdit(ctx context.Context, chatID, userID, wishID int64) Outcome {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	prev, err := e.load(ctx, chatID)
	if err != nil {
		return failed(Idle, err)
	}
	w, err := e.wishlist.GetWish(ctx, wishID, userID)
	if err != nil {
		return failed(prev.State, err)
	}
	if w == nil {
		return Outcome{Step: StepNotFound, From: prev.State, State: prev.State, Err: service.ErrNotFoundOrForbidden}
	}
	return e.transition(ctx, chatID, prev.State, Session{State: EditChoice, WishID: wishID}, Outcome{Step: StepEditMenu, Wish: w})
}

// ChooseField moves the edit flow of wishID to the state collecting field.
// Ownership is checked again; it is accepted from any state so a stale menu
// button still works.
func (e *Engine) ChooseField(ctx context.Context, chatID, userID, wishID int64, field models.Field) Outcome {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	prev, err := e.load(ctx, chatID)
	if err != nil {
		return failed(Idle, err)
	}
	next := editStateFor(field)
	if next == Idle {
		return Outcome{Step: StepInvalid, From: prev.State, State: prev.State, Err: &service.ValidationError{Field: field, Reason: "unknown field", Message: "Unknown field"}}
	}
	w, err := e.wishlist.GetWish(ctx, wishID, userID)
	if err != nil {
		return failed(prev.State, err)
	}
	if w == nil {
		e.clear(ctx, chatID)
		return Outcome{Step: StepNotFound, From: prev.State, Err: service.ErrNotFoundOrForbidden}
	}
	return e.transition(ctx, chatID, prev.State, Session{State: next, WishID: wishID}, Outcome{Step: StepPrompt, Field: field, Wish: w})
}

// Cancel drops the active flow of chatID.
func (e *Engine) Cancel(ctx context.Context, chatID int64) Outcome {
	unlock := e.locks.Lock(chatID)
	defer unlock()

	prev, err := e.load(ctx, chatID)
	if err != nil {
		return failed(Idle, err)
	}
	if prev.State == Idle {
		return Outcome{Step: StepIdle}
	}
	if err := e.sessions.Delete(ctx, chatID); err != nil {
		return failed(prev.State, fmt.Errorf("conversation: cancel: %w", err))
	}
	e.logTransition(ctx, chatID, prev.State, Idle)
	return Outcome{Step: StepCanceled, From: prev.State}
}

// Handle feeds one text or photo message into the active flow of the chat.
func (e *Engine) Handle(ctx context.Context, ev Event) Outcome {
	unlock := e.locks.Lock(ev.ChatID)
	defer unlock()

	sess, err := e.load(ctx, ev.ChatID)
	if err != nil {
		return failed(Idle, err)
	}
	if sess.State == Idle {
		return Outcome{Step: StepIdle}
	}
	text := strings.TrimSpace(ev.Text)
	if ev.PhotoFileID == "" && text == e.cancel {
		e.clear(ctx, ev.ChatID)
		e.logTransition(ctx, ev.ChatID, sess.State, Idle)
		return Outcome{Step: StepCanceled, From: sess.State}
	}
	if sess.State.Adding() {
		return e.handleAdd(ctx, ev, sess, text)
	}
	return e.handleEdit(ctx, ev, sess, text)
}

func (e *Engine) handleAdd(ctx context.Context, ev Event, sess Session, text string) Outcome {
	from := sess.State
	if sess.State != AwaitingImage && ev.PhotoFileID != "" {
		return Outcome{Step: StepPrompt, From: from, State: from}
	}
	skipped := text == e.skip

	switch sess.State {
	case AwaitingTitle:
		if skipped {
			return Outcome{Step: StepPrompt, From: from, State: from}
		}
		if err := service.ValidateTitle(ev.Text); err != nil {
			return Outcome{Step: StepInvalid, From: from, State: from, Field: models.FieldTitle, Err: err}
		}
		sess.Draft.Title = ev.Text
		sess.State = AwaitingDescription
	case AwaitingDescription:
		sess.Draft.Description = valueOrAbsent(text, skipped)
		sess.State = AwaitingURL
	case AwaitingURL:
		url := valueOrAbsent(text, skipped)
		if err := service.ValidateURL(url); err != nil {
			return Outcome{Step: StepInvalid, From: from, State: from, Field: models.FieldURL, Err: err}
		}
		sess.Draft.URL = url
		sess.State = AwaitingPrice
	case AwaitingPrice:
		sess.Draft.Price = valueOrAbsent(text, skipped)
		sess.State = AwaitingImage
	case AwaitingImage:
		switch {
		case ev.PhotoFileID != "":
			sess.Draft.ImageFileID = ev.PhotoFileID
		case skipped:
			sess.Draft.ImageFileID = ""
		default:
			return Outcome{Step: StepPhotoRequired, From: from, State: from}
		}
		return e.complete(ctx, ev, sess)
	}
	return e.transition(ctx, ev.ChatID, from, sess, Outcome{Step: StepPrompt})
}

func (e *Engine) complete(ctx context.Context, ev Event, sess Session) Outcome {
	from := sess.State
	w, err := e.wishlist.AddWish(ctx, ev.UserID, sess.Draft.toNewWish())
	if err == nil {
		e.clear(ctx, ev.ChatID)
		e.logTransition(ctx, ev.ChatID, from, Idle)
		return Outcome{Step: StepAdded, From: from, Wish: w}
	}
	if verr, ok := service.AsValidation(err); ok {
		// rewind to the rejected field and keep the rest of the draft
		sess.State = addStateFor(verr.Field)
		return e.transition(ctx, ev.ChatID, from, sess, Outcome{Step: StepInvalid, Field: verr.Field, Err: err})
	}
	e.clear(ctx, ev.ChatID)
	e.logTransition(ctx, ev.ChatID, from, Idle)
	if errors.Is(err, service.ErrQuotaExceeded) {
		return Outcome{Step: StepQuota, From: from, Err: err}
	}
	return Outcome{Step: StepFailed, From: from, Err: err}
}

func (e *Engine) handleEdit(ctx context.Context, ev Event, sess Session, text string) Outcome {
	from := sess.State
	if sess.State == EditChoice {
		return Outcome{Step: StepPrompt, From: from, State: from}
	}
	field, _ := sess.State.Field()
	skipped := text == e.skip

	var value string
	switch {
	case sess.State == EditImage:
		switch {
		case ev.PhotoFileID != "":
			value = ev.PhotoFileID
		case skipped:
		default:
			return Outcome{Step: StepPhotoRequired, From: from, State: from, Field: field}
		}
	case ev.PhotoFileID != "":
		return Outcome{Step: StepPrompt, From: from, State: from, Field: field}
	case skipped && field == models.FieldTitle:
		return Outcome{Step: StepPrompt, From: from, State: from, Field: field}
	case skipped:
	case field == models.FieldTitle:
		value = ev.Text
	default:
		value = text
	}

	w, err := e.wishlist.UpdateWish(ctx, sess.WishID, ev.UserID, field.Set(value))
	switch {
	case err == nil:
		e.clear(ctx, ev.ChatID)
		e.logTransition(ctx, ev.ChatID, from, Idle)
		return Outcome{Step: StepUpdated, From: from, Field: field, Wish: w}
	case errors.Is(err, service.ErrNotFoundOrForbidden):
		e.clear(ctx, ev.ChatID)
		e.logTransition(ctx, ev.ChatID, from, Idle)
		return Outcome{Step: StepNotFound, From: from, Field: field, Err: err}
	}
	if _, ok := service.AsValidation(err); ok {
		return Outcome{Step: StepInvalid, From: from, State: from, Field: field, Err: err}
	}
	e.clear(ctx, ev.ChatID)
	e.logTransition(ctx, ev.ChatID, from, Idle)
	return Outcome{Step: StepFailed, From: from, Field: field, Err: err}
}

func (e *Engine) transition(ctx context.Context, chatID int64, from State, next Session, out Outcome) Outcome {
	out.From = from
	out.State = next.State
	if err := e.sessions.Save(ctx, chatID, next); err != nil {
		return failed(from, err)
	}
	e.logTransition(ctx, chatID, from, next.State)
	return out
}

func (e *Engine) load(ctx context.Context, chatID int64) (Session, error) {
	sess, err := e.sessions.Load(ctx, chatID)
	if errors.Is(err, state.ErrNotFound) {
		return Session{}, nil
	}
	return sess, err
}

func (e *Engine) clear(ctx context.Context, chatID int64) {
	if err := e.sessions.Delete(ctx, chatID); err != nil {
		logger.LogEvent(ctx, logger.FSM, slog.LevelWarn, "fsm.clear",
			slog.String("status", "fail"),
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
	}
}

func (e *Engine) logTransition(ctx context.Context, chatID int64, from, to State) {
	logger.LogEvent(ctx, logger.FSM, slog.LevelDebug, "fsm.transition",
		slog.Int64("chat_id", chatID),
		slog.String("from", stateLabel(from)),
		slog.String("to", stateLabel(to)),
	)
}

func stateLabel(s State) string {
	if s == Idle {
		return "idle"
	}
	return string(s)
}

func failed(from State, err error) Outcome {
	return Outcome{Step: StepFailed, From: from, Err: err}
}

func valueOrAbsent(text string, skipped bool) string {
	if skipped {
		return ""
	}
	return text
}
