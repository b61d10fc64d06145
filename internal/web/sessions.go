package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/example/tablebook/internal/domain/booking"
	"github.com/example/tablebook/internal/form"
	"github.com/example/tablebook/internal/store"
)

const (
	sessionName      = "tablebook_session"
	confirmationName = "tablebook_confirmation"
)

// Session is one guest's booking store and the form currently bound to it.
type Session struct {
	ID    string
	Store *store.Store

	mu       sync.Mutex
	form     *form.Form
	lastSeen time.Time
}

func (s *Session) Form() *form.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SessionManager maps the signed session cookie to an in-memory Session.
type SessionManager struct {
	sc    *securecookie.SecureCookie
	flash *securecookie.SecureCookie

	backend booking.Backend
	loc     *time.Location
	idle    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(hashKey, blockKey []byte, b booking.Backend, loc *time.Location, idle time.Duration) *SessionManager {
	if loc == nil {
		loc = time.UTC
	}
	return &SessionManager{
		sc:       securecookie.New(hashKey, blockKey),
		flash:    securecookie.New(hashKey, blockKey).SetSerializer(securecookie.JSONEncoder{}).MaxAge(600),
		backend:  b,
		loc:      loc,
		idle:     idle,
		now:      time.Now,
		sessions: map[string]*Session{},
	}
}

// Get returns the caller's session, opening a new one (and setting its cookie) when the
// cookie is missing, invalid or points at an evicted session.
func (m *SessionManager) Get(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if id, ok := m.sessionID(r); ok {
		m.mu.Lock()
		sess, found := m.sessions[id]
		m.mu.Unlock()
		if found {
			sess.mu.Lock()
			sess.lastSeen = m.now()
			sess.mu.Unlock()
			return sess, nil
		}
	}

	sess, err := m.open(r.Context())
	if err != nil {
		return nil, err
	}
	value := map[string]string{"sid": sess.ID}
	encoded, err := m.sc.Encode(sessionName, value)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name: sessionName, Value: encoded, Path: "/",
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

func (m *SessionManager) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionName)
	if err != nil {
		return "", false
	}
	value := map[string]string{}
	if err := m.sc.Decode(sessionName, c.Value, &value); err != nil {
		return "", false
	}
	sid := value["sid"]
	if sid == "" {
		return "", false
	}
	return sid, true
}

func (m *SessionManager) open(ctx context.Context) (*Session, error) {
	today := m.Today()
	st, err := store.Open(ctx, m.backend, today)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	sess := &Session{
		ID:       uuid.NewString(),
		Store:    st,
		form:     form.New(st, m.loc, form.DefaultValues(today)),
		lastSeen: m.now(),
	}
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess, nil
}

// ResetForm binds a fresh form to the session after a completed booking. The store, and
// with it the accepted bookings, carries over.
func (m *SessionManager) ResetForm(sess *Session) {
	today := m.Today()
	sess.mu.Lock()
	sess.form = form.New(sess.Store, m.loc, form.DefaultValues(today))
	sess.mu.Unlock()
}

func (m *SessionManager) Today() time.Time {
	return booking.Today(m.now(), m.loc)
}

func (m *SessionManager) Location() *time.Location { return m.loc }

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the configured timeout.
func (m *SessionManager) Sweep() int {
	if m.idle <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, sess := range m.sessions {
		sess.mu.Lock()
		stale := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if stale {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// minSweepInterval bounds how often RunSweeper wakes, whatever interval it is given.
const minSweepInterval = time.Second

func (m *SessionManager) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if n := m.Sweep(); n > 0 {
				log.Printf("sessions: evicted %d idle", n)
			}
		}
	}
}

// SetConfirmation hands rec to the confirmation page in a one-shot cookie.
func (m *SessionManager) SetConfirmation(w http.ResponseWriter, rec booking.Record) error {
	encoded, err := m.flash.Encode(confirmationName, rec)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name: confirmationName, Value: encoded, Path: "/confirmed-booking",
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// PopConfirmation reads and clears the confirmation cookie.
func (m *SessionManager) PopConfirmation(w http.ResponseWriter, r *http.Request) (booking.Record, bool) {
	c, err := r.Cookie(confirmationName)
	if err != nil {
		return booking.Record{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name: confirmationName, Value: "", Path: "/confirmed-booking", MaxAge: -1,
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
	var rec booking.Record
	if err := m.flash.Decode(confirmationName, c.Value, &rec); err != nil {
		return booking.Record{}, false
	}
	return rec, true
}
