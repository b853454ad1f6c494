package session

import (
	"context"
	"errors"
	"sync"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/sirupsen/logrus"
)

// Authenticator คือฝั่ง auth ที่ session ใช้ (services.AuthService หรือ client ระยะไกล)
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (string, *entity.User, error)
	SignUp(ctx context.Context, email, password string) (*entity.User, error)
	SignOut(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (string, *entity.User, error)
}

// Persister เก็บ token ข้ามการรีสตาร์ท
type Persister interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Snapshot is an immutable view of the session. Identity is nil when signed out.
type Snapshot struct {
	Identity *services.Principal
	Token    string
}

func (s Snapshot) SignedIn() bool { return s.Identity != nil }

func (s Snapshot) IsAdmin() bool { return s.Identity != nil && s.Identity.IsAdmin() }

// Store holds the current identity and tells subscribers when it changes.
type Store struct {
	auth    Authenticator
	persist Persister
	log     *logrus.Entry

	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]func(Snapshot)
	nextID int
}

func NewStore(auth Authenticator, persist Persister, log *logrus.Logger) *Store {
	return &Store{
		auth:    auth,
		persist: persist,
		log:     log.WithField("component", "session"),
		subs:    make(map[int]func(Snapshot)),
	}
}

func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) IsAdmin() bool { return s.Current().IsAdmin() }

// Principal คืน identity ปัจจุบัน (false = ยังไม่ login)
func (s *Store) Principal() (services.Principal, bool) {
	snap := s.Current()
	if snap.Identity == nil {
		return services.Principal{}, false
	}
	return *snap.Identity, true
}

// Context แนบ principal ของ session ไปกับ ctx สำหรับเรียก store แทนผู้ใช้
func (s *Store) Context(ctx context.Context) context.Context {
	if p, ok := s.Principal(); ok {
		return services.WithPrincipal(ctx, p)
	}
	return ctx
}

// Subscribe: fn ถูกเรียกทันทีหลัง identity เปลี่ยน
func (s *Store) Subscribe(fn func(Snapshot)) (dispose func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) SignIn(ctx context.Context, email, password string) error {
	token, user, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	if s.persist != nil {
		if err := s.persist.Save(token); err != nil {
			s.log.WithError(err).Warn("persist session failed")
		}
	}
	p := services.PrincipalOf(user)
	s.set(Snapshot{Identity: &p, Token: token})
	s.log.WithField("userId", user.ID).Info("signed in")
	return nil
}

// SignUp สร้างบัญชีเท่านั้น ต้อง SignIn ต่อเอง
func (s *Store) SignUp(ctx context.Context, email, password string) (*entity.User, error) {
	return s.auth.SignUp(ctx, email, password)
}

func (s *Store) SignOut(ctx context.Context) error {
	snap := s.Current()
	if snap.Token != "" {
		if err := s.auth.SignOut(ctx, snap.Token); err != nil {
			var ae *services.AuthError
			// token หมดอายุแล้วก็ถือว่า logout สำเร็จ
			if !errors.As(err, &ae) {
				return err
			}
		}
	}
	if s.persist != nil {
		if err := s.persist.Clear(); err != nil {
			s.log.WithError(err).Warn("clear persisted session failed")
		}
	}
	s.set(Snapshot{})
	return nil
}

// Restore โหลด token ที่เก็บไว้แล้ว refresh (false = ไม่มี session เดิม)
func (s *Store) Restore(ctx context.Context) (bool, error) {
	if s.persist == nil {
		return false, nil
	}
	token, err := s.persist.Load()
	if err != nil || token == "" {
		return false, err
	}

	fresh, user, err := s.auth.Refresh(ctx, token)
	if err != nil {
		_ = s.persist.Clear()
		return false, err
	}
	if err := s.persist.Save(fresh); err != nil {
		s.log.WithError(err).Warn("persist session failed")
	}
	p := services.PrincipalOf(user)
	s.set(Snapshot{Identity: &p, Token: fresh})
	return true, nil
}

func (s *Store) set(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
