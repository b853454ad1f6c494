package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/repository"
	"github.com/IrakliAvdulaj/trek-fleet-apply/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService จัดการ business logic ของการ sign in / sign up / sign out
type AuthService struct {
	userRepo    *repository.UserRepository
	revoker     TokenRevoker
	jwtSecret   string
	jwtTTL      time.Duration
	minPassword int
	now         func() time.Time
	log         *logrus.Entry
}

type AuthOptions struct {
	JWTSecret         string
	JWTTTL            time.Duration
	MinPasswordLength int
}

func NewAuthService(repo *repository.UserRepository, revoker TokenRevoker, opts AuthOptions, log *logrus.Logger) *AuthService {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 6
	}
	if opts.JWTTTL <= 0 {
		opts.JWTTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:    repo,
		revoker:     revoker,
		jwtSecret:   opts.JWTSecret,
		jwtTTL:      opts.JWTTTL,
		minPassword: opts.MinPasswordLength,
		now:         time.Now,
		log:         log.WithField("component", "auth"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp สร้าง user ใหม่ (role = applicant) ถ้า email ซ้ำจะ error
// ไม่ได้ sign in ให้อัตโนมัติ
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*entity.User, error) {
	email = normalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, &AuthError{Code: AuthInvalidEmail, Message: "invalid email address"}
	}
	if len(password) < s.minPassword {
		return nil, &AuthError{
			Code:    AuthWeakPassword,
			Message: fmt.Sprintf("password should be at least %d characters", s.minPassword),
		}
	}

	count, err := s.userRepo.CountByEmail(ctx, email)
	if err != nil {
		return nil, storeErr("signUp", err)
	}
	if count > 0 {
		return nil, &AuthError{Code: AuthEmailTaken, Message: "user already registered"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{Email: email, Password: string(hashed), Role: entity.RoleApplicant}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &AuthError{Code: AuthEmailTaken, Message: "user already registered"}
		}
		return nil, storeErr("signUp", err)
	}
	s.log.WithField("userId", user.ID).Info("user signed up")
	return user, nil
}

// SignIn ตรวจสอบ user + สร้าง JWT
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, &AuthError{Code: AuthInvalidCredentials, Message: "invalid login credentials"}
	}
	if err != nil {
		return "", nil, storeErr("signIn", err)
	}

	// เทียบรหัสผ่าน
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, &AuthError{Code: AuthInvalidCredentials, Message: "invalid login credentials"}
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL, s.now())
	if err != nil {
		return "", nil, fmt.Errorf("cannot generate token: %w", err)
	}
	return token, user, nil
}

// SignOut เพิกถอน token จนกว่าจะหมดอายุ
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := utils.ParseToken(token, s.jwtSecret)
	if err != nil {
		// token หมดอายุ/เสียอยู่แล้ว ถือว่า sign out สำเร็จ
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Authenticate ตรวจ token แล้วโหลด user จาก DB (role อาจถูกเปลี่ยนนอกระบบหลังออก token)
func (s *AuthService) Authenticate(ctx context.Context, token string) (Principal, error) {
	claims, err := utils.ParseToken(token, s.jwtSecret)
	if err != nil {
		return Principal{}, &AuthError{Code: AuthInvalidToken, Message: "invalid token"}
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Principal{}, &StoreError{Kind: StoreUnavailable, Op: "authenticate", Err: err}
	}
	if revoked {
		return Principal{}, &AuthError{Code: AuthInvalidToken, Message: "token has been revoked"}
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Principal{}, &AuthError{Code: AuthInvalidToken, Message: "user no longer exists"}
	}
	if err != nil {
		return Principal{}, storeErr("authenticate", err)
	}
	return PrincipalOf(user), nil
}

// Refresh ออก token ใหม่และเพิกถอนอันเดิม
func (s *AuthService) Refresh(ctx context.Context, token string) (string, *entity.User, error) {
	p, err := s.Authenticate(ctx, token)
	if err != nil {
		return "", nil, err
	}
	user, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		return "", nil, storeErr("refresh", err)
	}
	fresh, _, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL, s.now())
	if err != nil {
		return "", nil, fmt.Errorf("cannot generate token: %w", err)
	}
	if err := s.SignOut(ctx, token); err != nil {
		return "", nil, &StoreError{Kind: StoreUnavailable, Op: "refresh", Err: err}
	}
	return fresh, user, nil
}

// Me
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr("me", err)
	}
	return u, nil
}
