package services

import (
	"context"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
)

// Principal คือผู้เรียกที่ยืนยันตัวตนแล้ว (เทียบได้กับ auth.uid() ของ row-level policy)
type Principal struct {
	UserID string
	Email  string
	Role   string
}

func (p Principal) IsAdmin() bool { return p.Role == entity.RoleAdmin }

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.UserID != ""
}

func PrincipalOf(u *entity.User) Principal {
	return Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}
