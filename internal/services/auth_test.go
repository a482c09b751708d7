package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/apierr"
	"github.com/discoveros/backend/internal/repos"
	"github.com/discoveros/backend/internal/requestdata"
	"github.com/discoveros/backend/internal/types"
)

func newAuthService(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()
	db, log := newTestDB(t)
	svc := NewAuthService(
		db,
		log,
		repos.NewUserRepo(db, log),
		repos.NewUserTokenRepo(db, log),
		"test-secret",
		time.Hour,
		24*time.Hour,
	)
	return svc, db
}

func TestRegister_ValidatesInput(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "not-an-email", "longenough"); !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input for bad email, got %v", err)
	}
	if _, err := svc.Register(ctx, "A", "a@example.com", "short"); !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input for short password, got %v", err)
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@example.com", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "B", "A@Example.com", "password2"); !apierr.IsCode(err, apierr.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLogin_RoundTripsThroughToken(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "A", "a@example.com", "password1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	access, refresh, err := svc.Login(ctx, "a@example.com", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens, got %q / %q", access, refresh)
	}

	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("expected request data for user %s, got %+v", user.ID, rd)
	}

	var tokenCount int64
	if err := db.Model(&types.UserToken{}).Where("user_id = ?", user.ID).Count(&tokenCount).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if tokenCount != 1 {
		t.Fatalf("expected 1 refresh token row, got %d", tokenCount)
	}
}

func TestLogin_WrongPasswordInvalid(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@example.com", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, err := svc.Login(ctx, "a@example.com", "wrongpass1")
	if !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "A", "a@example.com", "password1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, refresh, err := svc.Login(ctx, "a@example.com", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: refresh})
	access2, refresh2, err := svc.Refresh(refreshCtx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatalf("expected rotated tokens")
	}

	var tokens []types.UserToken
	if err := db.Where("user_id = ?", user.ID).Find(&tokens).Error; err != nil {
		t.Fatalf("load tokens: %v", err)
	}
	if len(tokens) != 1 || tokens[0].RefreshToken != refresh2 {
		t.Fatalf("expected exactly the rotated token, got %+v", tokens)
	}

	// Old refresh token can no longer be used.
	staleCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: refresh})
	if _, _, err := svc.Refresh(staleCtx); !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input for stale token, got %v", err)
	}
}

func TestLogout_DeletesTokens(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "A", "a@example.com", "password1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "a@example.com", "password1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	authedCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{UserID: user.ID})
	if err := svc.Logout(authedCtx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	var count int64
	if err := db.Model(&types.UserToken{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected tokens removed, got %d", count)
	}
}

func TestSetContextFromToken_RejectsForgedToken(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.SetContextFromToken(context.Background(), "not.a.token")
	if !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}
