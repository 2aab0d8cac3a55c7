package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"enough/internal/apperrors"
	"enough/internal/models"
)

func TestRegisterCreatesUserWithReferralCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testEngine(), nopLog())

	user, err := service.Register(RegisterInput{
		Email:    "Ada@Example.COM",
		Password: "s3cret-pass",
		Name:     "Ada",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.Email != "ada@example.com" {
		t.Errorf("email = %s, want lowercased", user.Email)
	}
	if user.Currency != "USD" || user.Language != "en" {
		t.Errorf("defaults not applied: currency=%s language=%s", user.Currency, user.Language)
	}
	if len(user.ReferralCode) != 8 {
		t.Errorf("referral code %q, want 8 characters", user.ReferralCode)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testEngine(), nopLog())

	in := RegisterInput{Email: "dup@example.com", Password: "s3cret-pass", Name: "Dup"}
	if _, err := service.Register(in); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := service.Register(in)
	if !apperrors.IsConflict(err) {
		t.Fatalf("second Register: got %v, want conflict", err)
	}
}

func TestRegisterWithReferralAwardsBothBonuses(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testEngine(), nopLog())

	referrer, err := service.Register(RegisterInput{
		Email: "ref@example.com", Password: "s3cret-pass", Name: "Referrer",
	})
	if err != nil {
		t.Fatalf("referrer Register failed: %v", err)
	}

	newUser, err := service.Register(RegisterInput{
		Email: "new@example.com", Password: "s3cret-pass", Name: "New",
		ReferralCode: referrer.ReferralCode,
	})
	if err != nil {
		t.Fatalf("referred Register failed: %v", err)
	}

	var reloadedNew, reloadedRef models.User
	db.First(&reloadedNew, newUser.ID)
	db.First(&reloadedRef, referrer.ID)

	if !reloadedNew.Points.Equal(decimal.NewFromInt(20)) {
		t.Errorf("new user points = %s, want 20", reloadedNew.Points)
	}
	if !reloadedRef.Points.Equal(decimal.NewFromInt(50)) {
		t.Errorf("referrer points = %s, want 50", reloadedRef.Points)
	}

	var referral models.Referral
	if err := db.Where("referred_id = ?", newUser.ID).First(&referral).Error; err != nil {
		t.Fatalf("referral relationship missing: %v", err)
	}
	if referral.ReferrerID != referrer.ID {
		t.Errorf("referrer id = %d, want %d", referral.ReferrerID, referrer.ID)
	}
	if referral.SignupBonusAt == nil {
		t.Error("signup bonus not marked awarded")
	}
}

func TestRegisterWithUnknownReferralCodeStillSucceeds(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testEngine(), nopLog())

	user, err := service.Register(RegisterInput{
		Email: "solo@example.com", Password: "s3cret-pass", Name: "Solo",
		ReferralCode: "NOPE9999",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ReferredBy != nil {
		t.Error("unknown code set a referrer")
	}
	if !user.Points.IsZero() {
		t.Errorf("points = %s, want 0", user.Points)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testEngine(), nopLog())

	cases := []RegisterInput{
		{Email: "not-an-email", Password: "s3cret-pass", Name: "A"},
		{Email: "a@b.c", Password: "short", Name: "A"},
		{Email: "a@b.c", Password: "s3cret-pass", Name: ""},
		{Email: "a@b.c", Password: "s3cret-pass", Name: "A", Currency: "XYZ"},
		{Email: "a@b.c", Password: "s3cret-pass", Name: "A", Language: "de"},
	}
	for i, in := range cases {
		if _, err := service.Register(in); !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Errorf("case %d: got %v, want validation error", i, err)
		}
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testEngine(), nopLog())

	if _, err := service.Register(RegisterInput{
		Email: "login@example.com", Password: "s3cret-pass", Name: "L",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, err := service.Login("login@example.com", "wrong-password"); !apperrors.IsKind(err, apperrors.KindAuthorization) {
		t.Errorf("wrong password: got %v, want authorization error", err)
	}

	if _, _, err := service.Login("missing@example.com", "s3cret-pass"); !apperrors.IsKind(err, apperrors.KindAuthorization) {
		t.Errorf("unknown email: got %v, want authorization error", err)
	}

	user, token, err := service.Login("login@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Error("no token issued")
	}
	if user.Email != "login@example.com" {
		t.Errorf("user email = %s", user.Email)
	}
}
