package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	userID := "alice"
	duration := time.Hour
	key := "secret-key"

	token, err := GenerateJWTToken(issuer, userID, duration, key)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Token == nil {
		t.Error("expected non-nil jwt.Token object")
	}
	if token.String() != token.SignedString {
		t.Error("expected String to return the signed token")
	}

	claims, ok := token.Token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		t.Fatal("could not cast claims to RegisteredClaims")
	}
	if claims.Issuer != issuer {
		t.Errorf("expected issuer %s, got %s", issuer, claims.Issuer)
	}
	if claims.Subject != userID {
		t.Errorf("expected subject %q, got %q", userID, claims.Subject)
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		userID   string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", "alice", time.Hour, "key"},
		{"empty user", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", "alice", 0, "key"},
		{"negative duration", "iss", "alice", -time.Second, "key"},
		{"empty key", "iss", "alice", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, tt.userID, tt.duration, tt.key)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	key := "secret-key"

	genToken, err := GenerateJWTToken(issuer, "bob@example.com", 5*time.Minute, key)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsedToken, err := ValidateAndParseJWTToken(genToken.SignedString, key, issuer)

	if err != nil {
		t.Fatalf("expected token to be valid, got error: %v", err)
	}
	if parsedToken.UserID != "bob@example.com" {
		t.Errorf("expected userID bob@example.com, got %q", parsedToken.UserID)
	}
	if parsedToken.Token == nil || !parsedToken.Valid {
		t.Error("expected a valid parsed jwt.Token")
	}
}

func TestValidateAndParseJWTToken_InvalidKey(t *testing.T) {
	genToken, _ := GenerateJWTToken("test-issuer", "alice", time.Hour, "correct-key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "wrong-key", "test-issuer")
	if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Errorf("expected signature error, got %v", err)
	}
}

func signClaims(t *testing.T, claims jwt.Claims, key string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	raw := signClaims(t, jwt.RegisteredClaims{
		Issuer:    "iss",
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}, "key")

	_, err := ValidateAndParseJWTToken(raw, "key", "iss")
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected expired error, got %v", err)
	}
}

func TestValidateAndParseJWTToken_MissingClaims(t *testing.T) {
	noExpiry := signClaims(t, jwt.RegisteredClaims{Issuer: "iss", Subject: "alice"}, "key")
	if _, err := ValidateAndParseJWTToken(noExpiry, "key", "iss"); err == nil {
		t.Error("expected error for token without exp")
	}

	noSubject := signClaims(t, jwt.RegisteredClaims{
		Issuer:    "iss",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, "key")
	if _, err := ValidateAndParseJWTToken(noSubject, "key", "iss"); err == nil {
		t.Error("expected error for token without subject")
	}
}

func TestValidateAndParseJWTToken_WrongIssuer(t *testing.T) {
	genToken, _ := GenerateJWTToken("real-issuer", "alice", time.Hour, "key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "key", "fake-issuer")
	if err == nil {
		t.Error("expected error for issuer mismatch, got nil")
	}
}

func TestValidateAndParseJWTToken_Malformed(t *testing.T) {
	_, err := ValidateAndParseJWTToken("not.a.token", "key", "iss")
	if err == nil {
		t.Error("expected error for malformed token string, got nil")
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer   abc", want: "abc"},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "", wantErr: true},
		{header: "Bearer a b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.header)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseBearerToken(%q) = %q, %v; want %q", tt.header, got, err, tt.want)
			}
		})
	}
}
