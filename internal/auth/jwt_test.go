package auth

import (
	"strings"
	"testing"
)

func TestIssueAndValidate(t *testing.T) {
	m := NewManager("test-secret")
	token, err := m.Issue("staff@friterie.be")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Email != "staff@friterie.be" {
		t.Fatalf("email = %q", claims.Email)
	}
	if claims.Issuer != "friterie" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a").Issue("staff@friterie.be")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager("secret-b").Validate(token); err == nil {
		t.Fatalf("token signed with another secret accepted")
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	m := NewManager("test-secret")
	token, err := m.Issue("staff@friterie.be")
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := m.Validate(tampered); err == nil {
		t.Fatalf("tampered token accepted")
	}
}

func TestValidate_Garbage(t *testing.T) {
	if _, err := NewManager("test-secret").Validate("not-a-jwt"); err == nil {
		t.Fatalf("garbage accepted")
	}
}
