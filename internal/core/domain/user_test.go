package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{"admin": RoleAdmin, "user": RoleUser, " user ": RoleUser} {
		got, err := ParseRole(in)
		if err != nil || got != want {
			t.Fatalf("ParseRole(%q) = %q, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "Admin", "root", "client"} {
		if _, err := ParseRole(in); !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("ParseRole(%q) should fail, got %v", in, err)
		}
	}
}

func TestUser_PendingPassword(t *testing.T) {
	var u User
	if _, ok := u.PendingPassword(); ok {
		t.Fatalf("zero user must not have a pending password")
	}

	u.SetPassword("")
	if raw, ok := u.PendingPassword(); !ok || raw != "" {
		t.Fatalf("empty password should still be staged")
	}

	u.SetPassword("s3cret")
	u.ApplyPasswordHash("$2a$04$hash")
	if _, ok := u.PendingPassword(); ok {
		t.Fatalf("pending password must be cleared once hashed")
	}
	if u.PasswordHash != "$2a$04$hash" {
		t.Fatalf("hash not applied")
	}
}

func TestIdentityVariants(t *testing.T) {
	var id Identity = AdminIdentity{Name: "root"}
	if id.Subject() != AdminSubject || id.Role() != RoleAdmin || id.Username() != "root" {
		t.Fatalf("unexpected admin identity: %+v", id)
	}

	id = StoredIdentity{User: &User{ID: "u1", Username: "alice", Role: RoleUser}}
	if id.Subject() != "u1" || id.Role() != RoleUser {
		t.Fatalf("unexpected stored identity: %+v", id)
	}
}

func TestVideo_CanBeDeletedBy(t *testing.T) {
	v := &Video{UserID: "u1"}
	cases := []struct {
		p    Principal
		want bool
	}{
		{Principal{Subject: "u1", Role: RoleUser}, true},
		{Principal{Subject: "u2", Role: RoleUser}, false},
		{Principal{Subject: AdminSubject, Role: RoleAdmin}, true},
		{Principal{}, false},
	}
	for _, c := range cases {
		if got := v.CanBeDeletedBy(c.p); got != c.want {
			t.Fatalf("CanBeDeletedBy(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
	if (&Video{}).CanBeDeletedBy(Principal{}) {
		t.Fatalf("empty subject must not own an unowned video")
	}
}
