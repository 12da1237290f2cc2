package models

import (
	"errors"
	"testing"
)

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{name: "valid", user: User{Name: "Ada", Email: "ada@example.com", Role: RoleDeveloper}},
		{name: "missing name", user: User{Email: "ada@example.com", Role: RoleViewer}, wantErr: true},
		{name: "bad email", user: User{Name: "Ada", Email: "ada", Role: RoleViewer}, wantErr: true},
		{name: "unknown role", user: User{Name: "Ada", Email: "ada@example.com", Role: "owner"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() err=%v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() err=%v, want %v", err, ErrValidation)
			}
		})
	}
}

func TestUserApply(t *testing.T) {
	u := User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: RoleViewer}
	role := RoleAdmin
	name := " Ada L. "
	got := u.Apply(UserPatch{Name: &name, Role: &role})
	if got.Name != "Ada L." || got.Role != RoleAdmin || got.Email != u.Email {
		t.Fatalf("Apply() = %+v", got)
	}
}

func TestPostValidateAndApply(t *testing.T) {
	p := Post{Title: "Release notes", AuthorID: "u1"}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() err=%v, want nil", err)
	}
	if err := (Post{Title: "orphan"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() without author err=%v, want %v", err, ErrValidation)
	}

	blank := "  "
	if err := p.Apply(PostPatch{Title: &blank}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() blank title err=%v, want %v", err, ErrValidation)
	}
	content := "Shipped the board."
	if got := p.Apply(PostPatch{Content: &content}); got.Content != content || got.AuthorID != "u1" {
		t.Fatalf("Apply() = %+v", got)
	}
}
