package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name      string
		userName  string
		email     string
		wantEmail string
		wantErr   bool
	}{
		{"valid", "Ada", "ada@example.com", "ada@example.com", false},
		{"trims and lowercases", "  Ada ", " Ada@Example.COM ", "ada@example.com", false},
		{"empty name", "   ", "ada@example.com", "", true},
		{"missing email", "Ada", "", "", true},
		{"bad email", "Ada", "not-an-email", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.userName, tt.email)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidUser) {
					t.Fatalf("NewUser() error = %v, want ErrInvalidUser", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewUser() error = %v", err)
			}
			if user.Email != tt.wantEmail {
				t.Errorf("Email = %q, want %q", user.Email, tt.wantEmail)
			}
			if user.Name != "Ada" {
				t.Errorf("Name = %q, want Ada", user.Name)
			}
			if user.PairedWith == nil || len(user.PairedWith) != 0 {
				t.Errorf("PairedWith = %v, want empty non-nil slice", user.PairedWith)
			}
		})
	}
}

func TestAddPairingIsIdempotent(t *testing.T) {
	u := &User{ID: "a"}
	u.AddPairing("b")
	u.AddPairing("b")
	u.AddPairing("c")

	if want := []string{"b", "c"}; !reflect.DeepEqual(u.PairedWith, want) {
		t.Errorf("PairedWith = %v, want %v", u.PairedWith, want)
	}
	if !u.IsPairedWith("c") || u.IsPairedWith("d") {
		t.Errorf("IsPairedWith gave wrong answer for %v", u.PairedWith)
	}
}

func TestPairExclusions(t *testing.T) {
	u := &User{ID: "a", PairedWith: []string{"b", "c"}}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(u.PairExclusions(), want) {
		t.Errorf("PairExclusions() = %v, want %v", u.PairExclusions(), want)
	}
}

func TestPairResults(t *testing.T) {
	paired := NewPairedResult(&User{Name: "Grace", Email: "grace@example.com"})
	if paired.Message != "Paired with Grace (grace@example.com)" {
		t.Errorf("Message = %q", paired.Message)
	}

	unpaired := NewUnpairedResult()
	if unpaired.Partner != nil || unpaired.Message != "No other users available to pair." {
		t.Errorf("unexpected unpaired result %+v", unpaired)
	}
}
