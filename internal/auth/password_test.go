package auth

import "testing"

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	tests := []struct {
		name        string
		stored      string
		presented   string
		wantOK      bool
		wantUpgrade bool
	}{
		{
			name:      "bcrypt match",
			stored:    hash,
			presented: "correct horse battery staple",
			wantOK:    true,
		},
		{
			name:      "bcrypt mismatch",
			stored:    hash,
			presented: "wrong password",
		},
		{
			name:        "legacy plaintext match flags upgrade",
			stored:      "plaintext-password",
			presented:   "plaintext-password",
			wantOK:      true,
			wantUpgrade: true,
		},
		{
			name:      "legacy plaintext mismatch",
			stored:    "plaintext-password",
			presented: "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, needsUpgrade := VerifyPassword(tt.stored, tt.presented)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%t, got %t", tt.wantOK, ok)
			}
			if needsUpgrade != tt.wantUpgrade {
				t.Fatalf("expected needsUpgrade=%t, got %t", tt.wantUpgrade, needsUpgrade)
			}
		})
	}
}

func TestHashPasswordProducesBcrypt(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !isBcryptHash(hash) {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}
	if hash == "secret" {
		t.Fatal("hash must not equal the plaintext password")
	}
}
