package nakama

import (
	"testing"

	"github.com/form3tech-oss/jwt-go"
)

func TestExtractUserIDFromToken(t *testing.T) {
	signed := func(claims jwt.MapClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-key"))
		if err != nil {
			t.Fatalf("SignedString: %v", err)
		}
		return token
	}

	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{name: "ValidToken", token: signed(jwt.MapClaims{"uid": "user-1", "usn": "player"}), want: "user-1"},
		{name: "MissingUID", token: signed(jwt.MapClaims{"usn": "player"}), wantErr: true},
		{name: "NotAJWT", token: "not-a-token", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := extractUserIDFromToken(test.token)
			if (err != nil) != test.wantErr {
				t.Fatalf("extractUserIDFromToken() err = %v, wantErr %t", err, test.wantErr)
			}
			if got != test.want {
				t.Fatalf("extractUserIDFromToken() = %q, want %q", got, test.want)
			}
		})
	}
}
