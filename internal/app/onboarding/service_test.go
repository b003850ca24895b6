package onboarding

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"motionarcade/internal/ports"
)

type fakeAccountPort struct {
	updateErr error
	names     []string
}

func (f *fakeAccountPort) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	f.names = append(f.names, displayName)
	return f.updateErr
}

type fakeRecordsPort struct {
	initErr error
	created bool
	inits   []string
}

func (f *fakeRecordsPort) InitRecordsOnce(ctx context.Context, userID string) (bool, error) {
	f.inits = append(f.inits, userID)
	if f.initErr != nil {
		return false, f.initErr
	}
	return f.created, nil
}

func (f *fakeRecordsPort) GetRecords(ctx context.Context, userID string) (ports.Records, error) {
	return ports.Records{}, nil
}

func (f *fakeRecordsPort) SubmitResult(ctx context.Context, result ports.GameResult) (bool, error) {
	return false, nil
}

func TestOnboardNewUser_CreatesRecords(t *testing.T) {
	accounts := &fakeAccountPort{}
	records := &fakeRecordsPort{created: true}
	service := NewService(accounts, records, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if result.ProfileUpdateErr != nil {
		t.Fatalf("Expected no profile update error, got %v", result.ProfileUpdateErr)
	}
	if !result.RecordsCreated {
		t.Fatal("Expected records to be marked as created")
	}
	if len(records.inits) != 1 || records.inits[0] != "user-1" {
		t.Fatalf("Expected one records init for user-1, got %v", records.inits)
	}
	if len(accounts.names) != 1 || accounts.names[0] != result.DisplayName {
		t.Fatalf("Expected display name %q to be applied, got %v", result.DisplayName, accounts.names)
	}
}

func TestOnboardNewUser_ProfileFailureStillCreatesRecords(t *testing.T) {
	records := &fakeRecordsPort{created: true}
	service := NewService(&fakeAccountPort{updateErr: errors.New("update failed")}, records, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if result.ProfileUpdateErr == nil {
		t.Fatal("Expected profile update error to be captured")
	}
	if len(records.inits) != 1 {
		t.Fatalf("Expected 1 records init, got %d", len(records.inits))
	}
}

func TestOnboardNewUser_RecordsFailureReturnsError(t *testing.T) {
	service := NewService(&fakeAccountPort{}, &fakeRecordsPort{initErr: errors.New("storage failed")}, rand.New(rand.NewSource(1)))

	if _, err := service.OnboardNewUser(context.Background(), "user-1"); err == nil {
		t.Fatal("Expected error when records cannot be created")
	}
}

func TestOnboardNewUser_RecordsAlreadyExist(t *testing.T) {
	service := NewService(&fakeAccountPort{}, &fakeRecordsPort{created: false}, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if result.RecordsCreated {
		t.Fatal("Expected existing records to be left alone")
	}
}

func TestGenerateFriendlyNameIsDeterministicForSeed(t *testing.T) {
	a := NewService(&fakeAccountPort{}, &fakeRecordsPort{}, rand.New(rand.NewSource(7))).generateFriendlyName()
	b := NewService(&fakeAccountPort{}, &fakeRecordsPort{}, rand.New(rand.NewSource(7))).generateFriendlyName()
	if a != b {
		t.Fatalf("generateFriendlyName() = %q and %q for the same seed", a, b)
	}
	if a == "" {
		t.Fatal("generateFriendlyName() returned empty name")
	}
}
