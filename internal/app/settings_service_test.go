package app_test

import (
	"context"
	"errors"
	"testing"

	"focusflow/internal/adapter/memory"
	"focusflow/internal/app"
	"focusflow/internal/domain"
)

type mockSettingsRepo struct {
	getFn    func(ctx context.Context, userID int64) (*domain.TimerSettings, error)
	upsertFn func(ctx context.Context, t domain.TimerSettings) (*domain.TimerSettings, error)
}

func (m *mockSettingsRepo) GetTimerSettings(ctx context.Context, userID int64) (*domain.TimerSettings, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockSettingsRepo) UpsertTimerSettings(ctx context.Context, t domain.TimerSettings) (*domain.TimerSettings, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, t)
	}
	return &t, nil
}

func TestSettings_DefaultsOnFirstGet(t *testing.T) {
	db := memory.New()
	svc := app.NewSettingsService(db)

	got, err := svc.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got != domain.DefaultTimerSettings(3) {
		t.Errorf("expected defaults, got %+v", got)
	}

	stored, _ := db.GetTimerSettings(context.Background(), 3)
	if stored == nil {
		t.Error("expected defaults to be stored")
	}
}

func TestSettings_UpdateMerges(t *testing.T) {
	db := memory.New()
	svc := app.NewSettingsService(db)
	ctx := context.Background()

	if _, err := svc.Update(ctx, 1, domain.TimerSettingsPatch{WorkDuration: intPtr(50)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.Update(ctx, 1, domain.TimerSettingsPatch{SoundEnabled: boolPtr(false)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := domain.DefaultTimerSettings(1)
	want.WorkDuration = 50
	want.SoundEnabled = false
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSettings_UpdateValidation(t *testing.T) {
	tests := []struct {
		name  string
		patch domain.TimerSettingsPatch
	}{
		{"work too short", domain.TimerSettingsPatch{WorkDuration: intPtr(0)}},
		{"work too long", domain.TimerSettingsPatch{WorkDuration: intPtr(61)}},
		{"break too long", domain.TimerSettingsPatch{BreakDuration: intPtr(31)}},
		{"long break too short", domain.TimerSettingsPatch{LongBreakDuration: intPtr(4)}},
		{"cycle too long", domain.TimerSettingsPatch{SessionsBeforeLongBreak: intPtr(11)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := app.NewSettingsService(&mockSettingsRepo{
				upsertFn: func(ctx context.Context, ts domain.TimerSettings) (*domain.TimerSettings, error) {
					t.Fatal("invalid settings must not be stored")
					return nil, nil
				},
			})
			_, err := svc.Update(context.Background(), 1, tc.patch)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSettings_StorageError(t *testing.T) {
	storageErr := domain.StorageError("get settings", errors.New("down"))
	svc := app.NewSettingsService(&mockSettingsRepo{
		getFn: func(ctx context.Context, userID int64) (*domain.TimerSettings, error) {
			return nil, storageErr
		},
	})
	if _, err := svc.Get(context.Background(), 1); !errors.Is(err, domain.ErrStorage) {
		t.Errorf("expected storage error, got %v", err)
	}
}
