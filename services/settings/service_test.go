package settings

import (
	"context"
	"testing"

	"memberportal/database/repository/repotest"
	"memberportal/models"

	qt "github.com/frankban/quicktest"
)

func branding(name string) models.AppSettings {
	return models.AppSettings{
		AppName:      name,
		Tagline:      "Grow together",
		ContactEmail: "hello@example.org",
		AccentColor:  "#1a2b3c",
		LogoURL:      "https://cdn.example.org/logo.png",
	}
}

func TestDefaultsBeforeFirstSave(t *testing.T) {
	c := qt.New(t)
	svc := NewService(repotest.NewMemorySettingsRepo(), nil)
	c.Assert(svc.Current(context.Background()), qt.DeepEquals, models.DefaultSettings())
	status, _ := svc.Status()
	c.Assert(status, qt.Equals, StatusIdle)
}

func TestSaveIsIdempotent(t *testing.T) {
	c := qt.New(t)
	repo := repotest.NewMemorySettingsRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	first, err := svc.Save(ctx, branding("Bright Futures"))
	c.Assert(err, qt.IsNil)
	row1, err := repo.Get(ctx)
	c.Assert(err, qt.IsNil)

	second, err := svc.Save(ctx, branding("Bright Futures"))
	c.Assert(err, qt.IsNil)
	row2, err := repo.Get(ctx)
	c.Assert(err, qt.IsNil)

	c.Assert(row2, qt.DeepEquals, row1)
	c.Assert(second, qt.DeepEquals, first)
	c.Assert(row1.ID, qt.Equals, models.SettingsID)
	c.Assert(repo.Rows(), qt.Equals, 1)

	status, err := svc.Status()
	c.Assert(err, qt.IsNil)
	c.Assert(status, qt.Equals, StatusSaved)
}

func TestFailedSaveReverts(t *testing.T) {
	c := qt.New(t)
	repo := repotest.NewMemorySettingsRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Save(ctx, branding("Original"))
	c.Assert(err, qt.IsNil)

	repo.FailNext = true
	shown, err := svc.Save(ctx, branding("Renamed"))
	c.Assert(err, qt.IsNotNil)
	c.Assert(shown.AppName, qt.Equals, "Original")

	status, lastErr := svc.Status()
	c.Assert(status, qt.Equals, StatusFailedReverted)
	c.Assert(lastErr, qt.IsNotNil)
	c.Assert(svc.Current(ctx).AppName, qt.Equals, "Original")

	stored, err := repo.Get(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.AppName, qt.Equals, "Original")
}

func TestSaveValidates(t *testing.T) {
	c := qt.New(t)
	svc := NewService(repotest.NewMemorySettingsRepo(), nil)
	ctx := context.Background()

	bad := branding("  ")
	_, err := svc.Save(ctx, bad)
	c.Assert(err, qt.ErrorIs, ErrInvalidSettings)

	bad = branding("Ok")
	bad.AccentColor = "blue"
	_, err = svc.Save(ctx, bad)
	c.Assert(err, qt.ErrorIs, ErrInvalidSettings)

	bad = branding("Ok")
	bad.LogoURL = "ftp://logo"
	_, err = svc.Save(ctx, bad)
	c.Assert(err, qt.ErrorIs, ErrInvalidSettings)
}
