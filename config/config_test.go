package config

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestNormalizeSplitsOrigins(t *testing.T) {
	c := qt.New(t)
	cfg := Config{AllowedOrigins: []string{"https://a.org, https://b.org"}, DonationCurrency: "USD", StorageBackend: " Firebase "}
	cfg.normalize()
	c.Assert(cfg.AllowedOrigins, qt.DeepEquals, []string{"https://a.org", "https://b.org"})
	c.Assert(cfg.DonationCurrency, qt.Equals, "usd")
	c.Assert(cfg.StorageBackend, qt.Equals, "firebase")
	c.Assert(cfg.UploadConcurrency, qt.Equals, 4)
	c.Assert(cfg.SessionTTL, qt.Equals, 72*time.Hour)
}

func TestDemoAdminNeverInProduction(t *testing.T) {
	c := qt.New(t)
	saved := AppConfig
	defer func() { AppConfig = saved }()

	AppConfig = Config{Env: "production", DemoAdminEnabled: true}
	c.Assert(DemoAdminAllowed(), qt.IsFalse)

	AppConfig = Config{Env: "development", DemoAdminEnabled: true}
	c.Assert(DemoAdminAllowed(), qt.IsTrue)

	AppConfig = Config{Env: "development"}
	c.Assert(DemoAdminAllowed(), qt.IsFalse)
}

func TestDefaultBucket(t *testing.T) {
	c := qt.New(t)
	saved := AppConfig
	defer func() { AppConfig = saved }()

	AppConfig = Config{FirebaseProjectID: "portal-123"}
	c.Assert(DefaultBucket(), qt.Equals, "portal-123.appspot.com")
	AppConfig.StorageBucket = "custom"
	c.Assert(DefaultBucket(), qt.Equals, "custom")
}
