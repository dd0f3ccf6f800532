package shared

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "PORT", "REV_FILE_ID", "REVIEWS_TZ", "REVIEWS_DROP_UNDATED", "CACHE_TTL_SECONDS", "WARM_STORE_IDS"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.HTTPAddr != ":3000" {
		t.Fatalf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.FileID != defaultFileID {
		t.Fatalf("FileID = %q", c.FileID)
	}
	if c.Location != time.Local || c.DropUndated {
		t.Fatalf("unexpected location/drop: %v %v", c.Location, c.DropUndated)
	}
	if c.CacheTTL != 300*time.Second || len(c.WarmStoreIDs) != 0 {
		t.Fatalf("unexpected ttl/warm ids: %v %v", c.CacheTTL, c.WarmStoreIDs)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9000")
	t.Setenv("REV_FILE_ID", "file-xyz")
	t.Setenv("REVIEWS_TZ", "UTC")
	t.Setenv("REVIEWS_DROP_UNDATED", "true")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("WARM_STORE_IDS", " 12, 15 ,,7")
	t.Setenv("DRIVE_RPS", "oops")

	c := FromEnv()
	if c.HTTPAddr != ":9000" {
		t.Fatalf("PORT fallback not applied: %q", c.HTTPAddr)
	}
	if c.FileID != "file-xyz" || c.Location != time.UTC || !c.DropUndated {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.CacheTTL != time.Minute {
		t.Fatalf("CacheTTL = %v", c.CacheTTL)
	}
	if got := c.WarmStoreIDs; len(got) != 3 || got[0] != "12" || got[1] != "15" || got[2] != "7" {
		t.Fatalf("WarmStoreIDs = %v", got)
	}
	if c.DriveRPS != 5 {
		t.Fatalf("invalid DRIVE_RPS should fall back to default, got %d", c.DriveRPS)
	}
}
