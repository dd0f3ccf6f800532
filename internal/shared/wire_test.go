package shared

import (
	"strings"
	"testing"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
)

func TestRunLogDSN_ForcesParseTimeAndUTC(t *testing.T) {
	cases := []string{
		"user:pw@tcp(db:3306)/reviews",
		"user:pw@tcp(db:3306)/reviews?parseTime=false&loc=Local",
		"user:pw@tcp(db:3306)/reviews?charset=utf8mb4",
	}
	for _, in := range cases {
		out, err := RunLogDSN(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if !strings.Contains(out, "parseTime=true") {
			t.Fatalf("%s: parseTime missing in %s", in, out)
		}
		c, err := mysqldrv.ParseDSN(out)
		if err != nil {
			t.Fatalf("reparse %s: %v", out, err)
		}
		if !c.ParseTime || c.Loc != time.UTC {
			t.Fatalf("%s: parseTime=%v loc=%v", in, c.ParseTime, c.Loc)
		}
		if c.User != "user" || c.Addr != "db:3306" || c.DBName != "reviews" {
			t.Fatalf("%s: connection fields changed: %+v", in, c)
		}
	}
}

func TestRunLogDSN_KeepsCharset(t *testing.T) {
	out, err := RunLogDSN("user:pw@tcp(db:3306)/reviews?charset=utf8mb4")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !strings.Contains(out, "charset=utf8mb4") {
		t.Fatalf("charset dropped: %s", out)
	}
}

func TestRunLogDSN_Invalid(t *testing.T) {
	if _, err := RunLogDSN("not a dsn"); err == nil {
		t.Fatal("expected error for malformed DSN")
	}
}
