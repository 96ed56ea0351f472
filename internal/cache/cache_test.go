package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(true)
	etag := c.Set("prayers:2025-01-06", []byte(`[]`), time.Minute)

	data, got, ok := c.Get("prayers:2025-01-06")
	if !ok {
		t.Fatal("Get missed a fresh entry")
	}
	if string(data) != "[]" || got != etag {
		t.Errorf("Get = %q %q, want [] %q", data, got, etag)
	}

	c.Purge()
	if _, _, ok := c.Get("prayers:2025-01-06"); ok {
		t.Error("entry survived Purge")
	}
}

func TestExpiredEntryMisses(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), -time.Second)
	if _, _, ok := c.Get("k"); ok {
		t.Error("expired entry was returned")
	}
	c.evict()
	if n := c.Stats()["total_keys"]; n != 0 {
		t.Errorf("total_keys after evict = %v, want 0", n)
	}
}

func TestDisabledCache(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Minute)
	if etag != ComputeETag([]byte("v")) {
		t.Errorf("Set etag = %q", etag)
	}
	if _, _, ok := c.Get("k"); ok {
		t.Error("disabled cache returned an entry")
	}
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("body"))
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"*", true},
		{etag, true},
		{`W/"other"`, false},
	}
	for _, tt := range tests {
		if got := CheckETagMatch(tt.header, etag); got != tt.want {
			t.Errorf("CheckETagMatch(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestPrayersKeyChangesWithGeneration(t *testing.T) {
	a := PrayersKey("2025-01-06", false, 1)
	b := PrayersKey("2025-01-06", false, 2)
	if a == b {
		t.Errorf("PrayersKey ignores generation: %q", a)
	}
	if PrayersKey("2025-01-06", true, 1) == a {
		t.Error("PrayersKey ignores full")
	}
}
