package cache

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get() = %q, %v, want miss", data, hit)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

// backends returns every cache that can run without external services.
func backends(t *testing.T) map[string]Cache {
	t.Helper()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	return map[string]Cache{
		"memory": NewMemoryCache(),
		"file":   fc,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, hit, _ := c.Get(ctx, "missing"); hit {
				t.Error("Get(missing) hit")
			}
			if err := c.Set(ctx, "k", []byte("<svg/>"), time.Hour); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			data, hit, err := c.Get(ctx, "k")
			if err != nil || !hit {
				t.Fatalf("Get() = %v, %v", hit, err)
			}
			if string(data) != "<svg/>" {
				t.Errorf("Get() = %q, want %q", data, "<svg/>")
			}
			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, hit, _ := c.Get(ctx, "k"); hit {
				t.Error("Get() after Delete hit")
			}
			if err := c.Delete(ctx, "k"); err != nil {
				t.Errorf("Delete() twice error = %v", err)
			}
		})
	}
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	mc := NewMemoryCache()
	mc.now = clock
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc.now = clock

	for name, c := range map[string]Cache{"memory": mc, "file": fc} {
		t.Run(name, func(t *testing.T) {
			now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			c.Set(ctx, "short", []byte("a"), time.Minute)
			c.Set(ctx, "forever", []byte("b"), 0)

			now = now.Add(2 * time.Minute)
			if _, hit, _ := c.Get(ctx, "short"); hit {
				t.Error("expired entry hit")
			}
			if _, hit, _ := c.Get(ctx, "forever"); !hit {
				t.Error("entry without ttl missed")
			}
		})
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v, want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry was not removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear()")
	}
	if c.Dir() == "" {
		t.Error("Dir() is empty")
	}
}

func TestMemoryCacheCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	buf := []byte("abc")
	c.Set(ctx, "k", buf, 0)
	buf[0] = 'x'
	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Get() = %q, want %q", got, "abc")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash() is not deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs produced the same hash")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash()) = %d, want 64", len(h1))
	}
	if HashJSON([]int{1, 2}) != Hash([]byte("[1,2]")) {
		t.Error("HashJSON() does not hash the JSON encoding")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tests := []struct {
		name string
		a, b string
	}{
		{"cloud top-n", k.CloudKey("h", CloudKeyOpts{TopN: 5}), k.CloudKey("h", CloudKeyOpts{TopN: 6})},
		{"cloud width", k.CloudKey("h", CloudKeyOpts{Width: 1000}), k.CloudKey("h", CloudKeyOpts{Width: 800})},
		{"cloud input", k.CloudKey("h1", CloudKeyOpts{}), k.CloudKey("h2", CloudKeyOpts{})},
		{"stream series", k.StreamKey("h", StreamKeyOpts{Series: []string{"a"}}), k.StreamKey("h", StreamKeyOpts{Series: []string{"b"}})},
		{"artifact format", k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}), k.ArtifactKey("h", ArtifactKeyOpts{Format: "png"})},
		{"artifact interactive", k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}), k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Interactive: true})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a == tt.b {
				t.Errorf("keys collide: %s", tt.a)
			}
		})
	}

	if got := k.CloudKey("h", CloudKeyOpts{TopN: 5}); got != k.CloudKey("h", CloudKeyOpts{TopN: 5}) {
		t.Error("CloudKey() is not deterministic")
	}
	if got := k.StreamKey("h", StreamKeyOpts{}); !strings.HasPrefix(got, "stream:") {
		t.Errorf("StreamKey() = %s, want stream: prefix", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:")

	want := "tenant:" + inner.CloudKey("h", CloudKeyOpts{TopN: 5})
	if got := scoped.CloudKey("h", CloudKeyOpts{TopN: 5}); got != want {
		t.Errorf("CloudKey() = %s, want %s", got, want)
	}
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{}); !strings.HasPrefix(got, "tenant:artifact:") {
		t.Errorf("ArtifactKey() = %s", got)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if got := nilInner.StreamKey("h", StreamKeyOpts{}); got != "p:"+inner.StreamKey("h", StreamKeyOpts{}) {
		t.Errorf("StreamKey() with nil inner = %s", got)
	}
}

var errTransient = stderrors.New("connection reset")

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable() = false for wrapped error")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), errTransient.Error())
	}
	if !stderrors.Is(err, errTransient) {
		t.Error("wrapped error does not unwrap")
	}
	if IsRetryable(errTransient) {
		t.Error("IsRetryable() = true for plain error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"permanent", 5, false, 1, true},
		{"recovers", 1, true, 2, false},
		{"exhausted", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(errTransient)
					}
					return errTransient
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("RetryWithBackoff() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(errTransient) })
	if err != context.Canceled {
		t.Errorf("RetryWithBackoff() = %v, want %v", err, context.Canceled)
	}
}
