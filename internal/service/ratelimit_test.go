package service_test

import (
	"testing"
	"time"

	"github.com/slotswap/slotswap/internal/service"
)

func TestRateLimiter_AllowsUpToBurst(t *testing.T) {
	rl := service.NewRateLimiter(0, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("attempt past the burst should be denied")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := service.NewRateLimiter(0, 1)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first key should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("first key should now be exhausted")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("second key starts with its own full bucket")
	}
}

func TestRateLimiter_ZeroRateNeverRefills(t *testing.T) {
	rl := service.NewRateLimiter(0, 1)

	if !rl.Allow("k") {
		t.Fatal("first attempt should be allowed")
	}
	for i := 0; i < 5; i++ {
		if rl.Allow("k") {
			t.Fatal("a zero-rate bucket must never refill")
		}
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	// 1000 tokens/s refills the single-token bucket within a millisecond.
	rl := service.NewRateLimiter(1000, 1)

	if !rl.Allow("k") {
		t.Fatal("first attempt should be allowed")
	}
	time.Sleep(5 * time.Millisecond)
	if !rl.Allow("k") {
		t.Fatal("bucket should have refilled")
	}
}
