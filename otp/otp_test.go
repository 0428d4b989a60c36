package otp

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestIssueVerifyConsume(t *testing.T) {
	t.Parallel()
	s := New(time.Minute, time.Minute)

	code, err := s.Issue("Guest@Example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(code) != 4 {
		t.Fatalf("code %q is not 4 digits", code)
	}

	if s.ConsumeVerified("guest@example.com") {
		t.Fatal("email verified before the code was checked")
	}
	if s.Verify("guest@example.com", "0000") {
		t.Fatal("wrong code accepted")
	}
	if !s.Verify(" guest@example.com ", code) {
		t.Fatal("correct code rejected")
	}
	if s.Verify("guest@example.com", code) {
		t.Fatal("code must be single use")
	}

	if !s.ConsumeVerified("GUEST@example.com") {
		t.Fatal("verification not remembered")
	}
	if s.ConsumeVerified("guest@example.com") {
		t.Fatal("verification must be consumed")
	}
}

func TestCodesExpire(t *testing.T) {
	t.Parallel()
	s := New(20*time.Millisecond, time.Minute)
	code, _ := s.Issue("late@example.com")
	time.Sleep(40 * time.Millisecond)
	if s.Verify("late@example.com", code) {
		t.Fatal("expired code accepted")
	}
}

func TestReissueReplacesCode(t *testing.T) {
	t.Parallel()
	s := New(time.Minute, time.Minute)
	first, _ := s.Issue("a@example.com")
	var second string
	for second = first; second == first; {
		second, _ = s.Issue("a@example.com")
	}
	if s.Verify("a@example.com", first) {
		t.Fatal("replaced code still valid")
	}
	if !s.Verify("a@example.com", second) {
		t.Fatal("latest code rejected")
	}
}

func TestConcurrentUseIsSingleUse(t *testing.T) {
	t.Parallel()
	s := New(time.Minute, time.Minute)
	code, err := s.Issue("race@example.com")
	if err != nil {
		t.Fatal(err)
	}

	var verified, consumed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Verify("race@example.com", code) {
				verified.Add(1)
			}
		}()
	}
	wg.Wait()
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.ConsumeVerified("race@example.com") {
				consumed.Add(1)
			}
		}()
	}
	wg.Wait()

	if verified.Load() != 1 || consumed.Load() != 1 {
		t.Fatalf("verified %d times, consumed %d times; want once each", verified.Load(), consumed.Load())
	}
}
