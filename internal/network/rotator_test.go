package network

import (
	"testing"
	"time"
)

func TestRotatorRoundRobin(t *testing.T) {
	r, err := NewRotator([]string{
		"http://proxy-a:8080",
		"http://proxy-b:8080",
	}, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator: %v", err)
	}

	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	second, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.String() == second.String() {
		t.Fatal("expected rotation across proxies")
	}

	third, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if third.String() != first.String() {
		t.Fatal("expected wrap-around to the first proxy")
	}
}

func TestRotatorBansFailures(t *testing.T) {
	r, err := NewRotator([]string{
		"http://proxy-a:8080",
		"http://proxy-b:8080",
	}, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator: %v", err)
	}

	first, _ := r.Next()
	r.ReportFailure(first)

	for i := 0; i < 4; i++ {
		proxy, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if proxy.String() == first.String() {
			t.Fatal("banned proxy should not be offered")
		}
	}
}

func TestRotatorNilIsNoProxy(t *testing.T) {
	var r *Rotator
	proxy, err := r.Next()
	if err != nil || proxy != nil {
		t.Fatalf("nil rotator should yield no proxy, got %v / %v", proxy, err)
	}
	r.ReportFailure(nil) // must not panic
}

func TestRotatorEmpty(t *testing.T) {
	r, err := NewRotator(nil, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator: %v", err)
	}
	if _, err := r.Next(); err != ErrNoProxies {
		t.Fatalf("expected ErrNoProxies, got %v", err)
	}
}
