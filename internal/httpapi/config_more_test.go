package httpapi

import "testing"

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 4<<20 {
		t.Fatalf("expected default 4MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 4<<20 {
		t.Fatalf("expected default 4MiB on zero, got %d", maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func TestSetRequestTimeoutSeconds_NormalizesNegativeToZero(t *testing.T) {
	defer SetRequestTimeoutSeconds(0)
	SetRequestTimeoutSeconds(-5)
	if requestTimeout != 0 {
		t.Fatalf("expected 0, got %d", requestTimeout)
	}
	SetRequestTimeoutSeconds(3)
	if requestTimeout != 3 || requestTimeoutDuration().Seconds() != 3 {
		t.Fatalf("expected 3, got %d", requestTimeout)
	}
}

func TestSetCORSOptions_EmptyListsAllowAll(t *testing.T) {
	defer SetCORSOptions(true, nil, nil, nil)
	SetCORSOptions(true, []string{"https://a.test"}, nil, nil)
	if len(corsAllowedOrigins) != 1 || corsAllowedOrigins[0] != "https://a.test" {
		t.Fatalf("origins=%v", corsAllowedOrigins)
	}
	if len(corsAllowedMethods) != len(allMethods) || corsAllowedHeaders[0] != "*" {
		t.Fatalf("methods=%v headers=%v", corsAllowedMethods, corsAllowedHeaders)
	}
}
