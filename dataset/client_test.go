package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchInteractions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Warfarin\tref-w\tIncreased bleeding risk|Avoid alcohol\nAspirin\tref-a\tMay increase bleeding risk\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 10*time.Second)

	records, err := client.FetchInteractions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != "Warfarin" {
		t.Errorf("expected Warfarin, got %q", records[0].Name)
	}
	if len(records[0].Interactions) != 2 {
		t.Errorf("expected 2 warnings, got %v", records[0].Interactions)
	}
}

func TestFetchInteractions_Latin1Fallback(t *testing.T) {
	// 0xE9 is é in ISO-8859-1 and invalid on its own in UTF-8. Older corpus
	// exports still ship like this.
	latin1 := []byte("Caf\xe9ine\tref-c\tAvoid with stimulant medication\n")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(latin1)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 10*time.Second)

	records, err := client.FetchInteractions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Name != "Caféine" {
		t.Errorf("expected decoded name Caféine, got %q", records[0].Name)
	}
}

func TestFetchInteractions_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone fishing", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 10*time.Second)

	_, err := client.FetchInteractions(context.Background())
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if !strings.Contains(err.Error(), "unexpected status") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFetchInteractions_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with no content: a truncated export must fail loudly.
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 10*time.Second)

	_, err := client.FetchInteractions(context.Background())
	if err == nil {
		t.Fatal("expected an error for an empty body")
	}
	if !strings.Contains(err.Error(), "corpus is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFetchInteractions_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchInteractions(ctx)
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}

func TestFetchPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Warfarin\tAspirin\tmajor\tadditive anticoagulation\tBleeding risk\n"))
	}))
	defer server.Close()

	client := NewClient("http://unused.invalid", server.URL, 10*time.Second)

	pairs, err := client.FetchPairs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].DrugA != "Warfarin" || pairs[0].DrugB != "Aspirin" {
		t.Errorf("unexpected pair: %v", pairs[0])
	}
}

func TestFetchPairs_Unconfigured(t *testing.T) {
	// No pair corpus URL means no pair data and no error; the service runs
	// with name resolution only.
	client := NewClient("http://unused.invalid", "", 10*time.Second)

	pairs, err := client.FetchPairs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pairs != nil {
		t.Errorf("expected nil pairs, got %v", pairs)
	}
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client := NewClient("http://example.invalid", "", 0)
	if client.httpClient.Timeout != 5*time.Minute {
		t.Errorf("expected 5 minute default timeout, got %s", client.httpClient.Timeout)
	}

	client = NewClient("http://example.invalid", "", 30*time.Second)
	if client.httpClient.Timeout != 30*time.Second {
		t.Errorf("expected configured timeout, got %s", client.httpClient.Timeout)
	}
}
