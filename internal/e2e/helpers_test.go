package e2e

import (
    "bytes"
    "context"
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "strings"
    "sync"
    "sync/atomic"
    "testing"

    "sitegen/internal/httpapi"
    "sitegen/internal/images"
    "sitegen/internal/llm"
    "sitegen/internal/site"
)

// stubBackend plays Ollama: /api/generate returns reply, /api/tags one model.
type stubBackend struct {
    *httptest.Server
    mu     sync.Mutex
    reply  string
    models []string
}

func newStubBackend(t *testing.T, reply string) *stubBackend {
    t.Helper()
    b := &stubBackend{reply: reply}
    mux := http.NewServeMux()
    mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
        var req struct{ Model string `json:"model"` }
        _ = json.NewDecoder(r.Body).Decode(&req)
        b.mu.Lock()
        b.models = append(b.models, req.Model)
        reply := b.reply
        b.mu.Unlock()
        _ = json.NewEncoder(w).Encode(map[string]any{"response": reply, "done": true})
    })
    mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
        _, _ = w.Write([]byte(`{"models":[{"name":"qwen2.5-coder:7b"}]}`))
    })
    b.Server = httptest.NewServer(mux)
    t.Cleanup(b.Close)
    return b
}

// stubPexels plays the photo search API. status != 200 makes every search fail.
type stubPexels struct {
    *httptest.Server
    hits   atomic.Int32
    status atomic.Int32
}

func newStubPexels(t *testing.T) *stubPexels {
    t.Helper()
    p := &stubPexels{}
    p.status.Store(http.StatusOK)
    p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        p.hits.Add(1)
        if r.Header.Get("Authorization") != "test-key" {
            w.WriteHeader(http.StatusUnauthorized)
            return
        }
        if s := int(p.status.Load()); s != http.StatusOK {
            w.WriteHeader(s)
            return
        }
        q := strings.ReplaceAll(r.URL.Query().Get("query"), " ", "-")
        _, _ = io.WriteString(w, `{"photos":[{"src":{"landscape":"https://images.pexels.test/`+q+`.jpg"}}]}`)
    }))
    t.Cleanup(p.Close)
    return p
}

// newServer wires the full stack the way cmd/sitegen does, against stubs.
func newServer(t *testing.T, backend *stubBackend, pexels *stubPexels) *httptest.Server {
    t.Helper()
    resolver := images.NewPexels(images.PexelsConfig{APIKey: "test-key", Endpoint: pexels.URL})
    svc := site.New(site.Config{
        Backend:  llm.NewOllama(llm.OllamaConfig{BaseURL: backend.URL}),
        Injector: images.NewInjector(resolver, images.DefaultConcurrency),
    })
    srv := httptest.NewServer(httpapi.NewMux(svc))
    t.Cleanup(srv.Close)
    return srv
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
    t.Helper()
    req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
    if err != nil { t.Fatalf("new req: %v", err) }
    resp, err := http.DefaultClient.Do(req)
    if err != nil { t.Fatalf("do req: %v", err) }
    body, _ := io.ReadAll(resp.Body)
    _ = resp.Body.Close()
    return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
    t.Helper()
    req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
    if err != nil { t.Fatalf("new req: %v", err) }
    req.Header.Set("Content-Type", "application/json")
    resp, err := http.DefaultClient.Do(req)
    if err != nil { t.Fatalf("do req: %v", err) }
    body, _ := io.ReadAll(resp.Body)
    _ = resp.Body.Close()
    return resp, body
}
