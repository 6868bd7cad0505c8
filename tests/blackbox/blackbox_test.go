package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil { t.Fatalf("listen: %v", err) }
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil { t.Fatalf("split: %v", err) }
	cleanup := func(){ _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok { t.Fatal("runtime.Caller failed") }
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	root := filepath.Dir(filepath.Dir(bbDir))
	return root
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "sitegen")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/sitegen")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

// fakeOllama answers /api/generate with a canned reply and records prompts.
type fakeOllama struct {
	*httptest.Server
	mu      sync.Mutex
	prompts []string
	models  []string
}

func newFakeOllama(t *testing.T, reply string) *fakeOllama {
	t.Helper()
	f := &fakeOllama{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Model, Prompt string }
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.prompts = append(f.prompts, req.Prompt)
		f.models = append(f.models, req.Model)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"model": req.Model, "response": reply, "done": true})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"qwen2.5-coder:7b","size":1}]}`))
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeOllama) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func startServer(t *testing.T, bin string, backendURL string, port int) *serverProc {
	t.Helper()
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	envFile := filepath.Join(t.TempDir(), "empty.env")
	if err := os.WriteFile(envFile, nil, 0o644); err != nil { t.Fatalf("write env file: %v", err) }
	cmd := exec.Command(bin, "serve", "--addr", addr, "--ollama-url", backendURL)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), "PEXELS_API_KEY=", "ENV_FILE="+envFile)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for healthz
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK { break }
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	sp := &serverProc{cmd: cmd, base: base}
	t.Cleanup(func(){ _ = cmd.Process.Kill() })
	return sp
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil { t.Fatalf("new req: %v", err) }
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do: %v", err) }
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func postJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil { t.Fatalf("new req: %v", err) }
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do: %v", err) }
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

const reply = "Here is your site:\n```html\n<!DOCTYPE html>\n<html><head><title>Acme</title></head><body>" +
	"<img src=\"[IMAGE: red car]\"><img src=\"[IMAGE: red car]\"></body></html>\n```"

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	backend := newFakeOllama(t, reply)
	// Reserve a free port, then release listener before starting the server
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, backend.URL, port)

	// /readyz reflects the backend
	resp, body := get(t, sp.base+"/readyz")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/readyz %d %s", resp.StatusCode, string(body)) }

	// /models
	resp, body = get(t, sp.base+"/models")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/models %d %s", resp.StatusCode, string(body)) }
	var modelsResp struct{ Models []struct{ Name string `json:"name"` } `json:"models"`; DefaultModel string `json:"default_model"` }
	if err := json.Unmarshal(body, &modelsResp); err != nil { t.Fatalf("/models json: %v body=%s", err, string(body)) }
	if len(modelsResp.Models) != 1 || modelsResp.DefaultModel != "qwen2.5-coder:7b" { t.Fatalf("unexpected /models: %s", string(body)) }

	// /generate: sanitized document with placeholder images
	resp, body = postJSON(t, sp.base+"/generate", []byte(`{"businessName":"Acme","color":"teal"}`))
	if resp.StatusCode != http.StatusOK { t.Fatalf("/generate %d %s", resp.StatusCode, string(body)) }
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") { t.Fatalf("/generate content-type=%s", ct) }
	doc := string(body)
	if !strings.HasPrefix(doc, "<!DOCTYPE html>") { t.Fatalf("document not sanitized: %q", doc) }
	if strings.Count(doc, "https://placehold.co/600x400?text=red+car") != 2 || strings.Contains(doc, "[IMAGE:") { t.Fatalf("images not injected: %q", doc) }

	// /edit
	resp, body = postJSON(t, sp.base+"/edit?model=llama3.2", []byte(`{"existingCode":"<html></html>","instructions":"add a footer"}`))
	if resp.StatusCode != http.StatusOK { t.Fatalf("/edit %d %s", resp.StatusCode, string(body)) }
	backend.mu.Lock()
	lastPrompt, lastModel := backend.prompts[len(backend.prompts)-1], backend.models[len(backend.models)-1]
	backend.mu.Unlock()
	if !strings.Contains(lastPrompt, "add a footer") || lastModel != "llama3.2" { t.Fatalf("unexpected backend call: model=%s", lastModel) }

	// /metrics exposes the pipeline
	resp, body = get(t, sp.base+"/metrics")
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("sitegen_images_resolved_total")) {
		t.Fatalf("/metrics %d missing image counter", resp.StatusCode)
	}
}

func TestBlackbox_Edit_EmptyInstructions_422(t *testing.T) {
	bin := buildBinary(t)
	backend := newFakeOllama(t, "<html></html>")
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, backend.URL, port)

	resp, body := postJSON(t, sp.base+"/edit", []byte(`{"existingCode":"<html></html>","instructions":""}`))
	if resp.StatusCode != http.StatusUnprocessableEntity { t.Fatalf("expected 422, got %d, body=%s", resp.StatusCode, string(body)) }
	if backend.calls() != 0 { t.Fatalf("backend must not be called on invalid input") }
}

func TestBlackbox_BackendDown_500(t *testing.T) {
	bin := buildBinary(t)
	backend := newFakeOllama(t, "")
	url := backend.URL
	backend.Close()
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, url, port)

	resp, _ := get(t, sp.base+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable { t.Fatalf("/readyz expected 503, got %d", resp.StatusCode) }
	resp, body := postJSON(t, sp.base+"/generate", []byte(`{}`))
	if resp.StatusCode != http.StatusInternalServerError { t.Fatalf("expected 500, got %d", resp.StatusCode) }
	var er struct{ Detail string `json:"detail"`; Code int `json:"code"` }
	if err := json.Unmarshal(body, &er); err != nil || er.Code != 500 || !strings.Contains(er.Detail, "cannot connect") {
		t.Fatalf("unexpected error body: %s", string(body))
	}
}
