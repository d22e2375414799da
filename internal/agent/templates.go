package agent

import "fmt"

// Static fallbacks used when the generator is unavailable or fails.
// They produce a minimal but runnable scaffold so a workflow can still
// complete end to end.

func backendTemplate(task string) (string, map[string]string) {
	code := `package main

import (
	"encoding/json"
	"log"
	"net/http"
)

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var creds struct {
			Username string ` + "`json:\"username\"`" + `
			Password string ` + "`json:\"password\"`" + `
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if creds.Username == "" || creds.Password == "" {
			http.Error(w, "missing credentials", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	log.Println("listening on :8080")
	log.Fatal(http.ListenAndServe(":8080", mux))
}
`
	output := fmt.Sprintf("Template scaffold for: %s", task)
	return output, map[string]string{"backend/main.go": code}
}

func frontendTemplate(task string) (string, map[string]string) {
	page := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Generated Application</title>
  <style>
    body { font-family: sans-serif; max-width: 32rem; margin: 4rem auto; }
    form { display: flex; flex-direction: column; gap: 0.5rem; }
  </style>
</head>
<body>
  <h1>Welcome</h1>
  <form id="login">
    <input name="username" placeholder="Username" required>
    <input name="password" type="password" placeholder="Password" required>
    <button type="submit">Sign in</button>
  </form>
  <script>
    document.getElementById("login").addEventListener("submit", async (e) => {
      e.preventDefault();
      const data = Object.fromEntries(new FormData(e.target));
      await fetch("/api/login", {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify(data),
      });
    });
  </script>
</body>
</html>
`
	output := fmt.Sprintf("Template scaffold for: %s", task)
	return output, map[string]string{"frontend/index.html": page}
}

func testerTemplate(task string) (string, map[string]string) {
	suite := `package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(` + "`{\"username\":\"\",\"password\":\"\"}`" + `))
	rec := httptest.NewRecorder()
	loginHandler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestLoginRejectsWrongMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	rec := httptest.NewRecorder()
	loginHandler(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
`
	output := fmt.Sprintf("Template test plan for: %s", task)
	return output, map[string]string{"tests/suite_test.go": suite}
}
