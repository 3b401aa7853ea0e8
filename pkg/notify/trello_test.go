package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeTrello serves board/list discovery and card creation
func fakeTrello(t *testing.T, created *map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/members/me/boards", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "B1", "name": "Archive", "closed": true},
			{"id": "B2", "name": "Personal", "closed": false},
		})
	})

	mux.HandleFunc("/boards/B2/lists", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{
			{"id": "L1", "name": "Backlog"},
			{"id": "L2", "name": "Today"},
		})
	})

	mux.HandleFunc("/cards", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		query := r.URL.Query()
		if query.Get("key") == "" || query.Get("token") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		*created = map[string]string{
			"idList": query.Get("idList"),
			"name":   query.Get("name"),
			"desc":   query.Get("desc"),
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "https://trello.example/c/1"})
	})

	return httptest.NewServer(mux)
}

func TestAddTaskWithDiscovery(t *testing.T) {
	var created map[string]string
	server := fakeTrello(t, &created)
	defer server.Close()

	client := NewTrelloClient(server.URL, "key", "token", "")

	detail, err := client.AddTask(context.Background(), "Alice", "How do I fix this?", "needs a follow-up")
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	if detail != "Card created successfully!" {
		t.Errorf("detail = %q", detail)
	}

	if created["idList"] != "L2" {
		t.Errorf("idList = %q, want the Today list", created["idList"])
	}
	if !strings.Contains(created["name"], "Alice") {
		t.Errorf("card name %q should carry the asker", created["name"])
	}
	if !strings.Contains(created["desc"], "How do I fix this?") {
		t.Errorf("card description %q should carry the question", created["desc"])
	}
	if !strings.Contains(created["desc"], "needs a follow-up") {
		t.Errorf("card description %q should carry the note", created["desc"])
	}
}

func TestAddTaskWithConfiguredList(t *testing.T) {
	var created map[string]string
	server := fakeTrello(t, &created)
	defer server.Close()

	client := NewTrelloClient(server.URL, "key", "token", "L9")

	if _, err := client.AddTask(context.Background(), "Bob", "question?", ""); err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	if created["idList"] != "L9" {
		t.Errorf("idList = %q, want configured L9 without discovery", created["idList"])
	}
}

func TestAddTaskWithoutCredentials(t *testing.T) {
	client := NewTrelloClient("http://unused", "", "", "L1")

	_, err := client.AddTask(context.Background(), "Alice", "q?", "")
	if err == nil {
		t.Fatal("expected an error without credentials")
	}
	if !strings.Contains(err.Error(), "credentials") {
		t.Errorf("error %q should mention missing credentials", err)
	}
}

func TestAddTaskSurfacesAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewTrelloClient(server.URL, "key", "token", "L1")

	_, err := client.AddTask(context.Background(), "Alice", "q?", "")
	if err == nil {
		t.Fatal("expected an error from the API failure")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q should carry the status code", err)
	}
}
