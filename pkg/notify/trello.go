package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TrelloClient is a thin client for the Trello REST API, used to turn a
// flagged unanswered question into a task card.
type TrelloClient struct {
	baseURL    string
	apiKey     string
	token      string
	listID     string
	httpClient *http.Client
}

// NewTrelloClient creates a new Trello client. listID may be empty, in
// which case board and list discovery runs on each card creation.
func NewTrelloClient(baseURL, apiKey, token, listID string) *TrelloClient {
	if baseURL == "" {
		baseURL = "https://api.trello.com/1"
	}
	return &TrelloClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		token:   token,
		listID:  listID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// boardNamePreference is the board lookup order when no list is
// configured; the first open board is the final fallback.
var boardNamePreference = []string{"Communlytics", "Personal", "To Do"}

type trelloBoard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

type trelloList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AddTask creates a card for an unanswered question: the title carries
// the asker's name, the description the question text and the operator's
// note. Returns a human-readable outcome.
func (c *TrelloClient) AddTask(ctx context.Context, askerName, questionText, noteText string) (string, error) {
	if c.apiKey == "" || c.token == "" {
		return "", fmt.Errorf("missing Trello credentials")
	}

	listID := c.listID
	if listID == "" {
		boardID, err := c.findBoardID(ctx)
		if err != nil {
			return "", fmt.Errorf("board error: %w", err)
		}
		listID, err = c.findListID(ctx, boardID, "Today")
		if err != nil {
			return "", fmt.Errorf("list error: %w", err)
		}
	}

	title := fmt.Sprintf("New Task from Communilytics member name - %s", askerName)
	description := fmt.Sprintf("**Unanswered Question:**\n%s\n\n**Notes/Draft:**\n%s", questionText, noteText)

	if err := c.createCard(ctx, listID, title, description); err != nil {
		return "", err
	}

	return "Card created successfully!", nil
}

// findBoardID returns the first open board matching the name preference
// order, falling back to the first open board.
func (c *TrelloClient) findBoardID(ctx context.Context) (string, error) {
	var boards []trelloBoard
	if err := c.get(ctx, "/members/me/boards", nil, &boards); err != nil {
		return "", err
	}
	if len(boards) == 0 {
		return "", fmt.Errorf("no boards found")
	}

	for _, name := range boardNamePreference {
		for _, board := range boards {
			if strings.EqualFold(board.Name, name) && !board.Closed {
				return board.ID, nil
			}
		}
	}

	for _, board := range boards {
		if !board.Closed {
			return board.ID, nil
		}
	}

	return "", fmt.Errorf("no open boards available")
}

// findListID returns the list on the board matching name, falling back
// to the board's first list.
func (c *TrelloClient) findListID(ctx context.Context, boardID, name string) (string, error) {
	var lists []trelloList
	if err := c.get(ctx, "/boards/"+boardID+"/lists", nil, &lists); err != nil {
		return "", err
	}
	if len(lists) == 0 {
		return "", fmt.Errorf("no lists on this board")
	}

	for _, list := range lists {
		if strings.EqualFold(list.Name, name) {
			return list.ID, nil
		}
	}

	return lists[0].ID, nil
}

// createCard creates a card on the specified list
func (c *TrelloClient) createCard(ctx context.Context, listID, name, desc string) error {
	params := url.Values{
		"idList": {listID},
		"name":   {name},
		"desc":   {desc},
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/cards?"+c.authParams(params).Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}

// get performs an authenticated GET and decodes the JSON response
func (c *TrelloClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+c.authParams(params).Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// authParams adds the key/token credentials to a parameter set
func (c *TrelloClient) authParams(params url.Values) url.Values {
	out := url.Values{}
	for k, v := range params {
		out[k] = v
	}
	out.Set("key", c.apiKey)
	out.Set("token", c.token)
	return out
}
