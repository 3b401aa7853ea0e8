// Package notify implements the outbound collaborators that deliver
// flagged-question payloads: a Slack Web API client and a Trello REST
// client. The core pipeline never calls these; they run only after
// derivation, triggered by the operator.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SlackClient is a thin client for the Slack Web API methods needed to
// deliver replies: user and channel lookup plus message posting.
type SlackClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewSlackClient creates a new Slack Web API client
func NewSlackClient(baseURL, token string) *SlackClient {
	if baseURL == "" {
		baseURL = "https://slack.com/api"
	}
	return &SlackClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type slackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type slackMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
	Deleted  bool   `json:"deleted"`
	Profile  struct {
		DisplayName string `json:"display_name"`
	} `json:"profile"`
}

type usersListResponse struct {
	slackResponse
	Members []slackMember `json:"members"`
}

type slackChannel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type conversationsListResponse struct {
	slackResponse
	Channels []slackChannel `json:"channels"`
}

type conversationsOpenResponse struct {
	slackResponse
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
}

// FindUserID resolves a Slack user ID by matching the query against the
// member's name, display name (exact) or real name (substring), all
// case-insensitive. Deleted members are skipped.
func (c *SlackClient) FindUserID(ctx context.Context, query string) (string, error) {
	var resp usersListResponse
	if err := c.call(ctx, "GET", "users.list", nil, &resp); err != nil {
		return "", err
	}

	q := strings.ToLower(query)
	for _, member := range resp.Members {
		if member.Deleted {
			continue
		}
		name := strings.ToLower(member.Name)
		displayName := strings.ToLower(member.Profile.DisplayName)
		realName := strings.ToLower(member.RealName)
		if q == name || q == displayName || strings.Contains(realName, q) {
			return member.ID, nil
		}
	}

	return "", fmt.Errorf("user %q not found", query)
}

// FindChannelID resolves a public channel ID by name. A leading "#" in
// the query is ignored.
func (c *SlackClient) FindChannelID(ctx context.Context, name string) (string, error) {
	params := url.Values{
		"types":            {"public_channel"},
		"exclude_archived": {"true"},
		"limit":            {"1000"},
	}

	var resp conversationsListResponse
	if err := c.call(ctx, "GET", "conversations.list?"+params.Encode(), nil, &resp); err != nil {
		return "", err
	}

	q := strings.ToLower(strings.TrimPrefix(name, "#"))
	for _, ch := range resp.Channels {
		if strings.ToLower(ch.Name) == q {
			return ch.ID, nil
		}
	}

	return "", fmt.Errorf("channel %q not found", name)
}

// SendDM opens a direct-message conversation with the user and posts the
// text into it.
func (c *SlackClient) SendDM(ctx context.Context, userID, text string) error {
	var openResp conversationsOpenResponse
	payload := map[string]string{"users": userID}
	if err := c.call(ctx, "POST", "conversations.open", payload, &openResp); err != nil {
		return fmt.Errorf("failed to open DM: %w", err)
	}

	return c.postMessage(ctx, openResp.Channel.ID, text)
}

// SendPrivateReply resolves the target handle and delivers the reply as a
// DM, addressed to the original asker. Returns a human-readable outcome.
func (c *SlackClient) SendPrivateReply(ctx context.Context, targetHandle, askerName, replyText string) (string, error) {
	if c.token == "" {
		return "", fmt.Errorf("missing Slack bot token")
	}

	userID, err := c.FindUserID(ctx, targetHandle)
	if err != nil {
		return "", err
	}

	message := fmt.Sprintf("Hi %s, %s", askerName, replyText)
	if err := c.SendDM(ctx, userID, message); err != nil {
		return "", err
	}

	return "Message sent successfully!", nil
}

// SendChannelReply posts the reply into a public channel, addressed to
// the original asker. Returns a human-readable outcome.
func (c *SlackClient) SendChannelReply(ctx context.Context, channelName, askerName, replyText string) (string, error) {
	if c.token == "" {
		return "", fmt.Errorf("missing Slack bot token")
	}

	channelID, err := c.FindChannelID(ctx, channelName)
	if err != nil {
		return "", err
	}

	message := fmt.Sprintf("Hi %s, %s", askerName, replyText)
	if err := c.postMessage(ctx, channelID, message); err != nil {
		return "", err
	}

	return fmt.Sprintf("Message posted to #%s", strings.TrimPrefix(channelName, "#")), nil
}

// postMessage posts text to a conversation by ID
func (c *SlackClient) postMessage(ctx context.Context, channelID, text string) error {
	payload := map[string]string{
		"channel": channelID,
		"text":    text,
	}

	var resp slackResponse
	if err := c.call(ctx, "POST", "chat.postMessage", payload, &resp); err != nil {
		return fmt.Errorf("failed to send: %w", err)
	}

	return nil
}

// call performs one Slack Web API request and decodes the envelope,
// converting ok=false responses into errors.
func (c *SlackClient) call(ctx context.Context, method, endpoint string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	// Every decoded response embeds the ok/error envelope
	if env, ok := out.(interface{ envelope() slackResponse }); ok {
		if e := env.envelope(); !e.OK {
			return fmt.Errorf("slack error: %s", e.Error)
		}
	}

	return nil
}

func (r slackResponse) envelope() slackResponse { return r }
