// Package twitter integrates the Twitter API v2.
package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sternrassler/pipeline-components/pkg/client"
	"github.com/Sternrassler/pipeline-components/pkg/component"
)

// Slug identifies the app.
const Slug = "twitter_v2"

// DefaultBaseURL is the public Twitter API v2.
const DefaultBaseURL = "https://api.twitter.com/2"

// maxOwnedLists is the largest page the owned lists endpoint serves.
const maxOwnedLists = 100

// Auth holds the connected Twitter account.
type Auth struct {
	AccessToken string `json:"oauth_access_token" validate:"required"`
	BaseURL     string `json:"base_url,omitempty" validate:"omitempty,url"`
}

// User is a Twitter user.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// List is a Twitter list.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tweet is a posted tweet.
type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Membership reports whether a user is a list member.
type Membership struct {
	IsMember bool `json:"is_member"`
}

// Deletion reports whether a tweet was deleted.
type Deletion struct {
	Deleted bool `json:"deleted"`
}

// Geo attaches a place to a tweet.
type Geo struct {
	PlaceID string `json:"place_id"`
}

// Media attaches uploaded media to a tweet.
type Media struct {
	MediaIDs      []string `json:"media_ids"`
	TaggedUserIDs []string `json:"tagged_user_ids,omitempty"`
}

// Reply makes a tweet a reply.
type Reply struct {
	InReplyToTweetID    string   `json:"in_reply_to_tweet_id"`
	ExcludeReplyUserIDs []string `json:"exclude_reply_user_ids,omitempty"`
}

// CreateTweetParams is the body of a tweet creation.
type CreateTweetParams struct {
	Text  string `json:"text"`
	Geo   *Geo   `json:"geo,omitempty"`
	Media *Media `json:"media,omitempty"`
	Reply *Reply `json:"reply,omitempty"`
}

// envelope is the response wrapper of every v2 endpoint.
type envelope[T any] struct {
	Data T `json:"data"`
}

// App is an authenticated Twitter API client.
type App struct {
	client *client.Client
}

// New creates an App.
func New(auth Auth, rt component.Runtime) (*App, error) {
	baseURL := auth.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cfg := client.DefaultConfig(Slug, baseURL)
	cfg.Headers["Authorization"] = "Bearer " + auth.AccessToken
	cfg.Headers["Content-Type"] = "application/json"
	cfg.Redis = rt.Redis
	if rt.Timeout > 0 {
		cfg.Timeout = rt.Timeout
	}
	if rt.UserAgent != "" {
		cfg.UserAgent = rt.UserAgent
	}

	c, err := client.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create twitter client: %w", err)
	}
	return &App{client: c}, nil
}

// FromStep creates an App from the step auth and runtime.
func FromStep(step *component.Step) (*App, error) {
	var auth Auth
	if err := step.BindAuth(&auth); err != nil {
		return nil, err
	}
	return New(auth, step.Runtime)
}

func do[T any](ctx context.Context, a *App, r client.Request) (T, error) {
	var env envelope[T]
	err := a.client.DoJSON(ctx, r, &env)
	return env.Data, err
}

// AddUserToList adds a user to a list owned by the authenticated user.
func (a *App) AddUserToList(ctx context.Context, listID, userID string) (Membership, error) {
	return do[Membership](ctx, a, client.Request{
		Method: http.MethodPost,
		Path:   "/lists/" + url.PathEscape(listID) + "/members",
		Body:   map[string]string{"user_id": userID},
	})
}

// CreateTweet posts a tweet.
func (a *App) CreateTweet(ctx context.Context, params CreateTweetParams) (Tweet, error) {
	return do[Tweet](ctx, a, client.Request{
		Method: http.MethodPost,
		Path:   "/tweets",
		Body:   params,
	})
}

// DeleteTweet deletes a tweet of the authenticated user.
func (a *App) DeleteTweet(ctx context.Context, tweetID string) (Deletion, error) {
	return do[Deletion](ctx, a, client.Request{
		Method: http.MethodDelete,
		Path:   "/tweets/" + url.PathEscape(tweetID),
	})
}

// GetAuthenticatedUser returns the user owning the access token.
func (a *App) GetAuthenticatedUser(ctx context.Context) (User, error) {
	return do[User](ctx, a, client.Request{Path: "/users/me"})
}

// GetUserByUsername looks a user up by handle, without the leading "@".
func (a *App) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return do[User](ctx, a, client.Request{
		Path: "/users/by/username/" + url.PathEscape(username),
	})
}

// GetOwnedLists returns the lists owned by a user.
func (a *App) GetOwnedLists(ctx context.Context, userID string) ([]List, error) {
	lists, err := do[[]List](ctx, a, client.Request{
		Path:  "/users/" + url.PathEscape(userID) + "/owned_lists",
		Query: url.Values{"max_results": []string{strconv.Itoa(maxOwnedLists)}},
	})
	if lists == nil && err == nil {
		lists = []List{}
	}
	return lists, err
}

// UserID resolves a user reference. Values prefixed with "@" are looked up
// as usernames; anything else is taken as a user ID.
func (a *App) UserID(ctx context.Context, nameOrID string) (string, error) {
	nameOrID = strings.TrimSpace(nameOrID)
	username, ok := strings.CutPrefix(nameOrID, "@")
	if !ok {
		return nameOrID, nil
	}

	user, err := a.GetUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("look up user %q: %w", nameOrID, err)
	}
	if user.ID == "" {
		return "", fmt.Errorf("user %q not found", nameOrID)
	}
	return user.ID, nil
}
