package twitter

import (
	"context"
	"fmt"

	"github.com/Sternrassler/pipeline-components/pkg/component"
)

// Actions returns all Twitter actions.
func Actions() []component.Component {
	return []component.Component{
		AddUserToList{},
		CreateTweet{},
		DeleteTweet{},
	}
}

// AddUserToList adds a member to a list owned by the user.
type AddUserToList struct{}

func (AddUserToList) Metadata() component.Metadata {
	return component.Metadata{
		Key:  "twitter_v2-add-user-to-list",
		Name: "Add User To List",
		Description: "Add a member to a list owned by the user. " +
			"[See docs here](https://developer.twitter.com/en/docs/twitter-api/lists/list-members/api-reference/post-lists-id-members)",
		Version: "0.0.1",
		Type:    component.TypeAction,
	}
}

func (AddUserToList) Props() []component.PropDefinition {
	return []component.PropDefinition{AppProp(), ListIDProp(), UserNameOrIDProp()}
}

func (AddUserToList) Run(ctx context.Context, step *component.Step) (any, error) {
	var props struct {
		ListID       string `json:"listId" validate:"required"`
		UserNameOrID string `json:"userNameOrId" validate:"required"`
	}
	if err := step.BindProps(&props); err != nil {
		return nil, err
	}

	app, err := FromStep(step)
	if err != nil {
		return nil, err
	}

	userID, err := app.UserID(ctx, props.UserNameOrID)
	if err != nil {
		return nil, err
	}

	membership, err := app.AddUserToList(ctx, props.ListID, userID)
	if err != nil {
		return nil, err
	}

	step.Export(component.SummaryExport, "Successfully added user to list")
	return membership, nil
}

// CreateTweet posts a tweet.
type CreateTweet struct{}

func (CreateTweet) Metadata() component.Metadata {
	return component.Metadata{
		Key:  "twitter_v2-create-tweet",
		Name: "Create Tweet",
		Description: "Create a new tweet. " +
			"[See docs here](https://developer.twitter.com/en/docs/twitter-api/tweets/manage-tweets/api-reference/post-tweets)",
		Version: "0.0.1",
		Type:    component.TypeAction,
	}
}

func (CreateTweet) Props() []component.PropDefinition {
	inReplyTo := TweetIDProp()
	inReplyTo.Name = "inReplyToTweetId"
	inReplyTo.Label = "In Reply To"
	inReplyTo.Description = "The ID of the tweet being replied to."
	inReplyTo.Optional = true

	return []component.PropDefinition{AppProp(), TextProp(), inReplyTo}
}

func (CreateTweet) Run(ctx context.Context, step *component.Step) (any, error) {
	var props struct {
		Text             string `json:"text" validate:"required,max=280"`
		InReplyToTweetID string `json:"inReplyToTweetId"`
	}
	if err := step.BindProps(&props); err != nil {
		return nil, err
	}

	app, err := FromStep(step)
	if err != nil {
		return nil, err
	}

	params := CreateTweetParams{Text: props.Text}
	if props.InReplyToTweetID != "" {
		params.Reply = &Reply{InReplyToTweetID: props.InReplyToTweetID}
	}

	tweet, err := app.CreateTweet(ctx, params)
	if err != nil {
		return nil, err
	}

	step.Export(component.SummaryExport, fmt.Sprintf("Successfully posted tweet (ID %s)", tweet.ID))
	return tweet, nil
}

// DeleteTweet removes a tweet.
type DeleteTweet struct{}

func (DeleteTweet) Metadata() component.Metadata {
	return component.Metadata{
		Key:  "twitter_v2-delete-tweet",
		Name: "Delete Tweet",
		Description: "Remove a posted tweet. " +
			"[See docs here](https://developer.twitter.com/en/docs/twitter-api/tweets/manage-tweets/api-reference/delete-tweets-id)",
		Version: "0.0.1",
		Type:    component.TypeAction,
	}
}

func (DeleteTweet) Props() []component.PropDefinition {
	return []component.PropDefinition{AppProp(), TweetIDProp()}
}

func (DeleteTweet) Run(ctx context.Context, step *component.Step) (any, error) {
	var props struct {
		TweetID string `json:"tweetId" validate:"required"`
	}
	if err := step.BindProps(&props); err != nil {
		return nil, err
	}

	app, err := FromStep(step)
	if err != nil {
		return nil, err
	}

	deletion, err := app.DeleteTweet(ctx, props.TweetID)
	if err != nil {
		return nil, err
	}
	if !deletion.Deleted {
		return nil, fmt.Errorf("tweet %s was not deleted", props.TweetID)
	}

	step.Export(component.SummaryExport, fmt.Sprintf("Successfully deleted tweet %s", props.TweetID))
	return deletion, nil
}
