package twitter

import (
	"context"

	"github.com/samber/lo"

	"github.com/Sternrassler/pipeline-components/pkg/component"
)

// AppProp is the connected Twitter account.
func AppProp() component.PropDefinition {
	return component.PropDefinition{
		Name:  "twitter",
		Type:  component.PropApp,
		Label: "Twitter",
		App:   Slug,
	}
}

// ListIDProp selects a list owned by the authenticated user.
func ListIDProp() component.PropDefinition {
	return component.PropDefinition{
		Name:        "listId",
		Type:        component.PropString,
		Label:       "List ID",
		Description: "Select a **List** or use a custom *List ID*.",
		Options:     listIDOptions,
	}
}

// UserNameOrIDProp references a user.
func UserNameOrIDProp() component.PropDefinition {
	return component.PropDefinition{
		Name:        "userNameOrId",
		Type:        component.PropString,
		Label:       "User Name or ID",
		Description: "The Twitter username (handle) of the user, prefixed with `@` (e.g. `@pipedream`). You can also reference a User ID from a previous step.",
	}
}

// TweetIDProp references a tweet.
func TweetIDProp() component.PropDefinition {
	return component.PropDefinition{
		Name:        "tweetId",
		Type:        component.PropString,
		Label:       "Tweet ID",
		Description: `The numerical ID of the tweet (also known as "status")`,
	}
}

// TextProp is the tweet text.
func TextProp() component.PropDefinition {
	return component.PropDefinition{
		Name:        "text",
		Type:        component.PropString,
		Label:       "Text",
		Description: "The text of the tweet.",
	}
}

func listIDOptions(ctx context.Context, step *component.Step) ([]component.Option, error) {
	app, err := FromStep(step)
	if err != nil {
		return nil, err
	}
	return app.ListIDOptions(ctx)
}

// ListIDOptions offers the lists owned by the authenticated user.
func (a *App) ListIDOptions(ctx context.Context) ([]component.Option, error) {
	me, err := a.GetAuthenticatedUser(ctx)
	if err != nil {
		return nil, err
	}

	lists, err := a.GetOwnedLists(ctx, me.ID)
	if err != nil {
		return nil, err
	}

	return lo.Map(lists, func(l List, _ int) component.Option {
		return component.Option{Label: l.Name, Value: l.ID}
	}), nil
}
