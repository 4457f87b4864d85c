package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common journaling workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("daily_journal").
		Description("Walk through today's checklist for a category and submit a structured journal.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			category := args["category_id"]
			if category == "" {
				category = "the category I name"
			}
			return &mcp.PromptResult{
				Description: "Daily Journal",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Help me write today's journal for %s.

1. Ask me which checklist items I completed, and note any I skipped with a reason
2. Ask for a short title and a reflection on how it went
3. Submit it with the journal.submit tool

If the submission is rejected:
- VALIDATION_FAILED: tell me which required tasks or fields are missing
- DUPLICATE_RESOURCE: I already journaled this category today
- FORBIDDEN: the category is not assigned to me right now

Finish by summarising my weekly progress and streak from the response.`, category),
						},
					},
				},
			}, nil
		})

	srv.Prompt("weekly_review").
		Description("Review the week's progress for a category and plan the rest of the week.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Weekly Review Session",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Let's review my week. Please:

1. Load my report with the progress.get tool
2. Compare this week with last week using the comparison section
3. Look at the trend, volatility, and consistency score

Help me understand:
- Whether I am on track for my weekly goal and how many entries remain
- What the prediction says about finishing this week
- Which weeks were my best and worst, and what changed

End with one concrete, achievable adjustment for next week.`,
						},
					},
				},
			}, nil
		})

	return nil
}
