// Package ai is the shop assistant: a Gemini function-calling agent whose
// tools are read and write operations on the engine. It answers questions
// like "how much does Bilal owe us" or "do we still have fan belts".
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"go-repair-ledger/internal/engine"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Agent holds the wired engine so tool calls run against live data.
type Agent struct {
	Engine *engine.Engine
}

func New(e *engine.Engine) *Agent {
	return &Agent{Engine: e}
}

// Ask sends the user's message to the model and resolves one round of tool
// calls against the engine.
func (a *Agent) Ask(ctx context.Context, userMessage, apiKey string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := a.Engine.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant of a repair and parts shop.

RULES:
1. STOCK: For questions about parts, quantities or prices, call 'check_inventory' and read the JSON to answer. Never say you cannot see the stock.
2. MONEY: For a customer's balance or dues, call 'get_customer_balance' with the exact name. For "who owes us the most", call 'get_recovery_list'.
3. BUSINESS: For revenue or how the shop is doing, call 'get_revenue_report'.
4. Amounts are in rupees. Answer briefly.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full stock list. Use this to find any part's ID, name, quantity, cost or selling price.",
				},
				{
					Name:        "get_customer_balance",
					Description: "Get one customer's net outstanding balance (opening balance plus debits minus credits).",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"party": {Type: genai.TypeString, Description: "Exact customer name"},
						},
						Required: []string{"party"},
					},
				},
				{
					Name:        "get_recovery_list",
					Description: "List every customer's outstanding receivable, largest first.",
				},
				{
					Name:        "get_revenue_report",
					Description: "Get repair revenue: total, current month, and the service/parts split.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		funcCall, ok := part.(genai.FunctionCall)
		if !ok {
			continue
		}

		result, err := a.runTool(ctx, funcCall)
		if err != nil {
			return "", err
		}

		finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
			Name:     funcCall.Name,
			Response: result,
		})
		if err != nil {
			return "", err
		}
		return printResponse(finalResp), nil
	}

	return printResponse(resp), nil
}

// runTool dispatches one model-requested call to the engine.
func (a *Agent) runTool(ctx context.Context, call genai.FunctionCall) (map[string]interface{}, error) {
	switch call.Name {
	case "check_inventory":
		items, err := a.Engine.Items(ctx)
		if err != nil {
			return nil, err
		}
		jsonBytes, _ := json.Marshal(items)
		return map[string]interface{}{"inventory": string(jsonBytes)}, nil

	case "get_customer_balance":
		party, _ := call.Args["party"].(string)
		balance, err := a.Engine.CustomerBalance(ctx, party)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"party": party, "balance": balance}, nil

	case "get_recovery_list":
		recovery, err := a.Engine.RecoveryList(ctx)
		if err != nil {
			return nil, err
		}
		jsonBytes, _ := json.Marshal(recovery)
		return map[string]interface{}{"recovery": string(jsonBytes)}, nil

	case "get_revenue_report":
		rep, err := a.Engine.RevenueAnalytics(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"total_revenue": rep.TotalRevenue,
			"month_revenue": rep.MonthRevenue,
			"service_total": rep.ServiceTotal,
			"parts_total":   rep.PartsTotal,
			"jobs_done":     rep.JobsDone,
		}, nil
	}

	return map[string]interface{}{"error": "unknown tool " + call.Name}, nil
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
