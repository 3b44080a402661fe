package agent

import (
	"context"
	"fmt"

	"github.com/khsu/riskfolio"
	"github.com/khsu/riskfolio/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skills that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand the risk profile of his investment accounts:
			volatility, drawdowns, value at risk, beta, and how capital flows affect his returns.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns the market analyst expert: grounded in search, it covers
// market context the local data cannot answer.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert market analyst,
		very well aware of financial products, indices and institutions,
		and of the latest news about funds and companies.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert market analyst. You can search and find about anything related to
			financial institutions, companies, markets, indices and funds. You leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewQuant returns the quant expert: it owns the local account history and
// computes the risk metrics on demand.
func NewQuant(balancesPath, transactionsPath string) *Expert {
	lib := []Function{newRiskReportFunc(balancesPath, transactionsPath)}

	return &Expert{
		Name: "Quant",
		Description: `This is the Quant. He is in charge of the user's account history:
		balances, transactions and the risk metrics derived from them.
		Ask the Quant for volatility, Sharpe ratio, drawdown, VaR or beta figures.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a quantitative analyst in charge of the user's account history.
				You know how to use the Tools to compute risk metrics about the user's portfolio.
				You are part of a team of experts; yours is everything computed from the user's own data.
				Explain the figures you report: what the metric means and what in the data drives it.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// newRiskReportFunc builds the tool that computes the risk report from the
// stored history.
func newRiskReportFunc(balancesPath, transactionsPath string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "RiskReport",
			Description: `RiskReport computes the portfolio risk metrics from the stored account history:
			annualized volatility, Sharpe ratio, max drawdown, annual return, 95% VaR and beta.
			`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"account": {
						Type:        genai.TypeString,
						Description: "The account to analyze. All accounts aggregated by default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted risk report for the requested account.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			account, _ := args["account"].(string)
			report, err := riskReport(balancesPath, transactionsPath, account)
			if err != nil {
				return &genai.FunctionResponse{
					ID:   id,
					Name: "RiskReport",
					Response: map[string]any{
						"error": err.Error(),
					},
				}
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "RiskReport",
				Response: map[string]any{
					"output": report,
				},
			}
		},
	}
}

// private implementation rendering the risk report for the quant's tool.
func riskReport(balancesPath, transactionsPath, account string) (string, error) {
	store := riskfolio.NewStore(balancesPath, transactionsPath)
	obs, err := store.Balances()
	if err != nil {
		return "", fmt.Errorf("could not load balances: %w", err)
	}
	txs, err := store.Transactions()
	if err != nil {
		return "", fmt.Errorf("could not load transactions: %w", err)
	}

	name := account
	if account == "" {
		obs = riskfolio.AggregateBalances(obs)
		name = "all accounts"
	} else {
		var fobs []riskfolio.Balance
		for _, b := range obs {
			if b.Account == account {
				fobs = append(fobs, b)
			}
		}
		var ftxs []riskfolio.Transaction
		for _, t := range txs {
			if t.Account == account {
				ftxs = append(ftxs, t)
			}
		}
		obs, txs = fobs, ftxs
	}

	engine := riskfolio.NewEngine(riskfolio.DefaultConfig())
	report := engine.Report(name, "USD", obs, txs, riskfolio.NeutralBenchmark(), nil)
	return renderer.RiskMarkdown(report), nil
}
