package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budgetwize-api/internal/repository"
)

const chatSystemInstruction = "You are a financial advisor. Use the provided Accounts and Recent Transactions to answer the user's question. Provide clear, actionable advice and include appropriate disclaimers."

const chatContextTransactions = 5

// LLMGateway is the slice of the generative-language client the chat
// service needs.
type LLMGateway interface {
	GenerateContent(ctx context.Context, systemInstruction, prompt string) (string, error)
}

type ChatService struct {
	llm  LLMGateway
	bank *BankService
}

func NewChatService(llm LLMGateway, bank *BankService) *ChatService {
	return &ChatService{llm: llm, bank: bank}
}

// Ask forwards the user's message to the model, prefixed with a context
// block built from their linked accounts and most recent stored
// transactions. A user with no linked bank item still gets an answer; a
// credential decryption failure aborts instead.
func (s *ChatService) Ask(ctx context.Context, userID, message string) (string, error) {
	if s.llm == nil {
		return "", errors.New("advisor model is not configured")
	}
	if strings.TrimSpace(message) == "" {
		return "", errors.New("message is required")
	}

	var contextLines []string

	accounts, err := s.bank.Accounts(ctx, userID)
	switch {
	case err == nil:
		if len(accounts) > 0 {
			contextLines = append(contextLines, "Accounts:")
			for _, a := range accounts {
				balance := 0.0
				if a.AvailableBalance != nil {
					balance = *a.AvailableBalance
				} else if a.CurrentBalance != nil {
					balance = *a.CurrentBalance
				}
				contextLines = append(contextLines, fmt.Sprintf("- %s: $%.2f", a.Name, balance))
			}
		}
	case errors.Is(err, repository.ErrNoLinkedItem), errors.Is(err, ErrBankUnavailable):
		// answer from whatever context exists
	default:
		return "", err
	}

	txs, err := s.bank.StoredTransactions(ctx, userID, chatContextTransactions)
	if err != nil {
		return "", err
	}
	if len(txs) > 0 {
		contextLines = append(contextLines, "Recent Transactions:")
		for _, t := range txs {
			contextLines = append(contextLines, fmt.Sprintf("- %s: $%.2f on %s", t.Name, t.Amount, t.Date.Format("2006-01-02")))
		}
	}

	prompt := message
	if len(contextLines) > 0 {
		prompt = message + "\n\n" + strings.Join(contextLines, "\n")
	}

	return s.llm.GenerateContent(ctx, chatSystemInstruction, prompt)
}
