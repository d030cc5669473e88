package ai

import "fmt"

// BuildChatPrompt frames a ledger question for the model. contextJSON is the
// current ledger state serialized by the caller; the model is told to answer
// from it and nothing else.
func BuildChatPrompt(contextJSON, question string) string {
	return fmt.Sprintf(`You are a personal finance assistant.
Answer the user's question using ONLY the ledger data below.
Amounts are in the currency stated on each record. Be concise.

Ledger data:
%s

Question: %s`, contextJSON, question)
}
