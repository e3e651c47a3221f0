package chain

import (
	"strings"

	"medichat/internal/domain"
)

// systemPromptTemplate is the fixed instruction given to the chat model.
// The {context} slot receives the retrieved chunks; the question travels
// separately as the user message.
const systemPromptTemplate = "You are a medical assistant for question-answering tasks. " +
	"Use the following pieces of retrieved context to answer the question. " +
	"If you don't know the answer, say that you don't know. " +
	"Use three sentences maximum and keep the answer concise.\n\n{context}"

// renderSystemPrompt substitutes the retrieved chunks, most relevant first,
// into the system instruction.
func renderSystemPrompt(chunks []domain.ScoredChunk) string {
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Content)
	}
	return strings.ReplaceAll(systemPromptTemplate, "{context}", strings.Join(texts, "\n\n"))
}
