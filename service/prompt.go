package service

import "fmt"

// RefusalPhrase is what the model is instructed to say when the answer is not
// discoverable in the retrieved context.
const RefusalPhrase = "I don't have that information in my memory"

// BuildPrompt combines the retrieved context, the user's question and a
// temporal anchor into the generation instruction for the primary model.
func BuildPrompt(context, query, today string) string {
	return fmt.Sprintf(`You are a helpful Second Brain AI assistant. Today is %s.

Your task: Answer the user's question based ONLY on the context provided below.
- Provide a clear, concise, and well-structured answer
- Synthesize and summarize the information - don't just repeat raw context
- If the information is not in the context, say "%s"

Context from knowledge base:
%s

User Question: %s

Your Answer:`, today, RefusalPhrase, context, query)
}

// BuildParaphrasePrompt is the second, more explicit instruction used for the
// local fallback model, which tends to copy its input verbatim.
func BuildParaphrasePrompt(information, query string) string {
	return fmt.Sprintf(`Based on the information below, answer this question in your own words. Do not copy the text directly.

Information: %s

Question: %s

Write a clear answer using different words than the information above:`, information, query)
}
