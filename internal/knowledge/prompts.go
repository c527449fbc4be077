package knowledge

import (
	"fmt"
	"strings"
)

// SummarizerIdentity is the system prompt for knowledge map summaries.
const SummarizerIdentity = "You are DocMap, an assistant that helps users understand, summarize, and answer questions about their book or document. " +
	"If the user asks for a summary, provide a concise and clear summary of the provided text."

// AnswerIdentity is the system prompt for answering questions.
const AnswerIdentity = "You are DocMap, an assistant that helps users understand, summarize, and answer questions about their book or document. " +
	"If the user asks a general question or greeting, introduce yourself and explain your capabilities. " +
	"If the question is about the document, answer using the provided context. If you don't know, say so politely."

// SummarizePrompt is the user turn asking for a summary of sampled text.
func SummarizePrompt(sample string) string {
	return "Summarize: " + sample
}

// ScorePrompt asks for one 1-5 rating per summary, numbered from 1.
func ScorePrompt(query string, summaries []string) string {
	var sb strings.Builder
	sb.WriteString("Given the following user question and a list of chapter summaries, ")
	sb.WriteString("rate each summary from 1 (not relevant) to 5 (highly relevant) for answering the question. ")
	sb.WriteString("Return a JSON list of numbers in the same order as the summaries.\n\n")
	fmt.Fprintf(&sb, "User question: %s\n\n", query)
	sb.WriteString("Summaries:")
	for i, s := range summaries {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, s)
	}
	return sb.String()
}

// AnswerPrompt is the user turn carrying retrieved context and the question.
func AnswerPrompt(context, question string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s", context, question)
}
