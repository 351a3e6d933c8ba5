package service

import (
	"fmt"
	"strings"

	"github.com/lawai/lawai-be/types"
)

// Conversation windows: reformulation only needs enough turns to
// disambiguate, generation gets a little more.
const (
	reformulationHistoryWindow = 6
	generationHistoryWindow    = 8
)

const answerSystemPrompt = `You are an expert legal assistant answering questions about statutes and contract clauses.

IMPORTANT: You must ONLY answer questions based on the legal sections provided in the context below. Do NOT use external knowledge.

Rules:
- ONLY cite legal sections that are provided in the context
- If the provided context doesn't contain information to answer the question, clearly state: "I don't have information about this in the provided legal sections."
- Always cite specific section numbers and titles from the context
- Provide clear, accurate legal guidance based ONLY on the provided sections
- Recommend consulting a qualified lawyer for specific legal advice
- Do NOT make up or assume information not present in the context

Context from the legal corpus:
%s`

const reformulationSystemPrompt = `You are a helpful assistant that reformulates follow-up questions to be standalone questions.

Given a conversation history and a follow-up question, reformulate the question to include necessary context from the conversation.
The reformulated question should be a complete, standalone question that can be understood without the conversation history.

If the question is already standalone, return it as-is.`

// buildContext renders the retrieved documents as the sole factual basis for
// the answer, one block per source.
func buildContext(docs []types.ScoredDocument) string {
	blocks := make([]string, 0, len(docs))
	for _, d := range docs {
		doc := d.Document
		law := doc.Metadata[types.MetaLaw]
		if law == "" {
			law = "Corpus"
		}
		section := doc.Metadata[types.MetaSection]
		if section == "" {
			section = doc.ID
		}
		blocks = append(blocks, fmt.Sprintf("Source: %s Section %s: %s\n%s",
			law, section, doc.Metadata[types.MetaTitle], doc.Text))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

// conversationWindow renders the most recent turns as "Role: content" lines.
func conversationWindow(history []types.Message, max int) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > max {
		history = history[len(history)-max:]
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", capitalize(msg.Role), msg.Content))
	}
	return strings.Join(lines, "\n")
}

func answerPrompts(question string, docs []types.ScoredDocument, history []types.Message) (system, user string) {
	system = fmt.Sprintf(answerSystemPrompt, buildContext(docs))
	conversation := conversationWindow(history, generationHistoryWindow)
	if conversation != "" {
		user = fmt.Sprintf("Previous Conversation:\n%s\n\nCurrent Question: %s\n\nAnswer based ONLY on the legal sections provided in the context above.",
			conversation, question)
	} else {
		user = fmt.Sprintf("Question: %s\n\nAnswer based ONLY on the legal sections provided in the context above.", question)
	}
	return system, user
}

func reformulationPrompts(question string, history []types.Message) (system, user string) {
	conversation := conversationWindow(history, reformulationHistoryWindow)
	user = fmt.Sprintf("Conversation History:\n%s\n\nFollow-up Question: %s\n\nReformulated Question:", conversation, question)
	return reformulationSystemPrompt, user
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
