package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// maxLocalContext is the local model's effective context budget.
	maxLocalContext = 300
	// copyOverlapThreshold: above this word-overlap ratio the local answer is
	// treated as a copy of its source. Strictly greater-than.
	copyOverlapThreshold = 0.7
	// minAnswerLength: shorter local answers are treated as degenerate.
	minAnswerLength = 20
	// minDocumentLength: reconstructed documents at or below this length are
	// discarded as formatting noise.
	minDocumentLength = 20
)

var (
	docMarkerRe  = regexp.MustCompile(`\([^)]+\)\s*:`)
	docContentRe = regexp.MustCompile(`\)\s*:\s*(.+)`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// Generate drives the dual-tier answer protocol. It returns a channel the
// caller drains; the channel is closed after the final fragment. The flow is
// strictly forward: attempt the primary stream, and on any error fall back to
// the local tier. Fragments already delivered before a mid-stream failure
// remain part of the output. Every terminal path emits at least one fragment.
func (s *BrainService) Generate(ctx context.Context, prompt, contextStr, query string) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		emit := func(fragment string) {
			select {
			case out <- fragment:
			case <-ctx.Done():
			}
		}

		if s.primary == nil {
			emit(fmt.Sprintf("**⚠️ API Key Missing. Context:**\n\n%s", contextStr))
			return
		}

		err := s.primary.ChatStream(ctx, prompt, func(fragment string) {
			emit(fragment)
		})
		if err == nil {
			return
		}

		log.Printf("Primary LLM error: %v. Switching to local fallback.", err)
		s.localFallback(ctx, emit, contextStr, query)
	}()

	return out
}

// localFallback answers with the local tier. It re-parses the formatted
// context block back into per-document texts, asks the local model for a
// paraphrased answer, and validates the answer against the source to catch
// copy-paste output.
func (s *BrainService) localFallback(ctx context.Context, emit func(string), contextStr, query string) {
	if contextStr == "" {
		emit("I couldn't find any relevant documents in your Second Brain.")
		return
	}

	if s.local == nil {
		emit("**Error: Local model failed to load at startup. Please restart the app.**\n\n")
		emit(fmt.Sprintf("Raw context:\n%s...", truncate(contextStr, 500)))
		return
	}

	emit("**(Local Fallback Model Active)**\n\n")

	docTexts := keepSubstantial(ReconstructDocuments(contextStr))
	if len(docTexts) == 0 {
		emit("I found documents but couldn't extract their content properly.\n\n")
		emit(fmt.Sprintf("Raw context:\n%s...", truncate(contextStr, 300)))
		return
	}

	combined := truncate(strings.Join(docTexts, " "), maxLocalContext)

	answer, err := s.local.Generate(ctx, BuildParaphrasePrompt(combined, query))
	if err != nil {
		log.Printf("Local model error: %v", err)
		s.extractiveLastResort(emit, contextStr)
		return
	}

	answer = strings.TrimSpace(answer)
	if OverlapRatio(answer, combined) > copyOverlapThreshold || len(answer) < minAnswerLength {
		// The model copied its input or produced noise. Fall back to a
		// deterministic extractive summary of the source text.
		emit("**Summary from your documents:**\n\n")
		sentences := strings.Split(combined, ".")
		if len(sentences) > 3 {
			sentences = sentences[:3]
		}
		for i, sentence := range sentences {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}
			emit(fmt.Sprintf("%d. %s.\n\n", i+1, sentence))
		}
		return
	}

	emit(fmt.Sprintf("%s\n\n", answer))
	emit(fmt.Sprintf("*Source: %d document(s) from your Second Brain*", len(docTexts)))
}

// extractiveLastResort is the degradation path when even local inference
// fails: show up to three excerpts lifted straight from the context lines.
func (s *BrainService) extractiveLastResort(emit func(string), contextStr string) {
	emit("**Based on your documents:**\n\n")
	shown := 0
	for _, line := range strings.Split(strings.TrimSpace(contextStr), "\n") {
		if shown >= 3 {
			break
		}
		if strings.TrimSpace(line) == "" || !strings.Contains(line, "]:") {
			continue
		}
		parts := strings.SplitN(line, "]:", 2)
		content := strings.TrimSpace(parts[1])
		if content == "" {
			continue
		}
		shown++
		emit(fmt.Sprintf("%d. %s...\n\n", shown, truncate(content, 250)))
	}
}

// ReconstructDocuments parses the formatted context block back into one text
// per retrieved chunk. A record starts at a line beginning with "-" that
// contains a parenthesized source tag followed by a colon; unmarked lines are
// continuations of the current record. Whitespace is normalized per record.
func ReconstructDocuments(contextStr string) []string {
	var docs []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		combined := strings.TrimSpace(multiSpaceRe.ReplaceAllString(strings.Join(current, " "), " "))
		if combined != "" {
			docs = append(docs, combined)
		}
		current = nil
	}

	for _, line := range strings.Split(contextStr, "\n") {
		stripped := strings.TrimSpace(line)

		if strings.HasPrefix(stripped, "-") && docMarkerRe.MatchString(stripped) {
			flush()
			if m := docContentRe.FindStringSubmatch(stripped); m != nil {
				if content := strings.TrimSpace(m[1]); content != "" {
					current = []string{content}
				}
			}
			continue
		}
		if stripped != "" {
			current = append(current, stripped)
		}
	}
	flush()

	return docs
}

// keepSubstantial drops reconstructed documents too short to be real content.
func keepSubstantial(docs []string) []string {
	kept := make([]string, 0, len(docs))
	for _, doc := range docs {
		if len(doc) > minDocumentLength {
			kept = append(kept, doc)
		}
	}
	return kept
}

// OverlapRatio is the fraction of the answer's distinct words also present in
// the source, case-insensitive, split on whitespace. Used to detect the local
// model parroting its input.
func OverlapRatio(answer, source string) float64 {
	answerWords := wordSet(answer)
	sourceWords := wordSet(source)

	matched := 0
	for word := range answerWords {
		if sourceWords[word] {
			matched++
		}
	}

	denom := len(answerWords)
	if denom < 1 {
		denom = 1
	}
	return float64(matched) / float64(denom)
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		set[word] = true
	}
	return set
}

// truncate cuts s to at most maxLength bytes without splitting a rune.
func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	cut := maxLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
