// Package classify derives non-authoritative routing defaults from the raw
// text of a complaint at submission time. Everything here is a pure function
// of the input text: no I/O, no randomness, identical input always yields an
// identical result. The output is advisory only; a human may override every
// field at or after creation, and the workflow never re-validates it.
package classify

import (
	"strings"
	"unicode"

	"github.com/civic-stack/grievance-service/internal/domain"
)

// Sentiment is the coarse tone detected in the complaint text.
type Sentiment string

const (
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentPositive Sentiment = "positive"
)

// Result bundles the suggested defaults plus the diagnostic scores they were
// derived from. Urgency and Complexity are 1..10.
type Result struct {
	SuggestedDepartment string
	Category            string
	Priority            domain.ComplaintPriority
	Sentiment           Sentiment
	Urgency             int
	Complexity          int
}

// Classify analyzes the combined title and description in a single pass.
func Classify(title, description string) Result {
	text := strings.TrimSpace(title + " " + description)
	words := tokenize(text)
	sentences := countSentences(text)

	sentiment := scoreSentiment(words)
	urgency := scoreUrgency(words)
	complexity := scoreComplexity(words, sentences)
	department, category := matchDepartment(words)

	return Result{
		SuggestedDepartment: department,
		Category:            category,
		Priority:            bucketPriority(urgency, complexity, sentiment),
		Sentiment:           sentiment,
		Urgency:             urgency,
		Complexity:          complexity,
	}
}

// tokenize lowercases the text and splits it into words, stripping
// punctuation along the way.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func countSentences(text string) int {
	count := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

// scoreSentiment counts fixed positive vs negative word occurrences;
// majority wins, a tie is neutral.
func scoreSentiment(words []string) Sentiment {
	positive, negative := 0, 0
	for _, word := range words {
		if positiveWords[word] {
			positive++
		}
		if negativeWords[word] {
			negative++
		}
	}
	switch {
	case negative > positive:
		return SentimentNegative
	case positive > negative:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// scoreUrgency takes the maximum weight of any urgency indicator present,
// defaulting to 1 when none matches.
func scoreUrgency(words []string) int {
	urgency := 1
	for _, word := range words {
		if weight, ok := urgencyWeights[word]; ok && weight > urgency {
			urgency = weight
		}
	}
	return urgency
}

// scoreComplexity combines word count, average sentence length, and
// technical-vocabulary matches into threshold bands on a 1..10 scale.
func scoreComplexity(words []string, sentences int) int {
	score := 1

	switch wordCount := len(words); {
	case wordCount > 120:
		score += 3
	case wordCount > 60:
		score += 2
	case wordCount > 25:
		score++
	}

	switch avg := float64(len(words)) / float64(sentences); {
	case avg > 20:
		score += 2
	case avg > 12:
		score++
	}

	technical := 0
	for _, word := range words {
		if technicalTerms[word] {
			technical++
		}
	}
	switch {
	case technical >= 4:
		score += 3
	case technical >= 2:
		score += 2
	case technical >= 1:
		score++
	}

	if score > 10 {
		score = 10
	}
	return score
}

// matchDepartment returns the first bucket containing any of the words, in
// the fixed bucket order. First match wins; this is not a scored classifier,
// so bucket precedence is part of the contract.
func matchDepartment(words []string) (string, string) {
	present := make(map[string]bool, len(words))
	for _, word := range words {
		present[word] = true
	}
	for _, bucket := range departmentBuckets {
		for _, keyword := range bucket.keywords {
			if present[keyword] {
				return bucket.department, bucket.category
			}
		}
	}
	return fallbackDepartment, fallbackCategory
}

// bucketPriority combines the scores: urgency + complexity, nudged ±2 by
// sentiment (negative raises, positive lowers), then banded.
func bucketPriority(urgency, complexity int, sentiment Sentiment) domain.ComplaintPriority {
	score := urgency + complexity
	switch sentiment {
	case SentimentNegative:
		score += 2
	case SentimentPositive:
		score -= 2
	}
	switch {
	case score >= 15:
		return domain.PriorityCritical
	case score >= 12:
		return domain.PriorityHigh
	case score >= 8:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
