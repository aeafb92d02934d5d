// Package studytext cleans uploaded study material and guesses its topics.
package studytext

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxLength = 8000
	MinLength = 100
	maxTopics = 10
)

var ErrTooShort = errors.New("El texto es demasiado corto para generar contenido significativo.")

var (
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s.,;:!?\-]`)
	spaces     = regexp.MustCompile(`\s+`)
)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"este", "esta", "estos", "estas", "aquel", "aquella", "aquello",
		"según", "cuando", "donde", "como", "entre", "hacia", "hasta",
		"puede", "pueden", "ser", "estar", "tener", "haber", "hacer",
		"general", "importante", "diferente", "varios", "todos", "todas",
		"sobre", "desde", "contra", "durante", "mediante", "excepto",
	} {
		stopWords[w] = struct{}{}
	}
}

// Clean strips unsupported characters, collapses whitespace and caps the
// result at MaxLength characters, marking truncation with "...".
func Clean(text string) string {
	cleaned := disallowed.ReplaceAllString(text, "")
	cleaned = strings.TrimSpace(spaces.ReplaceAllString(cleaned, " "))
	if utf8.RuneCountInString(cleaned) > MaxLength {
		cleaned = string([]rune(cleaned)[:MaxLength]) + "..."
	}
	return cleaned
}

// Topics returns up to ten frequent words longer than four characters,
// most frequent first, ties in order of first appearance.
func Topics(text string) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.TrimFunc(w, func(r rune) bool { return unicode.IsPunct(r) })
		if utf8.RuneCountInString(w) <= 4 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > maxTopics {
		order = order[:maxTopics]
	}

	topics := make([]string, len(order))
	for i, w := range order {
		r, size := utf8.DecodeRuneInString(w)
		topics[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return topics
}

// Processed is an uploaded text ready for generation.
type Processed struct {
	Text            string   `json:"text"`
	FileName        string   `json:"fileName"`
	Topics          []string `json:"topics"`
	OriginalLength  int      `json:"originalLength"`
	ProcessedLength int      `json:"processedLength"`
}

// Process cleans text and extracts its topics. Texts shorter than MinLength
// after cleaning are rejected with ErrTooShort.
func Process(text, fileName string) (Processed, error) {
	cleaned := Clean(text)
	n := utf8.RuneCountInString(cleaned)
	if n < MinLength {
		return Processed{}, ErrTooShort
	}
	return Processed{
		Text:            cleaned,
		FileName:        fileName,
		Topics:          Topics(cleaned),
		OriginalLength:  utf8.RuneCountInString(text),
		ProcessedLength: n,
	}, nil
}
