package summary

import (
	"encoding/json"
	"regexp"
	"strings"

	"yt-summarizer/internal/models"
)

// ParseFailureSentinel fills key_points and main_topics when a reply could
// not be parsed.
const ParseFailureSentinel = "Could not parse structured data from model response"

const fallbackSummaryRunes = 200

var fencedJSON = regexp.MustCompile("(?s)```json[ \t]*\r?\n(.*?)\r?\n[ \t]*```")

// parser tries to read a summary out of a model reply.
type parser struct {
	name  string
	parse func(reply string) (*models.SummaryPayload, bool)
}

// extractionChain is tried in order; the last entry always succeeds.
var extractionChain = []parser{
	{name: "bare_json", parse: parseBareJSON},
	{name: "fenced_json", parse: parseFencedJSON},
	{name: "fallback", parse: degradedPayload},
}

// Extract returns the summary found in reply and the name of the parser
// that produced it. It never fails.
func Extract(reply string) (*models.SummaryPayload, string) {
	for _, p := range extractionChain {
		if payload, ok := p.parse(reply); ok {
			return normalize(payload), p.name
		}
	}
	// unreachable: degradedPayload always succeeds
	return normalize(&models.SummaryPayload{}), "fallback"
}

func parseBareJSON(reply string) (*models.SummaryPayload, bool) {
	return decodeObject(reply)
}

func parseFencedJSON(reply string) (*models.SummaryPayload, bool) {
	m := fencedJSON.FindStringSubmatch(reply)
	if m == nil {
		return nil, false
	}
	return decodeObject(m[1])
}

func degradedPayload(reply string) (*models.SummaryPayload, bool) {
	brief := reply
	if runes := []rune(reply); len(runes) > fallbackSummaryRunes {
		brief = string(runes[:fallbackSummaryRunes])
	}
	return &models.SummaryPayload{
		BriefSummary: brief + "...",
		KeyPoints:    []string{ParseFailureSentinel},
		MainTopics:   []string{ParseFailureSentinel},
	}, true
}

// decodeObject accepts only a JSON object with a non-empty brief_summary.
func decodeObject(s string) (*models.SummaryPayload, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var payload models.SummaryPayload
	if err := json.Unmarshal([]byte(s), &payload); err != nil {
		return nil, false
	}
	if strings.TrimSpace(payload.BriefSummary) == "" {
		return nil, false
	}
	return &payload, true
}

func normalize(p *models.SummaryPayload) *models.SummaryPayload {
	if p.KeyPoints == nil {
		p.KeyPoints = []string{}
	}
	if p.MainTopics == nil {
		p.MainTopics = []string{}
	}
	return p
}

// markdownBody returns the reply text that precedes the fenced JSON block,
// or the whole reply when there is none.
func markdownBody(reply string) string {
	loc := fencedJSON.FindStringIndex(reply)
	if loc == nil {
		return strings.TrimSpace(reply)
	}
	return strings.TrimSpace(reply[:loc[0]])
}
