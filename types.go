package exa

import "fmt"

// SearchType selects the retrieval strategy for a search.
type SearchType string

const (
	SearchTypeAuto    SearchType = "auto"
	SearchTypeNeural  SearchType = "neural"
	SearchTypeKeyword SearchType = "keyword"
)

// SearchOptions carries optional parameters for Search and FindSimilar.
// The API applies its own defaults for zero-value fields.
type SearchOptions struct {
	NumResults         int              `json:"numResults,omitempty"`
	Type               SearchType       `json:"type,omitempty"`
	Category           string           `json:"category,omitempty"`
	IncludeDomains     []string         `json:"includeDomains,omitempty"`
	ExcludeDomains     []string         `json:"excludeDomains,omitempty"`
	StartPublishedDate string           `json:"startPublishedDate,omitempty"`
	EndPublishedDate   string           `json:"endPublishedDate,omitempty"`
	IncludeText        []string         `json:"includeText,omitempty"`
	ExcludeText        []string         `json:"excludeText,omitempty"`
	Contents           *ContentsOptions `json:"contents,omitempty"`
}

// Validate checks universal constraints on SearchOptions.
func (o *SearchOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.NumResults < 0 || o.NumResults > 100 {
		return fmt.Errorf("numResults must be in [0, 100], got %d: %w", o.NumResults, ErrValidation)
	}
	switch o.Type {
	case "", SearchTypeAuto, SearchTypeNeural, SearchTypeKeyword:
	default:
		return fmt.Errorf("unknown search type %q: %w", o.Type, ErrValidation)
	}
	return nil
}

// ContentsOptions selects which page contents to return with results.
type ContentsOptions struct {
	Text       *TextContentsOptions       `json:"text,omitempty"`
	Highlights *HighlightsContentsOptions `json:"highlights,omitempty"`
	Summary    *SummaryContentsOptions    `json:"summary,omitempty"`
	Livecrawl  string                     `json:"livecrawl,omitempty"`
}

// TextContentsOptions configures full-text extraction.
type TextContentsOptions struct {
	MaxCharacters   int  `json:"maxCharacters,omitempty"`
	IncludeHTMLTags bool `json:"includeHtmlTags,omitempty"`
}

// HighlightsContentsOptions configures highlight extraction.
type HighlightsContentsOptions struct {
	NumSentences     int    `json:"numSentences,omitempty"`
	HighlightsPerURL int    `json:"highlightsPerUrl,omitempty"`
	Query            string `json:"query,omitempty"`
}

// SummaryContentsOptions configures summary generation.
type SummaryContentsOptions struct {
	Query string `json:"query,omitempty"`
}

// SearchResult is a single result from Search, FindSimilar or Contents.
type SearchResult struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Score         float64  `json:"score,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Author        string   `json:"author,omitempty"`
	Text          string   `json:"text,omitempty"`
	Highlights    []string `json:"highlights,omitempty"`
	Summary       string   `json:"summary,omitempty"`
}

// SearchResponse is the response envelope for Search and FindSimilar.
type SearchResponse struct {
	RequestID        string         `json:"requestId,omitempty"`
	Results          []SearchResult `json:"results"`
	AutopromptString string         `json:"autopromptString,omitempty"`
}

// ContentsResponse is the response envelope for Contents.
type ContentsResponse struct {
	RequestID string         `json:"requestId,omitempty"`
	Results   []SearchResult `json:"results"`
}
