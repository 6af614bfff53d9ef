// Package generate implements the six independent generation jobs. Each job
// consumes the canonical transcript and produces one typed artifact; jobs
// fail or succeed independently and never observe each other's results.
package generate

// Recaps is a multi-format episode summary package.
type Recaps struct {
	Full     string   `json:"full"`     // 200-300 word overview for show notes
	Bullets  []string `json:"bullets"`  // 5-7 scannable key points
	Insights []string `json:"insights"` // 3-5 actionable takeaways
	TLDR     string   `json:"tldr"`     // one-sentence hook
}

// SocialPosts holds channel-ready copy per platform.
type SocialPosts struct {
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
	TikTok    string `json:"tiktok"`
	YouTube   string `json:"youtube"`
	Facebook  string `json:"facebook"`
}

// Titles holds episode title candidates plus SEO keywords.
type Titles struct {
	Titles      []string `json:"titles"`
	SEOKeywords []string `json:"seoKeywords"`
}

// Hashtags groups suggested hashtags by reach strategy.
type Hashtags struct {
	Trending []string `json:"trending"`
	Niche    []string `json:"niche"`
	Broad    []string `json:"broad"`
}

// HighlightMoment is one standout segment derived from a detected chapter.
type HighlightMoment struct {
	Time        string  `json:"time"`        // display timestamp, e.g. "00:12:34"
	Timestamp   float64 `json:"timestamp"`   // seconds for programmatic use
	Text        string  `json:"text"`        // chapter headline
	Description string  `json:"description"` // chapter summary
}

// YouTubeTimestamp is one clickable chapter marker for a video description.
type YouTubeTimestamp struct {
	Time  string `json:"time"` // "HH:MM:SS"
	Title string `json:"title"`
}
