package domain

import "time"

type NewsletterCreationData struct {
	Slug string
	Name string
}

type Newsletter struct {
	Id        NewsletterId
	Slug      string
	Name      string
	CreatedAt time.Time
}

// IssueIngestData is what the newsletter pipeline posts to us;
// each issue becomes a discussion thread in the target category.
type IssueIngestData struct {
	Newsletter string // newsletter slug
	Category   CategorySlug
	Subject    string
	Body       Body
}
