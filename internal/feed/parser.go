package feed

import (
	"crypto/sha256"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/xxxxxthhh/SignalFeed/internal/filter"
	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

// Articles whose content clears this length are treated as full-text and can
// be read without leaving the app.
const fulltextThreshold = 1000

type Parser struct {
	parser  *gofeed.Parser
	maxDesc int
}

func NewParser(maxDescriptionLength int) *Parser {
	if maxDescriptionLength <= 0 {
		maxDescriptionLength = 500
	}
	return &Parser{
		parser:  gofeed.NewParser(),
		maxDesc: maxDescriptionLength,
	}
}

// Parse reads a feed document and maps its items onto stored articles. The
// source label on each article is the feed's own title so the browse filters
// can group by it without a join.
func (p *Parser) Parse(reader io.Reader, src *storage.Source) ([]*storage.Article, error) {
	parsed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	sourceLabel := filter.NormalizeText(parsed.Title)
	if sourceLabel == "" {
		sourceLabel = src.Title
	}

	now := time.Now()
	articles := make([]*storage.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		content := itemContent(item)
		article := &storage.Article{
			ID:          generateID(src.ID, item.GUID, item.Link),
			SourceID:    src.ID,
			Title:       filter.NormalizeText(html.UnescapeString(item.Title)),
			Link:        item.Link,
			Description: p.cleanDescription(item.Description),
			Content:     content,
			IsFulltext:  len(StripHTML(content)) >= fulltextThreshold,
			SourceLabel: sourceLabel,
			FetchedAt:   now,
			URLHash:     HashURL(item.Link),
		}

		if item.PublishedParsed != nil {
			article.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			article.Published = *item.UpdatedParsed
		} else {
			article.Published = now
		}

		for _, cat := range item.Categories {
			label := filter.NormalizeText(cat)
			key := filter.NormalizeKey(cat)
			if key == "" {
				continue
			}
			article.Tags = append(article.Tags, storage.Tag{Label: label, Key: key})
		}

		articles = append(articles, article)
	}

	return articles, nil
}

func itemContent(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup and collapses the remaining whitespace.
func StripHTML(s string) string {
	return filter.NormalizeText(html.UnescapeString(tagPattern.ReplaceAllString(s, " ")))
}

// cleanDescription strips markup and truncates to maxDesc runes, never
// bytes: descriptions are frequently CJK and a byte cut would split a rune.
func (p *Parser) cleanDescription(desc string) string {
	clean := StripHTML(desc)
	if runes := []rune(clean); len(runes) > p.maxDesc {
		cut := string(runes[:p.maxDesc])
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		clean = cut + "..."
	}
	return clean
}

// HashURL is the dedup key for an article link.
func HashURL(url string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(url)))
}

func generateID(sourceID, guid, link string) string {
	if guid != "" {
		return fmt.Sprintf("%s:%s", sourceID, guid)
	}
	return fmt.Sprintf("%s:%s", sourceID, HashURL(link))
}
