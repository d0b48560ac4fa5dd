package pagecraft

import (
	"encoding/xml"
	"io"
	"sort"
	"time"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// FeedInfo describes the channel of an RSS feed.
type FeedInfo struct {
	Title       string
	Link        string // site base URL; item links are Link joined with the slug
	Description string
}

// WriteFeed writes an RSS 2.0 feed of the published pages among pages,
// newest publication first.
func WriteFeed(w io.Writer, info FeedInfo, pages []Page) error {
	published := make([]Page, 0, len(pages))
	for _, p := range pages {
		if p.Status == StatusPublished {
			published = append(published, p)
		}
	}
	sort.SliceStable(published, func(i, j int) bool {
		return publishedTime(published[i]).After(publishedTime(published[j]))
	})

	items := make([]rssItem, 0, len(published))
	for _, p := range published {
		pageURL := BuildURL(info.Link, p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        pageURL,
			Description: p.Description,
			GUID:        pageURL,
		}
		if p.PublishedAt != nil {
			item.PubDate = p.PublishedAt.Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       info.Title,
			Link:        info.Link,
			Description: info.Description,
			Items:       items,
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(feed)
}

func publishedTime(p Page) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return time.Time{}
}
