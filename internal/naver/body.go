package naver

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// maxBodyRunes bounds stored post bodies; digests only need a preview.
const maxBodyRunes = 500

// FetchBody fetches a post page and extracts its readable text. Used
// lazily for the top posts of qualifying candidates only.
func (c *Client) FetchBody(permalink string) (string, error) {
	if permalink == "" {
		return "", fmt.Errorf("empty permalink")
	}

	resp, err := c.http.R().SetHeader("Referer", baseURL).Get(permalink)
	if err != nil {
		return "", fmt.Errorf("fetching post %s: %w", permalink, err)
	}
	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("fetching post %s: HTTP %d", permalink, resp.StatusCode())
	}

	parsedURL, _ := url.Parse(permalink)
	article, err := readability.FromReader(bytes.NewReader(decodeKorean(resp.Body())), parsedURL)
	if err != nil {
		return "", fmt.Errorf("extracting post body: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	runes := []rune(text)
	if len(runes) > maxBodyRunes {
		text = string(runes[:maxBodyRunes])
	}
	return text, nil
}
