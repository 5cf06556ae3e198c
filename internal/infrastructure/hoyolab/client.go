// Package hoyolab implements the article source over the HoYoLAB
// community wapi endpoints.
package hoyolab

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"EventScanner/internal/domain"
	"EventScanner/internal/ports"
	"EventScanner/internal/textnorm"
)

const (
	defaultBaseURL  = "https://bbs-api-os.hoyolab.com"
	defaultPageSize = 20

	newsListPath    = "/community/post/wapi/getNewsList"
	postFullPath    = "/community/post/wapi/getPostFull"
	postRepliesPath = "/community/post/wapi/getPostReplies"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Options tune the client; zero values fall back to defaults.
type Options struct {
	BaseURL  string
	GameID   string
	PageSize int
	DelayMin time.Duration
	DelayMax time.Duration
}

// Client fetches article lists, full content, and comments from the
// HoYoLAB API. Every request is preceded by a randomized pause to
// respect the remote rate limits; no request is retried.
type Client struct {
	baseURL  string
	gameID   string
	pageSize int
	delayMin time.Duration
	delayMax time.Duration
	http     *http.Client
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*Client)(nil)

// NewClient wires an HTTP client; pass nil to get a 20s-timeout default.
func NewClient(httpClient *http.Client, opts Options, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.GameID == "" {
		opts.GameID = "6"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	return &Client{
		baseURL:  opts.BaseURL,
		gameID:   opts.GameID,
		pageSize: opts.PageSize,
		delayMin: opts.DelayMin,
		delayMax: opts.DelayMax,
		http:     httpClient,
		logger:   logger,
	}
}

type listResponse struct {
	Data struct {
		List []struct {
			Post struct {
				PostID  string `json:"post_id"`
				Subject string `json:"subject"`
				Desc    string `json:"desc"`
				Content string `json:"content"`
			} `json:"post"`
		} `json:"list"`
		LastID string `json:"last_id"`
		IsLast bool   `json:"is_last"`
	} `json:"data"`
}

// ListArticles fetches one page of the news feed starting at cursor.
func (c *Client) ListArticles(ctx context.Context, cursor string) ([]domain.Article, string, bool, error) {
	query := url.Values{}
	query.Set("gids", c.gameID)
	query.Set("page_size", strconv.Itoa(c.pageSize))
	query.Set("type", "1")
	query.Set("last_id", cursor)

	var decoded listResponse
	if err := c.get(ctx, newsListPath, query, &decoded); err != nil {
		return nil, "", true, fmt.Errorf("list articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(decoded.Data.List))
	for _, item := range decoded.Data.List {
		if item.Post.PostID == "" {
			continue
		}
		articles = append(articles, domain.Article{
			ID:          item.Post.PostID,
			Title:       item.Post.Subject,
			Description: item.Post.Desc,
			RawContent:  item.Post.Content,
		})
	}

	return articles, decoded.Data.LastID, decoded.Data.IsLast, nil
}

type postFullResponse struct {
	Data struct {
		Post struct {
			Post struct {
				StructuredContent string `json:"structured_content"`
				Desc              string `json:"desc"`
				Cover             string `json:"cover"`
				MultiLanguageInfo struct {
					LangContent map[string]string `json:"lang_content"`
				} `json:"multi_language_info"`
			} `json:"post"`
			ImageList []struct {
				URL string `json:"url"`
			} `json:"image_list"`
		} `json:"post"`
	} `json:"data"`
}

// FetchContent resolves the full article body, flattens it to plain
// text, and picks the best available image URL.
func (c *Client) FetchContent(ctx context.Context, articleID string) (ports.ArticleContent, error) {
	query := url.Values{}
	query.Set("post_id", articleID)
	query.Set("read", "1")
	query.Set("scene", "1")

	var decoded postFullResponse
	if err := c.get(ctx, postFullPath, query, &decoded); err != nil {
		return ports.ArticleContent{}, fmt.Errorf("fetch content %s: %w", articleID, err)
	}

	post := decoded.Data.Post.Post
	langContent := post.MultiLanguageInfo.LangContent["en-us"]

	content := ports.ArticleContent{
		Description:    post.Desc,
		NormalizedText: textnorm.Flatten(post.StructuredContent, post.Desc, langContent),
		ImageURL:       pickImage(decoded),
	}
	return content, nil
}

type repliesResponse struct {
	Data struct {
		List []struct {
			Reply struct {
				Content string `json:"content"`
				LikeNum int    `json:"like_num"`
			} `json:"reply"`
		} `json:"list"`
	} `json:"data"`
}

// FetchComments returns up to one page of replies for an article.
func (c *Client) FetchComments(ctx context.Context, articleID string) ([]domain.Comment, error) {
	query := url.Values{}
	query.Set("post_id", articleID)
	query.Set("size", strconv.Itoa(c.pageSize))
	query.Set("last_id", "")

	var decoded repliesResponse
	if err := c.get(ctx, postRepliesPath, query, &decoded); err != nil {
		return nil, fmt.Errorf("fetch comments %s: %w", articleID, err)
	}

	comments := make([]domain.Comment, 0, len(decoded.Data.List))
	for _, item := range decoded.Data.List {
		comments = append(comments, domain.Comment{
			Content: item.Reply.Content,
			Likes:   item.Reply.LikeNum,
		})
	}
	return comments, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	c.pause()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hoyolab returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// pause sleeps a random interval within the configured bounds before
// each request.
func (c *Client) pause() {
	if c.delayMax <= 0 {
		return
	}
	span := c.delayMax - c.delayMin
	delay := c.delayMin
	if span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	if c.logger != nil {
		c.logger.Debug("waiting before next request", "delay", delay.Round(100*time.Millisecond))
	}
	time.Sleep(delay)
}

// pickImage prefers the upload list, then the cover, then the first
// image insert inside structured content.
func pickImage(decoded postFullResponse) string {
	if list := decoded.Data.Post.ImageList; len(list) > 0 && list[0].URL != "" {
		return list[0].URL
	}
	if cover := decoded.Data.Post.Post.Cover; cover != "" {
		return cover
	}
	return structuredImage(decoded.Data.Post.Post.StructuredContent)
}

func structuredImage(raw string) string {
	if raw == "" {
		return ""
	}

	var blocks []struct {
		Insert json.RawMessage `json:"insert"`
	}
	if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
		return ""
	}

	for _, block := range blocks {
		var typed struct {
			Type       string `json:"type"`
			Attributes struct {
				Src string `json:"src"`
			} `json:"attributes"`
		}
		if err := json.Unmarshal(block.Insert, &typed); err != nil {
			continue
		}
		if typed.Type == "image" && typed.Attributes.Src != "" {
			return typed.Attributes.Src
		}
	}
	return ""
}
