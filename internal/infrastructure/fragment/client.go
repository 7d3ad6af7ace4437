package fragment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
	"gift_parser/pkg/httpx"
	"gift_parser/pkg/logx"
)

const (
	DefaultBaseURL      = "https://fragment.com"
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"
	DefaultTimeout      = 10 * time.Second
	DefaultBlockTime    = time.Minute
	DefaultMaxBodyBytes = 5 << 20

	blockKeyPrefix = "fragment-block:"
)

var (
	ErrRateLimited      = errors.New("fragment rate limited")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrBodyTooLarge     = errors.New("response body too large")
)

type Options struct {
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	BlockTime    time.Duration
	MaxBodyBytes int64
	LogBodyMax   int
}

// Client скачивает страницы подарков. Любая ошибка возвращается в FetchResult.Err,
// Fetch никогда не паникует и не возвращает error отдельно.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	blockTime    time.Duration
	maxBodyBytes int64
	blocks       BlockCache
	blockKey     string
}

func NewClient(opts Options, blocks BlockCache) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.BlockTime <= 0 {
		opts.BlockTime = DefaultBlockTime
	}

	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if blocks == nil {
		blocks = NewMemoryBlockCache()
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")

	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	rtOpts := []httpx.Option{
		httpx.WithUserAgent(opts.UserAgent),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
	}
	if opts.LogBodyMax > 0 {
		rtOpts = append(rtOpts, httpx.WithLogFieldMaxLen(opts.LogBodyMax))
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: httpx.NewLoggingRoundTripper(http.DefaultTransport, rtOpts...),
		},
		baseURL:      baseURL,
		userAgent:    opts.UserAgent,
		blockTime:    opts.BlockTime,
		maxBodyBytes: opts.MaxBodyBytes,
		blocks:       blocks,
		blockKey:     blockKeyPrefix + host,
	}
}

// URL адрес страницы подарка вида {base}/gift/{type}-{id}.
func (c *Client) URL(id int64, giftType value.GiftType) string {
	return c.baseURL + "/gift/" + giftType.String() + "-" + strconv.FormatInt(id, 10)
}

func (c *Client) Fetch(ctx context.Context, id int64, giftType value.GiftType) entity.FetchResult {
	res := entity.FetchResult{URL: c.URL(id, giftType)}

	if c.blocks.Blocked(ctx, c.blockKey) {
		res.Err = fmt.Errorf("%w: skipping %s", ErrRateLimited, res.URL)

		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, http.NoBody)
	if err != nil {
		res.Err = fmt.Errorf("http.NewRequestWithContext: %w", err)

		return res
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("httpClient.Do: %w", err)

		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode

	if resp.StatusCode == http.StatusTooManyRequests {
		c.blocks.Block(ctx, c.blockKey, c.blockTime)

		logger(ctx).Warn(
			"fragment rate limit hit",
			slog.String(logx.FieldURL, res.URL),
			slog.Duration(logx.FieldBlockedFor, c.blockTime),
		)

		res.Err = fmt.Errorf("%w: retry after %s", ErrRateLimited, resp.Header.Get("Retry-After"))

		return res
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		res.Err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)

		return res
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		res.Err = fmt.Errorf("io.ReadAll: %w", err)

		return res
	}

	if int64(len(body)) > c.maxBodyBytes {
		res.Err = fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, c.maxBodyBytes)

		return res
	}

	body, err = toUTF8(body, resp.Header.Get("Content-Type"))
	if err != nil {
		res.Err = err

		return res
	}

	res.Body = body

	return res
}

func toUTF8(body []byte, contentType string) ([]byte, error) {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if strings.EqualFold(name, "utf-8") {
		return body, nil
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s body: %w", name, err)
	}

	return decoded, nil
}
