package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

var (
	ErrInvalidAvatarStyle = errors.New("invalid avatar style")
	ErrAvatarSeedRequired = errors.New("avatar seed is required")
)

var avatarStylePattern = regexp.MustCompile(`^[a-z0-9-]{1,40}$`)

const maxAvatarBytes = 256 << 10

type AvatarRequest struct {
	Style           string
	Seed            string
	BackgroundColor string
	Chars           string
}

// AvatarService renders DiceBear avatars as data URLs and caches them by
// request URL.
type AvatarService struct {
	baseURL string
	client  *http.Client
	cache   *lru.Cache
}

func NewAvatarService(baseURL string, cacheSize int) (*AvatarService, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create avatar cache: %w", err)
	}
	return &AvatarService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}, nil
}

// URL builds the DiceBear SVG URL. chars is only honoured by the initials style.
func (s *AvatarService) URL(req AvatarRequest) (string, error) {
	if !avatarStylePattern.MatchString(req.Style) {
		return "", ErrInvalidAvatarStyle
	}
	if strings.TrimSpace(req.Seed) == "" {
		return "", ErrAvatarSeedRequired
	}

	params := url.Values{}
	params.Set("seed", req.Seed)
	if req.BackgroundColor != "" {
		params.Set("backgroundColor", strings.TrimPrefix(req.BackgroundColor, "#"))
	}
	if req.Chars != "" && req.Style == "initials" {
		params.Set("chars", req.Chars)
	}

	return fmt.Sprintf("%s/%s/svg?%s", s.baseURL, req.Style, params.Encode()), nil
}

func (s *AvatarService) Generate(ctx context.Context, req AvatarRequest) (string, error) {
	target, err := s.URL(req)
	if err != nil {
		return "", err
	}

	if cached, ok := s.cache.Get(target); ok {
		return cached.(string), nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build avatar request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("avatar provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	dataURL := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(body)
	s.cache.Add(target, dataURL)
	return dataURL, nil
}
