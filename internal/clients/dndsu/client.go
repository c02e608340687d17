// Package dndsu imports creature stat blocks from the dnd.su bestiary.
package dndsu

//go:generate mockgen -destination=mock/mock_client.go -package=dndsumock github.com/d20tracker/d20-api/internal/clients/dndsu Client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/d20tracker/d20-api/internal/errors"
)

const (
	defaultBaseURL   = "https://next.dnd.su"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	bestiaryPath     = "/bestiary/"
)

var (
	armorClassPattern = regexp.MustCompile(`КД[:\s]*(\d+)`)
	hitPointsPattern  = regexp.MustCompile(`Хиты[:\s]*(\d+)`)
	dexterityPattern  = regexp.MustCompile(`ЛОВ[:\s]*(\d+)`)
	challengePattern  = regexp.MustCompile(`Показатель опасности[:\s]*(\d+(?:/\d+)?)`)
)

// Creature is the part of a bestiary stat block an encounter needs
type Creature struct {
	Name               string
	AC                 int
	HP                 int
	Dexterity          int
	InitiativeModifier int
	ChallengeRating    string
	SourceURL          string
}

// Client defines the interface for bestiary lookups
type Client interface {
	// FetchCreature loads and parses a bestiary page.
	// Returns errors.InvalidArgument for URLs outside the bestiary
	// Returns errors.NotFound when the page does not exist
	// Returns errors.Unavailable when the site cannot be reached
	FetchCreature(ctx context.Context, pageURL string) (*Creature, error)
}

// Config contains configuration options for the bestiary client.
type Config struct {
	// BaseURL of the site (optional, defaults to https://next.dnd.su)
	BaseURL string
	// HTTPTimeout for page requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// HTTPClient overrides the client built from HTTPTimeout
	HTTPClient *http.Client
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Host == "" {
		return errors.NewValidationBuilder().Field("BaseURL", "must be an absolute URL").Build()
	}
	return nil
}

type client struct {
	base       *url.URL
	httpClient *http.Client
}

// New creates a new bestiary client with the given configuration.
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, _ := url.Parse(cfg.BaseURL)
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return &client{base: base, httpClient: httpClient}, nil
}

func (c *client) FetchCreature(ctx context.Context, pageURL string) (*Creature, error) {
	target, err := c.resolve(pageURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to reach dnd.su")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.WarnContext(ctx, "Failed to close response body", "error", cerr)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NotFoundf("bestiary page %s not found", target)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Unavailablef("dnd.su returned %d for %s", resp.StatusCode, target)
	}

	creature, err := ParseCreature(resp.Body, target)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Fetched bestiary creature",
		"url", target,
		"name", creature.Name,
		"hp", creature.HP,
		"ac", creature.AC,
	)
	return creature, nil
}

// resolve accepts a full bestiary URL on the configured host or a path
// relative to it.
func (c *client) resolve(pageURL string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || pageURL == "" {
		return "", errors.InvalidArgumentf("invalid bestiary url %q", pageURL)
	}

	u := c.base.ResolveReference(ref)
	if !strings.EqualFold(u.Host, c.base.Host) {
		return "", errors.InvalidArgumentf("url %q is not on %s", pageURL, c.base.Host)
	}
	if !strings.HasPrefix(u.Path, bestiaryPath) || len(u.Path) == len(bestiaryPath) {
		return "", errors.InvalidArgumentf("url %q is not a bestiary page", pageURL)
	}
	u.Fragment = ""
	return u.String(), nil
}

// ParseCreature reads a bestiary page. The stat block is matched against the
// page text, so only name and hit points are mandatory.
func ParseCreature(r io.Reader, sourceURL string) (*Creature, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse bestiary page")
	}

	creature := &Creature{
		Name:      strings.TrimSpace(doc.Find("h1").First().Text()),
		SourceURL: sourceURL,
		Dexterity: 10,
	}
	if creature.Name == "" {
		return nil, errors.InvalidArgument("bestiary page has no creature name")
	}

	// collapse runs of whitespace, nbsp included
	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")

	var ok bool
	if creature.HP, ok = firstInt(hitPointsPattern, text); !ok {
		return nil, errors.InvalidArgumentf("no hit points found for %s", creature.Name)
	}
	creature.AC, _ = firstInt(armorClassPattern, text)
	if dex, found := firstInt(dexterityPattern, text); found {
		creature.Dexterity = dex
	}
	creature.InitiativeModifier = AbilityModifier(creature.Dexterity)
	if m := challengePattern.FindStringSubmatch(text); m != nil {
		creature.ChallengeRating = m[1]
	}

	return creature, nil
}

// AbilityModifier is floor((score-10)/2)
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

func firstInt(pattern *regexp.Regexp, text string) (int, bool) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}
