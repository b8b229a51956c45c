// Package robotevents is a small client for the RobotEvents v2 REST API.
package robotevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/skillboard/internal/domain/model"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://www.robotevents.com/api/v2"

	defaultTimeout  = 15 * time.Second
	defaultPageSize = 250
	maxErrorBody    = 512
)

// Client handles RobotEvents API requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
	timeout    time.Duration
	pageSize   int
}

// New creates a RobotEvents API client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: "skillboard/1.0",
		timeout:   defaultTimeout,
		pageSize:  defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

type page struct {
	Meta struct {
		CurrentPage int `json:"current_page"`
		LastPage    int `json:"last_page"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

type skillItem struct {
	Event struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"event"`
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
	Type  string `json:"type"`
	Score int    `json:"score"`
}

type teamItem struct {
	ID       int    `json:"id"`
	Number   string `json:"number"`
	TeamName string `json:"team_name"`
}

// TeamSkills fetches every skills run a team recorded in a season and program.
// It follows meta.last_page until all pages are read.
func (c *Client) TeamSkills(ctx context.Context, teamID, season, program int) ([]model.SkillsRun, error) {
	var runs []model.SkillsRun
	for p := 1; ; p++ {
		q := url.Values{}
		q.Set("program[]", strconv.Itoa(program))
		q.Set("season[]", strconv.Itoa(season))
		q.Set("per_page", strconv.Itoa(c.pageSize))
		q.Set("page", strconv.Itoa(p))

		var pg page
		if err := c.fetch(ctx, fmt.Sprintf("%s/teams/%d/skills?%s", c.baseURL, teamID, q.Encode()), &pg); err != nil {
			return nil, fmt.Errorf("team %d skills: %w", teamID, err)
		}

		var items []skillItem
		if len(pg.Data) > 0 {
			if err := json.Unmarshal(pg.Data, &items); err != nil {
				return nil, fmt.Errorf("team %d skills: %w: %w", teamID, ErrDecode, err)
			}
		}
		for _, it := range items {
			runs = append(runs, model.SkillsRun{
				EventID:   it.Event.ID,
				EventName: it.Event.Name,
				Type:      model.RunType(it.Type),
				Score:     it.Score,
				TeamName:  it.Team.Name,
			})
		}

		if p >= pg.Meta.LastPage {
			return runs, nil
		}
	}
}

// Team looks up a team's directory row by id.
func (c *Client) Team(ctx context.Context, teamID int) (model.TeamInfo, error) {
	q := url.Values{}
	q.Set("id[]", strconv.Itoa(teamID))

	var pg page
	if err := c.fetch(ctx, c.baseURL+"/teams?"+q.Encode(), &pg); err != nil {
		return model.TeamInfo{}, fmt.Errorf("team %d: %w", teamID, err)
	}

	var items []teamItem
	if len(pg.Data) > 0 {
		if err := json.Unmarshal(pg.Data, &items); err != nil {
			return model.TeamInfo{}, fmt.Errorf("team %d: %w: %w", teamID, ErrDecode, err)
		}
	}
	if len(items) == 0 {
		return model.TeamInfo{}, fmt.Errorf("team %d: %w", teamID, ErrNotFound)
	}
	return model.TeamInfo{
		TeamID:     items[0].ID,
		TeamNumber: items[0].Number,
		TeamName:   items[0].TeamName,
	}, nil
}

// fetch makes an HTTP GET request and decodes the JSON body into out.
func (c *Client) fetch(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: status=%d, body=%s", ErrStatus, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
