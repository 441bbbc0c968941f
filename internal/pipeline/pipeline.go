// Package pipeline runs the club's schedule and roster extraction.
//
// Every team is processed on its own goroutine, bounded by the configured
// concurrency. A failing team is logged and recorded in the summary; the
// others continue.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kiefholz/ligaplan"
	"github.com/kiefholz/ligaplan/config"
	"github.com/kiefholz/ligaplan/halls"
	"github.com/kiefholz/ligaplan/htmldoc"
	"github.com/kiefholz/ligaplan/internal/diag"
	"github.com/kiefholz/ligaplan/model"
	"github.com/kiefholz/ligaplan/roster"
	"github.com/kiefholz/ligaplan/sink"
	"github.com/kiefholz/ligaplan/store"
)

// Fetcher retrieves documents. *fetch.Client implements it.
type Fetcher interface {
	Download(ctx context.Context, url, path string) (int64, error)
	ScheduleURL(ctx context.Context, groupURL string) (string, error)
	Document(ctx context.Context, url string) ([]byte, error)
}

// Opener creates the extractor for a downloaded schedule.
type Opener func(path string) *ligaplan.Extractor

// Pipeline processes the teams and rosters of a configuration.
type Pipeline struct {
	cfg     config.Config
	fetcher Fetcher
	db      *store.DB
	log     *diag.Logger
	open    Opener
	now     func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithStore persists results to db
func WithStore(db *store.DB) Option {
	return func(p *Pipeline) {
		p.db = db
	}
}

// WithLogger sets the logger (default: discard)
func WithLogger(l *diag.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithOpener replaces ligaplan.Open for schedule files
func WithOpener(open Opener) Option {
	return func(p *Pipeline) {
		if open != nil {
			p.open = open
		}
	}
}

// WithClock sets the time used in file names
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a pipeline for cfg.
func New(cfg config.Config, fetcher Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		fetcher: fetcher,
		log:     diag.Discard(),
		open:    ligaplan.Open,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TeamResult is the outcome of one team.
type TeamResult struct {
	Team     string
	Records  []model.MatchRecord
	Warnings []ligaplan.Warning
	Output   string
	Err      error
}

// RosterResult is the outcome of one ranking page.
type RosterResult struct {
	Pool    string
	Players []model.Player
	Output  string
	Err     error
}

// Summary collects the results of a run in configuration order.
type Summary struct {
	Teams   []TeamResult
	Rosters []RosterResult
}

// Failed returns the number of teams and rosters that failed.
func (s Summary) Failed() int {
	n := 0
	for _, t := range s.Teams {
		if t.Err != nil {
			n++
		}
	}
	for _, r := range s.Rosters {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Err joins the errors of all failed teams and rosters.
func (s Summary) Err() error {
	var errs []error
	for _, t := range s.Teams {
		if t.Err != nil {
			errs = append(errs, fmt.Errorf("team %s: %w", t.Team, t.Err))
		}
	}
	for _, r := range s.Rosters {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("roster %s: %w", r.Pool, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Print writes a table of records per team and players per roster.
func (s Summary) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCOUNT\tWARNINGS\tSTATUS")
	for _, t := range s.Teams {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", t.Team, len(t.Records), len(t.Warnings), status(t.Err))
	}
	for _, r := range s.Rosters {
		fmt.Fprintf(tw, "players %s\t%d\t-\t%s\n", r.Pool, len(r.Players), status(r.Err))
	}
	return tw.Flush()
}

func status(err error) string {
	if err != nil {
		return "failed: " + err.Error()
	}
	return "ok"
}

// Run processes every team and roster. The returned error is only set when
// ctx ends the run early; individual failures are reported in the summary.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		Teams:   make([]TeamResult, len(p.cfg.Teams)),
		Rosters: make([]RosterResult, len(p.cfg.Rosters)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.Concurrency, 1))

	for i, team := range p.cfg.Teams {
		i, team := i, team
		g.Go(func() error {
			summary.Teams[i] = p.RunTeam(gctx, team)
			return nil
		})
	}
	for i, r := range p.cfg.Rosters {
		i, r := i, r
		g.Go(func() error {
			summary.Rosters[i] = p.RunRoster(gctx, r)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}

// RunTeam downloads, extracts and stores the schedule of one team.
func (p *Pipeline) RunTeam(ctx context.Context, team config.Team) TeamResult {
	res := TeamResult{Team: team.Name}
	t := p.log.Start("team", "processing team", "team", team.Name)

	path, err := p.scheduleFile(ctx, team)
	if err != nil {
		res.Err = t.Fail("schedule download failed", err)
		return res
	}

	ext := p.open(path).
		HostMarker(p.cfg.HostMarker).
		Seasons(p.cfg.Seasons...).
		StopScheduleAt(halls.Sentinel)
	defer ext.Close()

	records, warnings, err := ext.Schedule()
	if err != nil {
		res.Err = t.Fail("extraction failed", err)
		return res
	}
	res.Records = records
	res.Warnings = warnings

	log := p.log.Comp("team").With("team", team.Name)
	for _, w := range warnings {
		log.Warn(w.Message, "kind", w.Kind.String(), "page", w.Page, "record", w.Record)
	}

	res.Output = filepath.Join(p.cfg.OutputDir, sink.DatedName("", team.Name, ".csv", p.now()))
	if err := sink.WriteFile(res.Output, func(w io.Writer) error {
		return sink.WriteMatches(w, records)
	}); err != nil {
		res.Err = t.Fail("writing schedule failed", err)
		return res
	}

	if p.db != nil {
		if err := p.db.SaveMatches(ctx, team.Name, records); err != nil {
			res.Err = t.Fail("saving schedule failed", err)
			return res
		}
	}

	t.Finish("team done", len(records), "output", res.Output)
	return res
}

// scheduleFile returns the local path of a team's schedule PDF, downloading
// it when the team is configured by URL.
func (p *Pipeline) scheduleFile(ctx context.Context, team config.Team) (string, error) {
	if team.File != "" {
		return team.File, nil
	}

	url := team.ScheduleURL
	if url == "" {
		var err error
		url, err = p.fetcher.ScheduleURL(ctx, team.GroupURL)
		if err != nil {
			return "", fmt.Errorf("failed to find schedule link: %w", err)
		}
	}

	path := filepath.Join(p.cfg.OutputDir, sink.DatedName("raw", team.Name, ".pdf", p.now()))
	n, err := p.fetcher.Download(ctx, url, path)
	if err != nil {
		return "", fmt.Errorf("failed to download schedule: %w", err)
	}
	p.log.Comp("fetch").Debug("downloaded schedule", "team", team.Name, "url", url, "bytes", n)
	return path, nil
}

// RunRoster fetches, parses and stores one ranking page.
func (p *Pipeline) RunRoster(ctx context.Context, r config.Roster) RosterResult {
	res := RosterResult{Pool: r.Pool}
	t := p.log.Start("roster", "processing roster", "pool", r.Pool)

	data, err := p.rosterPage(ctx, r)
	if err != nil {
		res.Err = t.Fail("roster download failed", err)
		return res
	}

	doc, err := htmldoc.OpenReader(bytes.NewReader(data))
	if err != nil {
		res.Err = t.Fail("roster parse failed", err)
		return res
	}
	defer doc.Close()
	res.Players = roster.Parse(doc)

	res.Output = filepath.Join(p.cfg.OutputDir, sink.DatedName("players", r.Pool, ".csv", p.now()))
	if err := sink.WriteFile(res.Output, func(w io.Writer) error {
		return sink.WritePlayers(w, res.Players)
	}); err != nil {
		res.Err = t.Fail("writing roster failed", err)
		return res
	}

	if p.db != nil {
		if err := p.db.SavePlayers(ctx, r.Pool, res.Players); err != nil {
			res.Err = t.Fail("saving roster failed", err)
			return res
		}
	}

	t.Finish("roster done", len(res.Players), "output", res.Output)
	return res
}

// rosterPage returns the UTF-8 HTML of a ranking page. Fetched pages are
// kept as raw_player_<pool>_<date>.html.
func (p *Pipeline) rosterPage(ctx context.Context, r config.Roster) ([]byte, error) {
	if r.File != "" {
		data, err := os.ReadFile(r.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}
		return data, nil
	}

	data, err := p.fetcher.Document(ctx, r.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	raw := filepath.Join(p.cfg.OutputDir, sink.DatedName("raw_player", r.Pool, ".html", p.now()))
	if err := sink.WriteFile(raw, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return nil, err
	}
	return data, nil
}
